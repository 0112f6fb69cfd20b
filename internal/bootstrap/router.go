package bootstrap

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	httpapi "github.com/folio-labs/portfolio-backend/internal/api/http"
	"github.com/folio-labs/portfolio-backend/internal/api/http/middleware"
	"github.com/folio-labs/portfolio-backend/internal/api/http/routes"
	"github.com/folio-labs/portfolio-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	WriteRateLimit float64
	WriteRateBurst int
	Projects       *service.ProjectService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORS(dep.AllowedOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Projects)
	healthHandler.RegisterRoutes(r)

	api := r.Group("")
	api.Use(middleware.WriteRateLimit(rate.Limit(dep.WriteRateLimit), dep.WriteRateBurst))
	routes.RegisterAPI(api, routes.APIDeps{Projects: dep.Projects})

	return r
}
