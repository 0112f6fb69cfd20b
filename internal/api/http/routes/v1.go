package routes

import (
	"github.com/gin-gonic/gin"

	projecthttp "github.com/folio-labs/portfolio-backend/internal/projects/http"
	"github.com/folio-labs/portfolio-backend/internal/projects/service"
)

type APIDeps struct {
	Projects *service.ProjectService
}

// RegisterAPI mounts the public API under /api.
func RegisterAPI(r gin.IRouter, dep APIDeps) {
	api := r.Group("/api")

	projectsGroup := api.Group("/projects")
	projecthttp.New(dep.Projects).Register(projectsGroup)
}
