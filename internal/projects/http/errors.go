package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
	"github.com/folio-labs/portfolio-backend/internal/projects/service"
)

func parseID(c *gin.Context) (int64, error) {
	return service.ParseID(c.Param("id"))
}

// respondError maps a service error onto a status code. Store errors were
// already logged by the service; callers only see failure.
func respondError(c *gin.Context, err error, failure string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, errorResp{Error: "Invalid project data", Fields: ve.Fields})
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, errorResp{Error: "Invalid project ID"})
	case errors.Is(err, domain.ErrTechnologiesNotList):
		c.JSON(http.StatusBadRequest, errorResp{Error: "Technologies must be an array"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResp{Error: "Invalid request body"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResp{Error: "Project not found"})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResp{Error: failure})
	}
}
