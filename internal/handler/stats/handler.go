package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendafacil/agenda-api/internal/handler"
	"github.com/agendafacil/agenda-api/internal/service/stats"
	apperrors "github.com/agendafacil/agenda-api/pkg/errors"
)

type Handler struct {
	svc *stats.Service
}

func NewHandler(svc *stats.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/admin/stats", h.Get)
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(s))
}
