package availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/handler"
	"github.com/agendafacil/agenda-api/internal/middleware"
	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
	"github.com/agendafacil/agenda-api/internal/service/availability"
	apperrors "github.com/agendafacil/agenda-api/pkg/errors"
)

type Handler struct {
	svc *availability.Service
}

func NewHandler(svc *availability.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the read side, open to any authenticated role.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	availabilities := r.Group("/availabilities")
	{
		availabilities.GET("", h.ListByMonth)
		availabilities.GET("/:id", h.Get)
	}
}

// RegisterProviderRoutes registers the write side, provider-gated by the
// router.
func (h *Handler) RegisterProviderRoutes(r *gin.RouterGroup) {
	availabilities := r.Group("/availabilities")
	{
		availabilities.POST("", h.Create)
		availabilities.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	var req model.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), &req, identity)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidTimeRange) || errors.Is(err, availability.ErrInvalidCapacity) {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid availability ID"))
		return
	}

	found, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("availability not found"))
			return
		}
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid month"))
		return
	}

	availabilities, err := h.svc.ListByMonth(c.Request.Context(), year, month)
	if err != nil {
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(availabilities))
}

func (h *Handler) Delete(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid availability ID"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, identity); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("availability not found"))
		case errors.Is(err, availability.ErrNotOwner):
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("only the creating provider may delete this availability"))
		case errors.Is(err, availability.ErrHasBookings):
			c.JSON(http.StatusConflict, handler.NewErrorResponse("availability has confirmed bookings"))
		default:
			c.Error(apperrors.Internal(err))
			c.Abort()
		}
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("availability deleted"))
}
