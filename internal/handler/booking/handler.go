package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/handler"
	"github.com/agendafacil/agenda-api/internal/middleware"
	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
	"github.com/agendafacil/agenda-api/internal/service/booking"
	apperrors "github.com/agendafacil/agenda-api/pkg/errors"
)

type Handler struct {
	svc *booking.Service
}

func NewHandler(svc *booking.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the read side, open to any authenticated role.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
	}
}

// RegisterRequesterRoutes registers the write side, requester-gated by
// the router.
func (h *Handler) RegisterRequesterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.POST("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), &req, identity)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrAvailabilityNotFound):
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("availability not found"))
		case errors.Is(err, booking.ErrSlotsExhausted):
			c.JSON(http.StatusConflict, handler.NewErrorResponse("no remaining slots for this availability"))
		case errors.Is(err, booking.ErrInvalidTimeSlot):
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		default:
			c.Error(apperrors.Internal(err))
			c.Abort()
		}
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	found, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("booking not found"))
			return
		}
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

// List filters by created_by code or by availability; exactly one filter
// is required.
func (h *Handler) List(c *gin.Context) {
	if code := c.Query("code"); code != "" {
		bookings, err := h.svc.ListByUser(c.Request.Context(), code)
		if err != nil {
			c.Error(apperrors.Internal(err))
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
		return
	}

	if idStr := c.Query("availability_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid availability ID"))
			return
		}
		bookings, err := h.svc.ListByAvailability(c.Request.Context(), id)
		if err != nil {
			c.Error(apperrors.Internal(err))
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
		return
	}

	c.JSON(http.StatusBadRequest, handler.NewErrorResponse("code or availability_id query parameter is required"))
}

func (h *Handler) Cancel(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), id, identity); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("booking not found"))
		case errors.Is(err, booking.ErrNotOwner):
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("only the creating requester may cancel this booking"))
		default:
			c.Error(apperrors.Internal(err))
			c.Abort()
		}
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("booking cancelled"))
}
