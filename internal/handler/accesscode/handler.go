package accesscode

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/handler"
	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
	"github.com/agendafacil/agenda-api/internal/service/accesscode"
	apperrors "github.com/agendafacil/agenda-api/pkg/errors"
)

type Handler struct {
	svc *accesscode.Service
}

func NewHandler(svc *accesscode.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	codes := r.Group("/access-codes")
	{
		codes.POST("", h.Create)
		codes.GET("", h.List)
		codes.GET("/:id", h.Get)
		codes.PUT("/:id", h.Update)
		codes.DELETE("/:id", h.Deactivate)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	code, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			c.JSON(http.StatusConflict, handler.NewErrorResponse("an active code with this value already exists"))
			return
		}
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(code))
}

func (h *Handler) List(c *gin.Context) {
	codes, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(codes))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid access code ID"))
		return
	}

	code, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("access code not found"))
			return
		}
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(code))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid access code ID"))
		return
	}

	var req model.UpdateAccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	code, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("access code not found"))
			return
		}
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(code))
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid access code ID"))
		return
	}

	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("access code not found"))
			return
		}
		c.Error(apperrors.Internal(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("access code deactivated"))
}
