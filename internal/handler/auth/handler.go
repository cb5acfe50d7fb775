package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agendafacil/agenda-api/internal/handler"
	"github.com/agendafacil/agenda-api/internal/middleware"
	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/service/auth"
	apperrors "github.com/agendafacil/agenda-api/pkg/errors"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
	}
}

// RegisterProtectedRoutes registers routes that need an authenticated
// identity.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/me", h.Me)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, identity, err := h.svc.Login(c.Request.Context(), req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
		return
	}

	// Browser clients get the token as a cookie as well.
	c.SetCookie(middleware.SessionCookie, tokens.AccessToken, int(tokens.ExpiresIn), "/", "", false, true)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"token":    tokens,
		"identity": identity,
	}))
}

func (h *Handler) Logout(c *gin.Context) {
	token := extractToken(c)
	if token != "" {
		if err := h.svc.Logout(c.Request.Context(), token); err != nil {
			c.Error(apperrors.Internal(err))
			c.Abort()
			return
		}
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}

func (h *Handler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(identity))
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	cookie, err := c.Cookie(middleware.SessionCookie)
	if err != nil {
		return ""
	}
	return cookie
}
