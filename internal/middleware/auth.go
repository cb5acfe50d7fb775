package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agendafacil/agenda-api/internal/handler"
	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/service/auth"
)

// ContextIdentity is the gin context key holding the authenticated
// identity.
const ContextIdentity = "identity"

// SessionCookie is the cookie carrying the session token for browser
// clients; API clients use the Authorization header.
const SessionCookie = "agenda_session"

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate validates the session token and sets the identity in
// context. A missing, expired or revoked token is rejected the same way.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing credentials"))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid or expired session"))
			c.Abort()
			return
		}

		c.Set(ContextIdentity, claims.Identity())
		c.Next()
	}
}

// RequireRole rejects identities whose role is not in the allowed set.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
		c.Abort()
	}
}

// IdentityFromContext returns the identity set by Authenticate.
func IdentityFromContext(c *gin.Context) (model.Identity, bool) {
	value, exists := c.Get(ContextIdentity)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := value.(model.Identity)
	return identity, ok
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

	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie
}
