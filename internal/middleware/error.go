package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("request error")
		}

		lastErr := c.Errors.Last()
		status := http.StatusInternalServerError

		if err, ok := lastErr.Err.(interface{ StatusCode() int }); ok {
			status = err.StatusCode()
		}

		c.JSON(status, ErrorResponse{
			Code:      status,
			Message:   lastErr.Error(),
			RequestID: requestID,
		})
	}
}
