package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"support-monitor/internal/logger"
)

const (
	requestIDKey    = "requestID"
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags every request with an id, reusing a well-formed inbound
// X-Request-ID and generating a fresh UUID otherwise.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		id, err := uuid.Parse(raw)
		if err != nil {
			id = uuid.New()
		}

		c.Set(requestIDKey, id.String())
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id.String()))
		c.Header(RequestIDHeader, id.String())
		c.Next()
	}
}

func MustRequestID(c *gin.Context) (string, bool) {
	value, exists := c.Get(requestIDKey)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	if !ok {
		return "", false
	}
	return id, true
}
