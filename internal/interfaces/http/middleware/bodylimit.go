package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vendora/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose body exceeds maxBytes. A declared
// Content-Length over the limit is refused up front; chunked bodies are
// capped while streaming. maxBytes <= 0 disables the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(
					dto.ErrCodePayloadTooLarge,
					"Request body exceeds the maximum allowed size",
					c.GetString("request_id"),
				))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
