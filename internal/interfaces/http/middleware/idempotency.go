package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the header clients send to dedupe retried mutations
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects a mutation whose Idempotency-Key already completed
// within the TTL. The key is optional; requests without one are passed
// through. Only a successful mutation consumes the key, so a client can
// retry a failed request with the same key.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scoped := c.Request.Method + ":" + c.FullPath() + ":" + key
		processed, err := store.IsProcessed(c.Request.Context(), scoped)
		if err != nil {
			// Fail open when the store is unavailable.
			c.Next()
			return
		}
		if processed {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeDuplicateRequest,
					"A request with this idempotency key was already processed", requestID))
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			// Best effort; an unmarked key only allows a redundant retry.
			_, _ = store.MarkProcessed(c.Request.Context(), scoped, ttl)
		}
	}
}
