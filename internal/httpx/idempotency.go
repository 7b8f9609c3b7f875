package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

const IdempotencyHeader = "Idempotency-Key"

// KeyStore is implemented by idempotency.Store.
type KeyStore interface {
	Key(scope, key string) string
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

// Idempotency rejects a replayed Idempotency-Key with 409. Requests without
// the header pass through. A failed request releases its key so the client
// can retry. When the store is unreachable the request is let through.
func Idempotency(store KeyStore, scope string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(IdempotencyHeader)
		if raw == "" {
			c.Next()
			return
		}
		key := store.Key(scope, raw)
		seen, err := store.Seen(c.Request.Context(), key)
		if err != nil {
			log.Warn("idempotency store unavailable", "rid", RID(c), "err", err)
			c.Next()
			return
		}
		if seen {
			AbortWithError(c, apperr.DuplicateRequest(raw))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Forget(context.WithoutCancel(c.Request.Context()), key); err != nil {
				log.Warn("idempotency key release failed", "rid", RID(c), "key", key, "err", err)
			}
		}
	}
}
