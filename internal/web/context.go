package web

import (
	"context"
	"time"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/storage/postgres"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/web/middleware"
)

// importLogTimeout bounds the import log write after an import finishes.
const importLogTimeout = 10 * time.Second

// actorFrom returns the import log actor for the authenticated caller.
func actorFrom(ctx context.Context) postgres.Actor {
	u, ok := middleware.UserFromContext(ctx)
	if !ok {
		return postgres.Actor{}
	}
	return postgres.Actor{UserID: u.ID, Username: u.Username}
}

// detach returns a context that survives the client hanging up, bounded by
// timeout. Request-scoped values such as the request id are kept.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
