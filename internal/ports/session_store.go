package ports

import (
	"context"

	"github.com/bnema/aicms-cli/internal/domain"
)

// SessionStore is the durable slot holding the current credential. Get
// returns a zero Session when nothing is stored.
type SessionStore interface {
	Get(ctx context.Context) (domain.Session, error)
	Set(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}
