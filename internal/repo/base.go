package repo

import (
	"context"

	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"gorm.io/gorm"
)

// Handle yields a context-bound GORM connection, opening it if needed.
type Handle interface {
	Conn(ctx context.Context) (*gorm.DB, error)
}

// Base provides a shared foundation for domain repositories.
type Base struct {
	handle Handle
}

// NewBase constructs a Base repository backed by the provided handle.
func NewBase(handle Handle) Base {
	return Base{handle: handle}
}

// DB returns the connection bound to ctx. Connection failures surface as internal errors.
func (b Base) DB(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := b.handle.Conn(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database unavailable")
	}
	return conn, nil
}
