// Package store persists lobby records in an opaque keyed store. Put is a
// full overwrite of the record; expiry-based garbage collection is the
// store's job, never the caller's.
package store

import (
	"context"
	"errors"

	"github.com/draftforge/champ-select-backend/internal/draft"
)

var ErrNotFound = errors.New("lobby not found")

type Store interface {
	Get(ctx context.Context, lobbyID string) (*draft.Lobby, error)
	Put(ctx context.Context, l *draft.Lobby) error
	List(ctx context.Context) ([]*draft.Lobby, error)
}
