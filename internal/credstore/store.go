// Package credstore persists the logged-in session between CLI invocations.
package credstore

import (
	"context"
	"time"

	"github.com/me/yogastudio/pkg/model"
)

// Credential is a saved login for one backend.
type Credential struct {
	Server    string
	Info      model.SessionInformation
	ExpiresAt time.Time // zero when the token carries no expiry
	SavedAt   time.Time
}

// Store defines the persistence layer for saved credentials.
type Store interface {
	Save(ctx context.Context, server string, info *model.SessionInformation) error
	Load(ctx context.Context, server string) (*Credential, error)
	Delete(ctx context.Context, server string) error
	List(ctx context.Context) ([]*Credential, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
