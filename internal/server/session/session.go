// Package session provides the explicit session context owning the ephemeral
// demo-mode stores. A Session is created per interactive session, injected
// into the gateway, and discarded with the session; there is no ambient
// global state and no persistence across sessions.
package session

import (
	"github.com/dkrasnova/fintrack/internal/server/repositories/mappings"
	"github.com/dkrasnova/fintrack/internal/server/repositories/records"
	"github.com/dkrasnova/fintrack/internal/shared"
)

// Session owns the in-memory stores backing demo-mode operations. It is
// bound to one single-threaded interactive session; concurrent access from
// multiple sessions to one demo identity is undefined and out of scope.
type Session struct {
	id       string
	mappings *mappings.MemoryRepository
	records  *records.MemoryRepository
}

// New creates a fresh session with empty stores and a random identifier.
func New() (*Session, error) {
	id, err := shared.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:       id,
		mappings: mappings.NewMemoryRepository(),
		records:  records.NewMemoryRepository(),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Mappings returns the session-scoped column-mapping store.
func (s *Session) Mappings() mappings.Repository {
	return s.mappings
}

// Records returns the session-scoped financial-record store.
func (s *Session) Records() records.Repository {
	return s.records
}
