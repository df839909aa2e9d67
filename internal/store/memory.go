// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live games for the HTTP API; a game lives here from /game/new until
// it sits idle longer than the configured session idle time.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex; Update runs its callback under the write
//     lock so submissions to the same game are serialised.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/statesquiz/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("store: game not found")

// Store defines the persistence interface for live games.
type Store interface {
	// Save persists or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Update runs fn on the stored game while holding exclusive access.
	Update(ctx context.Context, id string, fn func(*game.Game) error) error

	// Delete removes a game; deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep evicts games whose UpdatedAt is older than now-idle and
	// returns how many were removed.
	Sweep(ctx context.Context, idle time.Duration, now time.Time) int

	// Len is the number of live games.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Game) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	return fn(g)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()
	return nil
}

func (m *memory) Sweep(ctx context.Context, idle time.Duration, now time.Time) int {
	cutoff := now.Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if ctx.Err() != nil {
			break
		}
		if g.UpdatedAt.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
