// internal/store/memory.go
//
// In-memory implementation of the game Store.
// Games live only as long as the process; nothing is written to disk.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - The map is guarded by an RWMutex; each game has its own mutex so
//     guesses against one game are applied strictly one at a time.
//   - Errors are returned for missing game IDs.
//   - Prune evicts games whose tickets can no longer be valid.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds a game.
	Save(ctx context.Context, g *game.Game) error

	// View returns a read-only snapshot of a game.
	View(ctx context.Context, id string) (game.View, error)

	// Update runs fn with exclusive access to the game.
	Update(ctx context.Context, id string, fn func(g *game.Game) error) error

	// Prune drops games started before the cutoff and reports how many.
	Prune(ctx context.Context, before time.Time) int
}

type entry struct {
	mu sync.Mutex
	g  *game.Game
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex      // guards games map
	games map[string]*entry // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*entry)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = &entry{g: g}
	return nil
}

func (m *memory) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.games[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) View(ctx context.Context, id string) (game.View, error) {
	e, err := m.lookup(id)
	if err != nil {
		return game.View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.View(), nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(g *game.Game) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.g)
}

func (m *memory) Prune(ctx context.Context, before time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.games {
		// Started is fixed at creation, so no entry lock is needed.
		if e.g.Started.Before(before) {
			delete(m.games, id)
			n++
		}
	}
	return n
}
