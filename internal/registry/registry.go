// Package registry keeps the set of playable game variants.
// Variants register themselves from init() so the platform and CLI can list
// and build them by ID without importing game packages directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-blocks/internal/core"
)

// Game is what the platform drives. Implementations hold pure game logic and
// know nothing about Bubble Tea; the platform maps keys and mouse presses to
// an InputFrame, ticks Step at a fixed rate and draws whatever Render leaves
// in the screen buffer.
type Game interface {
	// ID is the stable identifier used on the command line and in the
	// scores table (e.g. "blocks", "blocks_mini").
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a fresh session sized to the given screen.
	Reset(cfg core.RuntimeConfig)

	// Step consumes one tick worth of input.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State reports score, lines and game-over status.
	State() core.GameState
}

// Describer is implemented by games that carry a one-line description for
// menus and `list` output.
type Describer interface {
	Description() string
}

// Resizer is implemented by games that can follow a terminal resize without
// losing their state. Games without it are reset on resize.
type Resizer interface {
	Resize(w, h int)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
)

// Register adds a game factory under id.
// Panics on a duplicate id; registration happens at init time, so a clash is
// a programming error.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}

	factories[id] = f
	infos[id] = info
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns metadata for a single game.
func Lookup(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := infos[id]
	return info, ok
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// unregister removes a game. Only tests use it.
func unregister(id string) {
	mu.Lock()
	defer mu.Unlock()
	delete(factories, id)
	delete(infos, id)
}
