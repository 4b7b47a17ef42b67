// Package config provides YAML-based configuration for the blocks game:
// board size, scoring rules, animation timing and extra board variants.
package config

import (
	"errors"
	"fmt"
)

// BlocksConfig contains all configuration for the blocks game.
type BlocksConfig struct {
	Grid      GridConfig      `yaml:"grid"`
	Rules     RulesConfig     `yaml:"rules"`
	Animation AnimationConfig `yaml:"animation"`
	Variants  []VariantConfig `yaml:"variants"`
}

// GridConfig is the size of the main board.
type GridConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// RulesConfig defines scoring and placement rules.
type RulesConfig struct {
	OfferSize      int  `yaml:"offer_size"`       // Pieces offered per refill
	PointsPerLine  int  `yaml:"points_per_line"`  // Score per cleared row or column
	RejectAboveTop bool `yaml:"reject_above_top"` // Reject origins with a negative row
}

// AnimationConfig controls the fade-out of cleared cells and status messages.
type AnimationConfig struct {
	FadeStep     float64 `yaml:"fade_step"`     // Alpha lost per tick
	MessageTicks int     `yaml:"message_ticks"` // How long a status line stays up
}

// VariantConfig describes an additional board registered next to the main one.
type VariantConfig struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Cols  int    `yaml:"cols"`
	Rows  int    `yaml:"rows"`
}

// Limits for the board. The largest board, its previews underneath and the
// key help line still fit an 80x24 terminal at two columns per cell.
const (
	MinGridSize = 3
	MaxGridCols = 24
	MaxGridRows = 12
)

// MainVariant is the ID of the board sized by the top-level grid section.
const MainVariant = "blocks"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks ranges and returns the first problem found.
func (c BlocksConfig) Validate() error {
	if err := validateGrid("grid", c.Grid.Cols, c.Grid.Rows); err != nil {
		return err
	}
	if c.Rules.OfferSize < 1 || c.Rules.OfferSize > 3 {
		return fmt.Errorf("%w: rules.offer_size must be 1..3, got %d", ErrInvalidConfig, c.Rules.OfferSize)
	}
	if c.Rules.PointsPerLine < 0 {
		return fmt.Errorf("%w: rules.points_per_line must not be negative", ErrInvalidConfig)
	}
	if c.Animation.FadeStep <= 0 || c.Animation.FadeStep > 1 {
		return fmt.Errorf("%w: animation.fade_step must be in (0, 1], got %g", ErrInvalidConfig, c.Animation.FadeStep)
	}
	if c.Animation.MessageTicks < 0 {
		return fmt.Errorf("%w: animation.message_ticks must not be negative", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Variants))
	for i, v := range c.Variants {
		if v.ID == "" {
			return fmt.Errorf("%w: variants[%d].id is empty", ErrInvalidConfig, i)
		}
		if seen[v.ID] {
			return fmt.Errorf("%w: duplicate variant %q", ErrInvalidConfig, v.ID)
		}
		seen[v.ID] = true
		if err := validateGrid(fmt.Sprintf("variants[%d]", i), v.Cols, v.Rows); err != nil {
			return err
		}
	}
	return nil
}

func validateGrid(field string, cols, rows int) error {
	if cols < MinGridSize || cols > MaxGridCols {
		return fmt.Errorf("%w: %s.cols must be %d..%d, got %d", ErrInvalidConfig, field, MinGridSize, MaxGridCols, cols)
	}
	if rows < MinGridSize || rows > MaxGridRows {
		return fmt.Errorf("%w: %s.rows must be %d..%d, got %d", ErrInvalidConfig, field, MinGridSize, MaxGridRows, rows)
	}
	return nil
}

// GridFor returns the board size configured for a variant ID and whether the
// config lists it. The main "blocks" ID always resolves to Grid.
func (c BlocksConfig) GridFor(id string) (GridConfig, bool) {
	if id == MainVariant {
		return c.Grid, true
	}
	for _, v := range c.Variants {
		if v.ID == id {
			return GridConfig{Cols: v.Cols, Rows: v.Rows}, true
		}
	}
	return GridConfig{}, false
}
