package config

import (
	_ "embed"
)

//go:embed defaults/blocks.yaml
var defaultBlocksYAML []byte

// DefaultBlocksConfig returns the built-in configuration.
// It mirrors defaults/blocks.yaml and is used if the embedded file fails to parse.
func DefaultBlocksConfig() BlocksConfig {
	return BlocksConfig{
		Grid: GridConfig{
			Cols: 15,
			Rows: 11,
		},
		Rules: RulesConfig{
			OfferSize:      3,
			PointsPerLine:  10,
			RejectAboveTop: true,
		},
		Animation: AnimationConfig{
			FadeStep:     0.05,
			MessageTicks: 90,
		},
		Variants: []VariantConfig{
			{ID: "blocks_mini", Title: "Blocks (8x8)", Cols: 8, Rows: 8},
		},
	}
}
