package models

import "time"

// LevelColor is the difficulty/reward tier of a level.
// Tiers ascend AMARELO < AZUL < VERDE < DOURADO
type LevelColor string

const (
	ColorAmarelo LevelColor = "AMARELO"
	ColorAzul    LevelColor = "AZUL"
	ColorVerde   LevelColor = "VERDE"
	ColorDourado LevelColor = "DOURADO"
)

// Valid reports whether the color is one of the four known tiers
func (c LevelColor) Valid() bool {
	switch c {
	case ColorAmarelo, ColorAzul, ColorVerde, ColorDourado:
		return true
	}
	return false
}

// DiamondReward returns the diamonds granted when a level of this tier is
// completed. Unrecognized tiers fall back to 1
func (c LevelColor) DiamondReward() int {
	switch c {
	case ColorAmarelo:
		return 1
	case ColorAzul:
		return 2
	case ColorVerde:
		return 3
	case ColorDourado:
		return 5
	}
	return 1
}

// Level represents an ordered stage within a trail
type Level struct {
	ID        int64
	TrailID   int64
	Name      string
	Color     LevelColor
	XP        int
	Position  int // 1-based order within the trail
	CreatedAt time.Time
}
