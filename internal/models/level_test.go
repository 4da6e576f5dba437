package models

import "testing"

func TestLevelColorValid(t *testing.T) {
	for _, color := range []LevelColor{ColorAmarelo, ColorAzul, ColorVerde, ColorDourado} {
		if !color.Valid() {
			t.Errorf("Expected %s to be valid", color)
		}
	}
	if LevelColor("ROSA").Valid() {
		t.Error("Expected unknown color to be invalid")
	}
	if LevelColor("amarelo").Valid() {
		t.Error("Expected lowercase color to be invalid")
	}
}

func TestDiamondReward(t *testing.T) {
	tests := []struct {
		color LevelColor
		want  int
	}{
		{ColorAmarelo, 1},
		{ColorAzul, 2},
		{ColorVerde, 3},
		{ColorDourado, 5},
		{LevelColor("ROSA"), 1},
	}

	for _, tt := range tests {
		if got := tt.color.DiamondReward(); got != tt.want {
			t.Errorf("DiamondReward(%s) = %d, want %d", tt.color, got, tt.want)
		}
	}
}
