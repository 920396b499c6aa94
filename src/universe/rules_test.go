package universe

import (
	"errors"
	"testing"
)

func TestNextState(t *testing.T) {
	r := DefaultRules
	tests := []struct {
		cur       CellState
		neighbors int
		expected  CellState
	}{
		{Alive, 0, Dead},
		{Alive, 1, Dead},
		{Alive, 2, Alive},
		{Alive, 3, Alive},
		{Alive, 4, Dead},
		{Alive, 8, Dead},
		{Dead, 2, Dead},
		{Dead, 3, Alive},
		{Dead, 4, Dead},
	}
	for _, tt := range tests {
		for i := 0; i < 3; i++ {
			if got := NextState(tt.cur, tt.neighbors, r); got != tt.expected {
				t.Fatalf("NextState(%v, %d) = %v, expected %v", tt.cur, tt.neighbors, got, tt.expected)
			}
		}
	}
}

func TestNextStateCustomRules(t *testing.T) {
	highLife := Rules{Birth: 6, SurviveMin: 1, SurviveMax: 5}
	if NextState(Dead, 6, highLife) != Alive {
		t.Fatal("dead cell with 6 neighbors must be born")
	}
	if NextState(Dead, 3, highLife) != Dead {
		t.Fatal("dead cell with 3 neighbors must stay dead")
	}
	if NextState(Alive, 1, highLife) != Alive || NextState(Alive, 5, highLife) != Alive {
		t.Fatal("survive range bounds are inclusive")
	}
}

func TestRulesValidate(t *testing.T) {
	if err := DefaultRules.Validate(); err != nil {
		t.Fatalf("default rules are invalid: %v", err)
	}
	for _, r := range []Rules{
		{Birth: 0, SurviveMin: 2, SurviveMax: 3},
		{Birth: 9, SurviveMin: 2, SurviveMax: 3},
		{Birth: 3, SurviveMin: -1, SurviveMax: 3},
		{Birth: 3, SurviveMin: 2, SurviveMax: 9},
		{Birth: 3, SurviveMin: 4, SurviveMax: 3},
	} {
		if err := r.Validate(); !errors.Is(err, ErrInvalidRules) {
			t.Fatalf("%v: expected ErrInvalidRules, got %v", r, err)
		}
	}
}
