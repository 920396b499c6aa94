package universe

import (
	"errors"
	"fmt"
)

//ErrInvalidRules is returned by Rules.Validate
var ErrInvalidRules = errors.New("invalid rules")

//Rules is the birth/survival rule set
type Rules struct {
	Birth      int //neighbor count for a dead cell to become alive
	SurviveMin int //inclusive range for a live cell to stay alive
	SurviveMax int
}

//DefaultRules is the classic B3/S23
var DefaultRules = Rules{Birth: 3, SurviveMin: 2, SurviveMax: 3}

//Validate checks the counts fit the 8-cell neighborhood
func (r Rules) Validate() error {
	switch {
	case r.Birth < 1 || r.Birth > 8:
		//a zero birth count would light up cells with no alive neighbors at all
		return fmt.Errorf("%w: birth count %d is outside [1, 8]", ErrInvalidRules, r.Birth)
	case r.SurviveMin < 0 || r.SurviveMax > 8:
		return fmt.Errorf("%w: survive range [%d, %d] is outside [0, 8]", ErrInvalidRules, r.SurviveMin, r.SurviveMax)
	case r.SurviveMin > r.SurviveMax:
		return fmt.Errorf("%w: survive min %d is greater than max %d", ErrInvalidRules, r.SurviveMin, r.SurviveMax)
	}
	return nil
}

func (r Rules) String() string {
	return fmt.Sprintf("B%d/S%d-%d", r.Birth, r.SurviveMin, r.SurviveMax)
}

//NextState applies the rules to a single cell
func NextState(current CellState, neighbors int, r Rules) CellState {
	if current == Alive {
		if neighbors >= r.SurviveMin && neighbors <= r.SurviveMax {
			return Alive
		}
		return Dead
	}
	if neighbors == r.Birth {
		return Alive
	}
	return Dead
}
