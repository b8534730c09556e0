package results

import (
	"fmt"

	"github.com/quizdesk/quizdesk/internal/domain"
	"github.com/quizdesk/quizdesk/internal/store"
)

// WeightageSpec unifies the percentage-vs-marks branching into one place.
type WeightageSpec struct {
	Kind  string  // store.WeightagePercentage | store.WeightageMarks
	Value float64
}

// Achieved converts a raw quiz percentage (0..100) into achieved marks
// under this weight. An unknown kind is an internal fault: silently
// defaulting would corrupt aggregation totals.
func (w WeightageSpec) Achieved(rawPercentage float64) (float64, error) {
	switch w.Kind {
	case store.WeightagePercentage:
		return rawPercentage * w.Value / 100, nil
	case store.WeightageMarks:
		return rawPercentage / 100 * w.Value, nil
	default:
		return 0, fmt.Errorf("unknown weightage type %q", w.Kind)
	}
}

// Validate enforces the creation-time invariants.
func (w WeightageSpec) Validate() error {
	if w.Value < 0 {
		return fmt.Errorf("%w: weightage must be >= 0", domain.ErrValidation)
	}
	switch w.Kind {
	case store.WeightagePercentage:
		if w.Value > 100 {
			return fmt.Errorf("%w: percentage weightage must be <= 100", domain.ErrValidation)
		}
	case store.WeightageMarks:
	default:
		return fmt.Errorf("%w: weightage_type must be percentage or marks", domain.ErrValidation)
	}
	return nil
}
