package http

import (
	"errors"
	"math"
	"net/http"

	"github.com/quizdesk/quizdesk/internal/domain"
)

// writeError maps domain errors to status codes. Anything unrecognized is
// an internal fault.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicateSubmission):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrSubmissionClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrNotEligible), errors.Is(err, domain.ErrAuthorization):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// round2 is applied at the presentation boundary only; all intermediate
// aggregation keeps full float precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
