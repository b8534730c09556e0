package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizdesk/quizdesk/internal/results"
	"github.com/quizdesk/quizdesk/internal/store"
)

type createAssignmentReq struct {
	QuizID        string    `json:"quiz_id"`
	ClassID       string    `json:"class_id"`
	DueAt         time.Time `json:"due_at"`
	TimeLimitSec  int       `json:"time_limit_sec"`
	Weightage     float64   `json:"weightage"`
	WeightageType string    `json:"weightage_type"`
	Subgroup      string    `json:"subgroup"`
}

// POST /assignments
func CreateAssignmentHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAssignmentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuizID == "" || req.ClassID == "" {
			http.Error(w, "quiz_id and class_id required", http.StatusBadRequest)
			return
		}
		spec := results.WeightageSpec{Kind: req.WeightageType, Value: req.Weightage}
		if err := spec.Validate(); err != nil {
			writeError(w, err)
			return
		}
		// Referential checks; both return ErrNotFound for dangling ids.
		if _, err := st.GetQuiz(r.Context(), req.QuizID); err != nil {
			writeError(w, err)
			return
		}
		if _, err := st.GetClass(r.Context(), req.ClassID); err != nil {
			writeError(w, err)
			return
		}
		a := store.Assignment{
			ID:            uuid.NewString(),
			QuizID:        req.QuizID,
			ClassID:       req.ClassID,
			DueAt:         req.DueAt,
			TimeLimitSec:  req.TimeLimitSec,
			Weightage:     req.Weightage,
			WeightageType: req.WeightageType,
			Subgroup:      req.Subgroup,
		}
		if err := st.PutAssignment(r.Context(), a); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(a)
	}
}

// PATCH /assignments/{assignmentID}
// Edit flow: due date, weight, subgroup. Extending the due date reopens a
// closed assignment.
func UpdateAssignmentHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assignmentID")
		var upd store.AssignmentUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if upd.Weightage != nil || upd.WeightageType != nil {
			current, err := st.GetAssignment(r.Context(), id)
			if err != nil {
				writeError(w, err)
				return
			}
			spec := results.WeightageSpec{Kind: current.WeightageType, Value: current.Weightage}
			if upd.WeightageType != nil {
				spec.Kind = *upd.WeightageType
			}
			if upd.Weightage != nil {
				spec.Value = *upd.Weightage
			}
			if err := spec.Validate(); err != nil {
				writeError(w, err)
				return
			}
		}
		a, err := st.UpdateAssignment(r.Context(), id, upd)
		if err != nil {
			writeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	}
}

// GET /assignments/{assignmentID}
func GetAssignmentHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := st.GetAssignment(r.Context(), chi.URLParam(r, "assignmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	}
}

// GET /classes/{classID}/assignments
func ListAssignmentsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		as, err := st.ListAssignments(r.Context(), chi.URLParam(r, "classID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if as == nil {
			as = []store.Assignment{}
		}
		_ = json.NewEncoder(w).Encode(as)
	}
}

// POST /assignments/{assignmentID}/reset
// "Allow retake": destructively clears every submission on the assignment.
func ResetSubmissionsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assignmentID")
		if _, err := st.GetAssignment(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		if err := st.ResetSubmissions(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
