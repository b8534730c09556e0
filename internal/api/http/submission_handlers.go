package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/quizdesk/quizdesk/internal/auth/middleware"
	"github.com/quizdesk/quizdesk/internal/grading"
	"github.com/quizdesk/quizdesk/internal/rbac"
	"github.com/quizdesk/quizdesk/internal/store"
)

// POST /assignments/{assignmentID}/submissions
// Students submit for themselves: the candidate id comes from the token,
// not the request body.
func SubmitHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req grading.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.AssignmentID = chi.URLParam(r, "assignmentID")
		if sub := authmw.SubjectFromContext(r.Context()); sub != "" {
			req.CandidateID = sub
		}
		s, err := svc.Submit(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(submissionView(s))
	}
}

// GET /assignments/{assignmentID}/submissions/{candidateID}
func GetSubmissionHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignmentID := chi.URLParam(r, "assignmentID")
		candidateID := chi.URLParam(r, "candidateID")

		// Students may only read their own submission.
		role := rbac.RoleFromContext(r.Context())
		if role == "student" && authmw.SubjectFromContext(r.Context()) != candidateID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		s, err := st.GetSubmission(r.Context(), assignmentID, candidateID)
		if err != nil {
			writeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(submissionView(s))
	}
}

// GET /assignments/{assignmentID}/submissions
func ListSubmissionsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := st.ListSubmissions(r.Context(), chi.URLParam(r, "assignmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]submissionResp, 0, len(subs))
		for _, s := range subs {
			out = append(out, submissionView(s))
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

type submissionResp struct {
	store.Submission
	// DisplayScore is recomputed from the answers array when present and
	// overrides the stored score for rendering.
	DisplayScore float64 `json:"display_score"`
}

func submissionView(s store.Submission) submissionResp {
	return submissionResp{Submission: s, DisplayScore: round2(grading.DisplayScore(s))}
}
