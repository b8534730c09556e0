package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	authmw "github.com/quizdesk/quizdesk/internal/auth/middleware"
	"github.com/quizdesk/quizdesk/internal/grading"
	"github.com/quizdesk/quizdesk/internal/quiz"
	"github.com/quizdesk/quizdesk/internal/rbac"
	"github.com/quizdesk/quizdesk/internal/results"
	"github.com/quizdesk/quizdesk/internal/store"
)

var due = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()

	q := quiz.Quiz{ID: "quiz-1", Title: "Unit 1", Questions: []quiz.Question{
		{ID: "q1", Type: quiz.TypeMCQ, Options: []string{"a", "b"}, Answer: "b"},
		{ID: "q2", Type: quiz.TypeTrueFalse, Options: []string{"True", "False"}, Answer: "True"},
		{ID: "q3", Type: quiz.TypeShortAnswer, Answer: "photosynthesis"},
		{ID: "q4", Type: quiz.TypeMCQ, Options: []string{"x", "y"}, Answer: "x"},
	}}
	if err := st.PutQuiz(ctx, q); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	if err := st.PutClass(ctx, store.Class{
		ID: "class-1",
		Students: []store.Student{
			{ID: "u1", RegNo: "22BCE10100"},
			{ID: "u2", RegNo: "2024MIM007"},
		},
	}); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	for _, a := range []store.Assignment{
		{ID: "A", QuizID: "quiz-1", ClassID: "class-1", DueAt: due, Weightage: 20, WeightageType: store.WeightagePercentage},
		{ID: "B", QuizID: "quiz-1", ClassID: "class-1", DueAt: due, Weightage: 30, WeightageType: store.WeightagePercentage, Subgroup: "MIM"},
	} {
		if err := st.PutAssignment(ctx, a); err != nil {
			t.Fatalf("seed assignment: %v", err)
		}
	}
	return st
}

// asUser simulates what JWTMiddleware attaches for an authenticated caller.
func asUser(sub, role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := authmw.WithSubject(r.Context(), sub)
		ctx = rbac.WithRole(ctx, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func testRouter(st *store.MemoryStore, sub, role string) http.Handler {
	svc := grading.NewService(st, grading.NewGrader(), func() time.Time { return due.Add(-time.Hour) }, zerolog.Nop())
	ag := results.NewAggregator(st, zerolog.Nop())

	r := chi.NewRouter()
	r.Post("/assignments/{assignmentID}/submissions", SubmitHandler(svc))
	r.Get("/assignments/{assignmentID}/submissions/{candidateID}", GetSubmissionHandler(st))
	r.Get("/classes/{classID}/results", ClassResultsHandler(ag))
	r.Get("/assignments/{assignmentID}/integrity", IntegrityHandler(st))
	return asUser(sub, role, r)
}

func TestSubmitHandler(t *testing.T) {
	st := seed(t)
	h := testRouter(st, "u1", "student")

	body := `{"answers":{"q1":"b","q2":"True","q3":"photosynthesis"}}`
	req := httptest.NewRequest("POST", "/assignments/A/submissions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Score        float64 `json:"score"`
		DisplayScore float64 `json:"display_score"`
		CandidateID  string  `json:"candidate_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Score != 75 || resp.DisplayScore != 75 {
		t.Fatalf("score = %v/%v; want 75", resp.Score, resp.DisplayScore)
	}
	if resp.CandidateID != "u1" {
		t.Fatalf("candidate must come from the token subject, got %q", resp.CandidateID)
	}
}

func TestSubmitHandlerDuplicate(t *testing.T) {
	st := seed(t)
	h := testRouter(st, "u1", "student")

	body := `{"answers":{"q1":"b"}}`
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest("POST", "/assignments/A/submissions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("call %d: status = %d; want %d (body %s)", i, rec.Code, want, rec.Body.String())
		}
	}
}

func TestSubmitHandlerNotEligible(t *testing.T) {
	st := seed(t)
	h := testRouter(st, "u1", "student") // BCE student, assignment B is MIM-only

	req := httptest.NewRequest("POST", "/assignments/B/submissions", strings.NewReader(`{"answers":{}}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d; want 403", rec.Code)
	}
}

func TestGetSubmissionOwnershipGuard(t *testing.T) {
	st := seed(t)
	if err := st.InsertSubmission(context.Background(), store.Submission{
		ID: "s1", AssignmentID: "A", CandidateID: "u2", Score: 50, SubmittedAt: due,
	}); err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	// u1 (student) cannot read u2's submission.
	h := testRouter(st, "u1", "student")
	req := httptest.NewRequest("GET", "/assignments/A/submissions/u2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d; want 403", rec.Code)
	}

	// A teacher can.
	h = testRouter(st, "t1", "teacher")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/assignments/A/submissions/u2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("teacher read: status = %d", rec.Code)
	}
}

func TestClassResultsHandlerRounding(t *testing.T) {
	st := seed(t)
	ctx := context.Background()
	// u2 (MIM) is eligible for both A and B; u1 (BCE) only for A.
	for _, s := range []store.Submission{
		{ID: "s1", AssignmentID: "A", CandidateID: "u1", Score: 80, SubmittedAt: due},
		{ID: "s2", AssignmentID: "A", CandidateID: "u2", Score: 80, SubmittedAt: due},
		{ID: "s3", AssignmentID: "B", CandidateID: "u2", Score: 50, SubmittedAt: due},
	} {
		if err := st.InsertSubmission(ctx, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	h := testRouter(st, "t1", "teacher")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/classes/class-1/results", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res results.ClassResults
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Ranking) != 2 {
		t.Fatalf("ranking size = %d", len(res.Ranking))
	}
	// u1: 16/20 = 80.00 outranks u2: 31/50 = 62.00 despite the lower total.
	if res.Ranking[0].StudentID != "u1" || res.Ranking[0].OverallPercent != 80.00 {
		t.Fatalf("rank 1 = %s %v; want u1 80.00", res.Ranking[0].StudentID, res.Ranking[0].OverallPercent)
	}
	if res.Ranking[1].StudentID != "u2" || res.Ranking[1].OverallPercent != 62.00 {
		t.Fatalf("rank 2 = %s %v; want u2 62.00", res.Ranking[1].StudentID, res.Ranking[1].OverallPercent)
	}
}

func TestIntegrityHandler(t *testing.T) {
	st := seed(t)
	if err := st.InsertSubmission(context.Background(), store.Submission{
		ID: "s1", AssignmentID: "A", CandidateID: "u1", SubmittedAt: due, TabSwitches: 6,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := testRouter(st, "t1", "teacher")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/assignments/A/integrity", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rows []struct {
		CandidateID string `json:"candidate_id"`
		Result      struct {
			Level string `json:"level"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].Result.Level != "high_risk" {
		t.Fatalf("unexpected triage: %+v", rows)
	}
}
