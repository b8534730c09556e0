package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quizdesk/quizdesk/internal/domain"
)

func TestInsertSubmissionDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	sub := Submission{ID: "s1", AssignmentID: "a1", CandidateID: "u1", Score: 80, SubmittedAt: time.Now()}
	if err := m.InsertSubmission(ctx, sub); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	sub.ID = "s2"
	err := m.InsertSubmission(ctx, sub)
	if !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("second insert: got %v; want ErrDuplicateSubmission", err)
	}
	// A different candidate on the same assignment is fine.
	if err := m.InsertSubmission(ctx, Submission{ID: "s3", AssignmentID: "a1", CandidateID: "u2"}); err != nil {
		t.Fatalf("other candidate: %v", err)
	}
}

func TestInsertSubmissionConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.InsertSubmission(ctx, Submission{
				ID: "s", AssignmentID: "a1", CandidateID: "u1", SubmittedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domain.ErrDuplicateSubmission):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one insert to win, got %d", winners)
	}
}

func TestResetSubmissions(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, c := range []string{"u1", "u2"} {
		if err := m.InsertSubmission(ctx, Submission{ID: c, AssignmentID: "a1", CandidateID: c}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := m.InsertSubmission(ctx, Submission{ID: "x", AssignmentID: "a2", CandidateID: "u1"}); err != nil {
		t.Fatalf("seed other assignment: %v", err)
	}

	if err := m.ResetSubmissions(ctx, "a1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	subs, _ := m.ListSubmissions(ctx, "a1")
	if len(subs) != 0 {
		t.Fatalf("expected a1 cleared, got %d", len(subs))
	}
	// Retake: the same candidate can submit again.
	if err := m.InsertSubmission(ctx, Submission{ID: "s4", AssignmentID: "a1", CandidateID: "u1"}); err != nil {
		t.Fatalf("resubmit after reset: %v", err)
	}
	// Other assignments untouched.
	if subs, _ := m.ListSubmissions(ctx, "a2"); len(subs) != 1 {
		t.Fatalf("expected a2 untouched, got %d", len(subs))
	}
}

func TestRosterMutation(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.PutClass(ctx, Class{ID: "c1", Name: "Section A"}); err != nil {
		t.Fatalf("put class: %v", err)
	}
	if err := m.EnrollStudent(ctx, "c1", Student{ID: "u1", RegNo: "22BCE10100"}); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	// Re-enrolling updates in place, no duplicate row.
	if err := m.EnrollStudent(ctx, "c1", Student{ID: "u1", RegNo: "22BCE10101"}); err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	c, err := m.GetClass(ctx, "c1")
	if err != nil {
		t.Fatalf("get class: %v", err)
	}
	if len(c.Students) != 1 || c.Students[0].RegNo != "22BCE10101" {
		t.Fatalf("unexpected roster: %+v", c.Students)
	}
	if err := m.RemoveStudent(ctx, "c1", "u1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	c, _ = m.GetClass(ctx, "c1")
	if c.Enrolled("u1") {
		t.Fatalf("u1 should be removed")
	}
}
