package grading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk/internal/domain"
	"github.com/quizdesk/quizdesk/internal/integrity"
	"github.com/quizdesk/quizdesk/internal/roster"
	"github.com/quizdesk/quizdesk/internal/store"
)

// Service runs the full submit flow: eligibility, window check, grading,
// and the atomic insert. Either the complete graded submission is stored
// or nothing is.
type Service struct {
	store  store.Store
	grader *Grader
	now    func() time.Time
	log    zerolog.Logger
}

func NewService(st store.Store, grader *Grader, now func() time.Time, log zerolog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: st, grader: grader, now: now, log: log}
}

// SubmitRequest is the candidate's answer set plus optional anti-cheat
// counters captured by the client.
type SubmitRequest struct {
	AssignmentID string             `json:"assignment_id"`
	CandidateID  string             `json:"candidate_id"`
	Answers      map[string]string  `json:"answers"`
	Counters     integrity.Counters `json:"counters"`
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (store.Submission, error) {
	if req.AssignmentID == "" || req.CandidateID == "" {
		return store.Submission{}, fmt.Errorf("%w: assignment_id and candidate_id required", domain.ErrValidation)
	}

	a, err := s.store.GetAssignment(ctx, req.AssignmentID)
	if err != nil {
		return store.Submission{}, err
	}
	class, err := s.store.GetClass(ctx, a.ClassID)
	if err != nil {
		return store.Submission{}, err
	}

	var candidate store.Student
	found := false
	for _, st := range class.Students {
		if st.ID == req.CandidateID {
			candidate, found = st, true
			break
		}
	}
	if !found {
		return store.Submission{}, fmt.Errorf("candidate %s not enrolled in class %s: %w",
			req.CandidateID, class.ID, domain.ErrAuthorization)
	}

	branch, hasBranch := roster.ExtractBranch(candidate.RegNo)
	if !roster.Eligible(branch, hasBranch, a.Subgroup) {
		return store.Submission{}, fmt.Errorf("subgroup %q: %w", a.Subgroup, domain.ErrNotEligible)
	}

	now := s.now()
	late := now.After(a.DueAt)
	if late && !class.Settings.AllowLateSubmissions {
		return store.Submission{}, fmt.Errorf("assignment %s due %s: %w",
			a.ID, a.DueAt.Format(time.RFC3339), domain.ErrSubmissionClosed)
	}

	q, err := s.store.GetQuiz(ctx, a.QuizID)
	if err != nil {
		return store.Submission{}, err
	}
	outcome, err := s.grader.Grade(q.Questions, req.Answers)
	if err != nil {
		return store.Submission{}, err
	}

	sub := store.Submission{
		ID:           uuid.NewString(),
		AssignmentID: a.ID,
		CandidateID:  req.CandidateID,
		Score:        outcome.Score,
		SubmittedAt:  now,
		IsLate:       late,
		Answers:      outcome.Answers,
		TabSwitches:  req.Counters.TabSwitchCount,
		EscPresses:   req.Counters.EscCount,
	}
	if req.Counters.Proctoring != (integrity.ProctoringData{}) {
		pd := req.Counters.Proctoring
		sub.Proctoring = &pd
	}

	// The unique (assignment, candidate) constraint is the duplicate guard;
	// the loser of a concurrent race gets ErrDuplicateSubmission here.
	if err := s.store.InsertSubmission(ctx, sub); err != nil {
		return store.Submission{}, err
	}

	s.log.Info().
		Str("assignment_id", a.ID).
		Str("candidate_id", req.CandidateID).
		Float64("score", outcome.Score).
		Bool("late", late).
		Msg("submission graded")
	return sub, nil
}
