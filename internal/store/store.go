package store

import (
	"context"

	"github.com/quizdesk/quizdesk/internal/quiz"
)

// Store is the persistence boundary of the grading core. Two
// implementations exist: MemoryStore for tests/offline and SQLStore
// backed by sqlite or postgres.
type Store interface {
	PutQuiz(ctx context.Context, q quiz.Quiz) error
	// GetQuiz returns the full quiz including answer keys; callers serving
	// students must strip them via quiz.StudentView.
	GetQuiz(ctx context.Context, id string) (quiz.Quiz, error)

	PutClass(ctx context.Context, c Class) error
	GetClass(ctx context.Context, id string) (Class, error)
	EnrollStudent(ctx context.Context, classID string, s Student) error
	RemoveStudent(ctx context.Context, classID, studentID string) error

	PutAssignment(ctx context.Context, a Assignment) error
	GetAssignment(ctx context.Context, id string) (Assignment, error)
	ListAssignments(ctx context.Context, classID string) ([]Assignment, error)
	UpdateAssignment(ctx context.Context, id string, upd AssignmentUpdate) (Assignment, error)
	// ResetSubmissions implements "allow retake": destructively clears all
	// submissions for the assignment.
	ResetSubmissions(ctx context.Context, assignmentID string) error

	// InsertSubmission is atomic on the (assignment, candidate) pair and
	// fails with domain.ErrDuplicateSubmission when one already exists.
	InsertSubmission(ctx context.Context, sub Submission) error
	GetSubmission(ctx context.Context, assignmentID, candidateID string) (Submission, error)
	ListSubmissions(ctx context.Context, assignmentID string) ([]Submission, error)
}
