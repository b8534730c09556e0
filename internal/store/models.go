package store

import (
	"time"

	"github.com/quizdesk/quizdesk/internal/integrity"
)

// Settings are per-class policy toggles.
type Settings struct {
	AllowLateSubmissions bool `json:"allow_late_submissions"`
	ShowResults          bool `json:"show_results"`
}

type Student struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	RegNo string `json:"reg_no"`
}

type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Settings  Settings  `json:"settings"`
	Students  []Student `json:"students"`
	CreatedAt int64     `json:"created_at,omitempty"`
}

// Enrolled reports whether the student is currently on the roster.
func (c Class) Enrolled(studentID string) bool {
	for _, s := range c.Students {
		if s.ID == studentID {
			return true
		}
	}
	return false
}

const (
	WeightagePercentage = "percentage"
	WeightageMarks      = "marks"
)

type Assignment struct {
	ID            string    `json:"id"`
	QuizID        string    `json:"quiz_id"`
	ClassID       string    `json:"class_id"`
	DueAt         time.Time `json:"due_at"`
	TimeLimitSec  int       `json:"time_limit_sec,omitempty"`
	Weightage     float64   `json:"weightage"`
	WeightageType string    `json:"weightage_type"` // percentage | marks
	Subgroup      string    `json:"subgroup"`       // "" = unrestricted
	CreatedAt     int64     `json:"created_at,omitempty"`
}

// AssignmentUpdate carries the mutable fields of the edit/reopen flow.
// Nil means "leave unchanged".
type AssignmentUpdate struct {
	DueAt         *time.Time `json:"due_at,omitempty"`
	TimeLimitSec  *int       `json:"time_limit_sec,omitempty"`
	Weightage     *float64   `json:"weightage,omitempty"`
	WeightageType *string    `json:"weightage_type,omitempty"`
	Subgroup      *string    `json:"subgroup,omitempty"`
}

// SubmissionAnswer is one graded response line.
type SubmissionAnswer struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
}

// Submission is immutable once inserted. Score is the raw quiz performance
// percentage at grading time; readers may recompute a display score from
// Answers (see grading.DisplayScore).
type Submission struct {
	ID           string                    `json:"id"`
	AssignmentID string                    `json:"assignment_id"`
	CandidateID  string                    `json:"candidate_id"`
	Score        float64                   `json:"score"`
	SubmittedAt  time.Time                 `json:"submitted_at"`
	IsLate       bool                      `json:"is_late"`
	Answers      []SubmissionAnswer        `json:"answers"`
	TabSwitches  int                       `json:"tab_switches,omitempty"`
	EscPresses   int                       `json:"esc_presses,omitempty"`
	Proctoring   *integrity.ProctoringData `json:"proctoring,omitempty"`
}
