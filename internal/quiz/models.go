package quiz

import (
	"fmt"

	"github.com/quizdesk/quizdesk/internal/domain"
)

const (
	TypeMCQ         = "mcq"
	TypeTrueFalse   = "true_false"
	TypeShortAnswer = "short_answer"
)

type Question struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"` // mcq, true_false, short_answer
	Prompt  string   `json:"prompt,omitempty"`
	Options []string `json:"options,omitempty"` // empty for short_answer
	Answer  string   `json:"answer,omitempty"`
}

type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"created_at,omitempty"`
}

// Validate checks structural invariants. For choice questions the stored
// answer must be one of the options.
func (q Quiz) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: quiz id required", domain.ErrValidation)
	}
	for _, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: question id required", domain.ErrValidation)
	}
	switch q.Type {
	case TypeMCQ, TypeTrueFalse:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %s: options required for %s", domain.ErrValidation, q.ID, q.Type)
		}
		for _, opt := range q.Options {
			if opt == q.Answer {
				return nil
			}
		}
		return fmt.Errorf("%w: question %s: answer must be one of the options", domain.ErrValidation, q.ID)
	case TypeShortAnswer:
		if len(q.Options) != 0 {
			return fmt.Errorf("%w: question %s: short_answer takes no options", domain.ErrValidation, q.ID)
		}
		return nil
	default:
		return fmt.Errorf("%w: question %s: unknown type %q", domain.ErrValidation, q.ID, q.Type)
	}
}

// StudentView returns a copy of the quiz with answer keys stripped.
func (q Quiz) StudentView() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	copy(out.Questions, q.Questions)
	for i := range out.Questions {
		out.Questions[i].Answer = ""
	}
	return out
}
