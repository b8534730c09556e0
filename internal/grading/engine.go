package grading

import (
	"fmt"
	"strings"

	"github.com/quizdesk/quizdesk/internal/quiz"
	"github.com/quizdesk/quizdesk/internal/store"
)

// Strategy decides whether a candidate's response matches the stored answer
// for one question type.
type Strategy interface {
	Correct(key, response string) bool
}

// exactMatch is used for choice questions: the response must equal the
// stored answer byte for byte.
type exactMatch struct{}

func (exactMatch) Correct(key, response string) bool { return response == key }

// foldedMatch is used for short answers: compare after trimming and
// lower-casing both sides.
type foldedMatch struct{}

func (foldedMatch) Correct(key, response string) bool {
	return strings.ToLower(strings.TrimSpace(response)) == strings.ToLower(strings.TrimSpace(key))
}

// Grader routes by question type to the correct Strategy.
type Grader struct {
	strategies map[string]Strategy
}

type Option func(*Grader)

// WithStrategy overrides or adds the matcher for a question type.
func WithStrategy(qtype string, s Strategy) Option {
	return func(g *Grader) { g.strategies[qtype] = s }
}

// NewGrader installs built-in strategies.
func NewGrader(opts ...Option) *Grader {
	g := &Grader{
		strategies: map[string]Strategy{
			quiz.TypeMCQ:         exactMatch{},
			quiz.TypeTrueFalse:   exactMatch{},
			quiz.TypeShortAnswer: foldedMatch{},
		},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Outcome is the result of grading one full answer set.
type Outcome struct {
	Score        float64 // 0..100
	CorrectCount int
	Total        int
	Answers      []store.SubmissionAnswer
}

// Grade scores the candidate's answer map against the question list.
// A question with no answer is recorded as incorrect with an empty
// selection. An unknown question type is an internal fault and fails
// loudly rather than defaulting.
func (g *Grader) Grade(questions []quiz.Question, answers map[string]string) (Outcome, error) {
	out := Outcome{
		Total:   len(questions),
		Answers: make([]store.SubmissionAnswer, 0, len(questions)),
	}
	for _, q := range questions {
		s, ok := g.strategies[q.Type]
		if !ok {
			return Outcome{}, fmt.Errorf("no strategy for question type %q", q.Type)
		}
		selected, answered := answers[q.ID]
		correct := answered && s.Correct(q.Answer, selected)
		if !answered {
			selected = ""
		}
		if correct {
			out.CorrectCount++
		}
		out.Answers = append(out.Answers, store.SubmissionAnswer{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      correct,
		})
	}
	if out.Total > 0 {
		out.Score = float64(out.CorrectCount) / float64(out.Total) * 100
	}
	return out, nil
}
