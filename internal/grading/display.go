package grading

import "github.com/quizdesk/quizdesk/internal/store"

// DisplayScore returns the percentage to render for a submission. When the
// answers array is present the score is recomputed from it and treated as
// authoritative over the stored score; legacy submissions without answers
// fall back to the stored value.
func DisplayScore(sub store.Submission) float64 {
	if len(sub.Answers) == 0 {
		return sub.Score
	}
	correct := 0
	for _, a := range sub.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(sub.Answers)) * 100
}
