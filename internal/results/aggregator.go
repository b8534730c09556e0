package results

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk/internal/grading"
	"github.com/quizdesk/quizdesk/internal/roster"
	"github.com/quizdesk/quizdesk/internal/store"
)

// AssignmentScore is one eligible assignment's contribution for a student.
type AssignmentScore struct {
	AssignmentID string  `json:"assignment_id"`
	Achieved     float64 `json:"achieved"`
	MaxMarks     float64 `json:"max_marks"`
	Submitted    bool    `json:"submitted"`
}

// StudentResult is derived on every aggregation request and never persisted.
// PersonalizedMax counts only the assignments this student was eligible
// for; ineligible assignments are invisible, not zero.
type StudentResult struct {
	StudentID       string            `json:"student_id"`
	Branch          string            `json:"branch,omitempty"`
	Assignments     []AssignmentScore `json:"assignments"`
	PersonalizedMax float64           `json:"personalized_max_score"`
	TotalAchieved   float64           `json:"total_achieved"`
	OverallPercent  float64           `json:"overall_percentage"`
	Rank            int               `json:"rank"`
}

type ClassStats struct {
	StudentCount   int     `json:"student_count"`
	AveragePercent float64 `json:"average_percentage"`
	PassRate       float64 `json:"pass_rate"` // fraction with >= 50%
	TopPercent     float64 `json:"top_percentage"`
}

type ClassResults struct {
	ClassID string          `json:"class_id"`
	Ranking []StudentResult `json:"ranking"`
	Stats   ClassStats      `json:"stats"`
}

// Aggregator computes personalized weighted results for a class. It is
// read-only and safe to run concurrently with grading writes; it does not
// require a consistent snapshot.
type Aggregator struct {
	store store.Store
	log   zerolog.Logger
}

func NewAggregator(st store.Store, log zerolog.Logger) *Aggregator {
	return &Aggregator{store: st, log: log}
}

func (ag *Aggregator) AggregateClass(ctx context.Context, classID string) (ClassResults, error) {
	class, err := ag.store.GetClass(ctx, classID)
	if err != nil {
		return ClassResults{}, err
	}
	assignments, err := ag.store.ListAssignments(ctx, classID)
	if err != nil {
		return ClassResults{}, err
	}

	// Submissions indexed by assignment, then candidate. Stale submissions
	// from students no longer on the roster are filtered by lookup: only
	// enrolled candidate ids are ever consulted.
	subsByAssignment := make(map[string]map[string]store.Submission, len(assignments))
	for _, a := range assignments {
		subs, err := ag.store.ListSubmissions(ctx, a.ID)
		if err != nil {
			return ClassResults{}, err
		}
		byCandidate := make(map[string]store.Submission, len(subs))
		for _, sub := range subs {
			byCandidate[sub.CandidateID] = sub
		}
		subsByAssignment[a.ID] = byCandidate
	}

	subgroups := make(map[string]roster.Subgroup, len(assignments))
	for _, a := range assignments {
		subgroups[a.ID] = roster.ParseSubgroup(a.Subgroup)
	}

	ranking := make([]StudentResult, 0, len(class.Students))
	for _, student := range class.Students {
		branch, hasBranch := roster.ExtractBranch(student.RegNo)
		res := StudentResult{StudentID: student.ID, Branch: branch}

		for _, a := range assignments {
			if !subgroups[a.ID].Eligible(branch, hasBranch) {
				continue
			}
			spec := WeightageSpec{Kind: a.WeightageType, Value: a.Weightage}
			res.PersonalizedMax += a.Weightage

			score := AssignmentScore{AssignmentID: a.ID, MaxMarks: a.Weightage}
			if sub, ok := subsByAssignment[a.ID][student.ID]; ok {
				achieved, err := spec.Achieved(grading.DisplayScore(sub))
				if err != nil {
					return ClassResults{}, err
				}
				score.Achieved = achieved
				score.Submitted = true
				res.TotalAchieved += achieved
			}
			// No submission: the weight stays in the denominator and the
			// contribution stays 0. Non-submission is penalized, not excused.
			res.Assignments = append(res.Assignments, score)
		}

		if res.PersonalizedMax > 0 {
			res.OverallPercent = res.TotalAchieved / res.PersonalizedMax * 100
		}
		ranking = append(ranking, res)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].OverallPercent != ranking[j].OverallPercent {
			return ranking[i].OverallPercent > ranking[j].OverallPercent
		}
		return ranking[i].TotalAchieved > ranking[j].TotalAchieved
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	return ClassResults{
		ClassID: classID,
		Ranking: ranking,
		Stats:   computeStats(ranking),
	}, nil
}

func computeStats(ranking []StudentResult) ClassStats {
	stats := ClassStats{StudentCount: len(ranking)}
	if len(ranking) == 0 {
		return stats
	}
	sum := 0.0
	passed := 0
	for _, r := range ranking {
		sum += r.OverallPercent
		if r.OverallPercent >= 50 {
			passed++
		}
		if r.OverallPercent > stats.TopPercent {
			stats.TopPercent = r.OverallPercent
		}
	}
	stats.AveragePercent = sum / float64(len(ranking))
	stats.PassRate = float64(passed) / float64(len(ranking))
	return stats
}
