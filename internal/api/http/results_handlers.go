package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdesk/quizdesk/internal/integrity"
	"github.com/quizdesk/quizdesk/internal/results"
	"github.com/quizdesk/quizdesk/internal/store"
)

// GET /classes/{classID}/results
func ClassResultsHandler(ag *results.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := ag.AggregateClass(r.Context(), chi.URLParam(r, "classID"))
		if err != nil {
			writeError(w, err)
			return
		}
		// Rounding happens here and only here.
		for i := range res.Ranking {
			sr := &res.Ranking[i]
			sr.PersonalizedMax = round2(sr.PersonalizedMax)
			sr.TotalAchieved = round2(sr.TotalAchieved)
			sr.OverallPercent = round2(sr.OverallPercent)
			for j := range sr.Assignments {
				sr.Assignments[j].Achieved = round2(sr.Assignments[j].Achieved)
			}
		}
		res.Stats.AveragePercent = round2(res.Stats.AveragePercent)
		res.Stats.TopPercent = round2(res.Stats.TopPercent)
		res.Stats.PassRate = round2(res.Stats.PassRate)
		_ = json.NewEncoder(w).Encode(res)
	}
}

type integrityRow struct {
	CandidateID string                   `json:"candidate_id"`
	Counters    integrity.Counters       `json:"counters"`
	Result      integrity.Classification `json:"result"`
}

// GET /assignments/{assignmentID}/integrity
// Triage view over the assignment's submissions; independent of grading.
func IntegrityHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := st.ListSubmissions(r.Context(), chi.URLParam(r, "assignmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]integrityRow, 0, len(subs))
		for _, s := range subs {
			c := integrity.Counters{TabSwitchCount: s.TabSwitches, EscCount: s.EscPresses}
			if s.Proctoring != nil {
				c.Proctoring = *s.Proctoring
			}
			out = append(out, integrityRow{
				CandidateID: s.CandidateID,
				Counters:    c,
				Result:      integrity.Classify(c),
			})
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
