package history

import (
	"math"

	"github.com/google/uuid"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// ScoreDelta is the change of one score between two evaluations
type ScoreDelta struct {
	Name   string  `json:"name"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Change float64 `json:"change"`
}

// Comparison lists the score changes from one evaluation to a later one
type Comparison struct {
	BeforeID  uuid.UUID    `json:"before_id"`
	AfterID   uuid.UUID    `json:"after_id"`
	Overall   ScoreDelta   `json:"overall"`
	SubScores []ScoreDelta `json:"sub_scores"`
	// Resolved lists suggestions of the earlier report that the later one no longer makes
	Resolved []string `json:"resolved"`
}

// Compare computes the per-scorer changes from before to after
func Compare(before, after types.Evaluation) Comparison {
	c := Comparison{
		BeforeID:  before.ID,
		AfterID:   after.ID,
		Overall:   delta("overall", before.Report.Overall, after.Report.Overall),
		SubScores: make([]ScoreDelta, 0, len(types.ScorerNames)),
		Resolved:  make([]string, 0),
	}
	for _, name := range types.ScorerNames {
		c.SubScores = append(c.SubScores, delta(string(name), before.Report.Value(name), after.Report.Value(name)))
	}

	remaining := make(map[string]bool, len(after.Report.Suggestions))
	for _, s := range after.Report.Suggestions {
		remaining[s] = true
	}
	for _, s := range before.Report.Suggestions {
		if !remaining[s] {
			c.Resolved = append(c.Resolved, s)
		}
	}
	return c
}

func delta(name string, before, after float64) ScoreDelta {
	return ScoreDelta{
		Name:   name,
		Before: before,
		After:  after,
		Change: math.Round((after-before)*100) / 100,
	}
}
