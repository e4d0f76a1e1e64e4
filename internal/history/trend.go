// Package history summarizes a user's stored evaluations over time.
package history

import (
	"math"
	"sort"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// Trend window and threshold on the mean overall score
const (
	windowSize     = 3
	trendThreshold = 5.0
)

// SortNewestFirst orders evaluations by creation time, newest first
func SortNewestFirst(evaluations []types.Evaluation) {
	sort.SliceStable(evaluations, func(i, j int) bool {
		return evaluations[i].CreatedAt.After(evaluations[j].CreatedAt)
	})
}

// Trend compares the mean overall score of the three newest evaluations with the three before them.
// evaluations must be ordered newest first. Fewer than two evaluations are neutral; without an
// older window, or with a change within ±5 points, the trend is stable.
func Trend(evaluations []types.Evaluation) types.ScoreTrend {
	if len(evaluations) < 2 {
		return types.ScoreTrend{Trend: types.TrendNeutral, Change: 0}
	}

	if len(evaluations) <= windowSize {
		return types.ScoreTrend{Trend: types.TrendStable, Change: 0}
	}
	recent := evaluations[:windowSize]
	older := evaluations[windowSize:min(2*windowSize, len(evaluations))]

	change := round1(meanOverall(recent) - meanOverall(older))
	switch {
	case change > trendThreshold:
		return types.ScoreTrend{Trend: types.TrendImproving, Change: change}
	case change < -trendThreshold:
		return types.ScoreTrend{Trend: types.TrendDeclining, Change: change}
	default:
		return types.ScoreTrend{Trend: types.TrendStable, Change: change}
	}
}

func meanOverall(evaluations []types.Evaluation) float64 {
	sum := 0.0
	for _, e := range evaluations {
		sum += e.Report.Overall
	}
	return sum / float64(len(evaluations))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
