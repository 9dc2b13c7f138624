// Package stats derives summary statistics from a judgment collection.
package stats

import (
	"math"
	"sort"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/coec"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
)

// Summarize computes a read-only statistical view over a pipeline result:
// counts, grade distribution and the data-quality counters. It has no effect
// on the judgments themselves, and an empty result yields all-zero figures.
func Summarize(result *coec.Result, percentiles []float64) domain.SummaryStatistics {
	stats := domain.SummaryStatistics{
		TotalJudgments:       len(result.Judgments),
		ZeroExpectationPairs: result.ZeroExpectationPairs,
		CTRFallbacks:         result.CTRFallbacks,
		SkippedResults:       result.SkippedResults,
		SkippedEvents:        result.SkippedEvents,
	}

	if len(result.Judgments) == 0 {
		return stats
	}

	queries := make(map[string]struct{})
	documents := make(map[string]struct{})
	grades := make([]float64, 0, len(result.Judgments))
	sum := 0.0

	for _, j := range result.Judgments {
		queries[j.QueryID] = struct{}{}
		documents[j.DocID] = struct{}{}
		grades = append(grades, j.Grade)
		sum += j.Grade
		if j.Grade > 1 {
			stats.PairsAboveExpectation++
		}
	}

	sort.Float64s(grades)

	stats.UniqueQueries = len(queries)
	stats.UniqueDocuments = len(documents)
	stats.MinGrade = grades[0]
	stats.MaxGrade = grades[len(grades)-1]
	stats.MeanGrade = sum / float64(len(grades))
	stats.AvgJudgmentsPerQuery = float64(len(result.Judgments)) / float64(len(queries))
	stats.Percentiles = gradePercentiles(grades, percentiles)

	return stats
}

// gradePercentiles computes nearest-rank percentiles over sorted grades.
func gradePercentiles(sorted []float64, percentiles []float64) []domain.GradePercentile {
	if len(percentiles) == 0 {
		return nil
	}

	out := make([]domain.GradePercentile, 0, len(percentiles))
	for _, p := range percentiles {
		out = append(out, domain.GradePercentile{
			Percentile: p,
			Value:      nearestRank(sorted, p),
		})
	}
	return out
}

// nearestRank returns the p-th percentile of sorted values using the
// nearest-rank method: the smallest value with at least p% of the data at or
// below it.
func nearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
