// Package domain defines the data model shared by the COEC pipeline stages.
package domain

// ResultEntry is a single (position, docid) pair from a query's result list.
// Positions are 1-based.
type ResultEntry struct {
	Position int    `json:"position"`
	DocID    string `json:"docid"`
}

// QueryRecord represents one query instance as shown to a user: the query
// text and the ordered result list it returned. Immutable once ingested.
type QueryRecord struct {
	QueryID string        `json:"query_id"`
	Query   string        `json:"query"`
	Results []ResultEntry `json:"results"`
}

// ClickEvent represents a single click on a search result: document DocID was
// clicked at Position within query instance QueryID. The event stream carries
// clicks only; impressions are derived from QueryRecord result lists.
type ClickEvent struct {
	QueryID  string `json:"query_id"`
	DocID    string `json:"docid"`
	Position int    `json:"position"`
}

// Judgment is one relevance judgment: a continuous COEC grade for a
// (query, document) pair, with the query text carried for traceability.
// Created once by the scorer and never mutated.
type Judgment struct {
	QueryID string  `json:"qid"`
	DocID   string  `json:"docid"`
	Grade   float64 `json:"grade"`
	Query   string  `json:"query"`
}

// GradePercentile is one point of the grade distribution.
type GradePercentile struct {
	Percentile float64 `json:"percentile"`
	Value      float64 `json:"value"`
}

// SummaryStatistics is a read-only view over a full judgment collection plus
// the data-quality counters the pipeline accumulated while producing it.
type SummaryStatistics struct {
	TotalJudgments  int `json:"total_judgments"`
	UniqueQueries   int `json:"unique_queries"`
	UniqueDocuments int `json:"unique_documents"`

	MinGrade    float64           `json:"min_grade"`
	MaxGrade    float64           `json:"max_grade"`
	MeanGrade   float64           `json:"mean_grade"`
	Percentiles []GradePercentile `json:"percentiles,omitempty"`

	// AvgJudgmentsPerQuery is TotalJudgments / UniqueQueries (0 when empty).
	AvgJudgmentsPerQuery float64 `json:"avg_judgments_per_query"`
	// PairsAboveExpectation counts judgments with grade > 1, i.e. documents
	// clicked more than their positions alone would predict.
	PairsAboveExpectation int `json:"pairs_above_expectation"`

	ZeroExpectationPairs int `json:"zero_expectation_pairs"`
	CTRFallbacks         int `json:"ctr_fallbacks"`
	SkippedResults       int `json:"skipped_results"`
	SkippedEvents        int `json:"skipped_events"`
}
