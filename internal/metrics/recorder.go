package metrics

import "time"

// ResultLabel enumerates load outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultPartial  ResultLabel = "partial"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// QueryKind labels index queries.
type QueryKind string

const (
	QueryFilter  QueryKind = "filter"
	QueryRelated QueryKind = "related"
	QuerySearch  QueryKind = "search"
	QueryTags    QueryKind = "tags"
)

// Recorder defines observability hooks for loading and querying the index.
// Implementations may forward to Prometheus or a test double.
type Recorder interface {
	ObserveLoadDuration(source string, d time.Duration)
	IncLoadOutcome(source string, outcome ResultLabel)
	SetIndexedPosts(n int)
	AddSkippedRecords(source string, n int)
	IncSnapshotSwap()
	IncReloadRetry(source string)
	IncQuery(kind QueryKind)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveLoadDuration(string, time.Duration) {}
func (NoopRecorder) IncLoadOutcome(string, ResultLabel)        {}
func (NoopRecorder) SetIndexedPosts(int)                       {}
func (NoopRecorder) AddSkippedRecords(string, int)             {}
func (NoopRecorder) IncSnapshotSwap()                          {}
func (NoopRecorder) IncReloadRetry(string)                     {}
func (NoopRecorder) IncQuery(QueryKind)                        {}
