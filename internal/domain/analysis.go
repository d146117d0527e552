package domain

import "time"

// Analysis is the enrichment row written back for one tweet.
// The store upserts it on TweetID, so re-processing replaces, never duplicates.
type Analysis struct {
	TweetID        string
	SentimentLabel SentimentLabel
	SentimentScore *float64
	ClusterID      int
	CleanedText    string
	AnalysisDate   time.Time
}

// ClusterSummary is one daily rollup row keyed by (date, topic, cluster id).
type ClusterSummary struct {
	Date              time.Time
	Topic             string
	ClusterID         int
	ClusterLabel      string
	TweetCount        int
	TotalLikes        int
	TotalRetweets     int
	PositiveCount     int
	NegativeCount     int
	AvgSentimentScore float64
}

// RunState enumerates pipeline run milestones.
type RunState string

const (
	StateFetching  RunState = "fetching"
	StateEnriching RunState = "enriching"
	StateWriting   RunState = "writing"
	StateMarking   RunState = "marking"
	StateDone      RunState = "done"
	StateFailed    RunState = "failed"
)

// RunReport summarizes one pipeline invocation for logs and tests.
type RunReport struct {
	State            RunState
	Fetched          int
	AnalysesWritten  int
	SummariesWritten int
	Marked           int
	ClusteringRan    bool
	Positive         int
	Negative         int
	NeutralOrUnknown int
}
