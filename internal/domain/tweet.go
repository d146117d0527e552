package domain

import "time"

// Tweet is a raw ingested record produced by the external scraper.
// Everything except Processed is read-only to this core.
type Tweet struct {
	TweetID   string
	Text      string
	Topic     string
	Author    string
	Likes     int
	Retweets  int
	ScrapedAt time.Time
	Processed bool
}

// SentimentLabel is the three-way polarity plus the failure sentinel.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentUnknown  SentimentLabel = "unknown"
)

// NoiseClusterID marks texts that were not assigned to any cluster,
// either because density clustering rejected them or because the
// clustering stage was skipped for the run.
const NoiseClusterID = -1

// NoiseClusterLabel is the catch-all label for the noise cluster.
const NoiseClusterLabel = "Overig"

// Sentiment is one classifier outcome for a single text.
// Score is nil exactly when Label is SentimentUnknown.
type Sentiment struct {
	Label SentimentLabel
	Score *float64
}

// Unknown reports whether this outcome is the failure sentinel.
func (s Sentiment) Unknown() bool {
	return s.Label == SentimentUnknown
}
