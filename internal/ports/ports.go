package ports

import (
	"context"
	"time"

	"SocialMonitor/internal/domain"
)

// TweetStore is the only shared mutable resource; all mutations are
// upserts or predicate-scoped updates that are safe under retry.
type TweetStore interface {
	FetchUnprocessed(ctx context.Context, limit int) ([]domain.Tweet, error)
	UpsertAnalyses(ctx context.Context, records []domain.Analysis) error
	UpsertSummaries(ctx context.Context, rows []domain.ClusterSummary) error
	MarkProcessed(ctx context.Context, tweetIDs []string) error
}

// SentimentClassifier scores a batch of cleaned texts. The result always
// has the same length and order as the input; individual failures appear
// as the unknown sentinel, never as an error.
type SentimentClassifier interface {
	ClassifyBatch(ctx context.Context, texts []string) ([]domain.Sentiment, error)
}

// Embedder turns texts into fixed-dimension sentence vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// TopicModel is the outcome of one topic-modelling pass over a run's texts.
// Assignments has one cluster id per input text; Labels names each
// non-noise cluster. Skipped is set when the capability was unavailable
// and every text fell back to the noise cluster.
type TopicModel struct {
	Assignments []int
	Labels      map[int]string
	Skipped     bool
}

// TopicModeler assigns sub-topic clusters to a run's texts. Implementations
// must degrade (Skipped=true, all noise) rather than fail the run when
// their backing capability is missing.
type TopicModeler interface {
	Name() string
	Model(ctx context.Context, texts []string) (TopicModel, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
