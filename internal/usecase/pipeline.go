package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"SocialMonitor/internal/aggregate"
	"SocialMonitor/internal/domain"
	"SocialMonitor/internal/nlp"
	"SocialMonitor/internal/ports"
)

// PipelineDeps wires all driven adapters into the enrichment pipeline.
type PipelineDeps struct {
	Store      ports.TweetStore
	Classifier ports.SentimentClassifier
	Topics     ports.TopicModeler
	Stopwords  nlp.StopwordSet
	FetchLimit int
	Logger     *slog.Logger
}

// Pipeline drives one end-to-end enrichment run: fetch, normalize,
// classify, cluster, aggregate, write back, mark processed. It is the
// only component that touches the store.
type Pipeline struct {
	store      ports.TweetStore
	classifier ports.SentimentClassifier
	topics     ports.TopicModeler
	stopwords  nlp.StopwordSet
	fetchLimit int
	logger     *slog.Logger
}

// NewPipeline constructs the coordinator.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.FetchLimit <= 0 {
		deps.FetchLimit = 500
	}
	if deps.Stopwords == nil {
		deps.Stopwords = nlp.DutchStopwords
	}
	return &Pipeline{
		store:      deps.Store,
		classifier: deps.Classifier,
		topics:     deps.Topics,
		stopwords:  deps.Stopwords,
		fetchLimit: deps.FetchLimit,
		logger:     deps.Logger,
	}
}

// Run executes one enrichment pass for the given wall-clock time. The
// returned report always reflects how far the run got; the error is
// non-nil only for store failures and cancellation, which are safe to
// retry on the next invocation.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.RunReport, error) {
	report := domain.RunReport{State: domain.StateFetching}

	tweets, err := p.store.FetchUnprocessed(ctx, p.fetchLimit)
	if err != nil {
		report.State = domain.StateFailed
		return report, fmt.Errorf("fetch unprocessed: %w", err)
	}
	report.Fetched = len(tweets)

	if len(tweets) == 0 {
		p.info("nothing to process")
		report.State = domain.StateDone
		return report, nil
	}
	p.info("fetched unprocessed tweets", "count", len(tweets))

	report.State = domain.StateEnriching

	cleaned := make([]string, len(tweets))
	stripped := make([]string, len(tweets))
	for i, tweet := range tweets {
		cleaned[i] = nlp.Normalize(tweet.Text)
		stripped[i] = nlp.StripStopwords(cleaned[i], p.stopwords)
	}

	sentiments, err := p.classifier.ClassifyBatch(ctx, cleaned)
	if err != nil {
		// Only cancellation escapes the classifier; service trouble
		// already degraded to sentinels inside it.
		report.State = domain.StateFailed
		return report, fmt.Errorf("classify batch: %w", err)
	}

	model, err := p.topicModel(ctx, stripped)
	if err != nil {
		report.State = domain.StateFailed
		return report, fmt.Errorf("topic model: %w", err)
	}
	report.ClusteringRan = !model.Skipped
	if model.Skipped {
		p.warn("clustering skipped, assigning noise cluster to all tweets")
	}

	analysisDate := now.UTC().Truncate(24 * time.Hour)
	analyses := make([]domain.Analysis, len(tweets))
	enriched := make([]aggregate.Enriched, len(tweets))
	for i, tweet := range tweets {
		analyses[i] = domain.Analysis{
			TweetID:        tweet.TweetID,
			SentimentLabel: sentiments[i].Label,
			SentimentScore: sentiments[i].Score,
			ClusterID:      model.Assignments[i],
			CleanedText:    cleaned[i],
			AnalysisDate:   analysisDate,
		}
		enriched[i] = aggregate.Enriched{
			Tweet:     tweet,
			Sentiment: sentiments[i],
			ClusterID: model.Assignments[i],
		}

		switch sentiments[i].Label {
		case domain.SentimentPositive:
			report.Positive++
		case domain.SentimentNegative:
			report.Negative++
		default:
			report.NeutralOrUnknown++
		}
	}

	var summaries []domain.ClusterSummary
	if report.ClusteringRan {
		summaries = aggregate.BuildSummaries(enriched, model.Labels, analysisDate)
	}

	report.State = domain.StateWriting
	if err := p.store.UpsertAnalyses(ctx, analyses); err != nil {
		// Nothing was marked processed, so every tweet stays eligible
		// for the next run.
		report.State = domain.StateFailed
		return report, fmt.Errorf("write analyses: %w", err)
	}
	report.AnalysesWritten = len(analyses)
	p.info("wrote analysis records", "count", len(analyses))

	if len(summaries) > 0 {
		if err := p.store.UpsertSummaries(ctx, summaries); err != nil {
			report.State = domain.StateFailed
			return report, fmt.Errorf("write summaries: %w", err)
		}
		report.SummariesWritten = len(summaries)
		p.info("wrote topic summaries", "count", len(summaries))
	}

	report.State = domain.StateMarking
	ids := make([]string, len(tweets))
	for i, tweet := range tweets {
		ids[i] = tweet.TweetID
	}
	if err := p.store.MarkProcessed(ctx, ids); err != nil {
		// Analyses are durable; the next run re-enriches the same
		// tweets and the upserts make that an idempotent overwrite.
		report.State = domain.StateFailed
		return report, fmt.Errorf("mark processed: %w", err)
	}
	report.Marked = len(ids)

	report.State = domain.StateDone
	p.info("pipeline complete",
		"positive", report.Positive,
		"negative", report.Negative,
		"neutral_or_unknown", report.NeutralOrUnknown,
		"summaries", report.SummariesWritten)
	return report, nil
}

func (p *Pipeline) topicModel(ctx context.Context, stripped []string) (ports.TopicModel, error) {
	if p.topics == nil {
		assignments := make([]int, len(stripped))
		for i := range assignments {
			assignments[i] = domain.NoiseClusterID
		}
		return ports.TopicModel{Assignments: assignments, Labels: map[int]string{}, Skipped: true}, nil
	}
	return p.topics.Model(ctx, stripped)
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
