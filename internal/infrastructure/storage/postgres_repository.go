package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"SocialMonitor/internal/domain"
	"SocialMonitor/internal/ports"
)

const (
	rawTweetsTable    = "raw_tweets"
	analysisTable     = "tweet_analysis"
	topicSummaryTable = "daily_topic_summary"
)

// PostgresRepository persists enrichment output in Postgres. Every
// mutation is an upsert or a predicate-scoped update, safe under retry
// and concurrent writers.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.TweetStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// FetchUnprocessed returns up to limit tweets with processed = false,
// newest first.
func (r *PostgresRepository) FetchUnprocessed(ctx context.Context, limit int) ([]domain.Tweet, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("tweet_id", "text", "topic", "author", "likes", "retweets", "scraped_at", "processed").
		From(rawTweetsTable).
		Where(sq.Eq{"processed": false}).
		OrderBy("scraped_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fetch query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed: %w", err)
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		var t domain.Tweet
		if err := rows.Scan(&t.TweetID, &t.Text, &t.Topic, &t.Author, &t.Likes, &t.Retweets, &t.ScrapedAt, &t.Processed); err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return tweets, nil
}

// UpsertAnalyses writes analysis rows keyed by tweet_id; an existing row
// for the same tweet is replaced, never duplicated.
func (r *PostgresRepository) UpsertAnalyses(ctx context.Context, records []domain.Analysis) error {
	if r.db == nil || len(records) == 0 {
		return nil
	}

	insert := r.builder.
		Insert(analysisTable).
		Columns("tweet_id", "sentiment_label", "sentiment_score", "cluster_id", "cleaned_text", "analysis_date")
	for _, rec := range records {
		insert = insert.Values(rec.TweetID, string(rec.SentimentLabel), rec.SentimentScore, rec.ClusterID, rec.CleanedText, rec.AnalysisDate)
	}

	query, args, err := insert.
		Suffix(`ON CONFLICT (tweet_id) DO UPDATE
            SET sentiment_label = EXCLUDED.sentiment_label,
                sentiment_score = EXCLUDED.sentiment_score,
                cluster_id = EXCLUDED.cluster_id,
                cleaned_text = EXCLUDED.cleaned_text,
                analysis_date = EXCLUDED.analysis_date`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build analysis upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert analyses: %w", err)
	}

	return nil
}

// UpsertSummaries writes rollup rows keyed by (date, topic, cluster_id);
// later runs on the same date replace earlier rows.
func (r *PostgresRepository) UpsertSummaries(ctx context.Context, rows []domain.ClusterSummary) error {
	if r.db == nil || len(rows) == 0 {
		return nil
	}

	insert := r.builder.
		Insert(topicSummaryTable).
		Columns("date", "topic", "cluster_id", "cluster_label", "tweet_count",
			"total_likes", "total_retweets", "positive_count", "negative_count", "avg_sentiment_score")
	for _, row := range rows {
		insert = insert.Values(row.Date, row.Topic, row.ClusterID, row.ClusterLabel, row.TweetCount,
			row.TotalLikes, row.TotalRetweets, row.PositiveCount, row.NegativeCount, row.AvgSentimentScore)
	}

	query, args, err := insert.
		Suffix(`ON CONFLICT (date, topic, cluster_id) DO UPDATE
            SET cluster_label = EXCLUDED.cluster_label,
                tweet_count = EXCLUDED.tweet_count,
                total_likes = EXCLUDED.total_likes,
                total_retweets = EXCLUDED.total_retweets,
                positive_count = EXCLUDED.positive_count,
                negative_count = EXCLUDED.negative_count,
                avg_sentiment_score = EXCLUDED.avg_sentiment_score`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build summary upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert summaries: %w", err)
	}

	return nil
}

// MarkProcessed flips processed to true for the given tweets. The flag
// only ever moves false to true, so re-marking is harmless.
func (r *PostgresRepository) MarkProcessed(ctx context.Context, tweetIDs []string) error {
	if r.db == nil || len(tweetIDs) == 0 {
		return nil
	}

	query, args, err := r.builder.
		Update(rawTweetsTable).
		Set("processed", true).
		Where(sq.Expr("tweet_id = ANY(?)", pq.Array(tweetIDs))).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	return nil
}
