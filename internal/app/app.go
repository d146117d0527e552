package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"SocialMonitor/internal/cluster"
	"SocialMonitor/internal/config"
	"SocialMonitor/internal/infrastructure/huggingface"
	"SocialMonitor/internal/infrastructure/storage"
	"SocialMonitor/internal/logging"
	"SocialMonitor/internal/nlp"
	"SocialMonitor/internal/ports"
	"SocialMonitor/internal/tagger"
	"SocialMonitor/internal/topics"
	"SocialMonitor/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.NewPostgresRepository(db)

	classifier := huggingface.NewClassifier(
		cfg.HuggingFace.SentimentURL(),
		cfg.HuggingFace.APIKey,
		huggingface.ClassifierOptions{
			BatchSize:   cfg.HuggingFace.BatchSize,
			MaxAttempts: cfg.HuggingFace.MaxAttempts,
			ColdWait:    time.Duration(cfg.HuggingFace.ColdWaitSeconds) * time.Second,
			RateWait:    time.Duration(cfg.HuggingFace.RateWaitSeconds) * time.Second,
			Pacing:      time.Duration(cfg.HuggingFace.PacingMillis) * time.Millisecond,
		},
		baseLogger.With("component", "classifier"),
	)

	registry := topics.NewRegistry()
	registry.Register(cluster.NewEngine(
		embedderFor(cfg),
		cfg.Topics.Epsilon,
		cfg.Topics.MinPoints,
		cfg.Topics.Dimensions,
		baseLogger.With("component", "cluster"),
	))
	registry.Register(tagger.NewKeywordTagger(keywordGroups(cfg.Topics.Keywords)))

	modeler, err := registry.Resolve(cfg.Topics.Strategy)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:      store,
		Classifier: classifier,
		Topics:     modeler,
		Stopwords:  nlp.DutchStopwords,
		FetchLimit: cfg.Pipeline.FetchLimit,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, db: db}, nil
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	now := time.Now().In(a.cfg.Scheduler.Location())
	_, err := a.pipeline.Run(ctx, now)
	return err
}

// Pipeline exposes the coordinator for scheduler wiring.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Close releases the database handle.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// embedderFor returns nil when no API key is configured, which makes the
// clustering stage degrade to all-noise instead of erroring every run.
func embedderFor(cfg config.Config) ports.Embedder {
	if cfg.HuggingFace.APIKey == "" {
		return nil
	}
	return huggingface.NewEmbedder(cfg.HuggingFace.EmbeddingURL(), cfg.HuggingFace.APIKey, nil, nil)
}

func keywordGroups(cfg []config.KeywordGroupConfig) []tagger.Group {
	groups := make([]tagger.Group, 0, len(cfg))
	for _, g := range cfg {
		groups = append(groups, tagger.Group{Name: g.Name, Keywords: g.Keywords})
	}
	return groups
}
