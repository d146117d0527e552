package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"SocialMonitor/internal/domain"
	"SocialMonitor/internal/ports"
	"SocialMonitor/internal/retry"
)

// Classifier calls the HuggingFace inference API for sentiment scoring.
// Batches are submitted in input order; a batch whose retries are
// exhausted degrades to unknown sentinels instead of failing the run.
type Classifier struct {
	endpoint string
	apiKey   string

	batchSize int
	coldWait  time.Duration
	rateWait  time.Duration
	pacing    time.Duration

	policy  retry.Policy
	sleeper retry.Sleeper
	http    *http.Client
	logger  *slog.Logger
}

var _ ports.SentimentClassifier = (*Classifier)(nil)

// ClassifierOptions tunes batching and retry behaviour; zero values fall
// back to the free-tier defaults the service tolerates.
type ClassifierOptions struct {
	BatchSize   int
	MaxAttempts int
	ColdWait    time.Duration
	RateWait    time.Duration
	Pacing      time.Duration
	Backoff     time.Duration
	Sleeper     retry.Sleeper
	HTTPClient  *http.Client
}

// NewClassifier wires a classifier for the given model endpoint.
func NewClassifier(endpoint, apiKey string, opts ClassifierOptions, logger *slog.Logger) *Classifier {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.ColdWait <= 0 {
		opts.ColdWait = 20 * time.Second
	}
	if opts.RateWait <= 0 {
		opts.RateWait = 30 * time.Second
	}
	if opts.Pacing <= 0 {
		opts.Pacing = 1500 * time.Millisecond
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 2 * time.Second
	}
	if opts.Sleeper == nil {
		opts.Sleeper = retry.RealSleeper{}
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Classifier{
		endpoint:  endpoint,
		apiKey:    apiKey,
		batchSize: opts.BatchSize,
		coldWait:  opts.ColdWait,
		rateWait:  opts.RateWait,
		pacing:    opts.Pacing,
		policy: retry.Policy{
			MaxAttempts: opts.MaxAttempts,
			Backoff:     retry.LinearBackoff(opts.Backoff),
		},
		sleeper: opts.Sleeper,
		http:    opts.HTTPClient,
		logger:  logger,
	}
}

var (
	errModelCold   = errors.New("model loading")
	errRateLimited = errors.New("rate limited")
)

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// ClassifyBatch scores cleaned texts in fixed-size batches, preserving
// order. The result has exactly one entry per input text. Only context
// cancellation aborts; every service failure degrades per batch.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string) ([]domain.Sentiment, error) {
	results := make([]domain.Sentiment, 0, len(texts))

	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		if start > 0 {
			if err := c.sleeper.Sleep(ctx, c.pacing); err != nil {
				return nil, err
			}
		}

		batch, err := c.classifyWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}

	return results, nil
}

func (c *Classifier) classifyWithRetry(ctx context.Context, batch []string) ([]domain.Sentiment, error) {
	coldRetried := false

	for attempt := 1; ; attempt++ {
		sentiments, err := c.classifyOnce(ctx, batch)
		if err == nil {
			return sentiments, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var cooldown time.Duration
		switch {
		case errors.Is(err, errModelCold):
			// Cold model gets exactly one extra try after the cooldown.
			if coldRetried {
				c.warn("model still loading, giving up on batch", "size", len(batch))
				return unknownBatch(len(batch)), nil
			}
			coldRetried = true
			cooldown = c.coldWait
			c.warn("model loading, retrying after cooldown", "wait", c.coldWait)
		case errors.Is(err, errRateLimited):
			if c.policy.Exhausted(attempt) {
				c.warn("rate limit retries exhausted", "size", len(batch))
				return unknownBatch(len(batch)), nil
			}
			cooldown = c.rateWait
			c.warn("rate limited, retrying after cooldown", "wait", c.rateWait, "attempt", attempt)
		default:
			var perm permanentError
			if errors.As(err, &perm) {
				c.warn("permanent classifier error, skipping retries", "error", err)
				return unknownBatch(len(batch)), nil
			}
			if c.policy.Exhausted(attempt) {
				c.warn("classifier retries exhausted", "error", err, "size", len(batch))
				return unknownBatch(len(batch)), nil
			}
			c.warn("classifier call failed, backing off", "error", err, "attempt", attempt)
		}

		if err := c.policy.Wait(ctx, c.sleeper, attempt, cooldown); err != nil {
			return nil, err
		}
	}
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Classifier) classifyOnce(ctx context.Context, batch []string) ([]domain.Sentiment, error) {
	body, err := json.Marshal(map[string]any{
		"inputs":  batch,
		"options": map[string]any{"wait_for_model": false},
	})
	if err != nil {
		return nil, permanentError{fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, permanentError{fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable:
		return nil, errModelCold
	case http.StatusTooManyRequests:
		return nil, errRateLimited
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, permanentError{fmt.Errorf("inference api %s: %s", resp.Status, strings.TrimSpace(string(payload)))}
	default:
		return nil, fmt.Errorf("inference api returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	perText, err := decodeCandidates(raw)
	if err != nil {
		return nil, err
	}
	if len(perText) != len(batch) {
		return nil, fmt.Errorf("inference api returned %d results for %d inputs", len(perText), len(batch))
	}

	sentiments := make([]domain.Sentiment, len(perText))
	for i, candidates := range perText {
		sentiments[i] = pickBest(candidates)
	}
	return sentiments, nil
}

// decodeCandidates accepts both response shapes the inference API emits:
// a candidate list per input, or a single candidate per input.
func decodeCandidates(raw []byte) ([][]candidate, error) {
	var nested [][]candidate
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested, nil
	}

	var flat []candidate
	if err := json.Unmarshal(raw, &flat); err == nil {
		perText := make([][]candidate, len(flat))
		for i, cand := range flat {
			perText[i] = []candidate{cand}
		}
		return perText, nil
	}

	return nil, fmt.Errorf("malformed inference response: %s", strings.TrimSpace(firstBytes(raw, 256)))
}

func pickBest(candidates []candidate) domain.Sentiment {
	if len(candidates) == 0 {
		return domain.Sentiment{Label: domain.SentimentUnknown}
	}

	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}

	score := best.Score
	return domain.Sentiment{Label: MapLabel(best.Label), Score: &score}
}

// MapLabel folds the model's raw label space onto the three-way labels.
// Star-scale models bucket as 1-2 negative, 3 neutral, 4-5 positive.
func MapLabel(raw string) domain.SentimentLabel {
	label := strings.ToLower(strings.TrimSpace(raw))

	switch label {
	case "positive", "pos", "label_2":
		return domain.SentimentPositive
	case "negative", "neg", "label_0":
		return domain.SentimentNegative
	case "neutral", "neu", "label_1":
		return domain.SentimentNeutral
	}

	if strings.HasSuffix(label, "star") || strings.HasSuffix(label, "stars") {
		switch {
		case strings.HasPrefix(label, "1") || strings.HasPrefix(label, "2"):
			return domain.SentimentNegative
		case strings.HasPrefix(label, "3"):
			return domain.SentimentNeutral
		case strings.HasPrefix(label, "4") || strings.HasPrefix(label, "5"):
			return domain.SentimentPositive
		}
	}

	return domain.SentimentNeutral
}

func unknownBatch(n int) []domain.Sentiment {
	batch := make([]domain.Sentiment, n)
	for i := range batch {
		batch[i] = domain.Sentiment{Label: domain.SentimentUnknown}
	}
	return batch
}

func firstBytes(raw []byte, n int) string {
	if len(raw) > n {
		raw = raw[:n]
	}
	return string(raw)
}

func (c *Classifier) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
