package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SocialMonitor/internal/ports"
	"SocialMonitor/internal/retry"
)

// Embedder calls the HuggingFace feature-extraction pipeline to obtain
// sentence vectors. Unlike the classifier it surfaces errors: the topic
// modeler owns the degrade-to-noise decision.
type Embedder struct {
	endpoint string
	apiKey   string
	coldWait time.Duration
	sleeper  retry.Sleeper
	http     *http.Client
}

var _ ports.Embedder = (*Embedder)(nil)

// NewEmbedder wires an embedder for the given model endpoint.
func NewEmbedder(endpoint, apiKey string, sleeper retry.Sleeper, client *http.Client) *Embedder {
	if sleeper == nil {
		sleeper = retry.RealSleeper{}
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Embedder{
		endpoint: endpoint,
		apiKey:   apiKey,
		coldWait: 20 * time.Second,
		sleeper:  sleeper,
		http:     client,
	}
}

// Embed returns one vector per input text. A cold model is retried once
// after a cooldown; any other failure is returned to the caller.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors, err := e.embedOnce(ctx, texts)
	if err == errModelCold {
		if sleepErr := e.sleeper.Sleep(ctx, e.coldWait); sleepErr != nil {
			return nil, sleepErr
		}
		vectors, err = e.embedOnce(ctx, texts)
	}
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

func (e *Embedder) embedOnce(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(map[string]any{
		"inputs":  texts,
		"options": map[string]any{"wait_for_model": false},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, errModelCold
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feature extraction %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var vectors [][]float64
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decode vectors: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("feature extraction returned %d vectors for %d inputs", len(vectors), len(texts))
	}
	for i, vector := range vectors {
		if len(vector) != len(vectors[0]) {
			return nil, fmt.Errorf("feature extraction returned vector %d with %d dims, expected %d", i, len(vector), len(vectors[0]))
		}
	}

	return vectors, nil
}
