package cluster

import (
	"context"
	"log/slog"
	"sort"

	"SocialMonitor/internal/ports"
)

// Engine is the embedding-based topic modeler: embed, reduce, density
// cluster, label. When its embedding capability is missing or failing it
// degrades to an all-noise model instead of failing the run.
type Engine struct {
	embedder   ports.Embedder
	eps        float64
	minPoints  int
	targetDims int
	logger     *slog.Logger
}

var _ ports.TopicModeler = (*Engine)(nil)

// NewEngine wires the modeler; zero tuning values get usable defaults.
func NewEngine(embedder ports.Embedder, eps float64, minPoints, targetDims int, logger *slog.Logger) *Engine {
	if eps <= 0 {
		eps = 0.35
	}
	if minPoints <= 0 {
		minPoints = 5
	}
	if targetDims <= 0 {
		targetDims = 5
	}
	return &Engine{
		embedder:   embedder,
		eps:        eps,
		minPoints:  minPoints,
		targetDims: targetDims,
		logger:     logger,
	}
}

// Name identifies the strategy inside the topic registry.
func (e *Engine) Name() string {
	return "embedding"
}

// Model clusters the run's stopword-stripped texts into sub-topics.
func (e *Engine) Model(ctx context.Context, texts []string) (ports.TopicModel, error) {
	if e.embedder == nil {
		return skippedModel(len(texts)), nil
	}
	if len(texts) == 0 {
		return ports.TopicModel{Labels: map[int]string{}}, nil
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		if ctx.Err() != nil {
			return ports.TopicModel{}, ctx.Err()
		}
		e.warn("embedding unavailable, skipping clustering", "error", err)
		return skippedModel(len(texts)), nil
	}

	reduced := Project(vectors, e.targetDims)
	raw := DBSCAN(reduced, e.eps, e.minPoints)
	assignments := renumberBySize(raw)

	return ports.TopicModel{
		Assignments: assignments,
		Labels:      BuildLabels(texts, assignments),
	}, nil
}

// renumberBySize remaps cluster ids so the largest cluster is 0, the
// next 1, and so on. Ids are run-local; noise stays at -1.
func renumberBySize(assignments []int) []int {
	sizes := map[int]int{}
	for _, id := range assignments {
		if id != Noise {
			sizes[id]++
		}
	}

	ids := make([]int, 0, len(sizes))
	for id := range sizes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		if sizes[ids[a]] != sizes[ids[b]] {
			return sizes[ids[a]] > sizes[ids[b]]
		}
		return ids[a] < ids[b]
	})

	remap := make(map[int]int, len(ids))
	for rank, id := range ids {
		remap[id] = rank
	}

	out := make([]int, len(assignments))
	for i, id := range assignments {
		if id == Noise {
			out[i] = Noise
			continue
		}
		out[i] = remap[id]
	}
	return out
}

func skippedModel(n int) ports.TopicModel {
	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = Noise
	}
	return ports.TopicModel{
		Assignments: assignments,
		Labels:      map[int]string{},
		Skipped:     true,
	}
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
