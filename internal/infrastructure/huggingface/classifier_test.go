package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SocialMonitor/internal/domain"
)

type fakeSleeper struct {
	slept []time.Duration
}

func (f *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	f.slept = append(f.slept, d)
	return nil
}

func respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func candidates(pairs ...candidate) []candidate {
	return pairs
}

func TestClassifyBatchSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Inputs []string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Inputs, 2)

		respond(w, [][]candidate{
			candidates(candidate{"positive", 0.91}, candidate{"negative", 0.05}),
			candidates(candidate{"negative", 0.77}, candidate{"neutral", 0.20}),
		})
	}))
	defer server.Close()

	c := NewClassifier(server.URL, "key", ClassifierOptions{Sleeper: &fakeSleeper{}}, nil)

	got, err := c.ClassifyBatch(context.Background(), []string{"goed nieuws", "slecht nieuws"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.SentimentPositive, got[0].Label)
	require.NotNil(t, got[0].Score)
	assert.InDelta(t, 0.91, *got[0].Score, 1e-9)

	assert.Equal(t, domain.SentimentNegative, got[1].Label)
}

func TestClassifyBatchColdModelRetriesOnce(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":18.4}`))
			return
		}
		respond(w, [][]candidate{
			candidates(candidate{"positive", 0.8}),
			candidates(candidate{"neutral", 0.6}),
			candidates(candidate{"negative", 0.7}),
		})
	}))
	defer server.Close()

	sleeper := &fakeSleeper{}
	c := NewClassifier(server.URL, "key", ClassifierOptions{ColdWait: 20 * time.Second, Sleeper: sleeper}, nil)

	got, err := c.ClassifyBatch(context.Background(), []string{"a tekst", "b tekst", "c tekst"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, s := range got {
		assert.NotEqual(t, domain.SentimentUnknown, s.Label)
		assert.NotNil(t, s.Score)
	}

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{20 * time.Second}, sleeper.slept)
}

func TestClassifyBatchColdModelGivesUpAfterSecondCold(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClassifier(server.URL, "key", ClassifierOptions{Sleeper: &fakeSleeper{}}, nil)

	got, err := c.ClassifyBatch(context.Background(), []string{"x"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SentimentUnknown, got[0].Label)
	assert.Nil(t, got[0].Score)

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClassifyBatchRateLimitBounded(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	sleeper := &fakeSleeper{}
	c := NewClassifier(server.URL, "key", ClassifierOptions{
		MaxAttempts: 3,
		RateWait:    30 * time.Second,
		Sleeper:     sleeper,
	}, nil)

	got, err := c.ClassifyBatch(context.Background(), []string{"x", "y"})
	require.NoError(t, err)

	for _, s := range got {
		assert.True(t, s.Unknown())
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, sleeper.slept)
}

func TestClassifyBatchPermanentErrorSkipsRetries(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer server.Close()

	sleeper := &fakeSleeper{}
	c := NewClassifier(server.URL, "bad-key", ClassifierOptions{Sleeper: sleeper}, nil)

	got, err := c.ClassifyBatch(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.True(t, got[0].Unknown())

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Empty(t, sleeper.slept)
}

func TestClassifyBatchPacingBetweenBatches(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Inputs []string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		out := make([][]candidate, len(payload.Inputs))
		for i := range out {
			out[i] = candidates(candidate{"neutral", 0.5})
		}
		respond(w, out)
	}))
	defer server.Close()

	sleeper := &fakeSleeper{}
	c := NewClassifier(server.URL, "key", ClassifierOptions{
		BatchSize: 2,
		Pacing:    1500 * time.Millisecond,
		Sleeper:   sleeper,
	}, nil)

	got, err := c.ClassifyBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	require.Len(t, got, 5)

	// Three batches, pacing enforced before the second and third.
	assert.Equal(t, []time.Duration{1500 * time.Millisecond, 1500 * time.Millisecond}, sleeper.slept)
}

func TestClassifyBatchMalformedResponseDegrades(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer server.Close()

	c := NewClassifier(server.URL, "key", ClassifierOptions{MaxAttempts: 2, Sleeper: &fakeSleeper{}}, nil)

	got, err := c.ClassifyBatch(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.True(t, got[0].Unknown())
}

func TestClassifyBatchEmptyInput(t *testing.T) {
	t.Parallel()

	c := NewClassifier("http://unused.invalid", "key", ClassifierOptions{Sleeper: &fakeSleeper{}}, nil)

	got, err := c.ClassifyBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMapLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.SentimentLabel{
		"Positive": domain.SentimentPositive,
		"negative": domain.SentimentNegative,
		"NEUTRAL":  domain.SentimentNeutral,
		"LABEL_0":  domain.SentimentNegative,
		"LABEL_1":  domain.SentimentNeutral,
		"LABEL_2":  domain.SentimentPositive,
		"1 star":   domain.SentimentNegative,
		"2 stars":  domain.SentimentNegative,
		"3 stars":  domain.SentimentNeutral,
		"4 stars":  domain.SentimentPositive,
		"5 stars":  domain.SentimentPositive,
		"weird":    domain.SentimentNeutral,
	}

	for raw, want := range cases {
		assert.Equal(t, want, MapLabel(raw), "label %q", raw)
	}
}

func TestDecodeCandidatesFlatShape(t *testing.T) {
	t.Parallel()

	perText, err := decodeCandidates([]byte(`[{"label":"positive","score":0.9},{"label":"negative","score":0.8}]`))
	require.NoError(t, err)
	require.Len(t, perText, 2)
	assert.Equal(t, "positive", perText[0][0].Label)
}
