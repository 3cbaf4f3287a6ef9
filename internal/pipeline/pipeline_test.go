package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/fwi-merge-service/internal/domain"
	"github.com/couchcryptid/fwi-merge-service/internal/merge"
	"github.com/couchcryptid/fwi-merge-service/internal/observability"
	"github.com/couchcryptid/fwi-merge-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawEvent
	index   atomic.Int64
	err     error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.MergedRecord, error) {
	if m.err != nil {
		return domain.MergedRecord{}, m.err
	}
	return domain.MergedRecord{Kind: domain.KindDaily, Station: string(raw.Key)}, nil
}

type mockLoader struct {
	mu     sync.Mutex
	loaded []domain.MergedRecord
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, records []domain.MergedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, records...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func rawFor(station string) domain.RawEvent {
	return domain.RawEvent{Key: []byte(station)}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawFor("CYXS"), rawFor("CYYF")}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "CYXS", ldr.loaded[0].Station)
	assert.NoError(t, p.CheckReadiness(ctx))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_TransformErrorCommitsAndSkips(t *testing.T) {
	var commits atomic.Int32
	raw := rawFor("CYXS")
	raw.Commit = func(_ context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, &mockTransformer{err: errors.New("bad data")}, ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.Equal(t, int32(1), commits.Load())
	assert.Error(t, p.CheckReadiness(ctx))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false

	raw := rawFor("CYXS")
	raw.Topic = "fire-weather-partials"
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.True(t, commitCalled)
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	commitCalled := false
	raw := rawFor("CYXS")
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{err: errors.New("broker down")}
	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.False(t, commitCalled)
	assert.Error(t, p.CheckReadiness(ctx))
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{err: errors.New("fetch failed")}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, p.Run(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)
}

func TestPipeline_Run_LoadsLatestSnapshotPerKey(t *testing.T) {
	store := merge.NewStore(merge.PolicyArrival, 10)
	tfm := pipeline.NewTransformer(store, false, slog.Default(), newTestMetrics())

	batch := []domain.RawEvent{
		{Value: []byte(`{"kind":"daily","station":"CYXS","time":"2024-07-15T00:00:00Z","record":{"dmc":40}}`)},
		{Value: []byte(`{"kind":"daily","station":"CYYF","time":"2024-07-15T00:00:00Z","record":{"dc":300}}`)},
		{Value: []byte(`{"kind":"daily","station":"CYXS","time":"2024-07-15T00:00:00Z","record":{"dc":410}}`)},
	}
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{batches: [][]domain.RawEvent{batch}}, tfm, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Run(ctx))

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "CYYF", ldr.loaded[0].Station)
	assert.Equal(t, "CYXS", ldr.loaded[1].Station)
	assert.Equal(t, map[string]float64{"dmc": 40, "dc": 410}, ldr.loaded[1].Record.Values())
	assert.Equal(t, []string{"bui"}, ldr.loaded[1].Derivable)
}

// failingOnceLoader rejects its first batch and accepts every later one.
type failingOnceLoader struct {
	mockLoader
	calls atomic.Int32
}

func (f *failingOnceLoader) LoadBatch(ctx context.Context, records []domain.MergedRecord) error {
	if f.calls.Add(1) == 1 {
		return errors.New("broker unavailable")
	}
	return f.mockLoader.LoadBatch(ctx, records)
}

func TestPipeline_Run_RetriesFailedLoad(t *testing.T) {
	var commits atomic.Int32
	first := rawFor("CYXS")
	first.Commit = func(_ context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{first}, {rawFor("CYYF")}}}
	ldr := &failingOnceLoader{}
	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Run(ctx))

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "CYXS", ldr.loaded[0].Station)
	assert.Equal(t, "CYYF", ldr.loaded[1].Station)
	assert.Equal(t, int32(3), ldr.calls.Load())
	assert.Equal(t, int32(1), commits.Load())
	assert.NoError(t, p.CheckReadiness(ctx))
}
