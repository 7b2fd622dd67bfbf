package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hydroplan/rainharvest/internal/domain"
	"github.com/hydroplan/rainharvest/internal/observability"
	"github.com/hydroplan/rainharvest/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	scenarios []domain.RawScenario
	done      atomic.Bool
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawScenario, error) {
	if m.done.Swap(true) {
		// batch already delivered; block until context cancelled
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.scenarios, nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawScenario) (domain.OutputEvent, error) {
	if m.err != nil {
		return domain.OutputEvent{}, m.err
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu     sync.Mutex
	loaded []domain.OutputEvent
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func (m *mockLoader) all() []domain.OutputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OutputEvent(nil), m.loaded...)
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raws := []domain.RawScenario{
		makeRawScenario(t, "scn-a", 250, 0.85),
		makeRawScenario(t, "scn-b", 120, 0.7),
	}

	ext := &mockExtractor{scenarios: raws}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)

	loaded := ldr.all()
	require.Len(t, loaded, 2)
	assert.Equal(t, raws[0].Value, loaded[0].Value)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // empty batch, then blocks
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
}

func TestPipeline_Run_TransformErrorSkipsMessage(t *testing.T) {
	committed := false
	raw := makeRawScenario(t, "scn-bad", 100, 0.8)
	raw.Commit = func(_ context.Context) error {
		committed = true
		return nil
	}

	ext := &mockExtractor{scenarios: []domain.RawScenario{raw}}
	tfm := &mockTransformer{err: errors.New("bad scenario")}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.all())
	assert.True(t, committed, "poison pill must be committed so it is not redelivered")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false
	raw := makeRawScenario(t, "scn-c", 200, 0.9)
	raw.Topic = "scenario-requests"
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{scenarios: []domain.RawScenario{raw}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.True(t, commitCalled)
}

func TestPipeline_CheckReadiness_BeforeFirstBatch(t *testing.T) {
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 10)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestScenarioTransformer_Transform(t *testing.T) {
	raw := makeRawScenario(t, "scn-d", 250, 0.85)

	tfm := pipeline.NewTransformer(nil, slog.Default())
	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []byte("scn-d"), out.Key)
	assert.Equal(t, "within", out.Headers["tank_fit"])
	assert.NotEmpty(t, out.Headers["evaluated_at"])

	var a domain.Assessment
	require.NoError(t, json.Unmarshal(out.Value, &a))
	assert.Equal(t, "scn-d", a.ID)
	assert.Equal(t, domain.RainfallSourceDefault, a.RainfallSource)
	assert.InDelta(t, 250*0.85*1144.0, a.Harvest.AnnualLiters, 1e-6)
	assert.Len(t, a.Integrity, 25)

	type fitSummary struct {
		Fit    domain.TankFit
		Months int
	}
	expected := fitSummary{Fit: domain.TankFitWithin, Months: domain.MonthsPerYear}
	actual := fitSummary{Fit: a.TankFit, Months: len(a.Rainfall)}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("assessment mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioTransformer_Transform_InvalidPayload(t *testing.T) {
	tfm := pipeline.NewTransformer(nil, slog.Default())
	_, err := tfm.Transform(context.Background(), domain.RawScenario{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestScenarioTransformer_Transform_InvalidHorizon(t *testing.T) {
	raw := domain.RawScenario{
		Key:   []byte("scn-e"),
		Value: []byte(`{"id":"scn-e","site":{"roof_area_m2":100,"collection_efficiency":0.8},"degradation":{"k":0.04,"service_years":0}}`),
	}

	tfm := pipeline.NewTransformer(nil, slog.Default())
	_, err := tfm.Transform(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}

// --- helpers ---

func makeRawScenario(t *testing.T, id string, roofArea, efficiency float64) domain.RawScenario {
	t.Helper()
	data, err := json.Marshal(domain.ScenarioRequest{
		ID:          id,
		Site:        domain.SiteConfig{RoofAreaM2: roofArea, CollectionEfficiency: efficiency},
		Degradation: domain.DegradationConfig{K: 0.04, ServiceYears: 25},
	})
	require.NoError(t, err)
	return domain.RawScenario{
		Key:   []byte(id),
		Value: data,
	}
}
