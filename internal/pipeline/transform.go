package pipeline

import (
	"context"
	"log/slog"

	"github.com/hydroplan/rainharvest/internal/domain"
)

// ScenarioTransformer implements Transformer using the domain evaluation
// functions with optional climatology seeding.
type ScenarioTransformer struct {
	climate domain.ClimatologySource
	logger  *slog.Logger
}

// NewTransformer creates a ScenarioTransformer. Pass a nil climate source to
// disable climatology seeding.
func NewTransformer(climate domain.ClimatologySource, logger *slog.Logger) *ScenarioTransformer {
	return &ScenarioTransformer{
		climate: climate,
		logger:  logger,
	}
}

func (t *ScenarioTransformer) Transform(ctx context.Context, raw domain.RawScenario) (domain.OutputEvent, error) {
	req, err := domain.ParseScenario(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	table, source := domain.SeedRainfall(ctx, req, t.climate, t.logger)

	assessment, err := domain.EvaluateScenario(req, table, source)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	return domain.SerializeAssessment(assessment)
}
