package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// RawScenario represents an unprocessed scenario message from the source topic.
type RawScenario struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ScenarioRequest bundles the model inputs for one evaluation. Rainfall,
// Location, and TankBand are optional; see SeedRainfall for the resolution
// order and DefaultTankBand for the band fallback.
type ScenarioRequest struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name,omitempty"`
	Site        SiteConfig        `json:"site"`
	Degradation DegradationConfig `json:"degradation"`
	Rainfall    []MonthlyRain     `json:"rainfall,omitempty"`
	Location    *Geo              `json:"location,omitempty"`
	TankBand    *TankBand         `json:"tank_band,omitempty"`
}

// Assessment is the fully evaluated form of a scenario.
type Assessment struct {
	ID             string            `json:"id"`
	Name           string            `json:"name,omitempty"`
	Site           SiteConfig        `json:"site"`
	Degradation    DegradationConfig `json:"degradation"`
	Rainfall       RainfallTable     `json:"rainfall"`
	RainfallSource string            `json:"rainfall_source"`
	Harvest        HarvestResult     `json:"harvest"`
	Integrity      []IntegrityPoint  `json:"integrity"`
	TankBand       TankBand          `json:"tank_band"`
	TankFit        TankFit           `json:"tank_fit"`
	EvaluatedAt    time.Time         `json:"evaluated_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ParseScenario deserializes a RawScenario's value into a ScenarioRequest.
// A rainfall array of the wrong shape fails here, before any computation.
func ParseScenario(raw RawScenario) (ScenarioRequest, error) {
	var req ScenarioRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return ScenarioRequest{}, fmt.Errorf("parse scenario: %w", err)
	}
	if len(req.Rainfall) > 0 && len(req.Rainfall) != MonthsPerYear {
		return ScenarioRequest{}, fmt.Errorf("parse scenario: %w: got %d rows", ErrShapeMismatch, len(req.Rainfall))
	}
	return req, nil
}

// EvaluateScenario runs the harvest, durability, and tank-fit models over a
// resolved rainfall table. It fails only on an invalid projection horizon;
// every other input is accepted as-is.
func EvaluateScenario(req ScenarioRequest, table RainfallTable, rainfallSource string) (Assessment, error) {
	integrity, err := ProjectIntegrity(table, req.Degradation)
	if err != nil {
		return Assessment{}, err
	}

	harvest := ComputeHarvest(table, req.Site)

	band := DefaultTankBand()
	if req.TankBand != nil {
		band = *req.TankBand
	}

	id := req.ID
	if id == "" {
		id = generateScenarioID(req.Site, req.Degradation, table)
	}

	return Assessment{
		ID:             id,
		Name:           req.Name,
		Site:           req.Site,
		Degradation:    req.Degradation,
		Rainfall:       table,
		RainfallSource: rainfallSource,
		Harvest:        harvest,
		Integrity:      integrity,
		TankBand:       band,
		TankFit:        ClassifyTankFit(harvest.AnnualLiters, band),
		EvaluatedAt:    clock.Now().UTC(),
	}, nil
}

// generateScenarioID produces a deterministic ID from the scenario's numeric
// inputs. Deterministic IDs make re-evaluation idempotent downstream and keep
// replayed scenario messages deduplicable.
func generateScenarioID(site SiteConfig, deg DegradationConfig, table RainfallTable) string {
	input := fmt.Sprintf("%g|%g|%g|%d", site.RoofAreaM2, site.CollectionEfficiency, deg.K, deg.ServiceYears)
	for _, m := range table {
		input += fmt.Sprintf("|%g", m.RainfallMM)
	}
	hash := sha256.Sum256([]byte(input))
	return "scn-" + hex.EncodeToString(hash[:8])
}

// SerializeAssessment marshals an Assessment into a sink message keyed by
// scenario ID.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.ID),
		Value: data,
		Headers: map[string]string{
			"tank_fit":     string(a.TankFit),
			"evaluated_at": a.EvaluatedAt.Format(time.RFC3339),
		},
	}, nil
}
