package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/hydroplan/rainharvest/internal/adapter/http"
	"github.com/hydroplan/rainharvest/internal/domain"
	"github.com/hydroplan/rainharvest/internal/observability"
	"github.com/hydroplan/rainharvest/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type fakeClimate struct {
	precipMM float64
	err      error
}

func (f *fakeClimate) MonthlyNormals(_ context.Context, _, _ float64) (domain.ClimatologyResult, error) {
	if f.err != nil {
		return domain.ClimatologyResult{}, f.err
	}
	var r domain.ClimatologyResult
	for i := range r.MonthlyPrecipMM {
		r.MonthlyPrecipMM[i] = f.precipMM
	}
	r.Source = "fake"
	return r, nil
}

func newTestServer(readyErr error, climate domain.ClimatologySource) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, climate,
		domain.DefaultTankBand(), slog.Default(), observability.NewMetricsForTesting())
}

func doJSON(t *testing.T, srv *httpadapter.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)
	return rec
}

// --- health and observability endpoints ---

func TestHealthzReturns200(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := doJSON(t, newTestServer(fmt.Errorf("not ready yet"), nil), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- harvest ---

func TestHarvest_DefaultProfile(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/harvest",
		`{"site":{"roof_area_m2":250,"collection_efficiency":0.85}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		RainfallSource string               `json:"rainfall_source"`
		Harvest        domain.HarvestResult `json:"harvest"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.RainfallSourceDefault, body.RainfallSource)
	assert.InDelta(t, 250*0.85*1144.0, body.Harvest.AnnualLiters, 1e-6)
	assert.InDelta(t, body.Harvest.AnnualLiters/1000.0, body.Harvest.AnnualCubicMeters, 1e-9)
}

func TestHarvest_WrongShapeRejected(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/harvest",
		`{"site":{"roof_area_m2":100,"collection_efficiency":0.8},"rainfall":[{"month":"Jan","rainfall_mm":10}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHarvest_MalformedBody(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/harvest", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- integrity ---

func TestIntegrity_DefaultProfile(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/integrity",
		`{"degradation":{"k":0.04,"service_years":25}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Integrity []domain.IntegrityPoint `json:"integrity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Integrity, 25)
	assert.Equal(t, 1, body.Integrity[0].Year)
	assert.Greater(t, body.Integrity[0].IntegrityPercent, body.Integrity[24].IntegrityPercent)
}

func TestIntegrity_ZeroHorizonRejected(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/integrity",
		`{"degradation":{"k":0.04,"service_years":0}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// --- tank fit ---

func TestTankFit(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected domain.TankFit
	}{
		{"within default band", `{"annual_liters":243100}`, domain.TankFitWithin},
		{"below default band", `{"annual_liters":100}`, domain.TankFitBelow},
		{"custom band", `{"annual_liters":243100,"tank_band":{"min_liters":10,"max_liters":20}}`, domain.TankFitAbove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/tank-fit", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				TankFit domain.TankFit `json:"tank_fit"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expected, body.TankFit)
		})
	}
}

// --- assess ---

func TestAssess_FullScenario(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/assess",
		`{"name":"smallholding","site":{"roof_area_m2":250,"collection_efficiency":0.85},"degradation":{"k":0.04,"service_years":25}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var a domain.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.True(t, strings.HasPrefix(a.ID, "scn-"))
	assert.Equal(t, domain.RainfallSourceDefault, a.RainfallSource)
	assert.Equal(t, domain.TankFitWithin, a.TankFit)
	assert.Len(t, a.Integrity, 25)
	assert.False(t, a.EvaluatedAt.IsZero())
}

func TestAssess_ClimatologySeeding(t *testing.T) {
	srv := newTestServer(nil, &fakeClimate{precipMM: 50})
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/assess",
		`{"site":{"roof_area_m2":100,"collection_efficiency":0.8},"degradation":{"k":0.04,"service_years":10},"location":{"lat":44.8,"lon":20.5}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var a domain.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, domain.RainfallSourceClimatology, a.RainfallSource)
	assert.InDelta(t, 100*0.8*600.0, a.Harvest.AnnualLiters, 1e-6)
}

func TestAssess_InvalidHorizon(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/assess",
		`{"site":{"roof_area_m2":250,"collection_efficiency":0.85},"degradation":{"k":0.04,"service_years":-1}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAssess_MalformedBody(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/assess", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssessReport_ReturnsPDF(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/assess/report",
		`{"name":"smallholding","site":{"roof_area_m2":250,"collection_efficiency":0.85},"degradation":{"k":0.04,"service_years":25}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

// --- profiles ---

func TestProfilesDefault(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/api/v1/profiles/default", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rainfall []domain.MonthlyRain `json:"rainfall"`
		TotalMM  float64              `json:"total_mm"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rainfall, 12)
	assert.Equal(t, "Jan", body.Rainfall[0].Month)
	assert.InDelta(t, 1144.0, body.TotalMM, 1e-9)
}

func TestProfiles_ExportImportRoundTrip(t *testing.T) {
	srv := newTestServer(nil, nil)

	exportRec := doJSON(t, srv, http.MethodPost, "/api/v1/profiles/export", `{}`)
	require.Equal(t, http.StatusOK, exportRec.Code)
	assert.Contains(t, exportRec.Header().Get("Content-Type"), "spreadsheetml")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "profile.xlsx")
	require.NoError(t, err)
	_, err = part.Write(exportRec.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	importReq := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/import", &buf)
	importReq.Header.Set("Content-Type", mw.FormDataContentType())
	importRec := httptest.NewRecorder()
	srv.ServeHTTP(importRec, importReq)

	require.Equal(t, http.StatusOK, importRec.Code)

	var body struct {
		Rainfall []domain.MonthlyRain `json:"rainfall"`
		TotalMM  float64              `json:"total_mm"`
	}
	require.NoError(t, json.Unmarshal(importRec.Body.Bytes(), &body))
	assert.Equal(t, domain.DefaultProfile().Rows(), body.Rainfall)
	assert.InDelta(t, 1144.0, body.TotalMM, 1e-9)
}

func TestProfilesImport_MissingFile(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/profiles/import", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfilesExport_WrongShape(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/profiles/export",
		`{"rainfall":[{"month":"Jan","rainfall_mm":5}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// --- climatology ---

func TestClimatology_Disabled(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/api/v1/climatology?lat=44.8&lon=20.5", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestClimatology_Success(t *testing.T) {
	srv := newTestServer(nil, &fakeClimate{precipMM: 80})
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/climatology?lat=44.8&lon=20.5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Source   string               `json:"source"`
		Rainfall []domain.MonthlyRain `json:"rainfall"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fake", body.Source)
	require.Len(t, body.Rainfall, 12)
	assert.Equal(t, 80.0, body.Rainfall[6].RainfallMM)
}

func TestClimatology_MissingCoordinates(t *testing.T) {
	srv := newTestServer(nil, &fakeClimate{precipMM: 80})
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/climatology?lat=44.8", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClimatology_UpstreamFailure(t *testing.T) {
	srv := newTestServer(nil, &fakeClimate{err: errors.New("provider down")})
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/climatology?lat=44.8&lon=20.5", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// Exported-surface check: a report generated through the HTTP handler must be
// parseable by the same library that wrote it.
func TestProfilesExport_ParsesBack(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/profiles/export", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	table, err := report.ParseProfileWorkbook(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProfile(), table)
}
