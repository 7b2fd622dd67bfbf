package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/hydroplan/rainharvest/internal/domain"
	"github.com/hydroplan/rainharvest/internal/report"
)

const maxImportBytes = 5 << 20 // 5 MiB cap on uploaded workbooks

type harvestRequest struct {
	Site     domain.SiteConfig    `json:"site"`
	Rainfall []domain.MonthlyRain `json:"rainfall,omitempty"`
}

type harvestResponse struct {
	Rainfall       domain.RainfallTable `json:"rainfall"`
	RainfallSource string               `json:"rainfall_source"`
	Harvest        domain.HarvestResult `json:"harvest"`
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	var req harvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	table, source, err := s.resolveRainfall(req.Rainfall)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, harvestResponse{
		Rainfall:       table,
		RainfallSource: source,
		Harvest:        domain.ComputeHarvest(table, req.Site),
	})
}

type integrityRequest struct {
	Degradation domain.DegradationConfig `json:"degradation"`
	Rainfall    []domain.MonthlyRain     `json:"rainfall,omitempty"`
}

type integrityResponse struct {
	RainfallSource string                  `json:"rainfall_source"`
	Integrity      []domain.IntegrityPoint `json:"integrity"`
}

func (s *Server) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	var req integrityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	table, source, err := s.resolveRainfall(req.Rainfall)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	points, err := domain.ProjectIntegrity(table, req.Degradation)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, integrityResponse{RainfallSource: source, Integrity: points})
}

type tankFitRequest struct {
	AnnualLiters float64          `json:"annual_liters"`
	TankBand     *domain.TankBand `json:"tank_band,omitempty"`
}

type tankFitResponse struct {
	TankBand domain.TankBand `json:"tank_band"`
	TankFit  domain.TankFit  `json:"tank_fit"`
}

func (s *Server) handleTankFit(w http.ResponseWriter, r *http.Request) {
	var req tankFitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	band := s.band
	if req.TankBand != nil {
		band = *req.TankBand
	}

	writeJSON(w, http.StatusOK, tankFitResponse{
		TankBand: band,
		TankFit:  domain.ClassifyTankFit(req.AnnualLiters, band),
	})
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	assessment, ok := s.assessFromRequest(w, r)
	if !ok {
		return
	}
	s.metrics.ScenariosEvaluated.Inc()
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleAssessReport(w http.ResponseWriter, r *http.Request) {
	assessment, ok := s.assessFromRequest(w, r)
	if !ok {
		return
	}
	s.metrics.ScenariosEvaluated.Inc()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", assessment.ID+".pdf"))
	if err := report.WriteAssessmentPDF(w, assessment); err != nil {
		s.logger.Error("render assessment report failed", "error", err, "scenario_id", assessment.ID)
	}
}

// assessFromRequest parses, seeds, and evaluates a scenario request. It
// writes the error response and returns false when the scenario is rejected.
func (s *Server) assessFromRequest(w http.ResponseWriter, r *http.Request) (domain.Assessment, bool) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return domain.Assessment{}, false
	}

	req, err := domain.ParseScenario(domain.RawScenario{Value: body})
	if err != nil {
		if errors.Is(err, domain.ErrShapeMismatch) {
			writeError(w, http.StatusUnprocessableEntity, err)
		} else {
			writeError(w, http.StatusBadRequest, err)
		}
		s.metrics.ScenarioFailures.Inc()
		return domain.Assessment{}, false
	}

	if req.TankBand == nil {
		req.TankBand = &s.band
	}

	table, source := domain.SeedRainfall(r.Context(), req, s.climate, s.logger)
	assessment, err := domain.EvaluateScenario(req, table, source)
	if err != nil {
		s.writeDomainError(w, err)
		s.metrics.ScenarioFailures.Inc()
		return domain.Assessment{}, false
	}
	return assessment, true
}

func (s *Server) handleDefaultProfile(w http.ResponseWriter, _ *http.Request) {
	table := domain.DefaultProfile()
	writeJSON(w, http.StatusOK, map[string]any{
		"rainfall": table.Rows(),
		"total_mm": table.TotalMM(),
	})
}

func (s *Server) handleProfileImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("workbook file required: %w", err))
		return
	}
	defer file.Close()

	table, err := report.ParseProfileWorkbook(file)
	if err != nil {
		if errors.Is(err, domain.ErrShapeMismatch) {
			writeError(w, http.StatusUnprocessableEntity, err)
		} else {
			writeError(w, http.StatusBadRequest, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rainfall": table.Rows(),
		"total_mm": table.TotalMM(),
	})
}

type profileExportRequest struct {
	Rainfall []domain.MonthlyRain `json:"rainfall"`
}

func (s *Server) handleProfileExport(w http.ResponseWriter, r *http.Request) {
	var req profileExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	table := domain.DefaultProfile()
	if len(req.Rainfall) > 0 {
		var err error
		table, err = domain.NewRainfallTable(req.Rainfall)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="rainfall-profile.xlsx"`)
	if err := report.WriteProfileWorkbook(w, table); err != nil {
		s.logger.Error("write profile workbook failed", "error", err)
	}
}

func (s *Server) handleClimatology(w http.ResponseWriter, r *http.Request) {
	if s.climate == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("climatology lookups are disabled"))
		return
	}

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, errors.New("lat and lon query parameters are required"))
		return
	}

	result, err := s.climate.MonthlyNormals(r.Context(), lat, lon)
	if err != nil {
		s.logger.Warn("climatology lookup failed", "error", err, "lat", lat, "lon", lon)
		writeError(w, http.StatusBadGateway, errors.New("climatology lookup failed"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source":   result.Source,
		"rainfall": domain.TableFromClimatology(result).Rows(),
	})
}

// writeDomainError maps domain validation failures to 422 and everything
// else to 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrShapeMismatch) || errors.Is(err, domain.ErrInvalidHorizon) {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return body, nil
}

// resolveRainfall builds a table from explicit monthly rows, falling back to
// the bundled default profile when none are provided.
func (s *Server) resolveRainfall(rows []domain.MonthlyRain) (domain.RainfallTable, string, error) {
	if len(rows) == 0 {
		return domain.DefaultProfile(), domain.RainfallSourceDefault, nil
	}
	table, err := domain.NewRainfallTable(rows)
	if err != nil {
		return domain.RainfallTable{}, "", err
	}
	return table, domain.RainfallSourceRequest, nil
}
