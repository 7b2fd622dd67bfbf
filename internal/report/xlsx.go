package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hydroplan/rainharvest/internal/domain"
)

const profileSheet = "Rainfall"

// WriteProfileWorkbook writes a rainfall profile as an xlsx workbook with a
// Month | Rainfall_mm | Rainy_Days sheet.
func WriteProfileWorkbook(w io.Writer, table domain.RainfallTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", profileSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(profileSheet, "A1", &[]interface{}{"Month", "Rainfall_mm", "Rainy_Days"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, m := range table.Rows() {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(profileSheet, cell, &[]interface{}{m.Month, m.RainfallMM, m.RainyDays}); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return f.Write(w)
}

// ParseProfileWorkbook reads a rainfall profile from the first sheet of an
// xlsx workbook. The sheet must carry a header row followed by exactly twelve
// monthly rows; the Rainy_Days column is optional.
func ParseProfileWorkbook(r io.Reader) (domain.RainfallTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.RainfallTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.RainfallTable{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return domain.RainfallTable{}, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	monthly := make([]domain.MonthlyRain, 0, len(rows)-1)
	for i, row := range rows[1:] {
		m, err := parseProfileRow(row)
		if err != nil {
			return domain.RainfallTable{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		monthly = append(monthly, m)
	}
	return domain.NewRainfallTable(monthly)
}

func parseProfileRow(row []string) (domain.MonthlyRain, error) {
	if len(row) < 2 {
		return domain.MonthlyRain{}, fmt.Errorf("expected at least month and rainfall columns, got %d", len(row))
	}

	rainfall, err := toFloat(row[1])
	if err != nil {
		return domain.MonthlyRain{}, fmt.Errorf("rainfall: %w", err)
	}

	m := domain.MonthlyRain{
		Month:      strings.TrimSpace(row[0]),
		RainfallMM: rainfall,
	}
	if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
		days, err := toFloat(row[2])
		if err != nil {
			return domain.MonthlyRain{}, fmt.Errorf("rainy days: %w", err)
		}
		m.RainyDays = days
	}
	return m, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
