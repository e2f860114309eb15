// Package report renders daily summaries as an XLSX workbook.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

const (
	SheetSummaries = "Daily Summaries"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
)

var SummaryHeader = []string{
	"Date",
	"Readings",
	"Average Score",
	"Highest Score",
	"Lowest Score",
	"Alerts",
	"Dominant Risk",
	"Low",
	"Moderate",
	"High",
	"Critical",
	"Key Factors",
	"First Reading",
	"Last Reading",
	"Sealed",
}

var columnWidths = []float64{12, 10, 14, 14, 14, 8, 14, 8, 10, 8, 10, 60, 20, 20, 8}

// Summaries writes one row per summary, in the order given, under a frozen
// header row.
func Summaries(deviceID string, summaries []models.DailySummary) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetSummaries)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Daily summaries " + deviceID,
		Subject: deviceID,
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set doc props: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(SummaryHeader))
	for i, h := range SummaryHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetSummaries, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(SummaryHeader), 1)
	if err := f.SetCellStyle(SheetSummaries, "A1", last, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, w := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetSummaries, col, col, w); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, s := range summaries {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := summaryRow(s)
		if err := f.SetSheetRow(SheetSummaries, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetSummaries, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryRow(s models.DailySummary) []any {
	sealed := "No"
	if s.Sealed {
		sealed = "Yes"
	}
	return []any{
		s.Date,
		s.ReadingCount,
		s.AverageScore,
		s.HighestScore,
		s.LowestScore,
		s.AlertCount,
		string(s.DominantRiskLevel),
		s.LevelCounts[models.RiskLevelLow],
		s.LevelCounts[models.RiskLevelModerate],
		s.LevelCounts[models.RiskLevelHigh],
		s.LevelCounts[models.RiskLevelCritical],
		strings.Join(s.KeyFactors, "; "),
		formatTime(s.FirstReadingAt),
		formatTime(s.LastReadingAt),
		sealed,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
