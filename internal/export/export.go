// Package export writes plans to Excel workbooks.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/cyclefit/internal/cycle"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/tracker"
)

const (
	SheetPlan    = "Plan"
	SheetSummary = "Summary"
)

var planHeaders = []string{"Day", "Date", "Exercise", "Unit", "Target", "Completed", "Equipment", "Description", "Feedback"}

var summaryHeaders = []string{"Day", "Date", "Exercises", "Completion"}

// Build renders plan into a new workbook. The caller owns the returned file
// and must close it.
func Build(plan models.Plan) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetPlan); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name plan sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}

	if err := writePlanSheet(f, plan); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, plan); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WritePlan saves plan as an .xlsx workbook at path. The plan is not modified.
func WritePlan(path string, plan models.Plan) error {
	f, err := Build(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writePlanSheet(f *excelize.File, plan models.Plan) error {
	if err := writeHeaders(f, SheetPlan, planHeaders); err != nil {
		return fmt.Errorf("failed to write plan headers: %w", err)
	}

	row := 2
	for i, day := range plan.Days {
		date, err := plan.DateForDay(i)
		if err != nil {
			return err
		}
		for j, ex := range day.Exercises {
			feedback := ""
			if j == 0 {
				feedback = day.Feedback
			}
			values := []any{
				i + 1,
				date,
				ex.Name,
				string(ex.Unit),
				ex.Target,
				ex.Completed,
				strings.Join(ex.RequiredEquipment, ", "),
				ex.Description,
				feedback,
			}
			if err := setRow(f, SheetPlan, row, values); err != nil {
				return fmt.Errorf("failed to write day %d: %w", i, err)
			}
			row++
		}
	}

	widths := map[string]float64{"A": 6, "B": 12, "C": 34, "D": 8, "E": 8, "F": 10, "G": 18, "H": 50, "I": 24}
	for col, w := range widths {
		if err := f.SetColWidth(SheetPlan, col, col, w); err != nil {
			return err
		}
	}
	return f.SetPanes(SheetPlan, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummarySheet(f *excelize.File, plan models.Plan) error {
	if err := writeHeaders(f, SheetSummary, summaryHeaders); err != nil {
		return fmt.Errorf("failed to write summary headers: %w", err)
	}

	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return err
	}

	for i, day := range plan.Days {
		date, err := plan.DateForDay(i)
		if err != nil {
			return err
		}
		row := i + 2
		if err := setRow(f, SheetSummary, row, []any{i + 1, date, len(day.Exercises), tracker.CompletionRatio(day)}); err != nil {
			return fmt.Errorf("failed to write summary for day %d: %w", i, err)
		}
	}

	footer := len(plan.Days) + 3
	rows := []struct {
		label string
		value any
	}{
		{"Plan", plan.ID},
		{"Period", plan.StartDate + " .. " + plan.EndDate},
		{"Difficulty", plan.Difficulty},
		{"Average completion", cycle.AverageCompletion(plan)},
	}
	for i, r := range rows {
		if err := setRow(f, SheetSummary, footer+i, []any{r.label, r.value}); err != nil {
			return err
		}
	}

	lastDay := fmt.Sprintf("D%d", len(plan.Days)+1)
	if err := f.SetCellStyle(SheetSummary, "D2", lastDay, percent); err != nil {
		return err
	}
	avgCell := fmt.Sprintf("B%d", footer+len(rows)-1)
	if err := f.SetCellStyle(SheetSummary, avgCell, avgCell, percent); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetSummary, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "B", "B", 26)
}
