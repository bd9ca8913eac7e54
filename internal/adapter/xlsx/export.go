// Package xlsx writes assignment schedules to Excel workbooks for review.
package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// SheetName is the worksheet the schedule is written to.
const SheetName = "Assignments"

// Day is one date of a schedule.
type Day struct {
	Date        time.Time
	Existing    bool
	Assignments []domain.DailyAssignment
}

// ExportAssignments writes days to a new workbook at path.
func ExportAssignments(path string, days []Day) error {
	f, err := build(days)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// WriteAssignments writes days as a workbook to w.
func WriteAssignments(w io.Writer, days []Day) error {
	f, err := build(days)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func build(days []Day) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	options := 0
	for _, d := range days {
		for _, a := range d.Assignments {
			options = max(options, len(a.Quiz.Options))
		}
	}

	header := []any{"Date", "Tier", "Slot", "Word", "Correct answer"}
	for i := range options {
		header = append(header, fmt.Sprintf("Option %d", i+1))
	}
	header = append(header, "Status")

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := styleHeader(f, len(header)); err != nil {
		f.Close()
		return nil, err
	}

	row := 2
	for _, d := range days {
		status := "new"
		if d.Existing {
			status = "existing"
		}
		for _, a := range d.Assignments {
			values := []any{d.Date.Format(domain.DateLayout), a.Tier.String(), a.Slot + 1, a.Word, a.Quiz.CorrectIndex + 1}
			for i := range options {
				if i < len(a.Quiz.Options) {
					values = append(values, a.Quiz.Options[i])
				} else {
					values = append(values, "")
				}
			}
			values = append(values, status)

			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}
	return f, nil
}

func styleHeader(f *excelize.File, cols int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "D", lastCol, 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}
