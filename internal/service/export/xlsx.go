package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	dialog "github.com/Batoli19/cavista/internal/model/dialog"
)

// XlsxWriter renders research as a workbook: a data sheet with labelled
// values, a bar chart when enough numeric points exist, and a summary sheet.
type XlsxWriter struct{}

const dataSheet = "Data"

func (XlsxWriter) Write(path string, research *dialog.Research) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}

	f.SetCellValue(dataSheet, "A1", "Label")
	f.SetCellValue(dataSheet, "B1", "Value")
	for i, dp := range research.DataPoints {
		row := i + 2
		f.SetCellValue(dataSheet, fmt.Sprintf("A%d", row), dp.Label)
		f.SetCellValue(dataSheet, fmt.Sprintf("B%d", row), dp.Value)
	}

	if len(research.DataPoints) >= 2 {
		lastRow := len(research.DataPoints) + 1
		err := f.AddChart(dataSheet, "D2", &excelize.Chart{
			Type: excelize.Bar,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$B$1", dataSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, lastRow),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", dataSheet, lastRow),
			}},
			Title: []excelize.RichTextRun{{Text: firstNonEmptyString(research.Topic, "Report")}},
		})
		if err != nil {
			return fmt.Errorf("add chart: %w", err)
		}
	}

	if err := writeSummarySheet(f, research); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, research *dialog.Research) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Topic")
	f.SetCellValue(sheet, "B1", research.Topic)
	f.SetCellValue(sheet, "A2", "Summary")
	f.SetCellValue(sheet, "B2", research.Summary)

	row := 4
	if len(research.KeyPoints) > 0 {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Key Points")
		for _, point := range research.KeyPoints {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), point)
			row++
		}
		row++
	}

	if len(research.Sources) > 0 {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Sources")
		for _, src := range research.Sources {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), src.Title)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), src.URL)
			row++
		}
	}
	return nil
}
