// Package export serializes the 30-day report rows into an Excel workbook
// for the /export command.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/timebill/timebill-bot/internal/report"
)

// SheetName is the single sheet holding the exported table.
const SheetName = "Time log"

// maxColWidth caps auto-sized column widths.
const maxColWidth = 50

// BuildWorkbook renders one data row per completed entry under the fixed
// header row, with column widths sized to content. It returns (nil, nil)
// when rows is empty: nothing to export is not an error, and the caller is
// expected to tell the user so.
func BuildWorkbook(rows []report.Row, currency string) (*excelize.File, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	headers := []string{
		"Date",
		"Start time",
		"Client",
		"Project",
		"Task",
		"Hours",
		fmt.Sprintf("Rate (%s/h)", currency),
		fmt.Sprintf("Cost (%s)", currency),
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	widths := make([]int, len(headers))
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
		widths[i] = len([]rune(h))
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for n, r := range rows {
		cells := []any{
			r.Start.Format("2006-01-02"),
			r.Start.Format("15:04"),
			r.Client,
			r.Project,
			r.Task,
			r.Hours,
			r.Rate,
			r.Cost,
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			f.Close()
			return nil, err
		}
		for i, v := range cells {
			if w := len([]rune(cellText(v))); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if w += 2; w > maxColWidth {
			w = maxColWidth
		}
		if err := f.SetColWidth(SheetName, col, col, float64(w)); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// Filename encodes the account id and generation timestamp, matching the
// caption users see on the delivered document.
func Filename(userID int64, now time.Time) string {
	return fmt.Sprintf("timebill_%d_%s.xlsx", userID, now.Format("20060102_150405"))
}

// cellText renders a cell value the way the sheet displays it, for width
// sizing.
func cellText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	default:
		return fmt.Sprint(x)
	}
}
