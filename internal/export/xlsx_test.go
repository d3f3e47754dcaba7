package export

import (
	"testing"
	"time"

	"github.com/timebill/timebill-bot/internal/report"
)

func TestBuildWorkbook_NilOnEmpty(t *testing.T) {
	f, err := BuildWorkbook(nil, "$")
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	if f != nil {
		t.Fatalf("expected nil workbook for empty input")
	}
}

func TestBuildWorkbook_HeaderAndRows(t *testing.T) {
	start := time.Date(2026, 8, 14, 9, 30, 0, 0, time.Local)
	rows := []report.Row{
		{Start: start, Client: "Acme", Project: "Audit", Task: "📚 Research", Hours: 1.5, Rate: 1500, Cost: 2250},
		{Start: start.Add(4 * time.Hour), Client: "Beta LLC", Project: "Merger", Task: "⚖️ Hearing", Hours: 2, Rate: 2000, Cost: 4000},
	}
	f, err := BuildWorkbook(rows, "€")
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(got))
	}

	wantHeader := []string{"Date", "Start time", "Client", "Project", "Task", "Hours", "Rate (€/h)", "Cost (€)"}
	for i, h := range wantHeader {
		if got[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, got[0][i], h)
		}
	}

	if got[1][0] != "2026-08-14" || got[1][1] != "09:30" {
		t.Errorf("date/time split = %q %q", got[1][0], got[1][1])
	}
	if got[1][2] != "Acme" || got[1][4] != "📚 Research" {
		t.Errorf("row 1 = %v", got[1])
	}
	if got[2][1] != "13:30" || got[2][3] != "Merger" {
		t.Errorf("row 2 = %v", got[2])
	}
}

func TestBuildWorkbook_ColumnWidthsCapped(t *testing.T) {
	long := make([]rune, 0, 80)
	for i := 0; i < 80; i++ {
		long = append(long, 'x')
	}
	rows := []report.Row{{Start: time.Now(), Client: string(long), Project: "P", Task: "📚 Research", Hours: 1, Rate: 1, Cost: 1}}
	f, err := BuildWorkbook(rows, "$")
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	defer f.Close()

	w, err := f.GetColWidth(SheetName, "C")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if w != 50 {
		t.Fatalf("client column width = %v, want capped at 50", w)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 4, 5, 0, time.Local)
	if got := Filename(42, now); got != "timebill_42_20260831_150405.xlsx" {
		t.Fatalf("Filename = %q", got)
	}
}
