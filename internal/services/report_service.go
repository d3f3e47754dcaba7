// Package services – ReportService
//
// This file implements the ReportService, which selects completed entries in
// a trailing day window and projects them into report rows with derived
// cost. Rendering the rows into chat text lives in internal/report; building
// the spreadsheet lives in internal/export.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/timebill/timebill-bot/internal/domain"
	"github.com/timebill/timebill-bot/internal/repo"
	"github.com/timebill/timebill-bot/internal/report"
)

// ReportRepo defines the repository contract required by ReportService.
type ReportRepo interface {
	// ListCompletedEntries returns completed entries started at or after
	// since, newest first, joined with project and client attributes.
	ListCompletedEntries(ctx context.Context, db *gorm.DB, userID int64, since time.Time) ([]repo.EntryRow, error)
}

// ExportWindowDays is the fixed trailing window of the /summary and /export
// commands.
const ExportWindowDays = 30

// ReportService loads completed entries for the reporting window.
type ReportService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the entry repository used by this service.
	Repo ReportRepo

	// Now returns the current wall-clock time; overridable in tests.
	Now func() time.Time
}

// NewReportService constructs a ReportService using the real clock.
func NewReportService(db *gorm.DB, r ReportRepo) *ReportService {
	return &ReportService{DB: db, Repo: r, Now: time.Now}
}

// Entries returns the account's completed entries whose start time falls in
// [now − windowDays, now], newest first, with cost derived as
// duration × hourly rate. Open entries are never included.
func (s *ReportService) Entries(ctx context.Context, userID int64, windowDays int) ([]report.Row, error) {
	since := s.Now().AddDate(0, 0, -windowDays)
	rows, err := s.Repo.ListCompletedEntries(ctx, s.DB, userID, since)
	if err != nil {
		return nil, err
	}
	out := make([]report.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, report.Row{
			Start:   r.StartTime,
			Client:  r.ClientName,
			Project: r.ProjectName,
			Task:    domain.TaskLabel(r.TaskType, r.Description),
			Hours:   r.Duration,
			Rate:    r.HourlyRate,
			Cost:    r.Duration * r.HourlyRate,
		})
	}
	return out, nil
}
