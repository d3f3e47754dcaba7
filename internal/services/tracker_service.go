// Package services – TrackerService
//
// This file implements the TrackerService, the session state machine around
// the single-active-timer-per-account invariant. Start refuses to open a
// second entry, Stop closes the open entry and persists its duration in
// fractional hours, and Active is the read-only projection used by /status.
//
// The invariant is enforced twice: a read-then-insert check here for the
// friendly error path, and the ux_entry_active partial unique index in the
// store for the near-simultaneous-start race the check alone cannot close.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/timebill/timebill-bot/internal/domain"
	"github.com/timebill/timebill-bot/internal/repo"
)

// TrackerRepo defines the repository contract required by TrackerService.
type TrackerRepo interface {
	// GetActiveEntry returns the account's open entry joined with project
	// and client names, or repo.ErrNotFound.
	GetActiveEntry(ctx context.Context, db *gorm.DB, userID int64) (*repo.ActiveEntry, error)

	// CreateEntry inserts a new open entry.
	CreateEntry(ctx context.Context, db *gorm.DB, userID int64, projectID uint, taskType string, description *string, start time.Time) (*domain.TimeEntry, error)

	// CloseEntry writes end time and duration to an open entry.
	CloseEntry(ctx context.Context, db *gorm.DB, entryID uint, end time.Time, durationHours float64) error

	// GetProjectInfo fetches a project joined with its client name.
	GetProjectInfo(ctx context.Context, db *gorm.DB, id uint, userID int64) (*repo.ProjectInfo, error)
}

// ActiveWork describes the currently running session for display.
type ActiveWork struct {
	Client    string
	Project   string
	Task      domain.TaskCategory
	StartTime time.Time
	// Hours is elapsed time at the moment of the query; it is never persisted.
	Hours float64
}

// StartedWork confirms a freshly started session.
type StartedWork struct {
	Client    string
	Project   string
	Task      domain.TaskCategory
	StartTime time.Time
}

// StoppedWork is the human-facing result of closing a session.
type StoppedWork struct {
	Client  string
	Project string
	Task    domain.TaskCategory
	// Hours is the persisted duration in fractional hours.
	Hours float64
}

// TrackerService starts and stops work sessions and computes elapsed time.
type TrackerService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the entry repository used by this service.
	Repo TrackerRepo

	// Now returns the current wall-clock time; overridable in tests.
	Now func() time.Time
}

// NewTrackerService constructs a TrackerService using the real clock.
func NewTrackerService(db *gorm.DB, r TrackerRepo) *TrackerService {
	return &TrackerService{DB: db, Repo: r, Now: time.Now}
}

// Active returns the running session with elapsed hours computed against the
// current clock, or nil when no timer is running. The elapsed value is a
// read-only projection and is never written back.
func (s *TrackerService) Active(ctx context.Context, userID int64) (*ActiveWork, error) {
	row, err := s.Repo.GetActiveEntry(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ActiveWork{
		Client:    row.ClientName,
		Project:   row.ProjectName,
		Task:      taskOf(row.TaskType, row.Description),
		StartTime: row.StartTime,
		Hours:     s.elapsedHours(row.StartTime, s.Now()),
	}, nil
}

// Start opens a new session against projectID. If a timer is already running
// the store is left untouched and ErrTimerActive is returned; the caller is
// expected to surface the existing session's details (via Active) together
// with a pointer to /stop.
func (s *TrackerService) Start(ctx context.Context, userID int64, projectID uint, task domain.TaskCategory) (*StartedWork, error) {
	if task.Type == "" || (task.IsOther() && task.Description == "") {
		return nil, ErrTaskRequired
	}

	if _, err := s.Repo.GetActiveEntry(ctx, s.DB, userID); err == nil {
		return nil, ErrTimerActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	info, err := s.Repo.GetProjectInfo(ctx, s.DB, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	var desc *string
	if task.Description != "" {
		d := task.Description
		desc = &d
	}
	start := s.Now()
	if _, err := s.Repo.CreateEntry(ctx, s.DB, userID, projectID, task.Type, desc, start); err != nil {
		// Lost the race against a concurrent start; the partial index kept
		// the invariant.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTimerActive
		}
		return nil, err
	}
	return &StartedWork{
		Client:    info.ClientName,
		Project:   info.ProjectName,
		Task:      task,
		StartTime: start,
	}, nil
}

// Stop closes the running session, persisting end time and duration in one
// statement, and returns the session's human-facing fields. With no open
// entry it returns ErrNoActiveTimer.
func (s *TrackerService) Stop(ctx context.Context, userID int64) (*StoppedWork, error) {
	row, err := s.Repo.GetActiveEntry(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTimer
		}
		return nil, err
	}

	end := s.Now()
	hours := s.elapsedHours(row.StartTime, end)
	if err := s.Repo.CloseEntry(ctx, s.DB, row.EntryID, end, hours); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTimer
		}
		return nil, err
	}
	return &StoppedWork{
		Client:  row.ClientName,
		Project: row.ProjectName,
		Task:    taskOf(row.TaskType, row.Description),
		Hours:   hours,
	}, nil
}

// elapsedHours converts a start/end pair into fractional hours. A negative
// span (clock moved backwards between the two reads) clamps to zero.
func (s *TrackerService) elapsedHours(start, end time.Time) float64 {
	hours := end.Sub(start).Seconds() / 3600
	if hours < 0 {
		log.Warn().
			Time("start", start).
			Time("end", end).
			Msg("negative elapsed time, clamping to zero")
		return 0
	}
	return hours
}

func taskOf(taskType string, description *string) domain.TaskCategory {
	t := domain.TaskCategory{Type: taskType}
	if description != nil {
		t.Description = *description
	}
	return t
}
