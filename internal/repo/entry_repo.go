// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the TimeEntry
// model: opening and closing work sessions and selecting the completed
// entries that feed reports and exports.
//
// Error semantics:
//   - GetActiveEntry returns ErrNotFound when no entry is open.
//   - CreateEntry returns gorm.ErrDuplicatedKey when a second open entry
//     would violate the ux_entry_active partial index.
//   - On other DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/timebill/timebill-bot/internal/domain"
)

// ActiveEntry is the open entry of an account joined with its project and
// client names, as surfaced by /status and the start-work guard.
type ActiveEntry struct {
	EntryID     uint      `json:"entry_id"`
	TaskType    string    `json:"task_type"`
	Description *string   `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	ProjectName string    `json:"project_name"`
	ClientName  string    `json:"client_name"`
}

// EntryRow is one completed entry joined with project and client attributes,
// the raw material of reports and the spreadsheet export.
type EntryRow struct {
	StartTime   time.Time `json:"start_time"`
	ClientName  string    `json:"client_name"`
	ProjectName string    `json:"project_name"`
	TaskType    string    `json:"task_type"`
	Description *string   `json:"description,omitempty"`
	Duration    float64   `json:"duration"`
	HourlyRate  float64   `json:"hourly_rate"`
}

// CreateEntry inserts a new open TimeEntry (nil end time, nil duration)
// started at start.
func CreateEntry(ctx context.Context, db *gorm.DB, userID int64, projectID uint, taskType string, description *string, start time.Time) (*domain.TimeEntry, error) {
	e := &domain.TimeEntry{
		UserID:      userID,
		ProjectID:   projectID,
		TaskType:    taskType,
		Description: description,
		StartTime:   start,
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// GetActiveEntry returns the single open entry of userID joined with its
// project and client names, or ErrNotFound when none is open. At most one
// row can match by the ux_entry_active index.
func GetActiveEntry(ctx context.Context, db *gorm.DB, userID int64) (*ActiveEntry, error) {
	var row ActiveEntry
	err := db.WithContext(ctx).
		Table("time_entries").
		Select("time_entries.id as entry_id, time_entries.task_type, time_entries.description, time_entries.start_time, projects.name as project_name, clients.name as client_name").
		Joins("JOIN projects ON projects.id = time_entries.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("time_entries.user_id = ? AND time_entries.end_time IS NULL", userID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CloseEntry writes end time and duration to an open entry in a single
// statement. It returns ErrNotFound when the entry does not exist or was
// already closed, so a double stop cannot overwrite a recorded duration.
func CloseEntry(ctx context.Context, db *gorm.DB, entryID uint, end time.Time, durationHours float64) error {
	res := db.WithContext(ctx).
		Model(&domain.TimeEntry{}).
		Where("id = ? AND end_time IS NULL", entryID).
		Updates(map[string]any{
			"end_time": end,
			"duration": durationHours,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCompletedEntries returns the completed entries of userID whose start
// time falls at or after since, joined with project and client attributes
// and ordered by start time descending.
func ListCompletedEntries(ctx context.Context, db *gorm.DB, userID int64, since time.Time) ([]EntryRow, error) {
	var out []EntryRow
	err := db.WithContext(ctx).
		Table("time_entries").
		Select("time_entries.start_time, clients.name as client_name, projects.name as project_name, time_entries.task_type, time_entries.description, time_entries.duration, projects.hourly_rate").
		Joins("JOIN projects ON projects.id = time_entries.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("time_entries.user_id = ? AND time_entries.end_time IS NOT NULL AND time_entries.start_time >= ?", userID, since).
		Order("time_entries.start_time desc").
		Scan(&out).Error
	return out, err
}

// CountEntries returns the number of time entries owned by userID,
// open or closed.
func CountEntries(ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.TimeEntry{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}
