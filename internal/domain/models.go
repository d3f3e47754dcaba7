// Package domain defines the persistence models for clients, projects, and
// time entries. These types are mapped with GORM and form the core data
// layer of the time-tracking bot.
package domain

import (
	"time"
)

// Client represents a billable customer owned by a single bot account.
// Clients are created once and never edited; projects hang off them.
//
// Fields:
//   - ID: auto-increment primary key.
//   - UserID: Telegram account that owns the client; part of the
//     per-account name uniqueness index.
//   - Name: display name, unique per account.
//   - CreatedAt: timestamp managed by GORM.
type Client struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	UserID    int64     `json:"user_id"    gorm:"not null;uniqueIndex:ux_client_user_name,priority:1"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null;uniqueIndex:ux_client_user_name,priority:2"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Client.
func (Client) TableName() string { return "clients" }

// Project represents a billable engagement for a client. The hourly rate is
// captured at creation time; zero means unpaid work.
//
// Fields:
//   - ID: auto-increment primary key.
//   - UserID: owning account; scopes every query.
//   - ClientID: foreign key to the owning client (cascade delete).
//   - Name: display name, unique per account+client.
//   - HourlyRate: non-negative; 0 means unpaid.
//   - CreatedAt: timestamp managed by GORM.
type Project struct {
	ID         uint      `json:"id"          gorm:"primaryKey"`
	UserID     int64     `json:"user_id"     gorm:"not null;index;uniqueIndex:ux_project_user_client_name,priority:1"`
	ClientID   uint      `json:"client_id"   gorm:"not null;uniqueIndex:ux_project_user_client_name,priority:2"`
	Name       string    `json:"name"        gorm:"type:varchar(255);not null;uniqueIndex:ux_project_user_client_name,priority:3"`
	HourlyRate float64   `json:"hourly_rate" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`

	// Client is the parent customer. Projects are cascade-deleted if their
	// client is removed.
	Client Client `json:"-" gorm:"foreignKey:ClientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Project.
func (Project) TableName() string { return "projects" }

// TimeEntry represents one timed work session against a project. An entry
// with a nil EndTime is "active"; at most one active entry may exist per
// account at any instant. Duration is written exactly once, together with
// EndTime, and holds fractional hours.
//
// Fields:
//   - ID: auto-increment primary key.
//   - UserID: owning account.
//   - ProjectID: foreign key to the project worked on (cascade delete).
//   - TaskType: task-category label, see TaskCategory.
//   - Description: optional free text; always set for "Other" tasks.
//   - StartTime: wall-clock start.
//   - EndTime: nil while the timer runs.
//   - Duration: fractional hours, nil while the timer runs.
type TimeEntry struct {
	ID          uint       `json:"id"          gorm:"primaryKey"`
	UserID      int64      `json:"user_id"     gorm:"not null;index"`
	ProjectID   uint       `json:"project_id"  gorm:"not null;index"`
	TaskType    string     `json:"task_type"   gorm:"type:varchar(64);not null"`
	Description *string    `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"  gorm:"not null"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    *float64   `json:"duration,omitempty"` // hours, set once at stop

	// Project is the engagement this entry bills against. Entries are
	// cascade-deleted if the project is removed.
	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for TimeEntry.
func (TimeEntry) TableName() string { return "time_entries" }

// Active reports whether the entry is still running.
func (e *TimeEntry) Active() bool { return e.EndTime == nil }
