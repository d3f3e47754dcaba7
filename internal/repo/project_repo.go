// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Project
// model, including the client-joined listings used by the bot's keyboards
// and the /projects command.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/timebill/timebill-bot/internal/domain"
)

// ProjectInfo is a project row joined with its client's name, as shown in
// project pickers and the grouped project listing.
type ProjectInfo struct {
	ProjectID   uint    `json:"project_id"`
	ProjectName string  `json:"project_name"`
	HourlyRate  float64 `json:"hourly_rate"`
	ClientName  string  `json:"client_name"`
}

// CreateProject inserts a new Project row owned by userID under clientID.
// A duplicate (user_id, client_id, name) triple returns gorm.ErrDuplicatedKey.
// Rate validation is the caller's responsibility.
func CreateProject(ctx context.Context, db *gorm.DB, userID int64, clientID uint, name string, hourlyRate float64) (*domain.Project, error) {
	p := &domain.Project{
		UserID:     userID,
		ClientID:   clientID,
		Name:       name,
		HourlyRate: hourlyRate,
		CreatedAt:  time.Now(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns every project of userID joined with its client name,
// ordered by client name then project name. It returns an empty slice when
// the user has no projects.
func ListProjects(ctx context.Context, db *gorm.DB, userID int64) ([]ProjectInfo, error) {
	var out []ProjectInfo
	err := db.WithContext(ctx).
		Table("projects").
		Select("projects.id as project_id, projects.name as project_name, projects.hourly_rate, clients.name as client_name").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("projects.user_id = ?", userID).
		Order("clients.name asc, projects.name asc").
		Scan(&out).Error
	return out, err
}

// GetProjectInfo fetches one project of userID joined with its client name,
// or ErrNotFound.
func GetProjectInfo(ctx context.Context, db *gorm.DB, id uint, userID int64) (*ProjectInfo, error) {
	var info ProjectInfo
	err := db.WithContext(ctx).
		Table("projects").
		Select("projects.id as project_id, projects.name as project_name, projects.hourly_rate, clients.name as client_name").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("projects.id = ? AND projects.user_id = ?", id, userID).
		Take(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}
