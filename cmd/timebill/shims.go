package main

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/timebill/timebill-bot/internal/domain"
	"github.com/timebill/timebill-bot/internal/repo"
)

// The shims adapt the repository free functions to the interfaces the
// services expect, keeping the services decoupled from the concrete repo
// package while reusing its functions.

type ledgerRepoShim struct{}

func (ledgerRepoShim) CreateClient(ctx context.Context, db *gorm.DB, userID int64, name string) (*domain.Client, error) {
	return repo.CreateClient(ctx, db, userID, name)
}

func (ledgerRepoShim) ListClients(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Client, error) {
	return repo.ListClients(ctx, db, userID)
}

func (ledgerRepoShim) GetClient(ctx context.Context, db *gorm.DB, id uint, userID int64) (*domain.Client, error) {
	return repo.GetClient(ctx, db, id, userID)
}

func (ledgerRepoShim) CreateProject(ctx context.Context, db *gorm.DB, userID int64, clientID uint, name string, hourlyRate float64) (*domain.Project, error) {
	return repo.CreateProject(ctx, db, userID, clientID, name, hourlyRate)
}

func (ledgerRepoShim) ListProjects(ctx context.Context, db *gorm.DB, userID int64) ([]repo.ProjectInfo, error) {
	return repo.ListProjects(ctx, db, userID)
}

type trackerRepoShim struct{}

func (trackerRepoShim) GetActiveEntry(ctx context.Context, db *gorm.DB, userID int64) (*repo.ActiveEntry, error) {
	return repo.GetActiveEntry(ctx, db, userID)
}

func (trackerRepoShim) CreateEntry(ctx context.Context, db *gorm.DB, userID int64, projectID uint, taskType string, description *string, start time.Time) (*domain.TimeEntry, error) {
	return repo.CreateEntry(ctx, db, userID, projectID, taskType, description, start)
}

func (trackerRepoShim) CloseEntry(ctx context.Context, db *gorm.DB, entryID uint, end time.Time, durationHours float64) error {
	return repo.CloseEntry(ctx, db, entryID, end, durationHours)
}

func (trackerRepoShim) GetProjectInfo(ctx context.Context, db *gorm.DB, id uint, userID int64) (*repo.ProjectInfo, error) {
	return repo.GetProjectInfo(ctx, db, id, userID)
}

type reportRepoShim struct{}

func (reportRepoShim) ListCompletedEntries(ctx context.Context, db *gorm.DB, userID int64, since time.Time) ([]repo.EntryRow, error) {
	return repo.ListCompletedEntries(ctx, db, userID, since)
}
