// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Client
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a client is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - A (user_id, name) collision surfaces as gorm.ErrDuplicatedKey via the
//     driver's error translation.
//   - On other DB errors, the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.LedgerService) which enforces input normalization and maps
// errors to user-facing sentinels.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/timebill/timebill-bot/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateClient inserts a new Client row owned by userID with the given name.
// CreatedAt is set to the current wall-clock time.
//
// On success, it returns the persisted Client. A duplicate (user_id, name)
// pair returns gorm.ErrDuplicatedKey.
func CreateClient(ctx context.Context, db *gorm.DB, userID int64, name string) (*domain.Client, error) {
	c := &domain.Client{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListClients returns all clients belonging to userID, ordered by name
// ascending. It returns an empty slice if the user has no clients.
func ListClients(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Client, error) {
	var out []domain.Client
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// GetClient fetches a single client by its ID and owner (userID). If the
// record does not exist, it returns ErrNotFound.
func GetClient(ctx context.Context, db *gorm.DB, id uint, userID int64) (*domain.Client, error) {
	var c domain.Client
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
