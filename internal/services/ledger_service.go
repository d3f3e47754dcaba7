// Package services – LedgerService
//
// This file implements the LedgerService, which manages clients and projects.
// It normalizes display names, validates hourly rates (accepting both '.'
// and ',' as decimal separators, since chat input arrives from locales using
// either), and coordinates repository operations. Duplicate names surface as
// ErrDuplicateClient / ErrDuplicateProject so the bot can warn instead of
// failing.
package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/timebill/timebill-bot/internal/domain"
	"github.com/timebill/timebill-bot/internal/repo"
)

// LedgerRepo defines the repository contract required by LedgerService.
// Implementations are responsible for persistence of clients and projects.
type LedgerRepo interface {
	// CreateClient inserts a new client row for the given account.
	CreateClient(ctx context.Context, db *gorm.DB, userID int64, name string) (*domain.Client, error)

	// ListClients returns the account's clients ordered by name.
	ListClients(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Client, error)

	// GetClient fetches a client by ID ensuring it belongs to the account.
	GetClient(ctx context.Context, db *gorm.DB, id uint, userID int64) (*domain.Client, error)

	// CreateProject inserts a new project row under a client.
	CreateProject(ctx context.Context, db *gorm.DB, userID int64, clientID uint, name string, hourlyRate float64) (*domain.Project, error)

	// ListProjects returns the account's projects joined with client names,
	// ordered by client name then project name.
	ListProjects(ctx context.Context, db *gorm.DB, userID int64) ([]repo.ProjectInfo, error)
}

// ProjectSummary is one project line inside a client group.
type ProjectSummary struct {
	Name       string
	HourlyRate float64
}

// ClientProjects groups an account's projects under their client, preserving
// the client-name-ascending order of the underlying query.
type ClientProjects struct {
	Client   string
	Projects []ProjectSummary
}

// LedgerService provides client and project management on top of a thin
// repository, enforcing name normalization and rate validation.
type LedgerService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the ledger repository used by this service.
	Repo LedgerRepo
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(db *gorm.DB, r LedgerRepo) *LedgerService {
	return &LedgerService{DB: db, Repo: r}
}

// CreateClient inserts a new client owned by userID. The name is trimmed and
// inner whitespace collapsed; a blank result returns ErrEmptyName and a
// per-account name collision returns ErrDuplicateClient.
func (s *LedgerService) CreateClient(ctx context.Context, userID int64, name string) (*domain.Client, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	c, err := s.Repo.CreateClient(ctx, s.DB, userID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateClient
		}
		return nil, err
	}
	return c, nil
}

// ListClients returns the account's clients ordered by name ascending.
func (s *LedgerService) ListClients(ctx context.Context, userID int64) ([]domain.Client, error) {
	return s.Repo.ListClients(ctx, s.DB, userID)
}

// CreateProject inserts a new project under clientID. The rate must be
// non-negative (zero means unpaid); the client must exist and belong to the
// account. A per-client name collision returns ErrDuplicateProject.
func (s *LedgerService) CreateProject(ctx context.Context, userID int64, clientID uint, name string, hourlyRate float64) (*domain.Project, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if hourlyRate < 0 || math.IsNaN(hourlyRate) || math.IsInf(hourlyRate, 0) {
		return nil, ErrInvalidRate
	}
	if _, err := s.Repo.GetClient(ctx, s.DB, clientID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	p, err := s.Repo.CreateProject(ctx, s.DB, userID, clientID, name, hourlyRate)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateProject
		}
		return nil, err
	}
	return p, nil
}

// ListProjects returns the account's projects joined with their client
// names, ordered by client name then project name.
func (s *LedgerService) ListProjects(ctx context.Context, userID int64) ([]repo.ProjectInfo, error) {
	return s.Repo.ListProjects(ctx, s.DB, userID)
}

// ProjectsByClient groups the account's projects by client, preserving the
// first-seen order of the client-name-ascending listing.
func (s *LedgerService) ProjectsByClient(ctx context.Context, userID int64) ([]ClientProjects, error) {
	infos, err := s.Repo.ListProjects(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	var groups []ClientProjects
	idx := make(map[string]int)
	for _, p := range infos {
		i, ok := idx[p.ClientName]
		if !ok {
			i = len(groups)
			idx[p.ClientName] = i
			groups = append(groups, ClientProjects{Client: p.ClientName})
		}
		groups[i].Projects = append(groups[i].Projects, ProjectSummary{
			Name:       p.ProjectName,
			HourlyRate: p.HourlyRate,
		})
	}
	return groups, nil
}

// ParseRate parses an hourly rate typed into the chat, accepting both '.'
// and ',' as the decimal separator. It returns ErrInvalidRate for anything
// unparseable, negative, NaN, or infinite.
func ParseRate(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil || rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, ErrInvalidRate
	}
	return rate, nil
}

// normalizeName trims whitespace and collapses multiple spaces to one.
func normalizeName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
