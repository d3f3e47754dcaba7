package bot

import (
	"context"

	"github.com/timebill/timebill-bot/internal/domain"
	"github.com/timebill/timebill-bot/internal/repo"
	"github.com/timebill/timebill-bot/internal/report"
	"github.com/timebill/timebill-bot/internal/services"
)

// LedgerAPI is the slice of the ledger service the bot uses;
// *services.LedgerService satisfies it.
type LedgerAPI interface {
	CreateClient(ctx context.Context, userID int64, name string) (*domain.Client, error)
	ListClients(ctx context.Context, userID int64) ([]domain.Client, error)
	CreateProject(ctx context.Context, userID int64, clientID uint, name string, hourlyRate float64) (*domain.Project, error)
	ListProjects(ctx context.Context, userID int64) ([]repo.ProjectInfo, error)
	ProjectsByClient(ctx context.Context, userID int64) ([]services.ClientProjects, error)
}

// TrackerAPI is the slice of the tracker service the bot uses;
// *services.TrackerService satisfies it.
type TrackerAPI interface {
	Active(ctx context.Context, userID int64) (*services.ActiveWork, error)
	Start(ctx context.Context, userID int64, projectID uint, task domain.TaskCategory) (*services.StartedWork, error)
	Stop(ctx context.Context, userID int64) (*services.StoppedWork, error)
}

// ReportAPI is the slice of the report service the bot uses;
// *services.ReportService satisfies it.
type ReportAPI interface {
	Entries(ctx context.Context, userID int64, windowDays int) ([]report.Row, error)
}
