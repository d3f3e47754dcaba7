package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/timebill/timebill-bot/internal/domain"
)

// newTestDB opens a fully migrated sqlite database in a temp dir, going
// through OpenSQLite so the PRAGMAs, error translation and the partial
// active-entry index all apply.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func mustClient(t *testing.T, db *gorm.DB, userID int64, name string) *domain.Client {
	t.Helper()
	c, err := CreateClient(context.Background(), db, userID, name)
	if err != nil {
		t.Fatalf("CreateClient(%q): %v", name, err)
	}
	return c
}

func mustProject(t *testing.T, db *gorm.DB, userID int64, clientID uint, name string, rate float64) *domain.Project {
	t.Helper()
	p, err := CreateProject(context.Background(), db, userID, clientID, name, rate)
	if err != nil {
		t.Fatalf("CreateProject(%q): %v", name, err)
	}
	return p
}

func TestCreateClient_DuplicatePerAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustClient(t, db, 1, "Acme")

	if _, err := CreateClient(ctx, db, 1, "Acme"); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}

	var count int64
	if err := db.Model(&domain.Client{}).Where("name = ?", "Acme").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one Acme row, got %d", count)
	}

	// Same name under another account is fine.
	if _, err := CreateClient(ctx, db, 2, "Acme"); err != nil {
		t.Fatalf("same name, other account: %v", err)
	}
}

func TestListClients_OrderedByName_ScopedByAccount(t *testing.T) {
	db := newTestDB(t)

	mustClient(t, db, 1, "Zeta")
	mustClient(t, db, 1, "Acme")
	mustClient(t, db, 2, "Other")

	clients, err := ListClients(context.Background(), db, 1)
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(clients))
	}
	if clients[0].Name != "Acme" || clients[1].Name != "Zeta" {
		t.Fatalf("wrong order: %q, %q", clients[0].Name, clients[1].Name)
	}
}

func TestCreateProject_DuplicatePerClient(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acme := mustClient(t, db, 1, "Acme")
	beta := mustClient(t, db, 1, "Beta")

	mustProject(t, db, 1, acme.ID, "Audit", 1500)

	if _, err := CreateProject(ctx, db, 1, acme.ID, "Audit", 1500); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
	// Same project name under another client is fine.
	if _, err := CreateProject(ctx, db, 1, beta.ID, "Audit", 0); err != nil {
		t.Fatalf("same name, other client: %v", err)
	}
}

func TestListProjects_JoinsClientName_Ordered(t *testing.T) {
	db := newTestDB(t)

	zeta := mustClient(t, db, 1, "Zeta")
	acme := mustClient(t, db, 1, "Acme")
	mustProject(t, db, 1, zeta.ID, "Filing", 0)
	mustProject(t, db, 1, acme.ID, "Litigation", 2000)
	mustProject(t, db, 1, acme.ID, "Audit", 1500)

	infos, err := ListProjects(context.Background(), db, 1)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(infos))
	}
	want := []struct {
		client, project string
		rate            float64
	}{
		{"Acme", "Audit", 1500},
		{"Acme", "Litigation", 2000},
		{"Zeta", "Filing", 0},
	}
	for i, w := range want {
		got := infos[i]
		if got.ClientName != w.client || got.ProjectName != w.project || got.HourlyRate != w.rate {
			t.Fatalf("row %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestGetProjectInfo_NotFoundForOtherAccount(t *testing.T) {
	db := newTestDB(t)

	acme := mustClient(t, db, 1, "Acme")
	p := mustProject(t, db, 1, acme.ID, "Audit", 1500)

	if _, err := GetProjectInfo(context.Background(), db, p.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveEntry_SingletonPerAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acme := mustClient(t, db, 1, "Acme")
	p := mustProject(t, db, 1, acme.ID, "Audit", 1500)

	start := time.Now().Add(-time.Hour)
	if _, err := CreateEntry(ctx, db, 1, p.ID, "💬 Consultation", nil, start); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	// A second open entry for the same account violates the partial index.
	if _, err := CreateEntry(ctx, db, 1, p.ID, "📚 Research", nil, time.Now()); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey for second open entry, got %v", err)
	}
	// Another account is unaffected.
	other := mustClient(t, db, 2, "Acme")
	po := mustProject(t, db, 2, other.ID, "Audit", 0)
	if _, err := CreateEntry(ctx, db, 2, po.ID, "📚 Research", nil, time.Now()); err != nil {
		t.Fatalf("open entry for other account: %v", err)
	}

	active, err := GetActiveEntry(ctx, db, 1)
	if err != nil {
		t.Fatalf("GetActiveEntry: %v", err)
	}
	if active.ClientName != "Acme" || active.ProjectName != "Audit" || active.TaskType != "💬 Consultation" {
		t.Fatalf("unexpected active entry: %+v", active)
	}
}

func TestCloseEntry_PersistsDurationOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acme := mustClient(t, db, 1, "Acme")
	p := mustProject(t, db, 1, acme.ID, "Audit", 1000)

	start := time.Now().Add(-90 * time.Minute)
	e, err := CreateEntry(ctx, db, 1, p.ID, "💬 Consultation", nil, start)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	end := start.Add(5400 * time.Second)
	if err := CloseEntry(ctx, db, e.ID, end, 1.5); err != nil {
		t.Fatalf("CloseEntry: %v", err)
	}

	if _, err := GetActiveEntry(ctx, db, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no active entry after close, got %v", err)
	}

	var stored domain.TimeEntry
	if err := db.First(&stored, e.ID).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if stored.EndTime == nil || stored.Duration == nil {
		t.Fatalf("end/duration not persisted: %+v", stored)
	}
	if *stored.Duration != 1.5 {
		t.Fatalf("duration = %v, want 1.5", *stored.Duration)
	}

	// A second close must not overwrite the recorded duration.
	if err := CloseEntry(ctx, db, e.ID, end.Add(time.Hour), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double close, got %v", err)
	}
}

func TestListCompletedEntries_WindowAndOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acme := mustClient(t, db, 1, "Acme")
	p := mustProject(t, db, 1, acme.ID, "Audit", 1500)

	now := time.Now()
	addClosed := func(start time.Time, hours float64) {
		t.Helper()
		e, err := CreateEntry(ctx, db, 1, p.ID, "📚 Research", nil, start)
		if err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
		if err := CloseEntry(ctx, db, e.ID, start.Add(time.Duration(hours*float64(time.Hour))), hours); err != nil {
			t.Fatalf("CloseEntry: %v", err)
		}
	}

	addClosed(now.Add(-40*24*time.Hour), 2)  // outside the window
	addClosed(now.Add(-2*24*time.Hour), 1)   // inside, older
	addClosed(now.Add(-1*time.Hour), 0.5)    // inside, newest

	// An open entry is never reported.
	if _, err := CreateEntry(ctx, db, 1, p.ID, "💬 Consultation", nil, now); err != nil {
		t.Fatalf("CreateEntry(open): %v", err)
	}

	rows, err := ListCompletedEntries(ctx, db, 1, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("ListCompletedEntries: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows in window, got %d", len(rows))
	}
	if rows[0].Duration != 0.5 || rows[1].Duration != 1 {
		t.Fatalf("wrong order (want newest first): %+v", rows)
	}
	if rows[0].ClientName != "Acme" || rows[0].HourlyRate != 1500 {
		t.Fatalf("join fields missing: %+v", rows[0])
	}
}

func TestCascade_ClientDeleteRemovesProjectsAndEntries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acme := mustClient(t, db, 1, "Acme")
	p := mustProject(t, db, 1, acme.ID, "Audit", 1500)
	if _, err := CreateEntry(ctx, db, 1, p.ID, "📚 Research", nil, time.Now()); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	if err := db.Delete(&domain.Client{}, acme.ID).Error; err != nil {
		t.Fatalf("delete client: %v", err)
	}

	var projects, entries int64
	db.Model(&domain.Project{}).Count(&projects)
	db.Model(&domain.TimeEntry{}).Count(&entries)
	if projects != 0 || entries != 0 {
		t.Fatalf("cascade failed: %d projects, %d entries left", projects, entries)
	}
}
