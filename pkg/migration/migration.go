// Package migration runs and tracks schema migrations for the SQL store
// drivers. Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and are applied from the CLI:
//
//	dinehub migrate
//	dinehub migrate:rollback
//	dinehub migrate:status
package migration

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dinehub/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord is the row stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "dinehub_migrations" }

// ─── Registry ────────────────────────────────────────────────────────────────

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

var registry []Entry

// Register adds a migration to the global registry. name should start with a
// sortable timestamp, e.g. "20260101000000_create_users_table".
func Register(name string, m Migration) {
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns a copy of the global registry sorted by name.
func Registered() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ─── Runner ──────────────────────────────────────────────────────────────────

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	entries []Entry
	out     io.Writer
}

// New creates a Runner over the global registry that reports to stdout.
func New(db *gorm.DB) *Runner {
	return NewWith(db, Registered(), os.Stdout)
}

// NewWith creates a Runner over an explicit migration list.
func NewWith(db *gorm.DB, entries []Entry, out io.Writer) *Runner {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, entries: sorted, out: out}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

// Pending returns the migrations that have not yet been run, in name order.
func (r *Runner) Pending() ([]Entry, error) {
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run executes all pending migrations as one batch.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.Pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch := r.lastBatch() + 1

	for _, e := range pending {
		logger.Info("migration: running", "name", e.Name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.Name)

		if err := e.Migration.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", e.Name, err)
		}

		if err := r.db.Create(&migrationRecord{Name: e.Name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", e.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", e.Name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	last := r.lastBatch()
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return err
		}
	}

	return nil
}

// Status prints every known migration and whether it has been run.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	ran, err := r.ran()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, e := range r.entries {
		if rec, ok := ran[e.Name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", e.Name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", e.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) ran() (map[string]migrationRecord, error) {
	var records []migrationRecord
	if err := r.db.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]migrationRecord, len(records))
	for _, rec := range records {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() int {
	var row struct{ Max int }
	r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&row)
	return row.Max
}
