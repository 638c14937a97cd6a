package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrRosterRunNotFound is returned when a roster run id has no matching row.
var ErrRosterRunNotFound = errors.New("repository: roster run not found")

// RosterRun persists the terminal outcome of one scheduling run: the solver
// status, objective value, and the assignment table serialised as JSON by
// the caller (internal/service owns the shape of that payload).
type RosterRun struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time
	HorizonWeeks    int
	StartDate       time.Time
	Status          string
	Objective       decimal.Decimal `gorm:"type:decimal(14,4)"`
	Violations      int
	Failed          bool
	AssignmentsJSON []byte `gorm:"type:jsonb"`
}

// TableName pins the GORM table name so it survives naming-strategy changes.
func (RosterRun) TableName() string { return "roster_runs" }

// RosterRunRepository persists and retrieves RosterRun rows.
type RosterRunRepository struct {
	db *DB
}

// NewRosterRunRepository builds a repository bound to db.
func NewRosterRunRepository(db *DB) *RosterRunRepository {
	return &RosterRunRepository{db: db}
}

// Create inserts a new roster run row.
func (r *RosterRunRepository) Create(ctx context.Context, run *RosterRun) error {
	return r.db.GORM.WithContext(ctx).Create(run).Error
}

// Get fetches a roster run by id.
func (r *RosterRunRepository) Get(ctx context.Context, id uuid.UUID) (*RosterRun, error) {
	var run RosterRun
	err := r.db.GORM.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRosterRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecent returns the most recently created roster runs, newest first.
func (r *RosterRunRepository) ListRecent(ctx context.Context, limit int) ([]RosterRun, error) {
	var runs []RosterRun
	err := r.db.GORM.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// Migrate creates or updates the roster_runs table.
func Migrate(db *DB) error {
	return db.GORM.AutoMigrate(&RosterRun{})
}
