// Package sqlstore is a Postgres-backed ArchiveStore built on GORM, the
// way this codebase's gormbe backend opens and auto-migrates its own
// tables.
package sqlstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/trafficgrid/sim/internal/archive"
	"github.com/trafficgrid/sim/internal/obs"
	"github.com/trafficgrid/sim/internal/sim"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrUnsupportedDSN is returned when Open is given an endpoint this
// store doesn't know how to dial (only postgres:// is supported).
var ErrUnsupportedDSN = errors.New("sqlstore: endpoint must use the postgres:// scheme")

// TickSampleRow is one archived tick, row-per-tick.
type TickSampleRow struct {
	Tick           uint64 `gorm:"primaryKey"`
	Rating         float64
	ActiveVehicles int
	ArrivedTotal   int64
	RecordedAt     time.Time
}

// BuildAuditRow is one archived grid mutation.
type BuildAuditRow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Tick       uint64
	Kind       string
	X, Y, Z    int16
	OK         bool
	Err        string
	RecordedAt time.Time
}

// Store archives into a Postgres database via GORM.
type Store struct {
	db *gorm.DB
}

// Open connects to endpoint (a postgres:// DSN) and auto-migrates the
// archive tables, mirroring gormbe's OpenDB prefix dispatch.
func Open(endpoint string) (*Store, error) {
	obs.Logger.Info("archive/sqlstore: connecting", "endpoint", endpoint)
	if !strings.HasPrefix(endpoint, "postgres://") {
		return nil, ErrUnsupportedDSN
	}
	db, err := gorm.Open(postgres.Open(endpoint), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&TickSampleRow{}, &BuildAuditRow{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) RecordTick(ctx context.Context, sample sim.TickSample) error {
	row := TickSampleRow{
		Tick:           sample.Tick,
		Rating:         sample.Rating,
		ActiveVehicles: sample.ActiveVehicles,
		ArrivedTotal:   sample.ArrivedTotal,
		RecordedAt:     time.Now(),
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) RecordBuild(ctx context.Context, audit archive.BuildAudit) error {
	row := BuildAuditRow{
		Tick:       audit.Tick,
		Kind:       audit.Kind,
		X:          audit.Pos.X,
		Y:          audit.Pos.Y,
		Z:          audit.Pos.Z,
		OK:         audit.OK,
		Err:        audit.Err,
		RecordedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ archive.ArchiveStore = (*Store)(nil)
