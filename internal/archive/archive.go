// Package archive fans tick samples and build events out to whichever
// durable stores an operator has wired up (Postgres, Datastore, S3),
// mirroring the multi-backend dispatch the backend services in this
// codebase use to support more than one deployment target from the same
// service layer.
package archive

import (
	"context"
	"errors"

	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/internal/sim"
)

// BuildAudit records one grid mutation (a road laid, a building placed,
// an area cleared) for later replay or analysis.
type BuildAudit struct {
	Tick uint64
	Kind string
	Pos  geom.Position
	OK   bool
	Err  string
}

// ArchiveStore is anything that durably records simulation ticks and
// build events. Implementations must be safe for concurrent use; the
// simulator calls both methods from whichever goroutine drives ticks.
type ArchiveStore interface {
	RecordTick(ctx context.Context, sample sim.TickSample) error
	RecordBuild(ctx context.Context, audit BuildAudit) error
	Close() error
}

// MultiStore fans every call out to each configured store, continuing
// past individual failures and joining them into a single error so one
// unreachable backend never blocks the others.
type MultiStore struct {
	Stores []ArchiveStore
}

func (m MultiStore) RecordTick(ctx context.Context, sample sim.TickSample) error {
	var errs []error
	for _, s := range m.Stores {
		if err := s.RecordTick(ctx, sample); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiStore) RecordBuild(ctx context.Context, audit BuildAudit) error {
	var errs []error
	for _, s := range m.Stores {
		if err := s.RecordBuild(ctx, audit); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiStore) Close() error {
	var errs []error
	for _, s := range m.Stores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
