// Package dsstore is a Google Cloud Datastore-backed ArchiveStore,
// namespaced per world the way gaebe namespaces its entities per tenant.
package dsstore

import (
	"context"

	"cloud.google.com/go/datastore"
	"github.com/trafficgrid/sim/internal/archive"
	"github.com/trafficgrid/sim/internal/obs"
	"github.com/trafficgrid/sim/internal/sim"
)

const (
	kindTickSample = "TrafficTickSample"
	kindBuildAudit = "TrafficBuildAudit"
)

// Store archives into Datastore, scoping every key under namespace so
// more than one simulated world can share a project.
type Store struct {
	client    *datastore.Client
	namespace string
}

// Open creates a Datastore client for projectID, falling back to the
// ambient GOOGLE_CLOUD_PROJECT/DATASTORE_PROJECT_ID environment the way
// gaebe.NewClient does.
func Open(ctx context.Context, projectID, namespace string) (*Store, error) {
	obs.Logger.Info("archive/dsstore: connecting", "project", projectID, "namespace", namespace)
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &Store{client: client, namespace: namespace}, nil
}

func (s *Store) namespacedKey(kind string, id int64) *datastore.Key {
	key := datastore.IDKey(kind, id, nil)
	if s.namespace != "" {
		key.Namespace = s.namespace
	}
	return key
}

// tickSampleEntity is the flattened, datastore-tag-friendly mirror of
// sim.TickSample.
type tickSampleEntity struct {
	Tick           int64
	Rating         float64
	ActiveVehicles int64
	ArrivedTotal   int64
}

// buildAuditEntity is the flattened, datastore-tag-friendly mirror of
// archive.BuildAudit.
type buildAuditEntity struct {
	Tick    int64
	Kind    string
	X, Y, Z int64
	OK      bool
	Err     string
}

func (s *Store) RecordTick(ctx context.Context, sample sim.TickSample) error {
	key := s.namespacedKey(kindTickSample, int64(sample.Tick))
	entity := tickSampleEntity{
		Tick:           int64(sample.Tick),
		Rating:         sample.Rating,
		ActiveVehicles: int64(sample.ActiveVehicles),
		ArrivedTotal:   sample.ArrivedTotal,
	}
	_, err := s.client.Put(ctx, key, &entity)
	return err
}

func (s *Store) RecordBuild(ctx context.Context, audit archive.BuildAudit) error {
	key := datastore.IncompleteKey(kindBuildAudit, nil)
	if s.namespace != "" {
		key.Namespace = s.namespace
	}
	entity := buildAuditEntity{
		Tick: int64(audit.Tick),
		Kind: audit.Kind,
		X:    int64(audit.Pos.X),
		Y:    int64(audit.Pos.Y),
		Z:    int64(audit.Pos.Z),
		OK:   audit.OK,
		Err:  audit.Err,
	}
	_, err := s.client.Put(ctx, key, &entity)
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ archive.ArchiveStore = (*Store)(nil)
