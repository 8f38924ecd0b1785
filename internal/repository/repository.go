package repository

import (
	"context"
	"time"
)

// Snapshot is a serialized ontology document kept for later restore
type Snapshot struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Format       string    `json:"format"`
	OntologyName string    `json:"ontologyName"`
	Content      []byte    `json:"-"`
	Size         int       `json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Repository defines the interface for snapshot persistence
type Repository interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	// GetSnapshot returns nil when no snapshot has the id
	GetSnapshot(ctx context.Context, id string) (*Snapshot, error)
	// ListSnapshots returns snapshots newest first, without content
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error

	// Close releases resources
	Close() error
}
