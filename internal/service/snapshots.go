package service

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"ontoserver/internal/domain"
	"ontoserver/internal/repository"
)

// ErrSnapshotsDisabled is returned by snapshot operations when the service
// has no repository
var ErrSnapshotsDisabled = errors.New("snapshot storage is not configured")

// SaveSnapshot stores the flat model as a document built from scratch. The
// name defaults to the ontology name.
func (s *OntologyService) SaveSnapshot(ctx context.Context, name, format string) (*repository.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrSnapshotsDisabled
	}
	if format == "" {
		format = DefaultSnapshotFormat
	}

	var buf bytes.Buffer
	c, err := s.Save(ctx, &buf, format, true)
	if err != nil {
		return nil, err
	}

	desc := s.Descriptor()
	if strings.TrimSpace(name) == "" {
		name = desc.UniqueName
	}
	snap := &repository.Snapshot{
		Name:         name,
		Format:       c.Format(),
		OntologyName: desc.UniqueName,
		Content:      buf.Bytes(),
	}
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"action":   "snapshot_save",
		"snapshot": snap.ID,
		"format":   snap.Format,
		"bytes":    snap.Size,
	}).Info("saved ontology snapshot")
	s.eventBus.Publish(Event{
		Type:    EventSnapshotSaved,
		Payload: map[string]string{"id": snap.ID, "name": snap.Name},
	})
	return snap, nil
}

// ListSnapshots returns stored snapshots newest first, without content
func (s *OntologyService) ListSnapshots(ctx context.Context) ([]repository.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.repo.ListSnapshots(ctx)
}

// GetSnapshot returns a stored snapshot with its content
func (s *OntologyService) GetSnapshot(ctx context.Context, id string) (*repository.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrSnapshotsDisabled
	}
	snap, err := s.repo.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.NewNotFoundError("snapshot", id)
	}
	return snap, nil
}

// RestoreSnapshot loads a stored snapshot, replacing the flat model
func (s *OntologyService) RestoreSnapshot(ctx context.Context, id string) (domain.OntologyDescriptor, error) {
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return domain.OntologyDescriptor{}, err
	}

	desc, err := s.loadBytes(ctx, snap.Content, snap.Format)
	if err != nil {
		return desc, err
	}

	s.eventBus.Publish(Event{
		Type:    EventSnapshotRestored,
		Payload: map[string]string{"id": snap.ID, "ontology": desc.UniqueName},
	})
	return desc, nil
}

// DeleteSnapshot removes a stored snapshot
func (s *OntologyService) DeleteSnapshot(ctx context.Context, id string) error {
	if _, err := s.GetSnapshot(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteSnapshot(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventSnapshotDeleted,
		Payload: map[string]string{"id": id},
	})
	return nil
}
