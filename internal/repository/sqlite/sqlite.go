package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ontoserver/internal/repository"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" && !strings.Contains(dbPath, "?") {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		format TEXT NOT NULL,
		ontology_name TEXT NOT NULL DEFAULT '',
		content BLOB NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveSnapshot stores snap, assigning an ID and creation time when unset
func (r *Repository) SaveSnapshot(ctx context.Context, snap *repository.Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	snap.Size = len(snap.Content)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, format, ontology_name, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Name, snap.Format, snap.OntologyName, snap.Content, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot with its content
func (r *Repository) GetSnapshot(ctx context.Context, id string) (*repository.Snapshot, error) {
	var snap repository.Snapshot
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, format, ontology_name, content, created_at
		FROM snapshots WHERE id = ?
	`, id).Scan(&snap.ID, &snap.Name, &snap.Format, &snap.OntologyName, &snap.Content, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	snap.Size = len(snap.Content)
	return &snap, nil
}

// ListSnapshots returns all snapshots newest first, without content
func (r *Repository) ListSnapshots(ctx context.Context) ([]repository.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, format, ontology_name, length(content), created_at
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]repository.Snapshot, 0)
	for rows.Next() {
		var snap repository.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Format, &snap.OntologyName, &snap.Size, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// DeleteSnapshot removes a snapshot. Deleting an unknown id is not an error.
func (r *Repository) DeleteSnapshot(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
