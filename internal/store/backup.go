package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mchou/campnook/internal/model"
)

type BackupStore struct {
	db *sql.DB
}

func NewBackupStore(db *sql.DB) *BackupStore {
	return &BackupStore{db: db}
}

func (s *BackupStore) Create(filename string) (*model.Backup, error) {
	result, err := s.db.Exec(
		`INSERT INTO backups (filename, status) VALUES (?, ?)`,
		filename, model.BackupStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("create backup record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create backup record: %w", err)
	}
	return s.GetByID(id)
}

func (s *BackupStore) GetByID(id int64) (*model.Backup, error) {
	row := s.db.QueryRow(
		`SELECT id, filename, size_bytes, status, COALESCE(error_detail, ''), created_at, completed_at
		 FROM backups WHERE id = ?`, id,
	)
	return scanBackup(row)
}

func (s *BackupStore) List(limit int) ([]model.Backup, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, filename, size_bytes, status, COALESCE(error_detail, ''), created_at, completed_at
		 FROM backups ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var backups []model.Backup
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, err
		}
		backups = append(backups, *b)
	}
	return backups, rows.Err()
}

func (s *BackupStore) MarkUploading(id int64) error {
	return s.setStatus(id, model.BackupStatusUploading, "")
}

func (s *BackupStore) MarkCompleted(id, sizeBytes int64) error {
	_, err := s.db.Exec(
		`UPDATE backups SET status = ?, size_bytes = ?, completed_at = ? WHERE id = ?`,
		model.BackupStatusCompleted, sizeBytes, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark backup completed: %w", err)
	}
	return nil
}

func (s *BackupStore) MarkFailed(id int64, detail string) error {
	return s.setStatus(id, model.BackupStatusFailed, detail)
}

func (s *BackupStore) setStatus(id int64, status, detail string) error {
	_, err := s.db.Exec(
		`UPDATE backups SET status = ?, error_detail = NULLIF(?, '') WHERE id = ?`,
		status, detail, id,
	)
	if err != nil {
		return fmt.Errorf("set backup status: %w", err)
	}
	return nil
}

// PruneOld deletes records older than the retention window, keeping at
// least the newest keep rows.
func (s *BackupStore) PruneOld(retention time.Duration, keep int) error {
	cutoff := time.Now().UTC().Add(-retention)
	_, err := s.db.Exec(
		`DELETE FROM backups WHERE created_at < ? AND id NOT IN (
		   SELECT id FROM backups ORDER BY created_at DESC LIMIT ?
		 )`, cutoff, keep,
	)
	if err != nil {
		return fmt.Errorf("prune backups: %w", err)
	}
	return nil
}

func scanBackup(scanner interface{ Scan(...any) error }) (*model.Backup, error) {
	var b model.Backup
	var completedAt sql.NullTime
	err := scanner.Scan(&b.ID, &b.Filename, &b.SizeBytes, &b.Status, &b.ErrorDetail, &b.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan backup: %w", err)
	}
	if completedAt.Valid {
		b.CompletedAt = &completedAt.Time
	}
	return &b, nil
}
