package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

// RestoreCodeRepository handles restore code data access
type RestoreCodeRepository struct {
	db *sql.DB
}

// NewRestoreCodeRepository creates a new restore code repository
func NewRestoreCodeRepository(db *sql.DB) *RestoreCodeRepository {
	return &RestoreCodeRepository{db: db}
}

// Create inserts a fresh restore code. A token collision, however unlikely
// given the alphabet size, is reported as ErrDuplicate rather than assumed
// away.
func (r *RestoreCodeRepository) Create(code *models.RestoreCode) error {
	query := `
		INSERT INTO restore_codes (code, system_admin_username, backup_name, created_at, used)
		VALUES (?, ?, ?, ?, 0)
	`

	now := time.Now()
	_, err := r.db.Exec(query,
		code.Code,
		code.SystemAdminUsername,
		code.BackupName,
		now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create restore code: %w", err)
	}

	code.CreatedAt = now
	return nil
}

// GetActive retrieves an unused restore code. A used code is
// indistinguishable from a nonexistent one.
func (r *RestoreCodeRepository) GetActive(code string) (*models.RestoreCode, error) {
	query := `
		SELECT code, system_admin_username, backup_name, created_at, used
		FROM restore_codes
		WHERE code = ? AND used = 0
	`

	rc := &models.RestoreCode{}
	var used int

	err := r.db.QueryRow(query, code).Scan(
		&rc.Code,
		&rc.SystemAdminUsername,
		&rc.BackupName,
		&rc.CreatedAt,
		&used,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restore code: %w", err)
	}

	rc.Used = used == 1
	return rc, nil
}

// MarkUsed marks a restore code as consumed. Consuming an already-used or
// nonexistent code fails with ErrNotFound, so a second consume never
// succeeds.
func (r *RestoreCodeRepository) MarkUsed(code string) error {
	result, err := r.db.Exec(`UPDATE restore_codes SET used = 1 WHERE code = ? AND used = 0`, code)
	if err != nil {
		return fmt.Errorf("failed to mark restore code used: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete hard-deletes an unused restore code (administrative revocation).
// Used codes stay on record and cannot be revoked.
func (r *RestoreCodeRepository) Delete(code string) error {
	result, err := r.db.Exec(`DELETE FROM restore_codes WHERE code = ? AND used = 0`, code)
	if err != nil {
		return fmt.Errorf("failed to delete restore code: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListActive lists all unused restore codes, newest first.
func (r *RestoreCodeRepository) ListActive() ([]*models.RestoreCode, error) {
	query := `
		SELECT code, system_admin_username, backup_name, created_at, used
		FROM restore_codes
		WHERE used = 0
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list restore codes: %w", err)
	}
	defer rows.Close()

	var codes []*models.RestoreCode

	for rows.Next() {
		rc := &models.RestoreCode{}
		var used int

		err := rows.Scan(
			&rc.Code,
			&rc.SystemAdminUsername,
			&rc.BackupName,
			&rc.CreatedAt,
			&used,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restore code: %w", err)
		}

		rc.Used = used == 1
		codes = append(codes, rc)
	}

	return codes, rows.Err()
}
