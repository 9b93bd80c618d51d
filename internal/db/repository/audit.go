package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/crypto"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

// LogRepository handles audit log data access. Description and additional
// info are encrypted at the SQL boundary; the read path decrypts and falls
// back to the raw stored value for legacy rows.
type LogRepository struct {
	db     *sql.DB
	crypto *crypto.Service
}

// NewLogRepository creates a new audit log repository
func NewLogRepository(db *sql.DB, cs *crypto.Service) *LogRepository {
	return &LogRepository{db: db, crypto: cs}
}

// Create appends a new log entry. Entries are immutable once written.
func (r *LogRepository) Create(entry *models.LogEntry) error {
	encryptedDescription, err := r.crypto.Encrypt(entry.Description)
	if err != nil {
		return fmt.Errorf("failed to encrypt description: %w", err)
	}
	encryptedInfo, err := r.crypto.Encrypt(entry.AdditionalInfo)
	if err != nil {
		return fmt.Errorf("failed to encrypt additional info: %w", err)
	}

	query := `
		INSERT INTO logs (timestamp, username, description, additional_info, suspicious)
		VALUES (?, ?, ?, ?, ?)
	`

	suspicious := 0
	if entry.Suspicious {
		suspicious = 1
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := r.db.Exec(query,
		entry.Timestamp,
		entry.Username,
		encryptedDescription,
		encryptedInfo,
		suspicious,
	)
	if err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// List returns all log entries, newest first. Reading never mutates flags
// or ordering.
func (r *LogRepository) List() ([]*models.LogEntry, error) {
	return r.list(`
		SELECT id, timestamp, username, description, additional_info, suspicious
		FROM logs
		ORDER BY timestamp DESC, id DESC
	`)
}

// ListSuspicious returns only entries flagged suspicious, newest first.
func (r *LogRepository) ListSuspicious() ([]*models.LogEntry, error) {
	return r.list(`
		SELECT id, timestamp, username, description, additional_info, suspicious
		FROM logs
		WHERE suspicious = 1
		ORDER BY timestamp DESC, id DESC
	`)
}

func (r *LogRepository) list(query string, args ...interface{}) ([]*models.LogEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LogEntry

	for rows.Next() {
		entry := &models.LogEntry{}
		var suspicious int
		var username, description, info sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&username,
			&description,
			&info,
			&suspicious,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}

		entry.Suspicious = suspicious == 1
		if username.Valid {
			entry.Username = username.String
		}
		if description.Valid {
			entry.Description = r.crypto.DecryptLenient(description.String)
		}
		if info.Valid {
			entry.AdditionalInfo = r.crypto.DecryptLenient(info.String)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CountSince counts entries written at or after the given time.
func (r *LogRepository) CountSince(since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM logs WHERE timestamp >= ?`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return count, nil
}

// CountSuspicious counts all suspicious entries.
func (r *LogRepository) CountSuspicious() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM logs WHERE suspicious = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count suspicious entries: %w", err)
	}
	return count, nil
}

// DeleteOldNonSuspicious deletes non-suspicious entries older than the given
// time. Suspicious entries are kept regardless of age.
func (r *LogRepository) DeleteOldNonSuspicious(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM logs WHERE timestamp < ? AND suspicious = 0`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old log entries: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return count, nil
}
