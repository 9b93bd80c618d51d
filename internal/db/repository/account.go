package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/crypto"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

// AccountRepository handles account data access. Usernames are stored
// encrypted, so lookups scan the table and compare decrypted values
// case-insensitively; with a handful of back-office accounts that is cheap.
type AccountRepository struct {
	db     *sql.DB
	crypto *crypto.Service
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB, cs *crypto.Service) *AccountRepository {
	return &AccountRepository{db: db, crypto: cs}
}

// Create creates a new account. Usernames are unique case-insensitively;
// a clash is reported as ErrDuplicate.
func (r *AccountRepository) Create(account *models.Account) error {
	if _, err := r.findStoredUsername(account.Username); err == nil {
		return ErrDuplicate
	} else if err != ErrNotFound {
		return err
	}

	encryptedUsername, err := r.crypto.Encrypt(account.Username)
	if err != nil {
		return fmt.Errorf("failed to encrypt username: %w", err)
	}

	query := `
		INSERT INTO users (username, password_hash, role, first_name, last_name, registered_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	_, err = r.db.Exec(query,
		encryptedUsername,
		account.PasswordHash,
		string(account.Role),
		account.FirstName,
		account.LastName,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.RegisteredAt = now
	return nil
}

// GetByUsername retrieves an account by username (case-insensitive).
func (r *AccountRepository) GetByUsername(username string) (*models.Account, error) {
	stored, err := r.findStoredUsername(username)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT username, password_hash, role, first_name, last_name, registered_at
		FROM users
		WHERE username = ?
	`

	account := &models.Account{}
	var storedUsername, role string

	err = r.db.QueryRow(query, stored).Scan(
		&storedUsername,
		&account.PasswordHash,
		&role,
		&account.FirstName,
		&account.LastName,
		&account.RegisteredAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.Username = r.crypto.DecryptLenient(storedUsername)
	account.Role = models.Role(role)

	return account, nil
}

// List lists all accounts, newest first.
func (r *AccountRepository) List() ([]*models.Account, error) {
	query := `
		SELECT username, password_hash, role, first_name, last_name, registered_at
		FROM users
		ORDER BY registered_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account

	for rows.Next() {
		account := &models.Account{}
		var storedUsername, role string

		err := rows.Scan(
			&storedUsername,
			&account.PasswordHash,
			&role,
			&account.FirstName,
			&account.LastName,
			&account.RegisteredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		account.Username = r.crypto.DecryptLenient(storedUsername)
		account.Role = models.Role(role)
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateProfile updates the first and last name of an account.
func (r *AccountRepository) UpdateProfile(username, firstName, lastName string) error {
	stored, err := r.findStoredUsername(username)
	if err != nil {
		return err
	}

	query := `UPDATE users SET first_name = ?, last_name = ? WHERE username = ?`

	_, err = r.db.Exec(query, firstName, lastName, stored)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// UpdatePasswordHash replaces the stored password hash for an account.
func (r *AccountRepository) UpdatePasswordHash(username, passwordHash string) error {
	stored, err := r.findStoredUsername(username)
	if err != nil {
		return err
	}

	query := `UPDATE users SET password_hash = ? WHERE username = ?`

	_, err = r.db.Exec(query, passwordHash, stored)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	return nil
}

// Delete removes an account. The hard-coded super admin is not a stored
// record and therefore can never be deleted through this path.
func (r *AccountRepository) Delete(username string) error {
	stored, err := r.findStoredUsername(username)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(`DELETE FROM users WHERE username = ?`, stored)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
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

// findStoredUsername scans for the stored (encrypted or legacy plaintext)
// username column value matching the given username case-insensitively.
func (r *AccountRepository) findStoredUsername(username string) (string, error) {
	rows, err := r.db.Query(`SELECT username FROM users`)
	if err != nil {
		return "", fmt.Errorf("failed to scan usernames: %w", err)
	}
	defer rows.Close()

	want := strings.ToLower(username)

	for rows.Next() {
		var stored string
		if err := rows.Scan(&stored); err != nil {
			return "", fmt.Errorf("failed to scan username: %w", err)
		}

		if strings.ToLower(r.crypto.DecryptLenient(stored)) == want {
			return stored, nil
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to scan usernames: %w", err)
	}

	return "", ErrNotFound
}
