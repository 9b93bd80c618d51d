package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

const scooterColumns = `serial_number, brand, model, top_speed, battery_capacity,
	state_of_charge, target_range_soc, location, out_of_service, mileage,
	last_maintenance, in_service_since`

// ScooterRepository handles scooter data access
type ScooterRepository struct {
	db *sql.DB
}

// NewScooterRepository creates a new scooter repository
func NewScooterRepository(db *sql.DB) *ScooterRepository {
	return &ScooterRepository{db: db}
}

// Create inserts a new scooter. A duplicate serial number is reported as
// ErrDuplicate.
func (r *ScooterRepository) Create(s *models.Scooter) error {
	query := `
		INSERT INTO scooters (serial_number, brand, model, top_speed, battery_capacity,
			state_of_charge, target_range_soc, location, out_of_service, mileage,
			last_maintenance, in_service_since)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	outOfService := 0
	if s.OutOfService {
		outOfService = 1
	}

	now := time.Now()
	_, err := r.db.Exec(query,
		s.SerialNumber,
		s.Brand,
		s.Model,
		s.TopSpeed,
		s.BatteryCapacity,
		s.StateOfCharge,
		s.TargetRangeSoC,
		s.Location,
		outOfService,
		s.Mileage,
		s.LastMaintenance,
		now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create scooter: %w", err)
	}

	s.InServiceSince = now
	return nil
}

// GetBySerial retrieves a scooter by serial number.
func (r *ScooterRepository) GetBySerial(serialNumber string) (*models.Scooter, error) {
	query := `SELECT ` + scooterColumns + ` FROM scooters WHERE serial_number = ?`

	s, err := scanScooter(r.db.QueryRow(query, serialNumber))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scooter: %w", err)
	}

	return s, nil
}

// List returns all scooters ordered by brand, model and serial number.
func (r *ScooterRepository) List() ([]*models.Scooter, error) {
	query := `SELECT ` + scooterColumns + ` FROM scooters ORDER BY brand, model, serial_number`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scooters: %w", err)
	}
	defer rows.Close()

	var scooters []*models.Scooter

	for rows.Next() {
		s, err := scanScooter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scooter: %w", err)
		}
		scooters = append(scooters, s)
	}

	return scooters, rows.Err()
}

// Search returns scooters whose brand, model or serial number contains the
// term (case-insensitive).
func (r *ScooterRepository) Search(term string) ([]*models.Scooter, error) {
	query := `
		SELECT ` + scooterColumns + `
		FROM scooters
		WHERE LOWER(brand || ' ' || model || ' ' || serial_number) LIKE ?
		ORDER BY brand, model, serial_number
	`

	rows, err := r.db.Query(query, "%"+strings.ToLower(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search scooters: %w", err)
	}
	defer rows.Close()

	var scooters []*models.Scooter

	for rows.Next() {
		s, err := scanScooter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scooter: %w", err)
		}
		scooters = append(scooters, s)
	}

	return scooters, rows.Err()
}

// UpdateFields updates the given columns of a scooter, restricted to the
// role's field whitelist. Columns outside the whitelist are silently
// skipped; an update where nothing remains reports ErrNotFound only when
// the row itself is absent and fails with an explicit error otherwise.
func (r *ScooterRepository) UpdateFields(serialNumber string, role models.Role, changes map[string]interface{}) error {
	allowed := map[string]bool{}
	for _, f := range models.ScooterUpdatableFields(role) {
		allowed[f] = true
	}

	var setClauses []string
	var values []interface{}

	for field, value := range changes {
		if !allowed[field] {
			continue
		}
		setClauses = append(setClauses, field+" = ?")
		values = append(values, value)
	}

	if len(setClauses) == 0 {
		return fmt.Errorf("no updatable fields for role %s", role)
	}

	values = append(values, serialNumber)
	query := fmt.Sprintf("UPDATE scooters SET %s WHERE serial_number = ?", strings.Join(setClauses, ", "))

	result, err := r.db.Exec(query, values...)
	if err != nil {
		return fmt.Errorf("failed to update scooter: %w", err)
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

// Delete removes a scooter by serial number.
func (r *ScooterRepository) Delete(serialNumber string) error {
	result, err := r.db.Exec(`DELETE FROM scooters WHERE serial_number = ?`, serialNumber)
	if err != nil {
		return fmt.Errorf("failed to delete scooter: %w", err)
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

func scanScooter(row rowScanner) (*models.Scooter, error) {
	s := &models.Scooter{}
	var outOfService int
	var lastMaintenance sql.NullTime

	err := row.Scan(
		&s.SerialNumber,
		&s.Brand,
		&s.Model,
		&s.TopSpeed,
		&s.BatteryCapacity,
		&s.StateOfCharge,
		&s.TargetRangeSoC,
		&s.Location,
		&outOfService,
		&s.Mileage,
		&lastMaintenance,
		&s.InServiceSince,
	)
	if err != nil {
		return nil, err
	}

	s.OutOfService = outOfService == 1
	if lastMaintenance.Valid {
		s.LastMaintenance = &lastMaintenance.Time
	}

	return s, nil
}
