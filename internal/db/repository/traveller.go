package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/crypto"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

// travellerColumns is the shared select list for traveller scans.
const travellerColumns = `customer_id, first_name, last_name, birthday, gender,
	street_name, house_number, zip_code, city, email, mobile_phone,
	driving_license_no, registered_at`

// TravellerRepository handles traveller data access. Street name, house
// number, email and mobile phone are encrypted at rest.
type TravellerRepository struct {
	db     *sql.DB
	crypto *crypto.Service
}

// NewTravellerRepository creates a new traveller repository
func NewTravellerRepository(db *sql.DB, cs *crypto.Service) *TravellerRepository {
	return &TravellerRepository{db: db, crypto: cs}
}

// Create inserts a new traveller and assigns a generated customer id.
func (r *TravellerRepository) Create(t *models.Traveller) error {
	t.CustomerID = newCustomerID()

	street, err := r.crypto.Encrypt(t.StreetName)
	if err != nil {
		return fmt.Errorf("failed to encrypt street name: %w", err)
	}
	houseNumber, err := r.crypto.Encrypt(t.HouseNumber)
	if err != nil {
		return fmt.Errorf("failed to encrypt house number: %w", err)
	}
	email, err := r.crypto.Encrypt(t.Email)
	if err != nil {
		return fmt.Errorf("failed to encrypt email: %w", err)
	}
	phone, err := r.crypto.Encrypt(t.MobilePhone)
	if err != nil {
		return fmt.Errorf("failed to encrypt mobile phone: %w", err)
	}

	query := `
		INSERT INTO travellers (customer_id, first_name, last_name, birthday, gender,
			street_name, house_number, zip_code, city, email, mobile_phone,
			driving_license_no, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	_, err = r.db.Exec(query,
		t.CustomerID,
		t.FirstName,
		t.LastName,
		t.Birthday,
		t.Gender,
		street,
		houseNumber,
		t.ZipCode,
		t.City,
		email,
		phone,
		t.DrivingLicenseNo,
		now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create traveller: %w", err)
	}

	t.RegisteredAt = now
	return nil
}

// GetByID retrieves a traveller by customer id.
func (r *TravellerRepository) GetByID(customerID string) (*models.Traveller, error) {
	query := `SELECT ` + travellerColumns + ` FROM travellers WHERE customer_id = ?`

	t, err := r.scanTraveller(r.db.QueryRow(query, customerID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get traveller: %w", err)
	}

	return t, nil
}

// List returns all travellers ordered by name.
func (r *TravellerRepository) List() ([]*models.Traveller, error) {
	query := `SELECT ` + travellerColumns + ` FROM travellers ORDER BY last_name, first_name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list travellers: %w", err)
	}
	defer rows.Close()

	var travellers []*models.Traveller

	for rows.Next() {
		t, err := r.scanTraveller(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan traveller: %w", err)
		}
		travellers = append(travellers, t)
	}

	return travellers, rows.Err()
}

// Search returns travellers whose name, customer id or email contains the
// term (case-insensitive). Matching happens against decrypted values, so the
// scan goes through List.
func (r *TravellerRepository) Search(term string) ([]*models.Traveller, error) {
	travellers, err := r.List()
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(term)
	var results []*models.Traveller

	for _, t := range travellers {
		haystack := strings.ToLower(fmt.Sprintf("%s %s %s %s", t.FirstName, t.LastName, t.CustomerID, t.Email))
		if strings.Contains(haystack, want) {
			results = append(results, t)
		}
	}

	return results, nil
}

// Update rewrites all mutable fields of a traveller record.
func (r *TravellerRepository) Update(t *models.Traveller) error {
	street, err := r.crypto.Encrypt(t.StreetName)
	if err != nil {
		return fmt.Errorf("failed to encrypt street name: %w", err)
	}
	houseNumber, err := r.crypto.Encrypt(t.HouseNumber)
	if err != nil {
		return fmt.Errorf("failed to encrypt house number: %w", err)
	}
	email, err := r.crypto.Encrypt(t.Email)
	if err != nil {
		return fmt.Errorf("failed to encrypt email: %w", err)
	}
	phone, err := r.crypto.Encrypt(t.MobilePhone)
	if err != nil {
		return fmt.Errorf("failed to encrypt mobile phone: %w", err)
	}

	query := `
		UPDATE travellers
		SET first_name = ?, last_name = ?, birthday = ?, gender = ?,
			street_name = ?, house_number = ?, zip_code = ?, city = ?,
			email = ?, mobile_phone = ?, driving_license_no = ?
		WHERE customer_id = ?
	`

	result, err := r.db.Exec(query,
		t.FirstName,
		t.LastName,
		t.Birthday,
		t.Gender,
		street,
		houseNumber,
		t.ZipCode,
		t.City,
		email,
		phone,
		t.DrivingLicenseNo,
		t.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update traveller: %w", err)
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

// Delete removes a traveller by customer id.
func (r *TravellerRepository) Delete(customerID string) error {
	result, err := r.db.Exec(`DELETE FROM travellers WHERE customer_id = ?`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete traveller: %w", err)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *TravellerRepository) scanTraveller(row rowScanner) (*models.Traveller, error) {
	t := &models.Traveller{}
	var street, houseNumber, email, phone string

	err := row.Scan(
		&t.CustomerID,
		&t.FirstName,
		&t.LastName,
		&t.Birthday,
		&t.Gender,
		&street,
		&houseNumber,
		&t.ZipCode,
		&t.City,
		&email,
		&phone,
		&t.DrivingLicenseNo,
		&t.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}

	t.StreetName = r.crypto.DecryptLenient(street)
	t.HouseNumber = r.crypto.DecryptLenient(houseNumber)
	t.Email = r.crypto.DecryptLenient(email)
	t.MobilePhone = r.crypto.DecryptLenient(phone)

	return t, nil
}

// newCustomerID returns a 12-character customer identifier.
func newCustomerID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
