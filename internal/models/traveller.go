package models

import "time"

// Traveller represents a customer record. StreetName, HouseNumber, Email and
// MobilePhone are stored encrypted at rest.
type Traveller struct {
	CustomerID       string    `json:"customer_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Birthday         string    `json:"birthday"` // DD-MM-YYYY
	Gender           string    `json:"gender"`
	StreetName       string    `json:"street_name"`
	HouseNumber      string    `json:"house_number"`
	ZipCode          string    `json:"zip_code"`
	City             string    `json:"city"`
	Email            string    `json:"email"`
	MobilePhone      string    `json:"mobile_phone"`
	DrivingLicenseNo string    `json:"driving_license_no"`
	RegisteredAt     time.Time `json:"registered_at"`
}
