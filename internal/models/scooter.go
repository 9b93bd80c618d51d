package models

import "time"

// Scooter represents one vehicle in the rentable fleet.
type Scooter struct {
	SerialNumber    string     `json:"serial_number"`
	Brand           string     `json:"brand"`
	Model           string     `json:"model"`
	TopSpeed        int        `json:"top_speed"`
	BatteryCapacity int        `json:"battery_capacity"`
	StateOfCharge   int        `json:"state_of_charge"`
	TargetRangeSoC  string     `json:"target_range_soc"` // "min-max" percentages
	Location        string     `json:"location"`
	OutOfService    bool       `json:"out_of_service"`
	Mileage         float64    `json:"mileage"`
	LastMaintenance *time.Time `json:"last_maintenance,omitempty"`
	InServiceSince  time.Time  `json:"in_service_since"`
}

// Scooter columns each role may change. Service engineers are limited to
// operational fields; admins may additionally change the technical ones.
var (
	ScooterEngineerFields = []string{
		"state_of_charge", "location", "out_of_service", "mileage", "last_maintenance",
	}
	ScooterAdminFields = append([]string{
		"brand", "model", "top_speed", "battery_capacity", "target_range_soc",
	}, ScooterEngineerFields...)
)

// ScooterUpdatableFields returns the column whitelist for a role.
func ScooterUpdatableFields(role Role) []string {
	switch role {
	case RoleSuperAdmin, RoleSystemAdmin:
		return ScooterAdminFields
	case RoleServiceEngineer:
		return ScooterEngineerFields
	}
	return nil
}
