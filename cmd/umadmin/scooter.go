package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/auth"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/validate"
)

var scooterCmd = &cobra.Command{
	Use:   "scooter",
	Short: "Manage the scooter fleet",
}

var scooterAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a scooter to the fleet",
	RunE:  addScooter,
}

var scooterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all scooters",
	RunE:  listScooters,
}

var scooterSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search scooters by brand, model or serial number",
	Args:  cobra.ExactArgs(1),
	RunE:  searchScooters,
}

var scooterUpdateCmd = &cobra.Command{
	Use:   "update <serial-number>",
	Short: "Update a scooter (fields allowed depend on your role)",
	Args:  cobra.ExactArgs(1),
	RunE:  updateScooter,
}

var scooterDeleteCmd = &cobra.Command{
	Use:   "delete <serial-number>",
	Short: "Remove a scooter from the fleet",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteScooter,
}

var scooter models.Scooter

// Update flags get their own variables so sentinel defaults never bleed
// into the add command.
var (
	updSoC             int
	updLocation        string
	updOutOfService    bool
	updBackInService   bool
	updMileage         float64
	updLastMaintenance string
	updBrand           string
	updModel           string
	updTopSpeed        int
	updBattery         int
	updTargetSoC       string
)

func init() {
	scooterAddCmd.Flags().StringVar(&scooter.SerialNumber, "serial", "", "Serial number, 10-17 alphanumeric (required)")
	scooterAddCmd.Flags().StringVar(&scooter.Brand, "brand", "", "Brand (required)")
	scooterAddCmd.Flags().StringVar(&scooter.Model, "model", "", "Model (required)")
	scooterAddCmd.Flags().IntVar(&scooter.TopSpeed, "top-speed", 0, "Top speed in km/h (required)")
	scooterAddCmd.Flags().IntVar(&scooter.BatteryCapacity, "battery", 0, "Battery capacity in Wh (required)")
	scooterAddCmd.Flags().IntVar(&scooter.StateOfCharge, "soc", 100, "State of charge percentage")
	scooterAddCmd.Flags().StringVar(&scooter.TargetRangeSoC, "target-soc", "20-80", "Target SoC range")
	scooterAddCmd.Flags().StringVar(&scooter.Location, "location", "", "Location as latitude,longitude (required)")
	scooterAddCmd.Flags().Float64Var(&scooter.Mileage, "mileage", 0, "Mileage in km")
	for _, f := range []string{"serial", "brand", "model", "top-speed", "battery", "location"} {
		scooterAddCmd.MarkFlagRequired(f)
	}

	scooterUpdateCmd.Flags().IntVar(&updSoC, "soc", -1, "New state of charge percentage")
	scooterUpdateCmd.Flags().StringVar(&updLocation, "location", "", "New location")
	scooterUpdateCmd.Flags().BoolVar(&updOutOfService, "out-of-service", false, "Take the scooter out of service")
	scooterUpdateCmd.Flags().BoolVar(&updBackInService, "in-service", false, "Put the scooter back in service")
	scooterUpdateCmd.Flags().Float64Var(&updMileage, "mileage", -1, "New mileage in km")
	scooterUpdateCmd.Flags().StringVar(&updLastMaintenance, "last-maintenance", "", "Last maintenance date DD-MM-YYYY")
	scooterUpdateCmd.Flags().StringVar(&updBrand, "brand", "", "New brand (admins only)")
	scooterUpdateCmd.Flags().StringVar(&updModel, "model", "", "New model (admins only)")
	scooterUpdateCmd.Flags().IntVar(&updTopSpeed, "top-speed", -1, "New top speed (admins only)")
	scooterUpdateCmd.Flags().IntVar(&updBattery, "battery", -1, "New battery capacity (admins only)")
	scooterUpdateCmd.Flags().StringVar(&updTargetSoC, "target-soc", "", "New target SoC range (admins only)")

	scooterCmd.AddCommand(scooterAddCmd)
	scooterCmd.AddCommand(scooterListCmd)
	scooterCmd.AddCommand(scooterSearchCmd)
	scooterCmd.AddCommand(scooterUpdateCmd)
	scooterCmd.AddCommand(scooterDeleteCmd)
	rootCmd.AddCommand(scooterCmd)
}

// requireScooterAdmin gates the operations the field whitelist does not
// cover: adding and deleting scooters is admin work.
func requireScooterAdmin(a *app) (*auth.Session, error) {
	session, err := a.authenticate()
	if err != nil {
		return nil, err
	}
	if !auth.CanAdministerFleet(session.Role) {
		return nil, auth.ErrPermissionDenied
	}
	return session, nil
}

func addScooter(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := requireScooterAdmin(a)
	if err != nil {
		return err
	}

	if err := validate.SerialNumber(scooter.SerialNumber); err != nil {
		return err
	}
	if err := validate.StateOfCharge(scooter.StateOfCharge); err != nil {
		return err
	}
	if err := validate.Location(scooter.Location); err != nil {
		return err
	}

	if err := a.scooters.Create(&scooter); err != nil {
		return fmt.Errorf("failed to add scooter: %w", err)
	}
	a.audit.Record("scooter added", session.Username, "serial: "+scooter.SerialNumber, false)

	fmt.Println("Scooter added successfully")
	return nil
}

func listScooters(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.authenticate(); err != nil {
		return err
	}

	scooters, err := a.scooters.List()
	if err != nil {
		return fmt.Errorf("failed to list scooters: %w", err)
	}

	printScooters(scooters)
	return nil
}

func searchScooters(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.authenticate(); err != nil {
		return err
	}

	scooters, err := a.scooters.Search(args[0])
	if err != nil {
		return fmt.Errorf("failed to search scooters: %w", err)
	}

	printScooters(scooters)
	return nil
}

func updateScooter(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapManageScooters) {
		return auth.ErrPermissionDenied
	}

	changes := make(map[string]interface{})
	if updSoC >= 0 {
		if err := validate.StateOfCharge(updSoC); err != nil {
			return err
		}
		changes["state_of_charge"] = updSoC
	}
	if updLocation != "" {
		if err := validate.Location(updLocation); err != nil {
			return err
		}
		changes["location"] = updLocation
	}
	if updOutOfService {
		changes["out_of_service"] = 1
	}
	if updBackInService {
		changes["out_of_service"] = 0
	}
	if updMileage >= 0 {
		changes["mileage"] = updMileage
	}
	if updLastMaintenance != "" {
		t, err := time.Parse("02-01-2006", updLastMaintenance)
		if err != nil {
			return fmt.Errorf("last maintenance must be in DD-MM-YYYY format")
		}
		changes["last_maintenance"] = t
	}
	if updBrand != "" {
		changes["brand"] = updBrand
	}
	if updModel != "" {
		changes["model"] = updModel
	}
	if updTopSpeed >= 0 {
		changes["top_speed"] = updTopSpeed
	}
	if updBattery >= 0 {
		changes["battery_capacity"] = updBattery
	}
	if updTargetSoC != "" {
		changes["target_range_soc"] = updTargetSoC
	}

	if len(changes) == 0 {
		return fmt.Errorf("no fields to update")
	}

	if err := a.scooters.UpdateFields(args[0], session.Role, changes); err != nil {
		return fmt.Errorf("failed to update scooter: %w", err)
	}
	a.audit.Record("scooter updated", session.Username, "serial: "+args[0], false)

	fmt.Println("Scooter updated successfully")
	return nil
}

func deleteScooter(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := requireScooterAdmin(a)
	if err != nil {
		return err
	}

	if err := a.scooters.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete scooter: %w", err)
	}
	a.audit.Record("scooter deleted", session.Username, "serial: "+args[0], false)

	fmt.Println("Scooter deleted successfully")
	return nil
}

func printScooters(scooters []*models.Scooter) {
	if len(scooters) == 0 {
		fmt.Println("No scooters found")
		return
	}

	fmt.Printf("\nTotal scooters: %d\n\n", len(scooters))
	fmt.Printf("%-18s %-12s %-12s %-5s %-10s %s\n", "Serial", "Brand", "Model", "SoC", "Status", "Location")
	fmt.Println("----------------------------------------------------------------------")

	for _, s := range scooters {
		status := "in service"
		if s.OutOfService {
			status = "out"
		}
		fmt.Printf("%-18s %-12s %-12s %-5d %-10s %s\n",
			s.SerialNumber,
			s.Brand,
			s.Model,
			s.StateOfCharge,
			status,
			s.Location,
		)
	}
}
