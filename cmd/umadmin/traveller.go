package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/auth"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/validate"
)

var travellerCmd = &cobra.Command{
	Use:   "traveller",
	Short: "Manage traveller records",
}

var travellerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new traveller",
	RunE:  createTraveller,
}

var travellerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all travellers",
	RunE:  listTravellers,
}

var travellerSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search travellers by name, customer ID or email",
	Args:  cobra.ExactArgs(1),
	RunE:  searchTravellers,
}

var travellerUpdateCmd = &cobra.Command{
	Use:   "update <customer-id>",
	Short: "Update a traveller's details",
	Args:  cobra.ExactArgs(1),
	RunE:  updateTraveller,
}

var travellerDeleteCmd = &cobra.Command{
	Use:   "delete <customer-id>",
	Short: "Delete a traveller",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteTraveller,
}

var traveller models.Traveller

func init() {
	travellerCreateCmd.Flags().StringVar(&traveller.FirstName, "first-name", "", "First name (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.LastName, "last-name", "", "Last name (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.Birthday, "birthday", "", "Birthday DD-MM-YYYY (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.Gender, "gender", "", "Gender: male or female (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.StreetName, "street", "", "Street name (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.HouseNumber, "house-number", "", "House number (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.ZipCode, "zip-code", "", "Zip code DDDDXX (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.City, "city", "", "City (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.Email, "email", "", "Email address (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.MobilePhone, "phone", "", "Mobile phone, 8 digits after +31-6 (required)")
	travellerCreateCmd.Flags().StringVar(&traveller.DrivingLicenseNo, "license", "", "Driving license number (required)")
	for _, f := range []string{"first-name", "last-name", "birthday", "gender", "street", "house-number", "zip-code", "city", "email", "phone", "license"} {
		travellerCreateCmd.MarkFlagRequired(f)
	}

	travellerUpdateCmd.Flags().StringVar(&traveller.StreetName, "street", "", "New street name")
	travellerUpdateCmd.Flags().StringVar(&traveller.HouseNumber, "house-number", "", "New house number")
	travellerUpdateCmd.Flags().StringVar(&traveller.ZipCode, "zip-code", "", "New zip code")
	travellerUpdateCmd.Flags().StringVar(&traveller.City, "city", "", "New city")
	travellerUpdateCmd.Flags().StringVar(&traveller.Email, "email", "", "New email address")
	travellerUpdateCmd.Flags().StringVar(&traveller.MobilePhone, "phone", "", "New mobile phone")

	travellerCmd.AddCommand(travellerCreateCmd)
	travellerCmd.AddCommand(travellerListCmd)
	travellerCmd.AddCommand(travellerSearchCmd)
	travellerCmd.AddCommand(travellerUpdateCmd)
	travellerCmd.AddCommand(travellerDeleteCmd)
	rootCmd.AddCommand(travellerCmd)
}

func validateTraveller(t *models.Traveller) error {
	if err := validate.Name(t.FirstName); err != nil {
		return err
	}
	if err := validate.Name(t.LastName); err != nil {
		return err
	}
	if err := validate.BirthDate(t.Birthday); err != nil {
		return err
	}
	if err := validate.Gender(t.Gender); err != nil {
		return err
	}
	if err := validate.ZipCode(t.ZipCode); err != nil {
		return err
	}
	if err := validate.City(t.City); err != nil {
		return err
	}
	if err := validate.Email(t.Email); err != nil {
		return err
	}
	if err := validate.MobilePhone(t.MobilePhone); err != nil {
		return err
	}
	return validate.DrivingLicense(t.DrivingLicenseNo)
}

func requireTravellerAccess(a *app) (*auth.Session, error) {
	session, err := a.authenticate()
	if err != nil {
		return nil, err
	}
	if !auth.HasPermission(session.Role, auth.CapManageTravellers) {
		return nil, auth.ErrPermissionDenied
	}
	return session, nil
}

func createTraveller(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := requireTravellerAccess(a)
	if err != nil {
		return err
	}

	if err := validateTraveller(&traveller); err != nil {
		a.audit.Record("failed traveller creation", session.Username, err.Error(), false)
		return err
	}

	if err := a.travellers.Create(&traveller); err != nil {
		a.audit.Record("failed traveller creation", session.Username, "", false)
		return fmt.Errorf("failed to create traveller: %w", err)
	}
	a.audit.Record("new traveller registered", session.Username, "customer: "+traveller.CustomerID, false)

	fmt.Printf("\nTraveller registered successfully!\n")
	fmt.Printf("Customer ID: %s\n", traveller.CustomerID)

	return nil
}

func listTravellers(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := requireTravellerAccess(a); err != nil {
		return err
	}

	travellers, err := a.travellers.List()
	if err != nil {
		return fmt.Errorf("failed to list travellers: %w", err)
	}

	printTravellers(travellers)
	return nil
}

func searchTravellers(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := requireTravellerAccess(a); err != nil {
		return err
	}

	travellers, err := a.travellers.Search(args[0])
	if err != nil {
		return fmt.Errorf("failed to search travellers: %w", err)
	}

	printTravellers(travellers)
	return nil
}

func updateTraveller(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := requireTravellerAccess(a)
	if err != nil {
		return err
	}

	current, err := a.travellers.GetByID(args[0])
	if err != nil {
		return fmt.Errorf("failed to find traveller: %w", err)
	}

	if traveller.StreetName != "" {
		current.StreetName = traveller.StreetName
	}
	if traveller.HouseNumber != "" {
		current.HouseNumber = traveller.HouseNumber
	}
	if traveller.ZipCode != "" {
		current.ZipCode = traveller.ZipCode
	}
	if traveller.City != "" {
		current.City = traveller.City
	}
	if traveller.Email != "" {
		current.Email = traveller.Email
	}
	if traveller.MobilePhone != "" {
		current.MobilePhone = traveller.MobilePhone
	}

	if err := validateTraveller(current); err != nil {
		return err
	}
	if err := a.travellers.Update(current); err != nil {
		return fmt.Errorf("failed to update traveller: %w", err)
	}
	a.audit.Record("traveller updated", session.Username, "customer: "+current.CustomerID, false)

	fmt.Println("Traveller updated successfully")
	return nil
}

func deleteTraveller(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := requireTravellerAccess(a)
	if err != nil {
		return err
	}

	if err := a.travellers.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete traveller: %w", err)
	}
	a.audit.Record("traveller deleted", session.Username, "customer: "+args[0], false)

	fmt.Println("Traveller deleted successfully")
	return nil
}

func printTravellers(travellers []*models.Traveller) {
	if len(travellers) == 0 {
		fmt.Println("No travellers found")
		return
	}

	fmt.Printf("\nTotal travellers: %d\n\n", len(travellers))
	fmt.Printf("%-14s %-25s %-15s %s\n", "Customer ID", "Name", "City", "Email")
	fmt.Println("----------------------------------------------------------------------")

	for _, t := range travellers {
		fmt.Printf("%-14s %-25s %-15s %s\n",
			t.CustomerID,
			t.FirstName+" "+t.LastName,
			t.City,
			t.Email,
		)
	}
}
