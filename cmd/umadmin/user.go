package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/auth"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage back-office user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user account",
	RunE:  createUser,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all user accounts",
	RunE:  listUsers,
}

var userUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a user's profile",
	RunE:  updateUser,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user account",
	RunE:  deleteUser,
}

var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Reset a user's password to a temporary one",
	RunE:  resetUserPassword,
}

var userChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your own password",
	RunE:  changeOwnPassword,
}

var (
	newUsername  string
	newUserRole  string
	newFirstName string
	newLastName  string
	targetUser   string
)

func init() {
	userCreateCmd.Flags().StringVar(&newUsername, "new-username", "", "Username for the new account (required)")
	userCreateCmd.Flags().StringVar(&newUserRole, "role", string(models.RoleServiceEngineer), "Role: system_admin or service_engineer")
	userCreateCmd.Flags().StringVar(&newFirstName, "first-name", "", "First name (required)")
	userCreateCmd.Flags().StringVar(&newLastName, "last-name", "", "Last name (required)")
	userCreateCmd.MarkFlagRequired("new-username")
	userCreateCmd.MarkFlagRequired("first-name")
	userCreateCmd.MarkFlagRequired("last-name")

	userUpdateCmd.Flags().StringVar(&targetUser, "target", "", "Username of the account to update (required)")
	userUpdateCmd.Flags().StringVar(&newFirstName, "first-name", "", "New first name")
	userUpdateCmd.Flags().StringVar(&newLastName, "last-name", "", "New last name")
	userUpdateCmd.MarkFlagRequired("target")

	userDeleteCmd.Flags().StringVar(&targetUser, "target", "", "Username of the account to delete (required)")
	userDeleteCmd.MarkFlagRequired("target")

	userResetPasswordCmd.Flags().StringVar(&targetUser, "target", "", "Username of the account to reset (required)")
	userResetPasswordCmd.MarkFlagRequired("target")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userResetPasswordCmd)
	userCmd.AddCommand(userChangePasswordCmd)
	rootCmd.AddCommand(userCmd)
}

func createUser(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}

	password, err := promptPassword("Password for new account: ")
	if err != nil {
		return err
	}

	account, err := a.auth.RegisterUser(session, newUsername, password, models.Role(newUserRole), newFirstName, newLastName)
	if err != nil {
		return err
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("Username: %s\n", account.Username)
	fmt.Printf("Role: %s\n", account.Role)
	fmt.Printf("Name: %s %s\n", account.FirstName, account.LastName)

	return nil
}

func listUsers(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapManageEngineers) {
		return auth.ErrPermissionDenied
	}

	accounts, err := a.accounts.List()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No users found")
		return nil
	}

	fmt.Printf("\nTotal users: %d\n\n", len(accounts))
	fmt.Printf("%-12s %-18s %-25s %s\n", "Username", "Role", "Name", "Registered")
	fmt.Println("----------------------------------------------------------------------")

	for _, acc := range accounts {
		fmt.Printf("%-12s %-18s %-25s %s\n",
			acc.Username,
			acc.Role,
			acc.FirstName+" "+acc.LastName,
			acc.RegisteredAt.Format("2006-01-02 15:04:05"),
		)
	}

	return nil
}

func updateUser(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}

	target, err := a.accounts.GetByUsername(targetUser)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !auth.CanManageUser(session.Role, target.Role) {
		return auth.ErrPermissionDenied
	}

	firstName := target.FirstName
	if newFirstName != "" {
		firstName = newFirstName
	}
	lastName := target.LastName
	if newLastName != "" {
		lastName = newLastName
	}

	if err := a.accounts.UpdateProfile(target.Username, firstName, lastName); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	a.audit.Record("user profile updated", session.Username, "username: "+target.Username, false)

	fmt.Println("User updated successfully")
	return nil
}

func deleteUser(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}

	target, err := a.accounts.GetByUsername(targetUser)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !auth.CanManageUser(session.Role, target.Role) {
		return auth.ErrPermissionDenied
	}
	if strings.EqualFold(target.Username, session.Username) {
		a.audit.Record("failed user deletion", session.Username,
			"username: "+target.Username+" - attempted self-deletion", false)
		return auth.ErrPermissionDenied
	}

	if err := a.accounts.Delete(target.Username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	a.audit.Record("user deleted", session.Username, "username: "+target.Username, false)

	fmt.Println("User deleted successfully")
	return nil
}

func resetUserPassword(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}

	tempPassword, err := a.auth.ResetPassword(session, targetUser)
	if err != nil {
		return err
	}

	fmt.Printf("\nTemporary password (shown once): %s\n", tempPassword)
	fmt.Println("The user should change it at first login.")

	return nil
}

func changeOwnPassword(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}

	currentPassword, err := promptPassword("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := promptPassword("New password: ")
	if err != nil {
		return err
	}

	if err := a.auth.ChangeOwnPassword(session, currentPassword, newPassword); err != nil {
		return err
	}

	fmt.Println("Password changed successfully")
	return nil
}
