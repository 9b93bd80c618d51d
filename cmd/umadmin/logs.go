package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/auth"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the audit log",
	RunE:  showLogs,
}

var logsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show audit log totals",
	RunE:  showLogSummary,
}

var logsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old non-suspicious entries",
	RunE:  cleanupLogs,
}

var (
	suspiciousOnly bool
	cleanupDays    int
)

func init() {
	logsCmd.Flags().BoolVar(&suspiciousOnly, "suspicious", false, "Show only suspicious entries")
	logsCleanupCmd.Flags().IntVar(&cleanupDays, "days", 90, "Delete non-suspicious entries older than this many days")

	logsCmd.AddCommand(logsSummaryCmd)
	logsCmd.AddCommand(logsCleanupCmd)
	rootCmd.AddCommand(logsCmd)
}

func requireLogAccess(a *app) (*auth.Session, error) {
	session, err := a.authenticate()
	if err != nil {
		return nil, err
	}
	if !auth.HasPermission(session.Role, auth.CapViewLogs) {
		return nil, auth.ErrPermissionDenied
	}
	return session, nil
}

func showLogs(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := requireLogAccess(a); err != nil {
		return err
	}

	var entries []*models.LogEntry
	if suspiciousOnly {
		entries, err = a.audit.ReadSuspicious()
	} else {
		entries, err = a.audit.ReadAll()
	}
	if err != nil {
		return fmt.Errorf("failed to read logs: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No log entries found")
		return nil
	}

	for _, e := range entries {
		flag := " "
		if e.Suspicious {
			flag = "!"
		}
		actor := e.Username
		if actor == "" {
			actor = "-"
		}
		fmt.Printf("%s [%s] %-12s %s", flag, e.Timestamp.Format("2006-01-02 15:04:05"), actor, e.Description)
		if e.AdditionalInfo != "" {
			fmt.Printf(" (%s)", e.AdditionalInfo)
		}
		fmt.Println()
	}

	return nil
}

func showLogSummary(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := requireLogAccess(a); err != nil {
		return err
	}

	summary, err := a.audit.Summarize()
	if err != nil {
		return fmt.Errorf("failed to summarize logs: %w", err)
	}

	fmt.Printf("Total entries: %d\n", summary.Total)
	fmt.Printf("Suspicious entries: %d\n", summary.Suspicious)
	fmt.Printf("Entries in last 24h: %d\n", summary.Last24Hours)
	if summary.LastActivity != nil {
		fmt.Printf("Last activity: %s\n", summary.LastActivity.Format("2006-01-02 15:04:05"))
	}

	return nil
}

func cleanupLogs(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := requireLogAccess(a)
	if err != nil {
		return err
	}
	if session.Role != models.RoleSuperAdmin {
		return auth.ErrPermissionDenied
	}

	deleted, err := a.audit.CleanupOld(cleanupDays)
	if err != nil {
		return fmt.Errorf("failed to clean up logs: %w", err)
	}

	fmt.Printf("Deleted %d old entries (suspicious entries kept)\n", deleted)
	return nil
}
