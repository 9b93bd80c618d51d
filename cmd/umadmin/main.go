package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/audit"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/auth"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/backup"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/config"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/crypto"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db/repository"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/logger"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/restorecode"
)

var (
	configPath string
	loginUser  string
)

var rootCmd = &cobra.Command{
	Use:   "umadmin",
	Short: "Urban Mobility back-office administration tool",
	Long:  "Administrative tool for managing back-office users, travellers, scooters, audit logs and backups",
}

// app bundles the wired services for one command invocation.
type app struct {
	cfg        *config.Config
	database   *db.DB
	crypto     *crypto.Service
	accounts   *repository.AccountRepository
	travellers *repository.TravellerRepository
	scooters   *repository.ScooterRepository
	audit      *audit.Service
	auth       *auth.Service
	codes      *restorecode.Broker
	backups    *backup.Orchestrator
}

func newApp() (*app, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.RunMigrations(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cryptoSvc, err := crypto.Open(cfg.Encryption.KeyPath)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to open encryption service: %w", err)
	}
	if cfg.Encryption.SaltPath != "" {
		if _, err := crypto.LoadOrCreateSalt(cfg.Encryption.SaltPath); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to open salt file: %w", err)
		}
	}

	auditSvc := audit.NewService(repository.NewLogRepository(database.DB, cryptoSvc), log)
	accounts := repository.NewAccountRepository(database.DB, cryptoSvc)
	codes := restorecode.NewBroker(repository.NewRestoreCodeRepository(database.DB), auditSvc)

	return &app{
		cfg:        cfg,
		database:   database,
		crypto:     cryptoSvc,
		accounts:   accounts,
		travellers: repository.NewTravellerRepository(database.DB, cryptoSvc),
		scooters:   repository.NewScooterRepository(database.DB),
		audit:      auditSvc,
		auth:       auth.NewService(accounts, auditSvc, auth.NewFailedAttemptTracker(), cfg.SuperAdmin, log),
		codes:      codes,
		backups: backup.NewOrchestrator(backup.Paths{
			DatabasePath: cfg.Database.Path,
			KeyPath:      cfg.Encryption.KeyPath,
			SaltPath:     cfg.Encryption.SaltPath,
			BackupDir:    cfg.Backup.Dir,
		}, codes, auditSvc, log),
	}, nil
}

func (a *app) close() {
	a.database.Close()
}

// promptPassword reads a password without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// authenticate logs the invoking operator in with the --username flag and a
// password prompt.
func (a *app) authenticate() (*auth.Session, error) {
	if loginUser == "" {
		return nil, fmt.Errorf("--username is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return nil, err
	}

	return a.auth.Login(loginUser, password)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&loginUser, "username", "u", "", "Username to authenticate as")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
