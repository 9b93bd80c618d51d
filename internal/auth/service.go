// Package auth implements login, account lifecycle and the role capability
// table for the back-office.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/config"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db/repository"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/validate"
)

// AccountStore is the account persistence the service needs.
type AccountStore interface {
	Create(account *models.Account) error
	GetByUsername(username string) (*models.Account, error)
	UpdatePasswordHash(username, passwordHash string) error
}

// Recorder receives audit entries. Recording is best effort and never
// blocks the calling operation.
type Recorder interface {
	Record(description, actor, info string, suspicious bool)
}

// Session identifies an authenticated actor.
type Session struct {
	Username string
	Role     models.Role
}

// Service is the authentication engine.
type Service struct {
	accounts   AccountStore
	audit      Recorder
	attempts   *FailedAttemptTracker
	superAdmin config.SuperAdminConfig
	log        *zap.Logger
}

// NewService creates an authentication service.
func NewService(accounts AccountStore, audit Recorder, attempts *FailedAttemptTracker, superAdmin config.SuperAdminConfig, log *zap.Logger) *Service {
	return &Service{
		accounts:   accounts,
		audit:      audit,
		attempts:   attempts,
		superAdmin: superAdmin,
		log:        log,
	}
}

// Login authenticates a username/password pair. It tolerates any input and
// never returns an error other than ErrAuthFailed; invalid usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(username, password string) (*Session, error) {
	// Suspicion is evaluated before this attempt so a successful login
	// following a burst of failures still gets flagged.
	suspicious := s.attempts.IsSuspicious(username)

	if s.isSuperAdmin(username, password) {
		s.attempts.Clear(username)
		s.audit.Record("successful login", username, "role: "+string(models.RoleSuperAdmin), suspicious)
		return &Session{Username: s.superAdmin.Username, Role: models.RoleSuperAdmin}, nil
	}

	account, err := s.accounts.GetByUsername(username)
	if err == nil && CheckPassword(account.PasswordHash, password) {
		s.attempts.Clear(username)
		s.audit.Record("successful login", account.Username, "role: "+string(account.Role), suspicious)
		return &Session{Username: account.Username, Role: account.Role}, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("account lookup failed during login", zap.Error(err))
	}

	s.attempts.RecordFailure(username)
	suspicious = s.attempts.IsSuspicious(username)

	info := "username: " + username
	if suspicious {
		info += " - multiple failed attempts detected"
	}
	s.audit.Record("failed login attempt", "", info, suspicious)

	return nil, ErrAuthFailed
}

// isSuperAdmin compares both fields in constant time so the fixed identity
// is as enumeration-safe as database accounts.
func (s *Service) isSuperAdmin(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.superAdmin.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.superAdmin.Password))
	return userOK&passOK == 1
}

// RegisterUser creates a new account. Checks run in a fixed order and the
// first failure wins; every outcome writes exactly one audit entry.
func (s *Service) RegisterUser(actor *Session, username, password string, role models.Role, firstName, lastName string) (*models.Account, error) {
	if !CanCreateUser(actor.Role, role) {
		s.audit.Record("failed user creation", actor.Username, "permission denied for role "+string(role), false)
		return nil, ErrPermissionDenied
	}
	if err := validate.Username(username); err != nil {
		s.audit.Record("failed user creation", actor.Username, "invalid username", false)
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		s.audit.Record("failed user creation", actor.Username, "weak password for username "+username, false)
		return nil, err
	}
	if !role.Valid() {
		s.audit.Record("failed user creation", actor.Username, "invalid role "+string(role), false)
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		s.audit.Record("failed user creation", actor.Username, "missing name for username "+username, false)
		return nil, fmt.Errorf("first and last name are required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		s.audit.Record("failed user creation", actor.Username, "username "+username, false)
		return nil, err
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FirstName:    firstName,
		LastName:     lastName,
	}

	if err := s.accounts.Create(account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.audit.Record("failed user creation", actor.Username, "username "+username, false)
			return nil, fmt.Errorf("username %s already exists", username)
		}
		s.audit.Record("failed user creation", actor.Username, "username "+username, false)
		return nil, err
	}

	s.audit.Record("new user created", actor.Username,
		fmt.Sprintf("username: %s, role: %s, name: %s %s", username, role, firstName, lastName), false)

	return account, nil
}

// ResetPassword replaces the target account's password with a generated
// temporary one and returns it for one-time display. A missing target and a
// target the actor may not manage produce the same result.
func (s *Service) ResetPassword(actor *Session, targetUsername string) (string, error) {
	target, err := s.accounts.GetByUsername(targetUsername)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("account lookup failed during password reset", zap.Error(err))
		}
		s.audit.Record("failed password reset", actor.Username, "username: "+targetUsername, false)
		return "", ErrPermissionDenied
	}
	if !CanManageUser(actor.Role, target.Role) {
		s.audit.Record("failed password reset", actor.Username, "username: "+targetUsername, false)
		return "", ErrPermissionDenied
	}

	tempPassword, err := GenerateTempPassword()
	if err != nil {
		return "", err
	}
	hash, err := HashPassword(tempPassword)
	if err != nil {
		return "", err
	}
	if err := s.accounts.UpdatePasswordHash(target.Username, hash); err != nil {
		return "", fmt.Errorf("failed to reset password: %w", err)
	}

	s.audit.Record("password reset", actor.Username, "username: "+target.Username, false)

	return tempPassword, nil
}

// ChangeOwnPassword lets an account holder replace their own password. The
// fixed super admin identity has no stored hash and cannot use this.
func (s *Service) ChangeOwnPassword(actor *Session, currentPassword, newPassword string) error {
	if actor.Role == models.RoleSuperAdmin {
		return ErrPermissionDenied
	}

	account, err := s.accounts.GetByUsername(actor.Username)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	if !CheckPassword(account.PasswordHash, currentPassword) {
		s.audit.Record("failed password change", actor.Username, "wrong current password", false)
		return fmt.Errorf("current password is incorrect")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePasswordHash(account.Username, hash); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.audit.Record("password changed", actor.Username, "", false)

	return nil
}
