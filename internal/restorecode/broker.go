// Package restorecode issues and redeems the single-use codes that
// authorize system admins to restore a specific backup.
package restorecode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db/repository"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

const (
	// Alphabet without 0/O/1/I so codes survive being read aloud or
	// written down.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 12
)

// Recorder receives audit entries.
type Recorder interface {
	Record(description, actor, info string, suspicious bool)
}

// Broker manages the restore-code lifecycle.
type Broker struct {
	repo  *repository.RestoreCodeRepository
	audit Recorder
}

// NewBroker creates a restore-code broker.
func NewBroker(repo *repository.RestoreCodeRepository, audit Recorder) *Broker {
	return &Broker{repo: repo, audit: audit}
}

// Generate produces a random code from the unambiguous alphabet.
func Generate() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate restore code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Issue generates and stores a code bound to one system admin and one
// backup. A collision with an existing code fails the issue outright.
func (b *Broker) Issue(actor, systemAdminUsername, backupName string) (*models.RestoreCode, error) {
	code, err := Generate()
	if err != nil {
		return nil, err
	}

	rc := &models.RestoreCode{
		Code:                code,
		SystemAdminUsername: systemAdminUsername,
		BackupName:          backupName,
	}
	if err := b.repo.Create(rc); err != nil {
		return nil, fmt.Errorf("failed to issue restore code: %w", err)
	}

	b.audit.Record("restore code generated", actor,
		fmt.Sprintf("for %s, backup %s", systemAdminUsername, backupName), false)

	return rc, nil
}

// Lookup returns the code's binding if it exists and is unused. Used codes
// are indistinguishable from codes that never existed.
func (b *Broker) Lookup(code string) (*models.RestoreCode, error) {
	return b.repo.GetActive(code)
}

// Consume marks a code used. A second consume of the same code fails.
func (b *Broker) Consume(code string) error {
	return b.repo.MarkUsed(code)
}

// Revoke deletes an unused code so it can never be redeemed.
func (b *Broker) Revoke(actor, code string) error {
	if err := b.repo.Delete(code); err != nil {
		return err
	}

	b.audit.Record("restore code revoked", actor, "", false)

	return nil
}

// ListActive returns all unused codes.
func (b *Broker) ListActive() ([]*models.RestoreCode, error) {
	return b.repo.ListActive()
}
