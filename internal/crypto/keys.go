package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize  = 32 // AES-256
	saltSize = 16

	pbkdf2Iterations = 100_000
)

// LoadOrCreateKey loads the symmetric key from path, generating and
// persisting a fresh one with owner-only permissions when the file does not
// exist. The file holds the key hex-encoded (64 characters).
func LoadOrCreateKey(path string) ([]byte, error) {
	if _, err := os.Stat(path); err == nil {
		return loadKey(path)
	}
	return createKey(path)
}

// loadKey reads and validates an existing key file
func loadKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key, err := hex.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode key file: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("invalid key length: %d bytes", len(key))
	}

	return key, nil
}

// createKey generates a new key and persists it with 0600 permissions
func createKey(path string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save key file: %w", err)
	}

	return key, nil
}

// LoadOrCreateSalt loads the key-derivation salt from path, generating and
// persisting one with owner-only permissions when absent.
func LoadOrCreateSalt(path string) ([]byte, error) {
	if _, err := os.Stat(path); err == nil {
		salt, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read salt file: %w", err)
		}
		return salt, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create salt directory: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, fmt.Errorf("failed to save salt file: %w", err)
	}

	return salt, nil
}

// DeriveKey derives a 32-byte key from a password and salt using PBKDF2.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keySize, sha256.New)
}

// RotateKey generates a new key, keeping the previous key file next to the
// new one with a .old suffix. Rotation is destructive: everything encrypted
// under the old key becomes permanently undecryptable. Callers must warn the
// operator before invoking this.
func RotateKey(path string) ([]byte, error) {
	if _, err := os.Stat(path); err == nil {
		old, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read current key: %w", err)
		}
		if err := os.WriteFile(path+".old", old, 0o600); err != nil {
			return nil, fmt.Errorf("failed to back up current key: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("failed to remove current key: %w", err)
		}
	}

	return createKey(path)
}
