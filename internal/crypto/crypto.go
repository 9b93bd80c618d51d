// Package crypto implements the field and file encryption service. Values
// are encrypted with AES-256-GCM into self-contained tokens; a token carries
// a format prefix so legacy plaintext is recognized by shape, not by
// decryption failure.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

// tokenPrefix marks a value as an encrypted token. Anything without the
// prefix is treated as legacy plaintext and returned unchanged on decrypt.
const tokenPrefix = "enc1:"

// Service encrypts and decrypts individual string fields and whole files
// with a single symmetric key.
type Service struct {
	gcm cipher.AEAD
}

// New creates a Service from a 32-byte AES key.
func New(key []byte) (*Service, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Service{gcm: gcm}, nil
}

// Open loads (or creates) the key file at keyPath and returns a Service
// keyed by it.
func Open(keyPath string) (*Service, error) {
	key, err := LoadOrCreateKey(keyPath)
	if err != nil {
		return nil, err
	}
	return New(key)
}

// Encrypt encrypts plaintext into a self-contained token. The empty string
// short-circuits to the empty string and is never passed through the cipher.
func (s *Service) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return tokenPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts a token produced by Encrypt. Input without the token
// prefix is legacy plaintext and is returned unchanged. A prefixed token
// that fails authentication is genuine corruption (or a rotated key) and
// yields an error.
func (s *Service) Decrypt(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if !strings.HasPrefix(value, tokenPrefix) {
		return value, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, tokenPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("token too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}

// DecryptLenient decrypts like Decrypt but falls back to the raw stored
// value when the token cannot be decrypted. Read paths that must keep
// listing legacy or orphaned rows use this.
func (s *Service) DecryptLenient(value string) string {
	plaintext, err := s.Decrypt(value)
	if err != nil {
		return value
	}
	return plaintext
}

// IsEncrypted reports whether a stored value is an encrypted token.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, tokenPrefix)
}

// EncryptFile encrypts the contents of path into outPath.
func (s *Service) EncryptFile(path, outPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := s.gcm.Seal(nonce, nonce, data, nil)
	if err := os.WriteFile(outPath, ciphertext, 0o600); err != nil {
		return fmt.Errorf("failed to write encrypted file: %w", err)
	}

	return nil
}

// DecryptFile decrypts a file produced by EncryptFile into outPath.
func (s *Service) DecryptFile(path, outPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(data) < nonceSize {
		return fmt.Errorf("encrypted file too short")
	}

	plaintext, err := s.gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return fmt.Errorf("failed to decrypt file: %w", err)
	}

	if err := os.WriteFile(outPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("failed to write decrypted file: %w", err)
	}

	return nil
}
