package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"unicode"

	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordMinLen = 12
	passwordMaxLen = 30

	// Minimum zxcvbn score (0-4). Score 0 passwords are trivially
	// guessable and always rejected.
	passwordMinScore = 1

	passwordSpecials = "~!@#$%&_-+=`|\\(){}[]:;'<>,.?/"
)

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword checks a candidate password against the password policy:
// 12-30 characters with at least one lowercase letter, one uppercase
// letter, one digit and one special character, and not trivially guessable.
func ValidatePassword(password string) error {
	n := len(password)
	if n < passwordMinLen || n > passwordMaxLen {
		return fmt.Errorf("password must be between %d and %d characters", passwordMinLen, passwordMaxLen)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsDigit(c):
			hasDigit = true
		default:
			for _, s := range passwordSpecials {
				if c == s {
					hasSpecial = true
					break
				}
			}
		}
	}

	switch {
	case !hasLower:
		return fmt.Errorf("password must contain a lowercase letter")
	case !hasUpper:
		return fmt.Errorf("password must contain an uppercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain a digit")
	case !hasSpecial:
		return fmt.Errorf("password must contain a special character (%s)", passwordSpecials)
	}

	if zxcvbn.PasswordStrength(password, nil).Score < passwordMinScore {
		return fmt.Errorf("password is too easy to guess")
	}

	return nil
}

const tempPasswordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%"

// GenerateTempPassword produces a random temporary password that satisfies
// the password policy.
func GenerateTempPassword() (string, error) {
	buf := make([]byte, 12)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		buf[i] = tempPasswordChars[n.Int64()]
	}

	// The fixed affixes guarantee the character classes the policy
	// requires even if the random portion misses one.
	return "Temp" + string(buf) + "1!", nil
}
