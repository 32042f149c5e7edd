package provision

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordCharset is alphanumeric with the visually ambiguous characters
// removed (0/O, I/l/1). Temporary passwords get read over the phone and
// retyped from welcome emails.
const passwordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// DefaultPasswordLength is the length of generated temporary passwords
const DefaultPasswordLength = 12

// GeneratePassword creates a random temporary password of the given
// length from the unambiguous alphanumeric set.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}

	max := big.NewInt(int64(len(passwordCharset)))
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password[i] = passwordCharset[n.Int64()]
	}
	return string(password), nil
}
