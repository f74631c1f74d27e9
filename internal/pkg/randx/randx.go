/*
Package randx generates cryptographically secure random strings and identifiers.

The client core tags every outgoing request with RequestID; the development backend
uses Nickname for accounts created through Google sign-in and for unnamed characters.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	nicknameRandomLength = 6
)

// Base62 returns n random characters from Base62Chars using crypto/rand.
func Base62(n int) (string, error) {
	result := make([]byte, n)

	for i := range n {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// RequestID generates a UUID v4 used as the X-Request-ID of an outgoing call.
func RequestID() string {
	return uuid.New().String()
}

// IsValidRequestID reports whether id is a UUID as produced by RequestID.
func IsValidRequestID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Nickname generates prefix + "_" + 6 random Base62 characters.
func Nickname(prefix string) (string, error) {
	suffix, err := Base62(nicknameRandomLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate nickname: %w", err)
	}
	return prefix + "_" + suffix, nil
}

// IsBase62 reports whether s is non-empty and made of Base62 characters only.
func IsBase62(s string) bool {
	if s == "" {
		return false
	}
	for _, char := range s {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}
	return true
}
