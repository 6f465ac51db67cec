package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// Prefixes for entity types (Stripe-style)
const (
	PrefixSchema   = "tks"
	PrefixFlowStep = "tkf"
	PrefixTicket   = "tkt"
	PrefixFlowItem = "tfi"
	PrefixUser     = "usr"
	PrefixRole     = "rol"
	PrefixBlob     = "blb"
)

// Generate creates a random short ID with the specified length using Base62 encoding.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}

// MustGenerateWithPrefix creates a prefixed ID and panics on error.
func MustGenerateWithPrefix(prefix string, length int) string {
	id, err := GenerateWithPrefix(prefix, length)
	if err != nil {
		panic(err)
	}
	return id
}

// ParsePrefixedID extracts the prefix and short ID from a prefixed ID string.
// Example: ParsePrefixedID("tkt_xK9mP2vL3nQ") returns ("tkt", "xK9mP2vL3nQ", nil)
func ParsePrefixedID(prefixedID string) (prefix, shortID string, err error) {
	parts := strings.SplitN(prefixedID, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	return parts[0], parts[1], nil
}

// ValidatePrefix checks if the prefixed ID has the expected prefix.
func ValidatePrefix(prefixedID, expectedPrefix string) error {
	prefix, _, err := ParsePrefixedID(prefixedID)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	return nil
}

func NewSchemaID() string   { return MustGenerateWithPrefix(PrefixSchema, DefaultLength) }
func NewFlowStepID() string { return MustGenerateWithPrefix(PrefixFlowStep, DefaultLength) }
func NewTicketID() string   { return MustGenerateWithPrefix(PrefixTicket, DefaultLength) }
func NewFlowItemID() string { return MustGenerateWithPrefix(PrefixFlowItem, DefaultLength) }
func NewUserID() string     { return MustGenerateWithPrefix(PrefixUser, DefaultLength) }
func NewRoleID() string     { return MustGenerateWithPrefix(PrefixRole, DefaultLength) }
func NewBlobID() string     { return MustGenerateWithPrefix(PrefixBlob, DefaultLength) }
