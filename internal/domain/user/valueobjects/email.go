package valueobjects

import (
	"fmt"
	"strings"

	"github.com/orris-inc/ticketflow/internal/shared/textutil"
)

// Email represents a normalized email address
type Email struct {
	value string
}

// NewEmail lower-cases and validates value
func NewEmail(value string) (Email, error) {
	normalized := strings.TrimSpace(strings.ToLower(value))

	if normalized == "" {
		return Email{}, fmt.Errorf("email cannot be empty")
	}
	if len(normalized) > 255 {
		return Email{}, fmt.Errorf("email cannot exceed 255 characters")
	}
	if !textutil.IsEmail(normalized) {
		return Email{}, fmt.Errorf("invalid email format: %s", value)
	}

	return Email{value: normalized}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) IsZero() bool {
	return e.value == ""
}

// Domain returns the part after @
func (e Email) Domain() string {
	_, domain, ok := strings.Cut(e.value, "@")
	if !ok {
		return ""
	}
	return domain
}
