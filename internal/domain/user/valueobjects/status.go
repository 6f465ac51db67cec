package valueobjects

import "fmt"

// Status represents the user status value object
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

func (s Status) IsActive() bool {
	return s == StatusActive
}

// NewStatus parses value; an empty value means active
func NewStatus(value string) (Status, error) {
	if value == "" {
		return StatusActive, nil
	}
	s := Status(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid user status: %s", value)
	}
	return s, nil
}
