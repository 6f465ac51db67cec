package permission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/shared/id"
)

func TestNewRole(t *testing.T) {
	r, err := NewRole(" Reviewers ", "people who approve")
	require.NoError(t, err)
	require.NoError(t, id.ValidatePrefix(r.SID(), id.PrefixRole))
	assert.Equal(t, "Reviewers", r.Name())

	_, err = NewRole("", "")
	assert.Error(t, err)

	_, err = NewRole(strings.Repeat("r", 51), "")
	assert.Error(t, err)
}

func TestRole_SetID(t *testing.T) {
	r, err := NewRole("ops", "")
	require.NoError(t, err)

	assert.Error(t, r.SetID(0))
	require.NoError(t, r.SetID(4))
	assert.Error(t, r.SetID(5))
	assert.Equal(t, uint(4), r.ID())
}
