package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("admin123", passwordHash))
	assert.False(t, CheckPasswordHash("admin124", passwordHash))

	// hashes created with a different cost still verify
	assert.True(t, CheckPasswordHash("testpass", "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i"))
	assert.False(t, CheckPasswordHash("testpass", "not-a-hash"))
}
