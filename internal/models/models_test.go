package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidMode(t *testing.T) {
	assert.True(t, IsValidMode(ModeFreeNow))
	assert.True(t, IsValidMode(ModeBusy))
	assert.True(t, IsValidMode(ModeNextWindow))
	assert.False(t, IsValidMode(ModeNotConnected))
	assert.False(t, IsValidMode(""))
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 30, 0, 123000000, time.FixedZone("ALMT", 5*3600))
	s := Timestamp(ts)
	assert.Equal(t, "2025-03-01T04:30:00.123Z", s)

	parsed, err := ParseTimestamp(s)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))

	parsed, err = ParseTimestamp("2025-03-01T04:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 4, parsed.Hour())

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}
