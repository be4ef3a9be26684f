package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFullVersion(t *testing.T) {
	full := GetFullVersion()
	assert.Contains(t, full, GetVersion())
	assert.Contains(t, full, "build:")
	assert.Contains(t, full, "commit:")
}

func TestGetLogger_ReusesInstance(t *testing.T) {
	first := GetLogger()
	require.NotNil(t, first)
	assert.Equal(t, first, GetLogger())
}
