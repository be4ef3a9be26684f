package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSettings_ConsumeIsSingleUse(t *testing.T) {
	settings := &RunSettings{DownloadDirectory: "/tmp/out"}

	require.False(t, settings.Consumed())
	require.NoError(t, settings.Consume())
	assert.True(t, settings.Consumed())

	assert.ErrorIs(t, settings.Consume(), ErrSettingsConsumed)

	// Fields remain readable after consumption
	assert.Equal(t, "/tmp/out", settings.DownloadDirectory)
}

func TestSessionCookies_Empty(t *testing.T) {
	assert.True(t, (&SessionCookies{}).Empty())
	assert.False(t, (&SessionCookies{SessionId: "abc"}).Empty())
}
