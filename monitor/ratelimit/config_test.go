// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package ratelimit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTiers(t *testing.T) {
	tiers := DefaultTiers()

	assert.Equal(t, Tier{Window: 15 * time.Minute, Max: 100}, tiers[TierGeneral])
	assert.Equal(t, Tier{Window: 15 * time.Minute, Max: 20}, tiers[TierAuth])
	assert.Equal(t, Tier{Window: 15 * time.Minute, Max: 30}, tiers[TierIntensive])
}

func TestLoadTiersOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	content := "intensive:\n  window: 5m\n  max: 10\ncustom:\n  window: 30s\n  max: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tiers, err := LoadTiers(path)
	require.NoError(t, err)

	assert.Equal(t, Tier{Window: 5 * time.Minute, Max: 10}, tiers["intensive"])
	assert.Equal(t, Tier{Window: 30 * time.Second, Max: 3}, tiers["custom"])
	// Untouched tiers keep defaults
	assert.Equal(t, Tier{Window: 15 * time.Minute, Max: 100}, tiers[TierGeneral])
}

func TestLoadTiersRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero max", content: "general:\n  window: 1m\n  max: 0\n"},
		{name: "negative window", content: "general:\n  window: -1m\n  max: 5\n"},
		{name: "not yaml", content: "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tiers.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := LoadTiers(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadTiersMissingFile(t *testing.T) {
	_, err := LoadTiers(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
