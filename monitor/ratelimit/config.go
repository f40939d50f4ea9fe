// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package ratelimit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Well-known tier names used by the HTTP service shell
const (
	TierGeneral   = "general"
	TierAuth      = "auth"
	TierIntensive = "intensive"
)

// DefaultTiers returns the built-in tier set: general API traffic,
// authentication endpoints, and resource-intensive analysis endpoints.
func DefaultTiers() map[string]Tier {
	return map[string]Tier{
		TierGeneral:   {Window: 15 * time.Minute, Max: 100},
		TierAuth:      {Window: 15 * time.Minute, Max: 20},
		TierIntensive: {Window: 15 * time.Minute, Max: 30},
	}
}

// UnmarshalYAML decodes a tier whose window is a duration string ("15m",
// "30s"). Declared here because yaml.v3 has no native duration support.
func (t *Tier) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Window string `yaml:"window"`
		Max    int    `yaml:"max"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Window != "" {
		d, err := time.ParseDuration(raw.Window)
		if err != nil {
			return fmt.Errorf("invalid window duration %q: %w", raw.Window, err)
		}
		t.Window = d
	}
	t.Max = raw.Max
	return nil
}

// LoadTiers reads a tier set from a YAML file. Tiers in the file override
// the defaults; tiers absent from the file keep their default policy.
//
// Example:
//
//	general:
//	  window: 15m
//	  max: 100
//	intensive:
//	  window: 5m
//	  max: 10
func LoadTiers(path string) (map[string]Tier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate limit config: %w", err)
	}

	var loaded map[string]Tier
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse rate limit config: %w", err)
	}

	tiers := DefaultTiers()
	for name, tier := range loaded {
		if tier.Window <= 0 {
			return nil, fmt.Errorf("tier %q: window must be positive", name)
		}
		if tier.Max <= 0 {
			return nil, fmt.Errorf("tier %q: max must be positive", name)
		}
		tiers[name] = tier
	}
	return tiers, nil
}
