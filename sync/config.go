// ABOUTME: Ingestion configuration for the three source platforms
// ABOUTME: Per-source confidence thresholds loaded from the environment
package sync

import (
	"fmt"
	"os"

	"attrib/models"
	"attrib/resolver"
)

// Config holds the per-source resolution thresholds. Thresholds are
// caller-supplied configuration, never constants buried in import code;
// medium is the recommended general-purpose default.
type Config struct {
	CRMThreshold        resolver.Confidence
	SchedulingThreshold resolver.Confidence
	FormsThreshold      resolver.Confidence

	// NameSimilarity tunes the fuzzy-name threshold of the resolver.
	NameSimilarity float64
}

// Environment variables read by LoadConfig. Values are confidence level
// names (exact/high/medium/low).
const (
	EnvCRMThreshold        = "ATTRIB_CRM_THRESHOLD"
	EnvSchedulingThreshold = "ATTRIB_SCHEDULING_THRESHOLD"
	EnvFormsThreshold      = "ATTRIB_FORMS_THRESHOLD"
)

// LoadConfig builds the ingestion config from the environment, falling
// back to medium for any unset threshold.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		CRMThreshold:        resolver.ConfidenceMedium,
		SchedulingThreshold: resolver.ConfidenceMedium,
		FormsThreshold:      resolver.ConfidenceMedium,
		NameSimilarity:      resolver.DefaultNameSimilarity,
	}

	for env, dst := range map[string]*resolver.Confidence{
		EnvCRMThreshold:        &cfg.CRMThreshold,
		EnvSchedulingThreshold: &cfg.SchedulingThreshold,
		EnvFormsThreshold:      &cfg.FormsThreshold,
	} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		level, err := resolver.ParseConfidence(val)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", env, err)
		}
		*dst = level
	}

	return cfg, nil
}

// ThresholdFor returns the configured threshold for a platform tag.
func (c *Config) ThresholdFor(source string) resolver.Confidence {
	switch source {
	case models.SourceCRM:
		return c.CRMThreshold
	case models.SourceScheduling:
		return c.SchedulingThreshold
	case models.SourceForms:
		return c.FormsThreshold
	default:
		return resolver.ConfidenceMedium
	}
}
