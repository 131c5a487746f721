// ABOUTME: Confidence levels for contact match candidates
// ABOUTME: Defines the ordered EXACT/HIGH/MEDIUM/LOW/NONE scale
package resolver

import (
	"fmt"
	"strings"
)

// Confidence is a discrete judgment of how certain a candidate match is.
// Values are ordered: None < Low < Medium < High < Exact, so levels
// compare directly with >= against a threshold.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
	ConfidenceExact
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceExact:
		return "exact"
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// ParseConfidence parses a confidence level name (case-insensitive).
func ParseConfidence(s string) (Confidence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return ConfidenceExact, nil
	case "high":
		return ConfidenceHigh, nil
	case "medium":
		return ConfidenceMedium, nil
	case "low":
		return ConfidenceLow, nil
	case "none":
		return ConfidenceNone, nil
	default:
		return ConfidenceNone, fmt.Errorf("unknown confidence level: %q", s)
	}
}

// Signal identifies which comparison matched between an incoming record
// and an existing contact. Lower values are stronger signals.
type Signal int

const (
	SignalEmail        Signal = iota // normalized email equal
	SignalEmailVariant               // same address modulo plus-addressing
	SignalPhone                      // normalized phone equal
	SignalName                       // name similarity above threshold
	SignalCompany                    // company corroborates a name match
	SignalDomain                     // email domain agrees with contact's company
)

func (s Signal) String() string {
	switch s {
	case SignalEmail:
		return "email"
	case SignalEmailVariant:
		return "email-variant"
	case SignalPhone:
		return "phone"
	case SignalName:
		return "name"
	case SignalCompany:
		return "company"
	case SignalDomain:
		return "domain"
	default:
		return "unknown"
	}
}
