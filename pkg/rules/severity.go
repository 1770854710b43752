// SPDX-License-Identifier: Apache-2.0

package rules

import "strings"

// Severity is a finding's severity. Comparison follows the ordinal
// lattice Info < Minor < Major < Critical < Blocker.
type Severity int

const (
	Info Severity = iota
	Minor
	Major
	Critical
	Blocker
)

// ParseSeverity parses a severity from config input, case-insensitive.
// The boolean is false for unknown values.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "info":
		return Info, true
	case "minor":
		return Minor, true
	case "major":
		return Major, true
	case "critical":
		return Critical, true
	case "blocker":
		return Blocker, true
	default:
		return Info, false
	}
}

// SonarQubeString is the uppercase severity string SonarQube expects.
func (s Severity) SonarQubeString() string {
	switch s {
	case Minor:
		return "MINOR"
	case Major:
		return "MAJOR"
	case Critical:
		return "CRITICAL"
	case Blocker:
		return "BLOCKER"
	default:
		return "INFO"
	}
}

// TitleCase renders the severity for documentation output.
func (s Severity) TitleCase() string {
	switch s {
	case Minor:
		return "Minor"
	case Major:
		return "Major"
	case Critical:
		return "Critical"
	case Blocker:
		return "Blocker"
	default:
		return "Info"
	}
}

func (s Severity) String() string {
	return s.SonarQubeString()
}
