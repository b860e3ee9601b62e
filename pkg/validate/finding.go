package validate

import (
	"fmt"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// Severity represents the severity level of a finding.
type Severity int

const (
	// SeverityError indicates a structural violation that makes the
	// spec unusable for downstream consumers.
	SeverityError Severity = iota

	// SeverityWarning indicates a convention or policy issue.
	SeverityWarning

	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// ParseSeverity parses a severity name ("error", "warning", "info").
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity %q", s)
	}
}

// Finding is one validation result.
type Finding struct {
	// Severity is the finding's severity level.
	Severity Severity

	// RuleID is the stable identifier of the violated rule
	// (e.g. "FIELD_OVERLAP").
	RuleID string

	// Path locates the offending entity.
	Path model.Path

	// Message describes what is wrong.
	Message string
}

// String returns a formatted one-line representation of the finding.
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s: %s", f.Severity, f.RuleID, f.Path, f.Message)
}

// HasErrors returns true if any finding has severity Error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of findings at the given severity.
func CountBySeverity(findings []Finding, severity Severity) int {
	count := 0
	for _, f := range findings {
		if f.Severity == severity {
			count++
		}
	}
	return count
}

// FilterBySeverity returns findings at or above the given severity level.
func FilterBySeverity(findings []Finding, minSeverity Severity) []Finding {
	var filtered []Finding
	for _, f := range findings {
		if f.Severity <= minSeverity {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
