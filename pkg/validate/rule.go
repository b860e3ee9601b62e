package validate

import "github.com/regspec-tools/regspec-go/pkg/model"

// Rule represents a validation rule applied to a snapshot.
type Rule interface {
	// ID returns the stable rule identifier (e.g. "FIELD_OVERLAP").
	ID() string
	// Name returns a human-readable name for the rule.
	Name() string
	// Category returns the rule category (e.g. "geometry", "naming").
	Category() string
	// DefaultSeverity returns the severity findings report at unless
	// overridden in the registry.
	DefaultSeverity() Severity
	// Check applies the rule to a snapshot and returns any findings.
	// Check must not assume other rules have run or will run.
	Check(snap *model.SpecSnapshot) []Finding
}

// BaseRule provides the descriptive half of a Rule; concrete rules
// embed it and implement Check.
type BaseRule struct {
	id              string
	name            string
	category        string
	defaultSeverity Severity
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, category string, severity Severity) *BaseRule {
	return &BaseRule{
		id:              id,
		name:            name,
		category:        category,
		defaultSeverity: severity,
	}
}

// ID returns the rule ID.
func (r *BaseRule) ID() string { return r.id }

// Name returns the rule name.
func (r *BaseRule) Name() string { return r.name }

// Category returns the rule category.
func (r *BaseRule) Category() string { return r.category }

// DefaultSeverity returns the default severity.
func (r *BaseRule) DefaultSeverity() Severity { return r.defaultSeverity }
