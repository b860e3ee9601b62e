package rules

import (
	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/validate"
)

// Options configures the standard rule battery.
type Options struct {
	// ReservedPattern is the name glob identifying reserved fields.
	// Empty means DefaultReservedPattern.
	ReservedPattern string

	// SeverityOverrides maps rule IDs to overriding severities
	// (e.g. promote RESERVED_BIT_POLICY to error).
	SeverityOverrides map[string]validate.Severity

	// DisabledRules lists rule IDs to disable.
	DisabledRules []string
}

// RegisterAllRules registers the full rule battery in its documented
// evaluation order. Registration order is the findings tie-break order,
// so keep it stable.
func RegisterAllRules(registry *validate.RuleRegistry, opts Options) {
	RegisterGeometryRules(registry)
	RegisterNamingRules(registry)
	RegisterEnumRules(registry)
	RegisterPolicyRules(registry, opts.ReservedPattern)
	RegisterConstraintRules(registry)

	for id, sev := range opts.SeverityOverrides {
		registry.SetSeverity(id, sev)
	}
	for _, id := range opts.DisabledRules {
		registry.Disable(id)
	}
}

// NewRegistry creates a registry with the full battery and options applied.
func NewRegistry(opts Options) *validate.RuleRegistry {
	registry := validate.NewRuleRegistry()
	RegisterAllRules(registry, opts)
	return registry
}

// NewDefaultRegistry creates a registry with the full battery and
// default options.
func NewDefaultRegistry() *validate.RuleRegistry {
	return NewRegistry(Options{})
}

// Validate runs the standard rule battery against a snapshot with
// default options.
func Validate(snap *model.SpecSnapshot) ([]validate.Finding, error) {
	return validate.ValidateWithRegistry(snap, NewDefaultRegistry())
}
