package validate

import (
	"testing"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// stubRule emits one fixed finding per Check call.
type stubRule struct {
	*BaseRule
	finding Finding
}

func newStubRule(id, category string, sev Severity) *stubRule {
	return &stubRule{
		BaseRule: NewBaseRule(id, id, category, sev),
		finding:  Finding{Severity: sev, RuleID: id, Message: "stub"},
	}
}

func (r *stubRule) Check(*model.SpecSnapshot) []Finding {
	return []Finding{r.finding}
}

func TestRegistryOrderAndEnable(t *testing.T) {
	registry := NewRuleRegistry()
	registry.Register(newStubRule("B", "cat1", SeverityError))
	registry.Register(newStubRule("A", "cat2", SeverityWarning))

	rules := registry.EnabledRules()
	if len(rules) != 2 || rules[0].ID() != "B" || rules[1].ID() != "A" {
		t.Fatalf("expected registration order [B A], got %v", rules)
	}

	registry.Disable("B")
	rules = registry.EnabledRules()
	if len(rules) != 1 || rules[0].ID() != "A" {
		t.Fatalf("expected [A] after disable, got %v", rules)
	}
	if registry.IsEnabled("B") {
		t.Error("B should be disabled")
	}

	registry.Enable("B")
	if !registry.IsEnabled("B") {
		t.Error("B should be enabled again")
	}
}

func TestRegistryCategories(t *testing.T) {
	registry := NewRuleRegistry()
	registry.Register(newStubRule("B", "naming", SeverityError))
	registry.Register(newStubRule("A", "geometry", SeverityError))

	cats := registry.Categories()
	if len(cats) != 2 || cats[0] != "geometry" || cats[1] != "naming" {
		t.Fatalf("Categories() = %v", cats)
	}

	registry.DisableCategory("naming")
	if registry.IsEnabled("B") {
		t.Error("naming rule should be disabled")
	}
	if !registry.IsEnabled("A") {
		t.Error("geometry rule should stay enabled")
	}
	registry.EnableCategory("naming")
	if !registry.IsEnabled("B") {
		t.Error("naming rule should be re-enabled")
	}
}

func TestRegistrySeverityOverride(t *testing.T) {
	registry := NewRuleRegistry()
	registry.Register(newStubRule("R", "policy", SeverityWarning))

	if got := registry.GetSeverity("R"); got != SeverityWarning {
		t.Fatalf("default severity = %v", got)
	}

	registry.SetSeverity("R", SeverityError)
	if got := registry.GetSeverity("R"); got != SeverityError {
		t.Fatalf("overridden severity = %v", got)
	}

	snap := &model.SpecSnapshot{Version: "1.0.0"}
	findings := registry.runRules(snap)
	if len(findings) != 1 || findings[0].Severity != SeverityError {
		t.Fatalf("override not applied to findings: %v", findings)
	}
}

func TestRegistryKeepsEmittedSeverityWithoutOverride(t *testing.T) {
	registry := NewRuleRegistry()
	r := newStubRule("R", "constraint", SeverityError)
	r.finding.Severity = SeverityWarning // rule emits per-finding severity
	registry.Register(r)

	findings := registry.runRules(&model.SpecSnapshot{Version: "1.0.0"})
	if len(findings) != 1 || findings[0].Severity != SeverityWarning {
		t.Fatalf("emitted severity should be kept: %v", findings)
	}
}
