package rules

import (
	"fmt"
	"strconv"

	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/validate"
)

// RegisterConstraintRules registers the declarative-constraint rules.
func RegisterConstraintRules(registry *validate.RuleRegistry) {
	registry.Register(NewUnmatchedConstraint())
	registry.Register(NewConstraintViolation())
}

// UnmatchedConstraint warns when a constraint's match predicate
// resolves to zero entities. A constraint that matches nothing is
// usually a typo in its pattern or scope.
type UnmatchedConstraint struct {
	*validate.BaseRule
}

func NewUnmatchedConstraint() *UnmatchedConstraint {
	return &UnmatchedConstraint{
		BaseRule: validate.NewBaseRule("UNMATCHED_CONSTRAINT", "Constraints match at least one entity", "constraint", validate.SeverityWarning),
	}
}

func (r *UnmatchedConstraint) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for _, c := range snap.Constraints {
		if len(matchedPaths(snap, c)) == 0 {
			findings = append(findings, validate.Finding{
				Severity: r.DefaultSeverity(),
				RuleID:   r.ID(),
				Message:  fmt.Sprintf("constraint %s matches no %s entities", c.Name, c.Scope),
			})
		}
	}
	return findings
}

// ConstraintViolation evaluates each constraint's asserted rule against
// its matched entities. Findings report at the constraint's declared
// severity, not the rule default.
type ConstraintViolation struct {
	*validate.BaseRule
}

func NewConstraintViolation() *ConstraintViolation {
	return &ConstraintViolation{
		BaseRule: validate.NewBaseRule("CONSTRAINT_VIOLATION", "Matched entities satisfy constraint rules", "constraint", validate.SeverityError),
	}
}

func (r *ConstraintViolation) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for _, c := range snap.Constraints {
		severity := r.DefaultSeverity()
		if c.Severity == model.ConstraintWarning {
			severity = validate.SeverityWarning
		}

		switch c.Rule {
		case model.RuleReadsAsZero:
			if c.Scope != model.ScopeField {
				findings = append(findings, validate.Finding{
					Severity: validate.SeverityWarning,
					RuleID:   r.ID(),
					Message:  fmt.Sprintf("constraint %s: %s applies to fields, not %s scope", c.Name, c.Rule, c.Scope),
				})
				continue
			}
			for _, p := range matchedPaths(snap, c) {
				_, _, f, ok := snap.Resolve(p)
				if !ok || f == nil {
					continue
				}
				if f.Access != model.AccessRO || f.Reset != 0 {
					findings = append(findings, validate.Finding{
						Severity: severity,
						RuleID:   r.ID(),
						Path:     p,
						Message: fmt.Sprintf("constraint %s: field must read as zero (access=%s, reset=0x%X)",
							c.Name, f.Access, f.Reset),
					})
				}
			}
		default:
			findings = append(findings, validate.Finding{
				Severity: validate.SeverityWarning,
				RuleID:   r.ID(),
				Message:  fmt.Sprintf("constraint %s asserts unknown rule %s", c.Name, c.Rule),
			})
		}
	}
	return findings
}

// matchedPaths resolves a constraint's match predicate against all
// entities in its scope, returning their paths in model order.
func matchedPaths(snap *model.SpecSnapshot, c model.Constraint) []model.Path {
	var paths []model.Path

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		if c.Scope == model.ScopeBlock {
			if matchesBlock(c.Match, blk) {
				paths = append(paths, model.BlockPath(blk.Name))
			}
			continue
		}

		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			if c.Scope == model.ScopeRegister {
				if matchesRegister(c.Match, blk, reg) {
					paths = append(paths, model.RegisterPath(blk.Name, reg.Name))
				}
				continue
			}

			for fi := range reg.Fields {
				f := &reg.Fields[fi]
				if matchesField(c.Match, blk, reg, f) {
					paths = append(paths, model.FieldPath(blk.Name, reg.Name, f.Name))
				}
			}
		}
	}
	return paths
}

func matchesBlock(m model.Match, blk *model.IpBlock) bool {
	switch m.Kind {
	case model.MatchAll, model.MatchByName:
		return m.MatchesName(blk.Name)
	case model.MatchByAttr:
		switch m.Attr {
		case "name":
			return blk.Name == m.Value
		case "base_addr":
			return uintAttrEquals(blk.BaseAddr, m.Value)
		}
	}
	return false
}

func matchesRegister(m model.Match, blk *model.IpBlock, reg *model.Register) bool {
	switch m.Kind {
	case model.MatchAll, model.MatchByName:
		return m.MatchesName(reg.Name)
	case model.MatchByAttr:
		switch m.Attr {
		case "name":
			return reg.Name == m.Value
		case "offset":
			return uintAttrEquals(reg.Offset, m.Value)
		case "width":
			return uintAttrEquals(uint64(reg.Width), m.Value)
		}
	}
	return false
}

func matchesField(m model.Match, blk *model.IpBlock, reg *model.Register, f *model.Field) bool {
	switch m.Kind {
	case model.MatchAll, model.MatchByName:
		return m.MatchesName(f.Name)
	case model.MatchByAttr:
		switch m.Attr {
		case "name":
			return f.Name == m.Value
		case "access":
			return string(f.Access) == m.Value
		case "reset":
			return uintAttrEquals(f.Reset, m.Value)
		case "lsb":
			return uintAttrEquals(uint64(f.Lsb), m.Value)
		case "msb":
			return uintAttrEquals(uint64(f.Msb), m.Value)
		}
	}
	return false
}

// uintAttrEquals compares a numeric attribute against its string form
// from the constraint document. Accepts decimal and 0x-prefixed hex.
func uintAttrEquals(attr uint64, value string) bool {
	v, err := strconv.ParseUint(value, 0, 64)
	return err == nil && attr == v
}
