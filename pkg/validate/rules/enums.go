package rules

import (
	"fmt"

	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/validate"
)

// RegisterEnumRules registers the enum value rules.
func RegisterEnumRules(registry *validate.RuleRegistry) {
	registry.Register(NewEnumRange())
	registry.Register(NewDuplicateEnum())
}

// EnumRange checks that every enum value fits its field's bit width.
type EnumRange struct {
	*validate.BaseRule
}

func NewEnumRange() *EnumRange {
	return &EnumRange{
		BaseRule: validate.NewBaseRule("ENUM_OUT_OF_RANGE", "Enum values fit field width", "enum", validate.SeverityError),
	}
}

func (r *EnumRange) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			for fi := range reg.Fields {
				f := &reg.Fields[fi]
				if f.Width() == 0 {
					continue
				}
				for _, ev := range f.Enum {
					if ev.Value > f.MaxValue() {
						findings = append(findings, validate.Finding{
							Severity: r.DefaultSeverity(),
							RuleID:   r.ID(),
							Path:     model.FieldPath(blk.Name, reg.Name, f.Name),
							Message: fmt.Sprintf("enum %s=%d does not fit width %d (max %d)",
								ev.Name, ev.Value, f.Width(), f.MaxValue()),
						})
					}
				}
			}
		}
	}
	return findings
}

// DuplicateEnum checks that enum names and encoded values are each
// unique within a field's enum set.
type DuplicateEnum struct {
	*validate.BaseRule
}

func NewDuplicateEnum() *DuplicateEnum {
	return &DuplicateEnum{
		BaseRule: validate.NewBaseRule("DUPLICATE_ENUM", "Enum names and values unique per field", "enum", validate.SeverityError),
	}
}

func (r *DuplicateEnum) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			for fi := range reg.Fields {
				f := &reg.Fields[fi]
				path := model.FieldPath(blk.Name, reg.Name, f.Name)

				seenNames := make(map[string]bool)
				seenValues := make(map[uint64]string)
				for _, ev := range f.Enum {
					if seenNames[ev.Name] {
						findings = append(findings, validate.Finding{
							Severity: r.DefaultSeverity(),
							RuleID:   r.ID(),
							Path:     path,
							Message:  fmt.Sprintf("enum name %s declared more than once", ev.Name),
						})
					}
					seenNames[ev.Name] = true

					if earlier, dup := seenValues[ev.Value]; dup {
						findings = append(findings, validate.Finding{
							Severity: r.DefaultSeverity(),
							RuleID:   r.ID(),
							Path:     path,
							Message:  fmt.Sprintf("enum %s reuses value %d already assigned to %s", ev.Name, ev.Value, earlier),
						})
					} else {
						seenValues[ev.Value] = ev.Name
					}
				}
			}
		}
	}
	return findings
}
