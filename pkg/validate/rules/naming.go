package rules

import (
	"fmt"

	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/validate"
)

// RegisterNamingRules registers the name/offset uniqueness rules.
func RegisterNamingRules(registry *validate.RuleRegistry) {
	registry.Register(NewDuplicateName())
	registry.Register(NewDuplicateOffset())
}

// DuplicateName checks that register names are unique within a block
// and field names are unique within a register. Each duplicate is
// reported once against the first declaration.
type DuplicateName struct {
	*validate.BaseRule
}

func NewDuplicateName() *DuplicateName {
	return &DuplicateName{
		BaseRule: validate.NewBaseRule("DUPLICATE_NAME", "Entity names unique per scope", "naming", validate.SeverityError),
	}
}

func (r *DuplicateName) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	seenBlocks := make(map[string]bool)
	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		if seenBlocks[blk.Name] {
			findings = append(findings, validate.Finding{
				Severity: r.DefaultSeverity(),
				RuleID:   r.ID(),
				Path:     model.BlockPath(blk.Name),
				Message:  fmt.Sprintf("block name %s declared more than once", blk.Name),
			})
		}
		seenBlocks[blk.Name] = true

		seenRegs := make(map[string]bool)
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			if seenRegs[reg.Name] {
				findings = append(findings, validate.Finding{
					Severity: r.DefaultSeverity(),
					RuleID:   r.ID(),
					Path:     model.RegisterPath(blk.Name, reg.Name),
					Message:  fmt.Sprintf("register name %s declared more than once in block %s", reg.Name, blk.Name),
				})
			}
			seenRegs[reg.Name] = true

			seenFields := make(map[string]bool)
			for fi := range reg.Fields {
				f := &reg.Fields[fi]
				if seenFields[f.Name] {
					findings = append(findings, validate.Finding{
						Severity: r.DefaultSeverity(),
						RuleID:   r.ID(),
						Path:     model.FieldPath(blk.Name, reg.Name, f.Name),
						Message:  fmt.Sprintf("field name %s declared more than once in register %s", f.Name, reg.Name),
					})
				}
				seenFields[f.Name] = true
			}
		}
	}
	return findings
}

// DuplicateOffset checks that register byte offsets are unique within
// a block. Each colliding pair is reported exactly once.
type DuplicateOffset struct {
	*validate.BaseRule
}

func NewDuplicateOffset() *DuplicateOffset {
	return &DuplicateOffset{
		BaseRule: validate.NewBaseRule("DUPLICATE_OFFSET", "Register offsets unique per block", "naming", validate.SeverityError),
	}
}

func (r *DuplicateOffset) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		seen := make(map[uint64][]string)
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			for _, earlier := range seen[reg.Offset] {
				findings = append(findings, validate.Finding{
					Severity: r.DefaultSeverity(),
					RuleID:   r.ID(),
					Path:     model.RegisterPath(blk.Name, reg.Name),
					Message:  fmt.Sprintf("register %s shares offset 0x%04X with %s", reg.Name, reg.Offset, earlier),
				})
			}
			seen[reg.Offset] = append(seen[reg.Offset], reg.Name)
		}
	}
	return findings
}
