// Package rules contains the standard validation rule battery for
// register spec snapshots.
package rules

import (
	"fmt"
	"sort"

	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/validate"
)

// RegisterGeometryRules registers the bit-geometry rules.
func RegisterGeometryRules(registry *validate.RuleRegistry) {
	registry.Register(NewFieldRange())
	registry.Register(NewFieldOverlap())
	registry.Register(NewResetRange())
}

// FieldRange checks that every field's bit range lies inside its
// register width and is not inverted.
type FieldRange struct {
	*validate.BaseRule
}

func NewFieldRange() *FieldRange {
	return &FieldRange{
		BaseRule: validate.NewBaseRule("FIELD_OUT_OF_RANGE", "Field range within register", "geometry", validate.SeverityError),
	}
}

func (r *FieldRange) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			for fi := range reg.Fields {
				f := &reg.Fields[fi]
				path := model.FieldPath(blk.Name, reg.Name, f.Name)

				if f.Msb < f.Lsb {
					findings = append(findings, validate.Finding{
						Severity: r.DefaultSeverity(),
						RuleID:   r.ID(),
						Path:     path,
						Message:  fmt.Sprintf("bit range [%d:%d] is inverted (msb < lsb)", f.Msb, f.Lsb),
					})
					continue
				}

				if f.Msb >= reg.Width {
					findings = append(findings, validate.Finding{
						Severity: r.DefaultSeverity(),
						RuleID:   r.ID(),
						Path:     path,
						Message:  fmt.Sprintf("bits [%d:%d] exceed register width %d", f.Msb, f.Lsb, reg.Width),
					})
				}
			}
		}
	}
	return findings
}

// FieldOverlap checks that no two fields in a register have
// intersecting bit ranges. Every intersecting pair is reported exactly
// once, naming both fields.
type FieldOverlap struct {
	*validate.BaseRule
}

func NewFieldOverlap() *FieldOverlap {
	return &FieldOverlap{
		BaseRule: validate.NewBaseRule("FIELD_OVERLAP", "Field bit ranges disjoint", "geometry", validate.SeverityError),
	}
}

func (r *FieldOverlap) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]

			// Sort by lsb; a field can only overlap fields that start
			// at or before it, so comparing against earlier entries in
			// sorted order covers every pair once.
			sorted := make([]model.Field, len(reg.Fields))
			copy(sorted, reg.Fields)
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].Lsb < sorted[j].Lsb
			})

			for i := 1; i < len(sorted); i++ {
				cur := sorted[i]
				for j := i - 1; j >= 0; j-- {
					prev := sorted[j]
					if !cur.Overlaps(prev) {
						continue
					}
					findings = append(findings, validate.Finding{
						Severity: r.DefaultSeverity(),
						RuleID:   r.ID(),
						Path:     model.FieldPath(blk.Name, reg.Name, cur.Name),
						Message: fmt.Sprintf("field %s [%d:%d] overlaps %s [%d:%d]",
							cur.Name, cur.Msb, cur.Lsb, prev.Name, prev.Msb, prev.Lsb),
					})
				}
			}
		}
	}
	return findings
}

// ResetRange checks that reset values fit the field width.
type ResetRange struct {
	*validate.BaseRule
}

func NewResetRange() *ResetRange {
	return &ResetRange{
		BaseRule: validate.NewBaseRule("RESET_OUT_OF_RANGE", "Reset value fits field width", "geometry", validate.SeverityError),
	}
}

func (r *ResetRange) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			for fi := range reg.Fields {
				f := &reg.Fields[fi]
				if f.Width() == 0 {
					// Inverted range; FIELD_OUT_OF_RANGE reports it.
					continue
				}
				if f.Reset > f.MaxValue() {
					findings = append(findings, validate.Finding{
						Severity: r.DefaultSeverity(),
						RuleID:   r.ID(),
						Path:     model.FieldPath(blk.Name, reg.Name, f.Name),
						Message: fmt.Sprintf("reset 0x%X does not fit width %d (max 0x%X)",
							f.Reset, f.Width(), f.MaxValue()),
					})
				}
			}
		}
	}
	return findings
}
