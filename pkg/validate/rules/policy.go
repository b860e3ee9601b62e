package rules

import (
	"fmt"
	"path"

	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/validate"
)

// DefaultReservedPattern is the name glob identifying reserved fields.
const DefaultReservedPattern = "RSVD*"

// RegisterPolicyRules registers the convention/policy rules.
func RegisterPolicyRules(registry *validate.RuleRegistry, reservedPattern string) {
	registry.Register(NewReservedBitPolicy(reservedPattern))
	registry.Register(NewRegisterGap())
}

// ReservedBitPolicy checks that reserved fields (name matches the
// reserved pattern, or targeted by a READS_AS_ZERO constraint) are RO
// with reset 0.
type ReservedBitPolicy struct {
	*validate.BaseRule
	pattern string
}

func NewReservedBitPolicy(pattern string) *ReservedBitPolicy {
	if pattern == "" {
		pattern = DefaultReservedPattern
	}
	return &ReservedBitPolicy{
		BaseRule: validate.NewBaseRule("RESERVED_BIT_POLICY", "Reserved fields read-only with reset 0", "policy", validate.SeverityWarning),
		pattern:  pattern,
	}
}

func (r *ReservedBitPolicy) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			for fi := range reg.Fields {
				f := &reg.Fields[fi]
				if !r.isReserved(snap, blk, reg, f) {
					continue
				}
				if f.Access == model.AccessRO && f.Reset == 0 {
					continue
				}
				findings = append(findings, validate.Finding{
					Severity: r.DefaultSeverity(),
					RuleID:   r.ID(),
					Path:     model.FieldPath(blk.Name, reg.Name, f.Name),
					Message: fmt.Sprintf("reserved field must be RO with reset 0 and ignore writes (access=%s, reset=0x%X)",
						f.Access, f.Reset),
				})
			}
		}
	}
	return findings
}

func (r *ReservedBitPolicy) isReserved(snap *model.SpecSnapshot, blk *model.IpBlock, reg *model.Register, f *model.Field) bool {
	if ok, err := path.Match(r.pattern, f.Name); err == nil && ok {
		return true
	}
	for _, c := range snap.Constraints {
		if c.Rule != model.RuleReadsAsZero || c.Scope != model.ScopeField {
			continue
		}
		if matchesField(c.Match, blk, reg, f) {
			return true
		}
	}
	return false
}

// RegisterGap warns when a register's fields leave uncovered bits. Gaps
// are legal but by convention should be covered by reserved fields.
type RegisterGap struct {
	*validate.BaseRule
}

func NewRegisterGap() *RegisterGap {
	return &RegisterGap{
		BaseRule: validate.NewBaseRule("REGISTER_GAP", "Register bits covered by fields", "policy", validate.SeverityWarning),
	}
}

func (r *RegisterGap) Check(snap *model.SpecSnapshot) []validate.Finding {
	var findings []validate.Finding

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			if len(reg.Fields) == 0 {
				// An empty register is a placeholder, not a gap.
				continue
			}

			covered := make([]bool, reg.Width)
			for fi := range reg.Fields {
				f := &reg.Fields[fi]
				if f.Msb < f.Lsb {
					continue
				}
				for bit := f.Lsb; bit <= f.Msb && bit < reg.Width; bit++ {
					covered[bit] = true
				}
			}

			for _, gap := range gapRanges(covered) {
				findings = append(findings, validate.Finding{
					Severity: r.DefaultSeverity(),
					RuleID:   r.ID(),
					Path:     model.RegisterPath(blk.Name, reg.Name),
					Message:  fmt.Sprintf("bits [%d:%d] are not covered by any field; cover gaps with a reserved field", gap[1], gap[0]),
				})
			}
		}
	}
	return findings
}

// gapRanges returns [lsb, msb] pairs of contiguous uncovered runs.
func gapRanges(covered []bool) [][2]uint {
	var gaps [][2]uint
	start := -1
	for bit := 0; bit < len(covered); bit++ {
		switch {
		case !covered[bit] && start < 0:
			start = bit
		case covered[bit] && start >= 0:
			gaps = append(gaps, [2]uint{uint(start), uint(bit - 1)})
			start = -1
		}
	}
	if start >= 0 {
		gaps = append(gaps, [2]uint{uint(start), uint(len(covered) - 1)})
	}
	return gaps
}
