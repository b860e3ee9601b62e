package validate

import (
	"sort"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// ValidateWithRegistry validates a snapshot against all enabled rules
// in the registry. The full finding list is returned in deterministic
// order: block name, register offset, field lsb, rule registration
// order. It returns an error only for malformed input models.
func ValidateWithRegistry(snap *model.SpecSnapshot, registry *RuleRegistry) ([]Finding, error) {
	if err := CheckWellFormed(snap); err != nil {
		return nil, err
	}

	findings := registry.runRules(snap)
	sortFindings(snap, findings, registry.ruleIndex())
	return findings, nil
}

// findingKey is the sort key for deterministic finding order.
type findingKey struct {
	hasPath  bool
	block    string
	hasReg   bool
	regOff   uint64
	hasField bool
	lsb      uint
	ruleIdx  int
}

func (k findingKey) less(other findingKey) bool {
	// Entity findings first, snapshot-level findings (no path) last.
	if k.hasPath != other.hasPath {
		return k.hasPath
	}
	if k.block != other.block {
		return k.block < other.block
	}
	// Block-level findings before register-level ones in the same block.
	if k.hasReg != other.hasReg {
		return !k.hasReg
	}
	if k.regOff != other.regOff {
		return k.regOff < other.regOff
	}
	// Register-level findings before field-level ones at the same offset.
	if k.hasField != other.hasField {
		return !k.hasField
	}
	if k.lsb != other.lsb {
		return k.lsb < other.lsb
	}
	return k.ruleIdx < other.ruleIdx
}

func sortFindings(snap *model.SpecSnapshot, findings []Finding, ruleIdx map[string]int) {
	type keyed struct {
		key     findingKey
		finding Finding
	}
	keyedFindings := make([]keyed, len(findings))
	for i, f := range findings {
		keyedFindings[i] = keyed{key: keyFor(snap, f, ruleIdx), finding: f}
	}
	sort.SliceStable(keyedFindings, func(i, j int) bool {
		ik, jk := keyedFindings[i].key, keyedFindings[j].key
		if ik.less(jk) {
			return true
		}
		if jk.less(ik) {
			return false
		}
		return keyedFindings[i].finding.Message < keyedFindings[j].finding.Message
	})
	for i := range keyedFindings {
		findings[i] = keyedFindings[i].finding
	}
}

func keyFor(snap *model.SpecSnapshot, f Finding, ruleIdx map[string]int) findingKey {
	k := findingKey{ruleIdx: ruleIdx[f.RuleID]}
	if f.Path.Block == "" {
		return k
	}
	k.hasPath = true
	k.block = f.Path.Block

	if f.Path.Register == "" {
		return k
	}
	k.hasReg = true
	if blk, ok := snap.Block(f.Path.Block); ok {
		if reg, ok := blk.Register(f.Path.Register); ok {
			k.regOff = reg.Offset
			if f.Path.Field != "" {
				k.hasField = true
				if fld, ok := reg.Field(f.Path.Field); ok {
					k.lsb = fld.Lsb
				}
			}
		}
	}
	return k
}
