package validate

import (
	"fmt"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// MalformedModelError reports a snapshot that violates the data-model
// contract. This is a caller/adapter bug, not a data-quality finding:
// the ingest adapter must never hand the core an entity with a missing
// name, a zero register width, or an unrecognized access tag.
type MalformedModelError struct {
	// Path locates the offending entity (zero Path for snapshot-level
	// problems).
	Path model.Path

	// Reason describes the contract violation.
	Reason string
}

func (e *MalformedModelError) Error() string {
	if e.Path == (model.Path{}) {
		return fmt.Sprintf("malformed model: %s", e.Reason)
	}
	return fmt.Sprintf("malformed model: %s: %s", e.Path, e.Reason)
}

func malformed(p model.Path, format string, args ...any) error {
	return &MalformedModelError{Path: p, Reason: fmt.Sprintf(format, args...)}
}

// CheckWellFormed verifies the snapshot satisfies the data-model
// contract. Structural violations that well-formed snapshots can carry
// (overlaps, duplicates, range errors) are NOT checked here; those are
// the rule battery's job.
func CheckWellFormed(snap *model.SpecSnapshot) error {
	if snap == nil {
		return malformed(model.Path{}, "nil snapshot")
	}
	if snap.Version == "" {
		return malformed(model.Path{}, "snapshot has no version")
	}

	for bi := range snap.Blocks {
		blk := &snap.Blocks[bi]
		if blk.Name == "" {
			return malformed(model.Path{}, "block %d has no name", bi)
		}

		for ri := range blk.Registers {
			reg := &blk.Registers[ri]
			if reg.Name == "" {
				return malformed(model.BlockPath(blk.Name), "register %d has no name", ri)
			}
			regPath := model.RegisterPath(blk.Name, reg.Name)
			if reg.Width == 0 || reg.Width%8 != 0 {
				return malformed(regPath, "register width %d is not a positive multiple of 8", reg.Width)
			}

			for fi := range reg.Fields {
				fld := &reg.Fields[fi]
				if fld.Name == "" {
					return malformed(regPath, "field %d has no name", fi)
				}
				fldPath := model.FieldPath(blk.Name, reg.Name, fld.Name)
				if !fld.Access.Valid() {
					return malformed(fldPath, "unknown access mode %q", string(fld.Access))
				}
				for ei, ev := range fld.Enum {
					if ev.Name == "" {
						return malformed(fldPath, "enum value %d has no name", ei)
					}
				}
			}
		}
	}

	for ci, c := range snap.Constraints {
		if c.Name == "" {
			return malformed(model.Path{}, "constraint %d has no name", ci)
		}
		switch c.Scope {
		case model.ScopeField, model.ScopeRegister, model.ScopeBlock:
		default:
			return malformed(model.Path{}, "constraint %q has unknown scope %q", c.Name, string(c.Scope))
		}
		if c.Rule == "" {
			return malformed(model.Path{}, "constraint %q has no rule", c.Name)
		}
	}

	return nil
}
