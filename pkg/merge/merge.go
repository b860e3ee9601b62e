// Package merge implements the variant-overlay merge engine.
//
// Merge combines a base spec snapshot with an ordered sequence of
// variant overlays into a new immutable snapshot. Overlays apply in
// order with last-write-wins semantics on conflicting paths. The base
// is never mutated: every merge builds the result from deep copies, so
// identical inputs always yield a structurally identical result.
//
// An overlay whose target path does not resolve fails as a unit
// (UnknownTargetError, collected in the Report) without affecting
// other overlays. An overlay whose application would break a
// structural invariant aborts the whole merge with a ConflictError.
package merge

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jinzhu/copier"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// DefaultStride is the instance address stride used when neither the
// override nor the options specify one and the block span is zero.
const DefaultStride = 0x1000

// Options configures a merge.
type Options struct {
	// Variant names the resulting snapshot. Empty means the name of
	// the last successfully applied overlay, or the base variant if no
	// overlay applied.
	Variant string

	// DefaultStride is the address step between expanded block
	// instances when an override does not carry its own. Zero falls
	// back to the block's span, then to DefaultStride.
	DefaultStride uint64

	// CreatedAt stamps the resulting snapshot. Zero means the base
	// snapshot's timestamp is kept, preserving determinism.
	CreatedAt time.Time
}

// Report lists the per-overlay outcomes of a merge batch.
type Report struct {
	// Applied lists overlay names that applied cleanly, in order.
	Applied []string

	// Failed lists overlays rejected with UnknownTargetError.
	Failed []OverlayFailure
}

// OverlayFailure pairs a rejected overlay with its error.
type OverlayFailure struct {
	Overlay string
	Err     error
}

// Merge applies overlays to a base snapshot and returns the merged
// snapshot plus a per-overlay report. Merging zero overlays returns a
// snapshot structurally equal to the base.
func Merge(base *model.SpecSnapshot, overlays []model.VariantOverlay, opts Options) (*model.SpecSnapshot, *Report, error) {
	result, err := cloneSnapshot(base)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{}
	lastApplied := ""

	for _, ov := range overlays {
		// Each overlay applies to a scratch copy so a rejected overlay
		// leaves no partial edits behind.
		scratch, err := cloneSnapshot(result)
		if err != nil {
			return nil, nil, err
		}

		if err := applyOverlay(scratch, ov, opts); err != nil {
			if _, unknown := err.(*UnknownTargetError); unknown {
				report.Failed = append(report.Failed, OverlayFailure{Overlay: ov.Name, Err: err})
				continue
			}
			return nil, report, err
		}

		result = scratch
		report.Applied = append(report.Applied, ov.Name)
		lastApplied = ov.Name
	}

	switch {
	case opts.Variant != "":
		result.Variant = opts.Variant
	case lastApplied != "":
		result.Variant = lastApplied
	}
	if !opts.CreatedAt.IsZero() {
		result.CreatedAt = opts.CreatedAt
	}

	return result, report, nil
}

func cloneSnapshot(snap *model.SpecSnapshot) (*model.SpecSnapshot, error) {
	var dst model.SpecSnapshot
	if err := copier.CopyWithOption(&dst, snap, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copying snapshot: %w", err)
	}
	return &dst, nil
}

func applyOverlay(snap *model.SpecSnapshot, ov model.VariantOverlay, opts Options) error {
	for _, override := range ov.Overrides {
		if err := applyOverride(snap, ov.Name, override, opts); err != nil {
			return err
		}
	}
	return nil
}

func applyOverride(snap *model.SpecSnapshot, overlay string, o model.Override, opts Options) error {
	// Instance multiplication resolves first; scalar overrides then
	// apply to every resulting instance.
	if o.Instances > 0 {
		if o.Target.Scope() != model.ScopeBlock {
			return &ConflictError{
				Overlay: overlay,
				Path:    o.Target,
				Reason:  "instance multiplication applies to blocks only",
			}
		}
		expanded, err := expandInstances(snap, overlay, o, opts)
		if err != nil {
			return err
		}
		for _, name := range expanded {
			if err := applyParams(snap, overlay, model.BlockPath(name), o.Params); err != nil {
				return err
			}
		}
		return nil
	}

	if _, _, _, ok := snap.Resolve(o.Target); !ok {
		return &UnknownTargetError{Overlay: overlay, Path: o.Target}
	}
	return applyParams(snap, overlay, o.Target, o.Params)
}

// expandInstances expands a block into N instances. The first instance
// keeps the base block's name and address, so diffs against the
// unmerged base see it as unchanged; instances 1..N-1 are structural
// copies named <base>_i with addresses stepped by the stride. Returns
// the instance block names.
func expandInstances(snap *model.SpecSnapshot, overlay string, o model.Override, opts Options) ([]string, error) {
	idx := -1
	for i := range snap.Blocks {
		if snap.Blocks[i].Name == o.Target.Block {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &UnknownTargetError{Overlay: overlay, Path: o.Target}
	}

	base := snap.Blocks[idx]
	stride := o.Stride
	if stride == 0 {
		stride = opts.DefaultStride
	}
	if stride == 0 {
		stride = base.Span()
	}
	if stride == 0 {
		stride = DefaultStride
	}

	instances := make([]model.IpBlock, o.Instances)
	names := make([]string, o.Instances)
	for i := 0; i < o.Instances; i++ {
		var inst model.IpBlock
		if err := copier.CopyWithOption(&inst, &base, copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("copying block %s: %w", base.Name, err)
		}
		if i > 0 {
			inst.Name = fmt.Sprintf("%s_%d", base.Name, i)
			inst.BaseAddr = base.BaseAddr + uint64(i)*stride
		}
		instances[i] = inst
		names[i] = inst.Name
	}

	// Replace the base block in place to keep block order stable.
	blocks := make([]model.IpBlock, 0, len(snap.Blocks)-1+o.Instances)
	blocks = append(blocks, snap.Blocks[:idx]...)
	blocks = append(blocks, instances...)
	blocks = append(blocks, snap.Blocks[idx+1:]...)
	snap.Blocks = blocks

	return names, nil
}

func applyParams(snap *model.SpecSnapshot, overlay string, target model.Path, params map[string]any) error {
	if len(params) == 0 {
		return nil
	}

	blk, reg, fld, ok := snap.Resolve(target)
	if !ok {
		return &UnknownTargetError{Overlay: overlay, Path: target}
	}

	for _, name := range sortedKeys(params) {
		value := params[name]
		var err error
		switch {
		case blk != nil:
			err = applyBlockParam(blk, target, overlay, name, value)
		case reg != nil:
			err = applyRegisterParam(snap, reg, target, overlay, name, value)
		case fld != nil:
			err = applyFieldParam(reg2(snap, target), fld, target, overlay, name, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// reg2 resolves the parent register of a field path. The path resolved
// once already, so the lookup cannot fail here.
func reg2(snap *model.SpecSnapshot, fieldPath model.Path) *model.Register {
	_, reg, _, _ := snap.Resolve(fieldPath.Parent())
	return reg
}

func applyBlockParam(blk *model.IpBlock, target model.Path, overlay, name string, value any) error {
	switch name {
	case "base_addr":
		v, err := coerceUint(value)
		if err != nil {
			return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("base_addr: %v", err)}
		}
		blk.BaseAddr = v
	default:
		return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("unknown block parameter %q", name)}
	}
	return nil
}

func applyRegisterParam(snap *model.SpecSnapshot, reg *model.Register, target model.Path, overlay, name string, value any) error {
	switch name {
	case "offset":
		v, err := coerceUint(value)
		if err != nil {
			return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("offset: %v", err)}
		}
		reg.Offset = v
	case "width":
		v, err := coerceUint(value)
		if err != nil {
			return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("width: %v", err)}
		}
		// Shrinking must not strand existing fields.
		for i := range reg.Fields {
			f := &reg.Fields[i]
			if uint64(f.Msb) >= v {
				return &ConflictError{
					Overlay: overlay,
					Path:    target,
					Reason: fmt.Sprintf("field %s [%d:%d] does not fit new width %d",
						f.Name, f.Msb, f.Lsb, v),
				}
			}
		}
		reg.Width = uint(v)
	default:
		return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("unknown register parameter %q", name)}
	}
	return nil
}

func applyFieldParam(reg *model.Register, f *model.Field, target model.Path, overlay, name string, value any) error {
	switch name {
	case "reset":
		v, err := coerceUint(value)
		if err != nil {
			return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("reset: %v", err)}
		}
		if f.Width() > 0 && v > f.MaxValue() {
			return &ConflictError{
				Overlay: overlay,
				Path:    target,
				Reason:  fmt.Sprintf("reset 0x%X does not fit field width %d", v, f.Width()),
			}
		}
		f.Reset = v
	case "access":
		s, ok := value.(string)
		if !ok {
			return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("access: expected string, got %T", value)}
		}
		mode, err := model.ParseAccessMode(s)
		if err != nil {
			return &ConflictError{Overlay: overlay, Path: target, Reason: err.Error()}
		}
		f.Access = mode
	case "msb":
		v, err := coerceUint(value)
		if err != nil {
			return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("msb: %v", err)}
		}
		if err := checkResize(reg, f, uint(v)); err != nil {
			return &ConflictError{Overlay: overlay, Path: target, Reason: err.Error()}
		}
		f.Msb = uint(v)
	default:
		return &ConflictError{Overlay: overlay, Path: target, Reason: fmt.Sprintf("unknown field parameter %q", name)}
	}
	return nil
}

// checkResize re-validates that resizing a field keeps it inside the
// register and clear of its sibling fields.
func checkResize(reg *model.Register, f *model.Field, newMsb uint) error {
	if newMsb < f.Lsb {
		return fmt.Errorf("new msb %d is below lsb %d", newMsb, f.Lsb)
	}
	if newMsb >= reg.Width {
		return fmt.Errorf("new range [%d:%d] exceeds register width %d", newMsb, f.Lsb, reg.Width)
	}

	resized := model.Field{Lsb: f.Lsb, Msb: newMsb}
	for i := range reg.Fields {
		sibling := &reg.Fields[i]
		if sibling.Name == f.Name {
			continue
		}
		if resized.Overlaps(*sibling) {
			return fmt.Errorf("new range [%d:%d] overlaps field %s [%d:%d]",
				newMsb, f.Lsb, sibling.Name, sibling.Msb, sibling.Lsb)
		}
	}
	return nil
}

// coerceUint accepts the integer shapes a YAML overlay document can
// carry: native ints and decimal or 0x-prefixed strings.
func coerceUint(value any) (uint64, error) {
	switch v := value.(type) {
	case int:
		if v < 0 {
			return 0, fmt.Errorf("negative value %d", v)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("negative value %d", v)
		}
		return uint64(v), nil
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case string:
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("not an unsigned integer: %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

// sortedKeys returns map keys sorted for deterministic parameter
// application order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
