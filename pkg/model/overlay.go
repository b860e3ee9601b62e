package model

// Override is one attribute override within a variant overlay.
type Override struct {
	// Target is the entity path the override applies to.
	Target Path

	// Instances, when > 0 on a block-level target, expands the block
	// into that many instances. The first keeps the base name and
	// address; the rest are named <block>_1 .. <block>_N-1 at stride
	// offsets.
	Instances int

	// Stride is the address step between expanded instances. Zero
	// means use the merge default (or the block span as a fallback).
	Stride uint64

	// Params holds scalar attribute overrides keyed by attribute name
	// (e.g. "reset", "access", "width", "base_addr", "irq_lines").
	// Values are whatever the overlay document carried; the merge
	// engine coerces them per attribute.
	Params map[string]any
}

// VariantOverlay is a named set of overrides applied to a base spec to
// produce a variant.
type VariantOverlay struct {
	// Name is the variant name (e.g. "client_B").
	Name string

	// Overrides apply in order; later overrides win on the same path.
	Overrides []Override
}
