// Package model implements the canonical register specification model.
//
// # Model Hierarchy
//
// A specification snapshot uses a 3-level hardware hierarchy:
//
//	SpecSnapshot > IpBlock > Register > Field
//
// A SpecSnapshot is the fully merged, immutable representation of one
// (version, variant) specification. IpBlocks are named functional units
// at a base address. Registers are addressable storage units with a bit
// width. Fields are contiguous bit ranges with access semantics, a reset
// value, and an optional enumeration of legal values.
//
// # Snapshot Identity
//
// Snapshots are keyed by (version, variant). The key is fixed at
// construction and never changes; a merge that alters content produces a
// new snapshot rather than mutating an existing one. Entity identity
// across snapshots uses the dotted name path (block.register.field), not
// object identity, so independently constructed snapshots can be
// compared.
//
// # Immutability
//
// All types here are plain data. Nothing in this package mutates a
// snapshot after construction; the merge engine builds new snapshots
// from deep copies. This makes concurrent validation and diffing of
// independent snapshots safe without locking.
package model
