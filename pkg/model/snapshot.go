package model

import (
	"fmt"
	"time"
)

// DefaultVariant is the variant name of an unmerged base spec.
const DefaultVariant = "base"

// SnapshotKey is the immutable (version, variant) identity of a snapshot.
type SnapshotKey struct {
	Version string
	Variant string
}

// String returns the key as "version@variant".
func (k SnapshotKey) String() string {
	return fmt.Sprintf("%s@%s", k.Version, k.Variant)
}

// SpecSnapshot is the fully merged, immutable representation of one
// (version, variant) specification.
type SpecSnapshot struct {
	// Version is the spec version string, semantic-version ordered.
	Version string

	// Variant is the variant name; DefaultVariant for an unmerged base.
	Variant string

	// Commit optionally records the source control commit the spec
	// documents were ingested from.
	Commit string

	// CreatedAt is when the snapshot was constructed.
	CreatedAt time.Time

	// Blocks lists the IP blocks in document order.
	Blocks []IpBlock

	// Constraints lists the declarative constraints in document order.
	Constraints []Constraint
}

// Key returns the snapshot's (version, variant) identity.
func (s *SpecSnapshot) Key() SnapshotKey {
	variant := s.Variant
	if variant == "" {
		variant = DefaultVariant
	}
	return SnapshotKey{Version: s.Version, Variant: variant}
}

// Block returns the IP block with the given name.
func (s *SpecSnapshot) Block(name string) (*IpBlock, bool) {
	for i := range s.Blocks {
		if s.Blocks[i].Name == name {
			return &s.Blocks[i], true
		}
	}
	return nil, false
}

// Resolve looks up the entity a path addresses. Exactly one of the
// returned pointers is non-nil on success, matching the path's scope.
func (s *SpecSnapshot) Resolve(p Path) (*IpBlock, *Register, *Field, bool) {
	blk, ok := s.Block(p.Block)
	if !ok {
		return nil, nil, nil, false
	}
	if p.Register == "" {
		return blk, nil, nil, true
	}

	reg, ok := blk.Register(p.Register)
	if !ok {
		return nil, nil, nil, false
	}
	if p.Field == "" {
		return nil, reg, nil, true
	}

	fld, ok := reg.Field(p.Field)
	if !ok {
		return nil, nil, nil, false
	}
	return nil, nil, fld, true
}
