package diff

import "github.com/regspec-tools/regspec-go/pkg/model"

// ChangeKind tags an entry in a change set.
type ChangeKind string

const (
	// Added means the entity exists in the "to" snapshot only.
	Added ChangeKind = "ADDED"

	// Removed means the entity exists in the "from" snapshot only.
	Removed ChangeKind = "REMOVED"

	// Modified means the entity exists in both snapshots with
	// different attributes or children.
	Modified ChangeKind = "MODIFIED"
)

// AttrDelta records one changed attribute of a modified entity.
// Values are pre-formatted strings (addresses and resets in hex) so
// renderers need no per-attribute knowledge.
type AttrDelta struct {
	Attr string `json:"attr"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// EnumChange is an element-level change in a field's enum set, keyed
// by the enum entry's name.
type EnumChange struct {
	Name string     `json:"name"`
	Kind ChangeKind `json:"kind"`
	// Old and New carry the encoded value for Modified entries and the
	// present side's value for Added/Removed.
	Old string `json:"old,omitempty"`
	New string `json:"new,omitempty"`
}

// FieldChange is a change to one field.
type FieldChange struct {
	Name  string      `json:"name"`
	Kind  ChangeKind  `json:"kind"`
	Attrs []AttrDelta `json:"attrs,omitempty"`
	Enums []EnumChange `json:"enums,omitempty"`
}

// RegisterChange is a change to one register, with field-level detail
// for Modified entries.
type RegisterChange struct {
	Name   string        `json:"name"`
	Kind   ChangeKind    `json:"kind"`
	Attrs  []AttrDelta   `json:"attrs,omitempty"`
	Fields []FieldChange `json:"fields,omitempty"`
}

// BlockChange is a change to one IP block.
type BlockChange struct {
	Name      string           `json:"name"`
	Kind      ChangeKind       `json:"kind"`
	Attrs     []AttrDelta      `json:"attrs,omitempty"`
	Registers []RegisterChange `json:"registers,omitempty"`
}

// ConstraintChange is a change to one snapshot-level constraint.
type ConstraintChange struct {
	Name  string      `json:"name"`
	Kind  ChangeKind  `json:"kind"`
	Attrs []AttrDelta `json:"attrs,omitempty"`
}

// ChangeSet is the structured result of comparing two snapshots.
// Entries are grouped block > register > field and sorted by name at
// every level, so identical comparisons always render identically.
type ChangeSet struct {
	From model.SnapshotKey `json:"from"`
	To   model.SnapshotKey `json:"to"`

	Blocks      []BlockChange      `json:"blocks,omitempty"`
	Constraints []ConstraintChange `json:"constraints,omitempty"`
}

// Empty returns true if the change set records no changes.
func (cs *ChangeSet) Empty() bool {
	return len(cs.Blocks) == 0 && len(cs.Constraints) == 0
}

// Summary counts change-set entries by kind across all levels.
type Summary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

// Summary tallies all entries in the change set.
func (cs *ChangeSet) Summary() Summary {
	var s Summary
	count := func(kind ChangeKind) {
		switch kind {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Modified:
			s.Modified++
		}
	}

	for _, b := range cs.Blocks {
		count(b.Kind)
		for _, r := range b.Registers {
			count(r.Kind)
			for _, f := range r.Fields {
				count(f.Kind)
				for _, e := range f.Enums {
					count(e.Kind)
				}
			}
		}
	}
	for _, c := range cs.Constraints {
		count(c.Kind)
	}
	return s
}
