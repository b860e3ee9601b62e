// Package diff implements the cross-version diff engine for register
// spec snapshots.
//
// Entities are matched across snapshots by (parent path, name), never
// by position, so reordering without renaming is not a change. The
// result is directional: swapping the inputs swaps Added and Removed
// and each delta's Old and New, over the same entity set.
package diff

import (
	"fmt"
	"sort"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// Diff compares two snapshots and returns the structured change set.
// Comparing snapshots of different variants is permitted; the result
// then mixes base drift with variant overlay effects, which this
// engine makes no attempt to tell apart.
func Diff(from, to *model.SpecSnapshot) *ChangeSet {
	cs := &ChangeSet{From: from.Key(), To: to.Key()}
	cs.Blocks = diffBlocks(from.Blocks, to.Blocks)
	cs.Constraints = diffConstraints(from.Constraints, to.Constraints)
	return cs
}

func diffBlocks(from, to []model.IpBlock) []BlockChange {
	fromByName := make(map[string]*model.IpBlock, len(from))
	for i := range from {
		fromByName[from[i].Name] = &from[i]
	}
	toByName := make(map[string]*model.IpBlock, len(to))
	for i := range to {
		toByName[to[i].Name] = &to[i]
	}

	var changes []BlockChange
	for _, name := range unionNames(blockNames(from), blockNames(to)) {
		f, inFrom := fromByName[name]
		t, inTo := toByName[name]

		switch {
		case inFrom && !inTo:
			changes = append(changes, BlockChange{Name: name, Kind: Removed})
		case !inFrom && inTo:
			changes = append(changes, BlockChange{Name: name, Kind: Added})
		default:
			var attrs []AttrDelta
			if f.BaseAddr != t.BaseAddr {
				attrs = append(attrs, AttrDelta{Attr: "base_addr", Old: hex(f.BaseAddr), New: hex(t.BaseAddr)})
			}
			regs := diffRegisters(f.Registers, t.Registers)
			if len(attrs) > 0 || len(regs) > 0 {
				changes = append(changes, BlockChange{Name: name, Kind: Modified, Attrs: attrs, Registers: regs})
			}
		}
	}
	return changes
}

func diffRegisters(from, to []model.Register) []RegisterChange {
	fromByName := make(map[string]*model.Register, len(from))
	for i := range from {
		fromByName[from[i].Name] = &from[i]
	}
	toByName := make(map[string]*model.Register, len(to))
	for i := range to {
		toByName[to[i].Name] = &to[i]
	}

	var changes []RegisterChange
	for _, name := range unionNames(registerNames(from), registerNames(to)) {
		f, inFrom := fromByName[name]
		t, inTo := toByName[name]

		switch {
		case inFrom && !inTo:
			changes = append(changes, RegisterChange{Name: name, Kind: Removed})
		case !inFrom && inTo:
			changes = append(changes, RegisterChange{Name: name, Kind: Added})
		default:
			var attrs []AttrDelta
			if f.Offset != t.Offset {
				attrs = append(attrs, AttrDelta{Attr: "offset", Old: hex(f.Offset), New: hex(t.Offset)})
			}
			if f.Width != t.Width {
				attrs = append(attrs, AttrDelta{Attr: "width", Old: dec(uint64(f.Width)), New: dec(uint64(t.Width))})
			}
			fields := diffFields(f.Fields, t.Fields)
			if len(attrs) > 0 || len(fields) > 0 {
				changes = append(changes, RegisterChange{Name: name, Kind: Modified, Attrs: attrs, Fields: fields})
			}
		}
	}
	return changes
}

func diffFields(from, to []model.Field) []FieldChange {
	fromByName := make(map[string]*model.Field, len(from))
	for i := range from {
		fromByName[from[i].Name] = &from[i]
	}
	toByName := make(map[string]*model.Field, len(to))
	for i := range to {
		toByName[to[i].Name] = &to[i]
	}

	var changes []FieldChange
	for _, name := range unionNames(fieldNames(from), fieldNames(to)) {
		f, inFrom := fromByName[name]
		t, inTo := toByName[name]

		switch {
		case inFrom && !inTo:
			changes = append(changes, FieldChange{Name: name, Kind: Removed})
		case !inFrom && inTo:
			changes = append(changes, FieldChange{Name: name, Kind: Added})
		default:
			var attrs []AttrDelta
			if f.Lsb != t.Lsb {
				attrs = append(attrs, AttrDelta{Attr: "lsb", Old: dec(uint64(f.Lsb)), New: dec(uint64(t.Lsb))})
			}
			if f.Msb != t.Msb {
				attrs = append(attrs, AttrDelta{Attr: "msb", Old: dec(uint64(f.Msb)), New: dec(uint64(t.Msb))})
			}
			if f.Access != t.Access {
				attrs = append(attrs, AttrDelta{Attr: "access", Old: string(f.Access), New: string(t.Access)})
			}
			if f.Reset != t.Reset {
				attrs = append(attrs, AttrDelta{Attr: "reset", Old: hex(f.Reset), New: hex(t.Reset)})
			}
			enums := diffEnums(f.Enum, t.Enum)
			if len(attrs) > 0 || len(enums) > 0 {
				changes = append(changes, FieldChange{Name: name, Kind: Modified, Attrs: attrs, Enums: enums})
			}
		}
	}
	return changes
}

func diffEnums(from, to []model.EnumValue) []EnumChange {
	fromByName := make(map[string]model.EnumValue, len(from))
	fromNames := make([]string, 0, len(from))
	for _, ev := range from {
		fromByName[ev.Name] = ev
		fromNames = append(fromNames, ev.Name)
	}
	toByName := make(map[string]model.EnumValue, len(to))
	toNames := make([]string, 0, len(to))
	for _, ev := range to {
		toByName[ev.Name] = ev
		toNames = append(toNames, ev.Name)
	}

	var changes []EnumChange
	for _, name := range unionNames(fromNames, toNames) {
		f, inFrom := fromByName[name]
		t, inTo := toByName[name]

		switch {
		case inFrom && !inTo:
			changes = append(changes, EnumChange{Name: name, Kind: Removed, Old: dec(f.Value)})
		case !inFrom && inTo:
			changes = append(changes, EnumChange{Name: name, Kind: Added, New: dec(t.Value)})
		case f.Value != t.Value:
			changes = append(changes, EnumChange{Name: name, Kind: Modified, Old: dec(f.Value), New: dec(t.Value)})
		}
	}
	return changes
}

func diffConstraints(from, to []model.Constraint) []ConstraintChange {
	fromByName := make(map[string]model.Constraint, len(from))
	fromNames := make([]string, 0, len(from))
	for _, c := range from {
		fromByName[c.Name] = c
		fromNames = append(fromNames, c.Name)
	}
	toByName := make(map[string]model.Constraint, len(to))
	toNames := make([]string, 0, len(to))
	for _, c := range to {
		toByName[c.Name] = c
		toNames = append(toNames, c.Name)
	}

	var changes []ConstraintChange
	for _, name := range unionNames(fromNames, toNames) {
		f, inFrom := fromByName[name]
		t, inTo := toByName[name]

		switch {
		case inFrom && !inTo:
			changes = append(changes, ConstraintChange{Name: name, Kind: Removed})
		case !inFrom && inTo:
			changes = append(changes, ConstraintChange{Name: name, Kind: Added})
		default:
			var attrs []AttrDelta
			if f.Scope != t.Scope {
				attrs = append(attrs, AttrDelta{Attr: "scope", Old: string(f.Scope), New: string(t.Scope)})
			}
			if f.Rule != t.Rule {
				attrs = append(attrs, AttrDelta{Attr: "rule", Old: f.Rule, New: t.Rule})
			}
			if f.Severity != t.Severity {
				attrs = append(attrs, AttrDelta{Attr: "severity", Old: string(f.Severity), New: string(t.Severity)})
			}
			if f.Match != t.Match {
				attrs = append(attrs, AttrDelta{Attr: "match", Old: matchString(f.Match), New: matchString(t.Match)})
			}
			if len(attrs) > 0 {
				changes = append(changes, ConstraintChange{Name: name, Kind: Modified, Attrs: attrs})
			}
		}
	}
	return changes
}

func matchString(m model.Match) string {
	switch m.Kind {
	case model.MatchByName:
		return fmt.Sprintf("name=%s", m.Pattern)
	case model.MatchByAttr:
		return fmt.Sprintf("%s=%s", m.Attr, m.Value)
	default:
		return "all"
	}
}

// unionNames merges two name lists into one sorted, deduplicated list.
func unionNames(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, n := range a {
		set[n] = struct{}{}
	}
	for _, n := range b {
		set[n] = struct{}{}
	}

	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func blockNames(blocks []model.IpBlock) []string {
	names := make([]string, len(blocks))
	for i := range blocks {
		names[i] = blocks[i].Name
	}
	return names
}

func registerNames(regs []model.Register) []string {
	names := make([]string, len(regs))
	for i := range regs {
		names[i] = regs[i].Name
	}
	return names
}

func fieldNames(fields []model.Field) []string {
	names := make([]string, len(fields))
	for i := range fields {
		names[i] = fields[i].Name
	}
	return names
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%X", v)
}

func dec(v uint64) string {
	return fmt.Sprintf("%d", v)
}
