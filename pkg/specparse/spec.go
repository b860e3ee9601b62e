// Package specparse provides YAML parsing for register spec documents
// and variant overlay documents. Raw* types mirror the document format;
// ToModel converts them into canonical model types, applying defaults
// and rejecting malformed values so the core engines never see them.
package specparse

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// Defaults applied during conversion when the document omits a value.
const (
	DefaultRegisterWidth = 32
	DefaultAccess        = model.AccessRW
)

// HexUint is a uint64 that unmarshals from YAML integers or 0x-prefixed
// strings. Spec documents quote wide addresses ("0x40000000") as often
// as they write bare integers.
type HexUint uint64

func (h *HexUint) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case int:
		if v < 0 {
			return fmt.Errorf("negative value %d", v)
		}
		*h = HexUint(v)
	case int64:
		if v < 0 {
			return fmt.Errorf("negative value %d", v)
		}
		*h = HexUint(v)
	case uint64:
		*h = HexUint(v)
	case string:
		parsed, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("parsing %q as unsigned integer: %w", v, err)
		}
		*h = HexUint(parsed)
	default:
		return fmt.Errorf("cannot parse %T as unsigned integer", raw)
	}
	return nil
}

// RawSpecDoc represents a register spec document loaded from YAML.
type RawSpecDoc struct {
	SpecVersion string          `yaml:"spec_version"`
	IpBlocks    []RawIpBlock    `yaml:"ip_blocks"`
	Constraints []RawConstraint `yaml:"constraints"`
}

// RawIpBlock represents an IP block definition.
type RawIpBlock struct {
	Name      string        `yaml:"name"`
	BaseAddr  HexUint       `yaml:"base_addr"`
	Registers []RawRegister `yaml:"registers"`
}

// RawRegister represents a register definition.
type RawRegister struct {
	Name   string     `yaml:"name"`
	Offset HexUint    `yaml:"offset"`
	Width  uint       `yaml:"width"` // 0 means DefaultRegisterWidth
	Fields []RawField `yaml:"fields"`
}

// RawField represents a field definition.
type RawField struct {
	Name   string         `yaml:"name"`
	Lsb    uint           `yaml:"lsb"`
	Msb    uint           `yaml:"msb"`
	Access string         `yaml:"access"` // "" means DefaultAccess
	Reset  HexUint        `yaml:"reset"`
	Enum   []RawEnumValue `yaml:"enum"`
}

// RawEnumValue represents a single named enum value.
type RawEnumValue struct {
	Name  string  `yaml:"name"`
	Value HexUint `yaml:"value"`
}

// RawConstraint represents a declarative constraint definition.
type RawConstraint struct {
	Name      string   `yaml:"name"`
	AppliesTo string   `yaml:"applies_to"` // "field", "register", "block"
	Match     RawMatch `yaml:"match"`
	Rule      string   `yaml:"rule"`
	Severity  string   `yaml:"severity"` // "" means error
}

// RawMatch represents a constraint match predicate. An empty match
// selects every entity in scope; "name" carries a glob, "attr"/"value"
// an attribute comparison.
type RawMatch struct {
	Name  string `yaml:"name"`
	Attr  string `yaml:"attr"`
	Value string `yaml:"value"`
}

// ParseSpecDoc parses a register spec document from YAML bytes.
func ParseSpecDoc(data []byte) (*RawSpecDoc, error) {
	var doc RawSpecDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing spec document: %w", err)
	}
	return &doc, nil
}

// LoadSpecDoc loads and parses a register spec document from a file.
func LoadSpecDoc(path string) (*RawSpecDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseSpecDoc(data)
}

// ToModel converts the raw document into a canonical snapshot for the
// "base" variant. Missing register widths default to 32 and missing
// access tags to RW; unknown access tags, scopes, and severities are
// conversion errors.
func (d *RawSpecDoc) ToModel() (*model.SpecSnapshot, error) {
	if d.SpecVersion == "" {
		return nil, fmt.Errorf("spec document has no spec_version")
	}

	snap := &model.SpecSnapshot{
		Version: d.SpecVersion,
		Variant: model.DefaultVariant,
	}

	for _, rb := range d.IpBlocks {
		blk := model.IpBlock{
			Name:     rb.Name,
			BaseAddr: uint64(rb.BaseAddr),
		}
		for _, rr := range rb.Registers {
			reg := model.Register{
				Name:   rr.Name,
				Offset: uint64(rr.Offset),
				Width:  rr.Width,
			}
			if reg.Width == 0 {
				reg.Width = DefaultRegisterWidth
			}
			for _, rf := range rr.Fields {
				f, err := rf.toModel(rb.Name, rr.Name)
				if err != nil {
					return nil, err
				}
				reg.Fields = append(reg.Fields, f)
			}
			blk.Registers = append(blk.Registers, reg)
		}
		snap.Blocks = append(snap.Blocks, blk)
	}

	for _, rc := range d.Constraints {
		c, err := rc.toModel()
		if err != nil {
			return nil, err
		}
		snap.Constraints = append(snap.Constraints, c)
	}

	return snap, nil
}

func (rf RawField) toModel(block, register string) (model.Field, error) {
	access := DefaultAccess
	if rf.Access != "" {
		parsed, err := model.ParseAccessMode(rf.Access)
		if err != nil {
			return model.Field{}, fmt.Errorf("field %s.%s.%s: %w", block, register, rf.Name, err)
		}
		access = parsed
	}

	f := model.Field{
		Name:   rf.Name,
		Lsb:    rf.Lsb,
		Msb:    rf.Msb,
		Access: access,
		Reset:  uint64(rf.Reset),
	}
	for _, ev := range rf.Enum {
		f.Enum = append(f.Enum, model.EnumValue{Name: ev.Name, Value: uint64(ev.Value)})
	}
	return f, nil
}

func (rc RawConstraint) toModel() (model.Constraint, error) {
	c := model.Constraint{
		Name: rc.Name,
		Rule: rc.Rule,
	}

	switch rc.AppliesTo {
	case "field":
		c.Scope = model.ScopeField
	case "register":
		c.Scope = model.ScopeRegister
	case "block":
		c.Scope = model.ScopeBlock
	default:
		return model.Constraint{}, fmt.Errorf("constraint %s: unknown applies_to %q", rc.Name, rc.AppliesTo)
	}

	switch rc.Severity {
	case "", "error":
		c.Severity = model.ConstraintError
	case "warning", "warn":
		c.Severity = model.ConstraintWarning
	default:
		return model.Constraint{}, fmt.Errorf("constraint %s: unknown severity %q", rc.Name, rc.Severity)
	}

	switch {
	case rc.Match.Name != "":
		c.Match = model.Match{Kind: model.MatchByName, Pattern: rc.Match.Name}
	case rc.Match.Attr != "":
		c.Match = model.Match{Kind: model.MatchByAttr, Attr: rc.Match.Attr, Value: rc.Match.Value}
	default:
		c.Match = model.Match{Kind: model.MatchAll}
	}

	return c, nil
}
