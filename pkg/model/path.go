package model

import (
	"errors"
	"fmt"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("empty entity path")
	ErrInvalidPath = errors.New("invalid entity path")
)

// Path identifies an entity within a snapshot by its dotted name chain.
// Format: block[.register[.field]]
//
// Paths are the stable identity used for overlay targets, validation
// findings, and diff entries; they survive across independently
// constructed snapshots where object identity does not.
type Path struct {
	// Block is the IP block name (always set for a valid path).
	Block string

	// Register is the register name (empty for block-level paths).
	Register string

	// Field is the field name (empty for block- and register-level paths).
	Field string
}

// BlockPath returns a block-level path.
func BlockPath(block string) Path {
	return Path{Block: block}
}

// RegisterPath returns a register-level path.
func RegisterPath(block, register string) Path {
	return Path{Block: block, Register: register}
}

// FieldPath returns a field-level path.
func FieldPath(block, register, field string) Path {
	return Path{Block: block, Register: register, Field: field}
}

// ParsePath parses a dotted entity path with 1 to 3 segments.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, ErrEmptyPath
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Path{}, fmt.Errorf("%w: %q has more than 3 segments", ErrInvalidPath, s)
	}
	for _, part := range parts {
		if part == "" {
			return Path{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, s)
		}
	}

	p := Path{Block: parts[0]}
	if len(parts) > 1 {
		p.Register = parts[1]
	}
	if len(parts) > 2 {
		p.Field = parts[2]
	}
	return p, nil
}

// String returns the canonical dotted form.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(p.Block)
	if p.Register != "" {
		sb.WriteString(".")
		sb.WriteString(p.Register)
	}
	if p.Field != "" {
		sb.WriteString(".")
		sb.WriteString(p.Field)
	}
	return sb.String()
}

// Scope returns the entity kind the path addresses.
func (p Path) Scope() ConstraintScope {
	switch {
	case p.Field != "":
		return ScopeField
	case p.Register != "":
		return ScopeRegister
	default:
		return ScopeBlock
	}
}

// Parent returns the path one level up, or the zero Path for a
// block-level path.
func (p Path) Parent() Path {
	switch {
	case p.Field != "":
		return Path{Block: p.Block, Register: p.Register}
	case p.Register != "":
		return Path{Block: p.Block}
	default:
		return Path{}
	}
}
