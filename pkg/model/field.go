package model

import "math"

// EnumValue is one named legal value of a field.
type EnumValue struct {
	// Name is the symbolic value name, unique within the field's enum set.
	Name string

	// Value is the encoded integer, unique within the field's enum set
	// and required to fit the field's bit width.
	Value uint64
}

// Field is a contiguous bit range within a register.
type Field struct {
	// Name is unique within the parent register.
	Name string

	// Lsb is the 0-indexed least significant bit position.
	Lsb uint

	// Msb is the 0-indexed most significant bit position (Msb >= Lsb).
	Msb uint

	// Access is the field's access mode.
	Access AccessMode

	// Reset is the hardware reset value; must fit in Width() bits.
	Reset uint64

	// Enum optionally lists the legal encoded values, in document order.
	Enum []EnumValue
}

// Width returns the field width in bits, or 0 if the bit range is
// inverted (Msb < Lsb). An inverted range is reported by validation,
// not treated as a construction failure.
func (f Field) Width() uint {
	if f.Msb < f.Lsb {
		return 0
	}
	return f.Msb - f.Lsb + 1
}

// MaxValue returns the largest value representable in the field.
func (f Field) MaxValue() uint64 {
	w := f.Width()
	if w >= 64 {
		return math.MaxUint64
	}
	return (uint64(1) << w) - 1
}

// Overlaps returns true if the bit ranges of f and other intersect.
func (f Field) Overlaps(other Field) bool {
	return f.Lsb <= other.Msb && other.Lsb <= f.Msb
}

// EnumByName returns the enum entry with the given name.
func (f Field) EnumByName(name string) (EnumValue, bool) {
	for _, ev := range f.Enum {
		if ev.Name == name {
			return ev, true
		}
	}
	return EnumValue{}, false
}
