package model

// Register is an addressable storage unit within an IP block.
type Register struct {
	// Name is unique within the parent block.
	Name string

	// Offset is the byte offset from the block base address, unique
	// within the parent block.
	Offset uint64

	// Width is the register width in bits (8, 16, 32, 64, ...).
	Width uint

	// Fields lists the register's bit fields in document order.
	Fields []Field
}

// Field returns the field with the given name.
func (r *Register) Field(name string) (*Field, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i], true
		}
	}
	return nil, false
}

// IpBlock is a named hardware functional unit containing registers.
type IpBlock struct {
	// Name is unique within a snapshot.
	Name string

	// BaseAddr is the block base address.
	BaseAddr uint64

	// Registers lists the block's registers in document order.
	Registers []Register
}

// Register returns the register with the given name.
func (b *IpBlock) Register(name string) (*Register, bool) {
	for i := range b.Registers {
		if b.Registers[i].Name == name {
			return &b.Registers[i], true
		}
	}
	return nil, false
}

// Span returns the byte size covered by the block's registers: the
// highest register offset plus that register's width in bytes. Used as
// the stride fallback when an overlay multiplies block instances.
func (b *IpBlock) Span() uint64 {
	var span uint64
	for i := range b.Registers {
		end := b.Registers[i].Offset + uint64(b.Registers[i].Width/8)
		if end > span {
			span = end
		}
	}
	return span
}
