package model

import "fmt"

// AccessMode describes how software may interact with a field.
type AccessMode string

const (
	// AccessRW is read-write.
	AccessRW AccessMode = "RW"

	// AccessRO is read-only. Writes are ignored.
	AccessRO AccessMode = "RO"

	// AccessWO is write-only. Reads return an undefined value.
	AccessWO AccessMode = "WO"

	// AccessRW1C is read, write-1-to-clear.
	AccessRW1C AccessMode = "RW1C"

	// AccessRW1S is read, write-1-to-set.
	AccessRW1S AccessMode = "RW1S"

	// AccessW1C is write-1-to-clear with no read side effect.
	AccessW1C AccessMode = "W1C"
)

// accessModes is the closed set of recognized access tags.
var accessModes = map[AccessMode]struct{}{
	AccessRW:   {},
	AccessRO:   {},
	AccessWO:   {},
	AccessRW1C: {},
	AccessRW1S: {},
	AccessW1C:  {},
}

// ParseAccessMode parses an access tag string (e.g. "RW", "RO").
// Unknown tags are an error; adapters must reject them before a
// snapshot reaches the core engines.
func ParseAccessMode(s string) (AccessMode, error) {
	m := AccessMode(s)
	if _, ok := accessModes[m]; !ok {
		return "", fmt.Errorf("unknown access mode %q", s)
	}
	return m, nil
}

// Valid returns true if the access mode is one of the recognized tags.
func (a AccessMode) Valid() bool {
	_, ok := accessModes[a]
	return ok
}

// ReadOnly returns true for modes whose value cannot be changed by a
// plain write (RO).
func (a AccessMode) ReadOnly() bool {
	return a == AccessRO
}
