// Package version provides spec version parsing, comparison, and ordering.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SpecVersion represents a parsed "major.minor.patch" spec version.
type SpecVersion struct {
	Major uint16
	Minor uint16
	Patch uint16
}

// Parse parses a "major.minor.patch" version string. The patch
// component may be omitted ("1.2" parses as 1.2.0).
func Parse(s string) (SpecVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return SpecVersion{}, fmt.Errorf("invalid version %q: expected major.minor[.patch]", s)
	}

	components := make([]uint16, 3)
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 16)
		if err != nil || part == "" {
			return SpecVersion{}, fmt.Errorf("invalid version %q: bad component %q", s, part)
		}
		components[i] = uint16(n)
	}

	return SpecVersion{Major: components[0], Minor: components[1], Patch: components[2]}, nil
}

// MustParse parses a version string and panics on failure. For use in
// tests and package-level declarations with known-good literals.
func MustParse(s string) SpecVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor.patch".
func (v SpecVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 when v is ordered before, equal to, or
// after other.
func (v SpecVersion) Compare(other SpecVersion) int {
	if c := compareU16(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareU16(v.Minor, other.Minor); c != 0 {
		return c
	}
	return compareU16(v.Patch, other.Patch)
}

// Less returns true if v is ordered before other.
func (v SpecVersion) Less(other SpecVersion) bool {
	return v.Compare(other) < 0
}

// Compatible returns true if the other version has the same major version.
func (v SpecVersion) Compatible(other SpecVersion) bool {
	return v.Major == other.Major
}

func compareU16(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompareStrings orders two version strings. Unparseable versions sort
// after parseable ones, then lexically, so sorting never fails.
func CompareStrings(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)

	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
