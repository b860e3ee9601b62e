package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldWidth(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  uint
	}{
		{"single bit", Field{Lsb: 0, Msb: 0}, 1},
		{"two bits", Field{Lsb: 1, Msb: 2}, 2},
		{"full word", Field{Lsb: 0, Msb: 31}, 32},
		{"inverted range", Field{Lsb: 5, Msb: 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Width())
		})
	}
}

func TestFieldMaxValue(t *testing.T) {
	assert.Equal(t, uint64(1), Field{Lsb: 0, Msb: 0}.MaxValue())
	assert.Equal(t, uint64(3), Field{Lsb: 1, Msb: 2}.MaxValue())
	assert.Equal(t, uint64(math.MaxUint64), Field{Lsb: 0, Msb: 63}.MaxValue())
}

func TestFieldOverlaps(t *testing.T) {
	a := Field{Name: "A", Lsb: 0, Msb: 3}
	b := Field{Name: "B", Lsb: 4, Msb: 7}
	c := Field{Name: "C", Lsb: 3, Msb: 5}

	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(a))
	assert.True(t, b.Overlaps(c))
}

func TestParseAccessMode(t *testing.T) {
	for _, tag := range []string{"RW", "RO", "WO", "RW1C", "RW1S", "W1C"} {
		m, err := ParseAccessMode(tag)
		require.NoError(t, err)
		assert.Equal(t, AccessMode(tag), m)
		assert.True(t, m.Valid())
	}

	_, err := ParseAccessMode("RWX")
	assert.Error(t, err)
	assert.False(t, AccessMode("RWX").Valid())
}

func TestSnapshotKey(t *testing.T) {
	snap := &SpecSnapshot{Version: "1.2.0", Variant: "client_B"}
	assert.Equal(t, SnapshotKey{Version: "1.2.0", Variant: "client_B"}, snap.Key())
	assert.Equal(t, "1.2.0@client_B", snap.Key().String())

	// Empty variant defaults to base.
	base := &SpecSnapshot{Version: "1.2.0"}
	assert.Equal(t, DefaultVariant, base.Key().Variant)
}

func TestSnapshotResolve(t *testing.T) {
	snap := &SpecSnapshot{
		Version: "1.0.0",
		Blocks: []IpBlock{{
			Name:     "timer",
			BaseAddr: 0x4000_0000,
			Registers: []Register{{
				Name:   "TMR_CTRL",
				Offset: 0x0,
				Width:  32,
				Fields: []Field{{Name: "EN", Lsb: 0, Msb: 0, Access: AccessRW}},
			}},
		}},
	}

	blk, reg, fld, ok := snap.Resolve(BlockPath("timer"))
	require.True(t, ok)
	require.NotNil(t, blk)
	assert.Nil(t, reg)
	assert.Nil(t, fld)

	_, reg, _, ok = snap.Resolve(RegisterPath("timer", "TMR_CTRL"))
	require.True(t, ok)
	require.NotNil(t, reg)
	assert.Equal(t, uint(32), reg.Width)

	_, _, fld, ok = snap.Resolve(FieldPath("timer", "TMR_CTRL", "EN"))
	require.True(t, ok)
	require.NotNil(t, fld)
	assert.Equal(t, AccessRW, fld.Access)

	_, _, _, ok = snap.Resolve(FieldPath("timer", "TMR_CTRL", "MISSING"))
	assert.False(t, ok)
	_, _, _, ok = snap.Resolve(BlockPath("uart"))
	assert.False(t, ok)
}

func TestBlockSpan(t *testing.T) {
	b := IpBlock{
		Name: "timer",
		Registers: []Register{
			{Name: "CTRL", Offset: 0x0, Width: 32},
			{Name: "STATUS", Offset: 0x8, Width: 32},
		},
	}
	assert.Equal(t, uint64(0xC), b.Span())
}

func TestMatchMatchesName(t *testing.T) {
	all := Match{Kind: MatchAll}
	assert.True(t, all.MatchesName("anything"))

	byName := Match{Kind: MatchByName, Pattern: "RSVD*"}
	assert.True(t, byName.MatchesName("RSVD"))
	assert.True(t, byName.MatchesName("RSVD_31_3"))
	assert.False(t, byName.MatchesName("MODE"))

	byAttr := Match{Kind: MatchByAttr, Attr: "access", Value: "RO"}
	assert.False(t, byAttr.MatchesName("RSVD"))
}
