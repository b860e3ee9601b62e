package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

func timerSnapshot() *model.SpecSnapshot {
	return &model.SpecSnapshot{
		Version:   "1.0.0",
		Variant:   model.DefaultVariant,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Blocks: []model.IpBlock{{
			Name:     "timer",
			BaseAddr: 0x4000_0000,
			Registers: []model.Register{{
				Name:   "TMR_CTRL",
				Offset: 0x0,
				Width:  32,
				Fields: []model.Field{
					{Name: "EN", Lsb: 0, Msb: 0, Access: model.AccessRW},
					{Name: "MODE", Lsb: 1, Msb: 2, Access: model.AccessRW, Enum: []model.EnumValue{
						{Name: "ONE_SHOT", Value: 0},
						{Name: "PERIODIC", Value: 1},
						{Name: "PWM", Value: 2},
					}},
					{Name: "RSVD", Lsb: 3, Msb: 31, Access: model.AccessRO},
				},
			}},
		}},
	}
}

func TestMergeZeroOverlays(t *testing.T) {
	base := timerSnapshot()

	merged, report, err := Merge(base, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, report.Applied)
	assert.Empty(t, report.Failed)

	// Structurally equal to the base, but a distinct value.
	assert.Equal(t, base, merged)
	require.NotSame(t, base, merged)
	merged.Blocks[0].Name = "mutated"
	assert.Equal(t, "timer", base.Blocks[0].Name)
}

func TestMergeInstanceExpansion(t *testing.T) {
	base := timerSnapshot()

	overlay := model.VariantOverlay{
		Name: "client_B",
		Overrides: []model.Override{{
			Target:    model.BlockPath("timer"),
			Instances: 4,
			Stride:    0x1000,
		}},
	}

	merged, report, err := Merge(base, []model.VariantOverlay{overlay}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"client_B"}, report.Applied)
	assert.Equal(t, "client_B", merged.Variant)

	require.Len(t, merged.Blocks, 4)
	for i, blk := range merged.Blocks {
		// The first instance keeps the base name and address.
		assert.Equal(t, []string{"timer", "timer_1", "timer_2", "timer_3"}[i], blk.Name)
		assert.Equal(t, uint64(0x4000_0000)+uint64(i)*0x1000, blk.BaseAddr)
		// Structural copy of the base block.
		require.Len(t, blk.Registers, 1)
		assert.Equal(t, base.Blocks[0].Registers[0].Fields, blk.Registers[0].Fields)
	}

	// The base snapshot is untouched.
	require.Len(t, base.Blocks, 1)
	assert.Equal(t, "timer", base.Blocks[0].Name)
}

func TestMergeInstanceStrideFallback(t *testing.T) {
	base := timerSnapshot()

	overlay := model.VariantOverlay{
		Name: "dual",
		Overrides: []model.Override{{
			Target:    model.BlockPath("timer"),
			Instances: 2,
		}},
	}

	merged, _, err := Merge(base, []model.VariantOverlay{overlay}, Options{DefaultStride: 0x100})
	require.NoError(t, err)
	require.Len(t, merged.Blocks, 2)
	assert.Equal(t, uint64(0x4000_0100), merged.Blocks[1].BaseAddr)
}

func TestMergeScalarOverride(t *testing.T) {
	base := timerSnapshot()

	overlay := model.VariantOverlay{
		Name: "tuned",
		Overrides: []model.Override{
			{
				Target: model.FieldPath("timer", "TMR_CTRL", "MODE"),
				Params: map[string]any{"reset": 1},
			},
			{
				Target: model.FieldPath("timer", "TMR_CTRL", "EN"),
				Params: map[string]any{"access": "RO"},
			},
		},
	}

	merged, _, err := Merge(base, []model.VariantOverlay{overlay}, Options{})
	require.NoError(t, err)

	_, _, mode, ok := merged.Resolve(model.FieldPath("timer", "TMR_CTRL", "MODE"))
	require.True(t, ok)
	assert.Equal(t, uint64(1), mode.Reset)

	_, _, en, ok := merged.Resolve(model.FieldPath("timer", "TMR_CTRL", "EN"))
	require.True(t, ok)
	assert.Equal(t, model.AccessRO, en.Access)
}

func TestMergeLastWriteWins(t *testing.T) {
	base := timerSnapshot()

	first := model.VariantOverlay{
		Name: "first",
		Overrides: []model.Override{{
			Target: model.FieldPath("timer", "TMR_CTRL", "MODE"),
			Params: map[string]any{"reset": 1},
		}},
	}
	second := model.VariantOverlay{
		Name: "second",
		Overrides: []model.Override{{
			Target: model.FieldPath("timer", "TMR_CTRL", "MODE"),
			Params: map[string]any{"reset": 2},
		}},
	}

	merged, report, err := Merge(base, []model.VariantOverlay{first, second}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, report.Applied)
	assert.Equal(t, "second", merged.Variant)

	_, _, mode, _ := merged.Resolve(model.FieldPath("timer", "TMR_CTRL", "MODE"))
	assert.Equal(t, uint64(2), mode.Reset)
}

func TestMergeUnknownTargetCollected(t *testing.T) {
	base := timerSnapshot()

	bad := model.VariantOverlay{
		Name: "bad",
		Overrides: []model.Override{
			{
				Target: model.FieldPath("timer", "TMR_CTRL", "MODE"),
				Params: map[string]any{"reset": 2},
			},
			{
				Target: model.BlockPath("uart"),
				Params: map[string]any{"base_addr": 0x5000_0000},
			},
		},
	}
	good := model.VariantOverlay{
		Name: "good",
		Overrides: []model.Override{{
			Target: model.FieldPath("timer", "TMR_CTRL", "MODE"),
			Params: map[string]any{"reset": 1},
		}},
	}

	merged, report, err := Merge(base, []model.VariantOverlay{bad, good}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, report.Applied)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "bad", report.Failed[0].Overlay)

	var unknown *UnknownTargetError
	require.ErrorAs(t, report.Failed[0].Err, &unknown)
	assert.Equal(t, "uart", unknown.Path.Block)

	// The rejected overlay left no partial edits: MODE carries the
	// value from "good", not from "bad".
	_, _, mode, _ := merged.Resolve(model.FieldPath("timer", "TMR_CTRL", "MODE"))
	assert.Equal(t, uint64(1), mode.Reset)
}

func TestMergeWidthShrinkConflict(t *testing.T) {
	base := timerSnapshot()

	overlay := model.VariantOverlay{
		Name: "narrow",
		Overrides: []model.Override{{
			Target: model.RegisterPath("timer", "TMR_CTRL"),
			Params: map[string]any{"width": 8},
		}},
	}

	// RSVD occupies [31:3] and cannot fit a width of 8.
	_, _, err := Merge(base, []model.VariantOverlay{overlay}, Options{})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "timer.TMR_CTRL", conflict.Path.String())
	assert.Contains(t, conflict.Reason, "RSVD")
}

func TestMergeResetConflict(t *testing.T) {
	base := timerSnapshot()

	overlay := model.VariantOverlay{
		Name: "hot",
		Overrides: []model.Override{{
			Target: model.FieldPath("timer", "TMR_CTRL", "EN"),
			Params: map[string]any{"reset": 2},
		}},
	}

	_, _, err := Merge(base, []model.VariantOverlay{overlay}, Options{})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Reason, "does not fit")
}

func TestMergeFieldResize(t *testing.T) {
	base := timerSnapshot()

	// Shrinking RSVD inside the register is a legal resize.
	overlay := model.VariantOverlay{
		Name: "short-rsvd",
		Overrides: []model.Override{
			{
				Target: model.FieldPath("timer", "TMR_CTRL", "RSVD"),
				Params: map[string]any{"msb": 10},
			},
		},
	}
	merged, _, err := Merge(base, []model.VariantOverlay{overlay}, Options{})
	require.NoError(t, err)
	_, _, rsvd, _ := merged.Resolve(model.FieldPath("timer", "TMR_CTRL", "RSVD"))
	assert.Equal(t, uint(10), rsvd.Msb)

	// Growing MODE over RSVD must conflict.
	clash := model.VariantOverlay{
		Name: "clash",
		Overrides: []model.Override{{
			Target: model.FieldPath("timer", "TMR_CTRL", "MODE"),
			Params: map[string]any{"msb": 4},
		}},
	}
	_, _, err = Merge(base, []model.VariantOverlay{clash}, Options{})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Reason, "overlaps")
}

func TestMergeInstanceThenParams(t *testing.T) {
	base := timerSnapshot()

	// Instance multiplication resolves first; the scalar override then
	// applies to every resulting instance.
	overlay := model.VariantOverlay{
		Name: "quad",
		Overrides: []model.Override{{
			Target:    model.BlockPath("timer"),
			Instances: 2,
			Stride:    0x1000,
			Params:    map[string]any{"base_addr": 0x6000_0000},
		}},
	}

	merged, _, err := Merge(base, []model.VariantOverlay{overlay}, Options{})
	require.NoError(t, err)
	require.Len(t, merged.Blocks, 2)
	for _, blk := range merged.Blocks {
		assert.Equal(t, uint64(0x6000_0000), blk.BaseAddr)
	}
}

func TestMergeVariantOption(t *testing.T) {
	base := timerSnapshot()
	merged, _, err := Merge(base, nil, Options{Variant: "client_A"})
	require.NoError(t, err)
	assert.Equal(t, "client_A", merged.Variant)
	assert.Equal(t, model.SnapshotKey{Version: "1.0.0", Variant: "client_A"}, merged.Key())
}
