package registry

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

func sampleSnapshot(specVersion, variant string) *model.SpecSnapshot {
	return &model.SpecSnapshot{
		Version:   specVersion,
		Variant:   variant,
		Commit:    "deadbeef",
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
					}},
				},
			}},
		}},
		Constraints: []model.Constraint{{
			Name:     "rsvd-read-zero",
			Scope:    model.ScopeField,
			Match:    model.Match{Kind: model.MatchByName, Pattern: "RSVD*"},
			Rule:     model.RuleReadsAsZero,
			Severity: model.ConstraintWarning,
		}},
	}
}

func TestMemoryPutAndSnapshot(t *testing.T) {
	m := NewMemory()
	snap := sampleSnapshot("1.0.0", "base")
	require.NoError(t, m.Put(snap))

	got, err := m.Snapshot("1.0.0", "base")
	require.NoError(t, err)
	assert.Same(t, snap, got)

	// Empty variant resolves to the base variant.
	got, err = m.Snapshot("1.0.0", "")
	require.NoError(t, err)
	assert.Same(t, snap, got)

	_, err = m.Snapshot("9.9.9", "base")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	err = m.Put(sampleSnapshot("1.0.0", "base"))
	assert.ErrorIs(t, err, ErrDuplicateSnapshot)
}

func TestMemoryKeysOrdered(t *testing.T) {
	m := NewMemory()
	for _, k := range []model.SnapshotKey{
		{Version: "1.10.0", Variant: "base"},
		{Version: "1.2.0", Variant: "client_B"},
		{Version: "1.2.0", Variant: "base"},
		{Version: "0.9.0", Variant: "base"},
	} {
		require.NoError(t, m.Put(sampleSnapshot(k.Version, k.Variant)))
	}

	// Semantic version order, not lexicographic: 1.2 before 1.10.
	assert.Equal(t, []model.SnapshotKey{
		{Version: "0.9.0", Variant: "base"},
		{Version: "1.2.0", Variant: "base"},
		{Version: "1.2.0", Variant: "client_B"},
		{Version: "1.10.0", Variant: "base"},
	}, m.Keys())
}

func TestCodecRoundTrip(t *testing.T) {
	snap := sampleSnapshot("1.0.0", "base")

	blob, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(blob)
	require.NoError(t, err)

	assert.Equal(t, snap.Version, decoded.Version)
	assert.Equal(t, snap.Variant, decoded.Variant)
	assert.Equal(t, snap.Commit, decoded.Commit)
	assert.True(t, snap.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, snap.Blocks, decoded.Blocks)
	assert.Equal(t, snap.Constraints, decoded.Constraints)
}

func TestCodecDeterministic(t *testing.T) {
	a, err := EncodeSnapshot(sampleSnapshot("1.0.0", "base"))
	require.NoError(t, err)
	b, err := EncodeSnapshot(sampleSnapshot("1.0.0", "base"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	snap := sampleSnapshot("1.0.0", "base")
	id, err := store.Put(snap)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "ingest id must be a uuid")

	got, err := store.Snapshot("1.0.0", "base")
	require.NoError(t, err)
	assert.Equal(t, snap.Blocks, got.Blocks)
	assert.Equal(t, snap.Constraints, got.Constraints)
	assert.Equal(t, "deadbeef", got.Commit)

	storedID, err := store.IngestID("1.0.0", "")
	require.NoError(t, err)
	assert.Equal(t, id, storedID)

	_, err = store.Snapshot("1.0.0", "client_B")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStorePutReplaces(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	first := sampleSnapshot("1.0.0", "base")
	firstID, err := store.Put(first)
	require.NoError(t, err)

	second := sampleSnapshot("1.0.0", "base")
	second.Blocks[0].BaseAddr = 0x5000_0000
	secondID, err := store.Put(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	got, err := store.Snapshot("1.0.0", "base")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x5000_0000), got.Blocks[0].BaseAddr)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []model.SnapshotKey{{Version: "1.0.0", Variant: "base"}}, keys)
}

func TestStoreKeysOrdered(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	for _, k := range []model.SnapshotKey{
		{Version: "1.10.0", Variant: "base"},
		{Version: "1.2.0", Variant: "client_B"},
		{Version: "1.2.0", Variant: "base"},
	} {
		_, err := store.Put(sampleSnapshot(k.Version, k.Variant))
		require.NoError(t, err)
	}

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []model.SnapshotKey{
		{Version: "1.2.0", Variant: "base"},
		{Version: "1.2.0", Variant: "client_B"},
		{Version: "1.10.0", Variant: "base"},
	}, keys)
}

var _ Provider = (*Memory)(nil)
var _ Provider = (*Store)(nil)
