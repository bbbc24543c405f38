package binres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParseTypeChunk(t *testing.T, b []byte) *TypeChunk {
	t.Helper()
	f, err := Parse(b)
	require.NoError(t, err)
	require.Len(t, f.Chunks(), 1)
	tc, ok := f.Chunks()[0].(*TypeChunk)
	require.True(t, ok)
	return tc
}

func simpleFixtureEntry(key uint32, data uint32) *fixtureEntry {
	v := TypedValue{Type: TypeValIntDec, Data: data}
	return &fixtureEntry{key: key, simple: &v}
}

func TestTypeChunkDecode(t *testing.T) {
	cfg := []byte{0, 0, 0, 0}
	b := buildTypeChunkBytes(1, cfg, []*fixtureEntry{
		simpleFixtureEntry(0, 100),
		nil,
		simpleFixtureEntry(2, 300),
	})
	tc := mustParseTypeChunk(t, b)

	require.Equal(t, uint8(1), tc.Id())
	require.Equal(t, 3, tc.TotalEntryCount())

	e0, err := tc.Get(0)
	require.NoError(t, err)
	require.Equal(t, uint32(100), e0.Value.Data)

	e1, err := tc.Get(1)
	require.NoError(t, err)
	require.Nil(t, e1)

	e2, err := tc.Get(2)
	require.NoError(t, err)
	require.Equal(t, uint32(300), e2.Value.Data)
}

func TestTypeChunkComplexEntryDecode(t *testing.T) {
	cfg := []byte{1, 2, 3, 4}
	complexEntry := &fixtureEntry{
		key:    1,
		parent: 0xAA,
		complex: []ComplexValue{
			{ResourceKey: 10, Value: TypedValue{Type: TypeValIntDec, Data: 1}},
			{ResourceKey: 11, Value: TypedValue{Type: TypeValIntDec, Data: 2}},
		},
	}
	b := buildTypeChunkBytes(2, cfg, []*fixtureEntry{complexEntry})
	tc := mustParseTypeChunk(t, b)

	e, err := tc.Get(0)
	require.NoError(t, err)
	require.True(t, e.IsComplex())
	require.Equal(t, uint32(0xAA), e.ParentRef)
	require.Len(t, e.Values, 2)
	require.Equal(t, uint32(10), e.Values[0].ResourceKey)
}

// TestTypeChunkRoundTrip is spec.md §8's round-trip property applied to an
// unmodified TypeChunk.
func TestTypeChunkRoundTrip(t *testing.T) {
	cfg := []byte{9, 9, 9, 9}
	b := buildTypeChunkBytes(1, cfg, []*fixtureEntry{
		simpleFixtureEntry(0, 1),
		nil,
		simpleFixtureEntry(2, 3),
	})
	f, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, b, f.ToBytes())
}

// TestTypeChunkOverrideToRemoval is spec.md §8's "entry override semantics"
// property and §8 scenario 4.
func TestTypeChunkOverrideToRemoval(t *testing.T) {
	cfg := []byte{0, 0, 0, 0}
	b := buildTypeChunkBytes(1, cfg, []*fixtureEntry{
		simpleFixtureEntry(0, 1),
		simpleFixtureEntry(1, 2),
		simpleFixtureEntry(2, 3),
		simpleFixtureEntry(3, 4),
	})
	f, err := Parse(b)
	require.NoError(t, err)
	tc := f.Chunks()[0].(*TypeChunk)

	tc.OverrideEntry(3, nil)
	e, err := tc.Get(3)
	require.NoError(t, err)
	require.Nil(t, e)

	out := f.ToBytes()
	f2, err := Parse(out)
	require.NoError(t, err)
	tc2 := f2.Chunks()[0].(*TypeChunk)
	e2, err := tc2.Get(3)
	require.NoError(t, err)
	require.Nil(t, e2)
	require.Equal(t, noEntry, tc2.originalOffsets[3])
}

// TestTypeChunkAddEntry is spec.md §8's "entry append" property.
func TestTypeChunkAddEntry(t *testing.T) {
	cfg := []byte{0, 0, 0, 0}
	b := buildTypeChunkBytes(1, cfg, []*fixtureEntry{simpleFixtureEntry(0, 1)})
	f, err := Parse(b)
	require.NoError(t, err)
	tc := f.Chunks()[0].(*TypeChunk)

	before := tc.TotalEntryCount()
	e := NewSimpleEntry(5, TypedValue{Type: TypeValIntDec, Data: 77})
	k := tc.AddEntry(&e)
	require.Equal(t, uint32(before), k)
	require.Equal(t, before+1, tc.TotalEntryCount())

	got, err := tc.Get(int(k))
	require.NoError(t, err)
	require.Equal(t, uint32(77), got.Value.Data)

	out := f.ToBytes()
	f2, err := Parse(out)
	require.NoError(t, err)
	tc2 := f2.Chunks()[0].(*TypeChunk)
	got2, err := tc2.Get(int(k))
	require.NoError(t, err)
	require.Equal(t, uint32(77), got2.Value.Data)
}

func TestTypeChunkOverrideOutOfRangeIsNoOp(t *testing.T) {
	cfg := []byte{0, 0, 0, 0}
	b := buildTypeChunkBytes(1, cfg, []*fixtureEntry{simpleFixtureEntry(0, 1)})
	f, err := Parse(b)
	require.NoError(t, err)
	tc := f.Chunks()[0].(*TypeChunk)

	tc.OverrideEntry(99, nil)
	require.Equal(t, 1, tc.TotalEntryCount())
}
