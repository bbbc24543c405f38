package binres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPackedResourceIDScenario is spec.md §8 scenario 3's literal worked
// examples.
func TestPackedResourceIDScenario(t *testing.T) {
	id := PackedResourceID(0x01234567)
	require.Equal(t, BinaryResourceIdentifier{PackageID: 0x01, TypeID: 0x23, EntryID: 0x4567}, id)
	require.Equal(t, uint32(0x01234567), id.Pack())

	id2 := PackedResourceID(0xFEDCBA98)
	require.Equal(t, BinaryResourceIdentifier{PackageID: 0xFE, TypeID: 0xDC, EntryID: 0xBA98}, id2)
	require.Equal(t, uint32(0xFEDCBA98), id2.Pack())
}
