package bytecursor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aliucord/binary-resources/errs"
)

func TestReaderSequentialDecode(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	u8, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), u8)

	u16, err := r.U16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0302), u16)

	u32, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x07060504), u32)
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	_, err := r.U32()
	require.ErrorIs(t, err, errs.Truncated)
}

func TestReaderSeekAndAt(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	v, err := r.U32At(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDDCCBBAA), v)
	require.Equal(t, 0, r.Pos())

	r.Seek(2)
	b, err := r.Bytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0xCC, 0xDD}, b)
}

func TestWriterGrowsAndPatches(t *testing.T) {
	w := NewWriter(0)
	w.U16(0)
	startPatchPos := w.Pos()
	w.U32(0) // placeholder
	w.Data([]byte("hello"))
	w.PatchU32(startPatchPos, uint32(w.Pos()))

	out := w.Bytes()
	require.Len(t, out, 2+4+5)

	r := NewReader(out)
	r.Seek(startPatchPos)
	patched, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(len(out)), patched)
}

func TestWriterPadTo4(t *testing.T) {
	w := NewWriter(0)
	w.Data([]byte{1, 2, 3})
	w.PadTo4()
	require.Equal(t, 4, w.Pos())
	w.Data([]byte{1})
	w.PadTo4()
	require.Equal(t, 8, w.Pos())
}
