// Package bytecursor provides the little-endian random-access reader and
// growable appending writer every chunk in this module is parsed from and
// serialized onto. It is the one place raw byte <-> integer conversion
// happens; every other package goes through it rather than touching
// encoding/binary directly.
package bytecursor

import (
	"encoding/binary"
	"math"

	"github.com/Aliucord/binary-resources/errs"
)

// Reader is a positioned, bounds-checked view over an input buffer. Every
// accessor is absolute-offset based as well as sequential, since chunk
// parsing routinely needs to re-read a value (e.g. resolving a string pool
// offset) without disturbing the current read position.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential little-endian decoding starting at
// position 0. buf is retained, not copied: byte-copied entry/string
// preservation depends on it outliving the parsed tree.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Len returns the total number of bytes in the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Pos returns the current read position.
func (r *Reader) Pos() int { return r.pos }

// Seek moves the read position to an absolute offset. It does not validate
// the position against the buffer length; the next read will fail with
// errs.Truncated if it does not fit.
func (r *Reader) Seek(pos int) { r.pos = pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) require(n int) error {
	if r.pos < 0 || n < 0 || r.pos+n > len(r.buf) {
		return errs.Truncated
	}
	return nil
}

// U8 reads one byte and advances.
func (r *Reader) U8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// U16 reads a little-endian uint16 and advances.
func (r *Reader) U16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32 and advances.
func (r *Reader) U32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// I32 reads a little-endian int32 and advances.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// F32 reads a little-endian IEEE-754 float32 and advances.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// Bytes reads n raw bytes and advances. The returned slice aliases the
// reader's backing buffer; callers that byte-copy original regions rely on
// this aliasing.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// U8At, U16At and U32At read without disturbing the current position, used
// when a chunk needs to peek at a byte-copied region (e.g. re-deriving an
// original entry's size from its own header bytes).
func (r *Reader) U8At(pos int) (uint8, error) {
	if pos < 0 || pos+1 > len(r.buf) {
		return 0, errs.Truncated
	}
	return r.buf[pos], nil
}

func (r *Reader) U16At(pos int) (uint16, error) {
	if pos < 0 || pos+2 > len(r.buf) {
		return 0, errs.Truncated
	}
	return binary.LittleEndian.Uint16(r.buf[pos:]), nil
}

func (r *Reader) U32At(pos int) (uint32, error) {
	if pos < 0 || pos+4 > len(r.buf) {
		return 0, errs.Truncated
	}
	return binary.LittleEndian.Uint32(r.buf[pos:]), nil
}

// BytesAt returns n bytes starting at pos without disturbing the current
// position. The returned slice aliases the backing buffer.
func (r *Reader) BytesAt(pos, n int) ([]byte, error) {
	if pos < 0 || n < 0 || pos+n > len(r.buf) {
		return nil, errs.Truncated
	}
	return r.buf[pos : pos+n], nil
}

// Raw returns the entire backing buffer, for callers (such as a lazily
// decoding string pool) that need to hand an absolute offset to a codec
// function rather than go through the Reader's own positioned accessors.
func (r *Reader) Raw() []byte { return r.buf }

// Writer is a growable, append-only little-endian byte sink with absolute
// back-patch support. All writes happen at the end of the buffer; PatchU32
// is the only way to modify already-written bytes.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer pre-sized to hold roughly sizeHint bytes before
// its first grow.
func NewWriter(sizeHint int) *Writer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Pos returns the current write position (== number of bytes written so far).
func (w *Writer) Pos() int { return len(w.buf) }

// grow ensures at least n more bytes fit before the next append, growing
// capacity by 1.5x per step (at least one byte per step) rather than
// relying on append's own amortized growth, so the contract is explicit.
func (w *Writer) grow(n int) {
	need := len(w.buf) + n
	if need <= cap(w.buf) {
		return
	}
	newCap := cap(w.buf)
	if newCap == 0 {
		newCap = 64
	}
	for newCap < need {
		step := newCap / 2 // grow by 1.5x per spec's minimum factor
		if step == 0 {
			step = 1
		}
		newCap += step
	}
	grown := make([]byte, len(w.buf), newCap)
	copy(grown, w.buf)
	w.buf = grown
}

// Data appends raw bytes.
func (w *Writer) Data(b []byte) {
	w.grow(len(b))
	w.buf = append(w.buf, b...)
}

// U8 appends one byte.
func (w *Writer) U8(v uint8) {
	w.grow(1)
	w.buf = append(w.buf, v)
}

// U16 appends a little-endian uint16.
func (w *Writer) U16(v uint16) {
	w.grow(2)
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U32 appends a little-endian uint32.
func (w *Writer) U32(v uint32) {
	w.grow(4)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// I32 appends a little-endian int32.
func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

// F32 appends a little-endian IEEE-754 float32.
func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }

// PadTo4 writes zero bytes until the write position is 4-byte aligned.
func (w *Writer) PadTo4() {
	for len(w.buf)%4 != 0 {
		w.U8(0)
	}
}

// PatchU32 overwrites the little-endian uint32 at absolute position pos with
// value. pos+4 must already have been written.
func (w *Writer) PatchU32(pos int, value uint32) {
	binary.LittleEndian.PutUint32(w.buf[pos:pos+4], value)
}

// Bytes returns the exact-length slice of bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf }
