package binres

import "github.com/Aliucord/binary-resources/bytecursor"

const typeSpecFixedHeaderSize = 16 // 8 framing + id/res0/res1(4) + entryCount(4)

// TypeSpecChunk carries, for one type id, a per-entry bitmask of which
// configuration axes that entry's value varies across different TypeChunks.
// Flags are opaque to this library; they are decoded into a flat array and
// re-encoded unchanged.
type TypeSpecChunk struct {
	base

	id    uint8
	flags []uint32
}

func (c *TypeSpecChunk) parseHeader(r *bytecursor.Reader, parent Chunk) error {
	idPacked, err := r.U32() // id low byte, res0/res1 padding
	if err != nil {
		return err
	}
	c.id = uint8(idPacked)
	entryCount, err := r.U32()
	if err != nil {
		return err
	}
	c.flags = make([]uint32, entryCount)
	return nil
}

func (c *TypeSpecChunk) initPayload(r *bytecursor.Reader) error {
	for i := range c.flags {
		v, err := r.U32()
		if err != nil {
			return err
		}
		c.flags[i] = v
	}
	return nil
}

// Id returns the 1-based type id this spec describes.
func (c *TypeSpecChunk) Id() uint8 { return c.id }

// Flags returns the per-entry configuration-dependence bitmask.
func (c *TypeSpecChunk) Flags() []uint32 { return c.flags }

func (c *TypeSpecChunk) writeHeaderFields(w *bytecursor.Writer) {
	w.U32(uint32(c.id))
	w.U32(uint32(len(c.flags)))
}

func (c *TypeSpecChunk) writePayload(w *bytecursor.Writer) {
	for _, f := range c.flags {
		w.U32(f)
	}
}
