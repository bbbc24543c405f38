package binres

import (
	"github.com/Aliucord/binary-resources/bytecursor"
	"github.com/Aliucord/binary-resources/errs"
)

const packageHeaderSizeNoTypeIDOffset = 0x11C
const packageHeaderSizeWithTypeIDOffset = 0x120
const packageNameUnits = 128

// PackageChunk groups all of one Android package's types, keys and
// resource entries. Its children are a contiguous run of subchunks; by
// convention the first two StringPool children are the type-name pool and
// the key-name pool, resolved here by class filter rather than by trusting
// the header's own offset fields (which this package recomputes on write).
type PackageChunk struct {
	base

	ID             uint32
	Name           string
	lastPublicType uint32
	lastPublicKey  uint32
	typeIDOffset   uint32 // 0 when the header predates this field

	children []node

	// transient back-patch positions, valid only during a single write() call
	typeStringsPatchPos int
	keyStringsPatchPos  int
}

func (c *PackageChunk) parseHeader(r *bytecursor.Reader, parent Chunk) error {
	id, err := r.U32()
	if err != nil {
		return err
	}
	name, err := readUTF16Fixed(r, packageNameUnits)
	if err != nil {
		return err
	}
	if _, err := r.U32(); err != nil { // typeStrings offset, recomputed on write
		return err
	}
	lastPublicType, err := r.U32()
	if err != nil {
		return err
	}
	if _, err := r.U32(); err != nil { // keyStrings offset, recomputed on write
		return err
	}
	lastPublicKey, err := r.U32()
	if err != nil {
		return err
	}
	c.ID = id
	c.Name = name
	c.lastPublicType = lastPublicType
	c.lastPublicKey = lastPublicKey

	if c.originalHeaderSize >= packageHeaderSizeWithTypeIDOffset {
		typeIDOffset, err := r.U32()
		if err != nil {
			return err
		}
		c.typeIDOffset = typeIDOffset
	}
	return nil
}

func (c *PackageChunk) initPayload(r *bytecursor.Reader) error {
	end := c.originalOffset + int(c.originalChunkSize)
	children, err := parseChildren(r, c, end)
	if err != nil {
		return err
	}
	c.children = children
	return nil
}

// TypeStringPool returns the package's type-name string pool: the first
// StringPool among its children.
func (c *PackageChunk) TypeStringPool() (*StringPool, error) { return c.nthStringPool(1) }

// KeyStringPool returns the package's key-name string pool: the second
// StringPool among its children.
func (c *PackageChunk) KeyStringPool() (*StringPool, error) { return c.nthStringPool(2) }

func (c *PackageChunk) nthStringPool(n int) (*StringPool, error) {
	seen := 0
	for _, child := range c.children {
		if sp, ok := child.(*StringPool); ok {
			seen++
			if seen == n {
				return sp, nil
			}
		}
	}
	return nil, errs.Atf(errs.StructuralInvariant, c.typ, c.originalOffset, "package chunk missing string pool #%d", n)
}

// Children returns the package's direct child chunks in order.
func (c *PackageChunk) Children() []Chunk { return childrenAsChunks(c.children) }

// Insert places child at index among the package's children.
func (c *PackageChunk) Insert(index int, child Chunk) {
	n := mustNode(child)
	n.setFrame(n.Type(), c, n.OriginalOffset(), n.OriginalHeaderSize(), n.OriginalChunkSize())
	c.children = insertNode(c.children, index, n)
}

func (c *PackageChunk) writeHeaderFields(w *bytecursor.Writer) {
	w.U32(c.ID)
	writeUTF16Fixed(w, c.Name, packageNameUnits)
	c.typeStringsPatchPos = w.Pos()
	w.U32(0)
	w.U32(c.lastPublicType)
	c.keyStringsPatchPos = w.Pos()
	w.U32(0)
	w.U32(c.lastPublicKey)
	if c.originalHeaderSize >= packageHeaderSizeWithTypeIDOffset {
		w.U32(c.typeIDOffset)
	}
}

func (c *PackageChunk) writePayload(w *bytecursor.Writer) {
	chunkStart := w.Pos() - int(c.originalHeaderSize)
	poolsSeen := 0
	for _, child := range c.children {
		if _, ok := child.(*StringPool); ok {
			poolsSeen++
			relStart := uint32(w.Pos() - chunkStart)
			switch poolsSeen {
			case 1:
				w.PatchU32(c.typeStringsPatchPos, relStart)
			case 2:
				w.PatchU32(c.keyStringsPatchPos, relStart)
			}
		}
		writeChunk(w, child)
		w.PadTo4()
	}
}
