// Package binres parses, mutates and re-serializes Android's compiled binary
// resource containers: resources.arsc and compiled binary XML (a compiled
// AndroidManifest.xml or res/*.xml). It reads a byte stream into a tree of
// typed chunks, lets callers inspect and edit selected parts, and
// re-serializes the tree back to bytes with byte-for-byte fidelity for
// unchanged regions.
//
// See https://android.googlesource.com/platform/frameworks/base/+/master/include/androidfw/ResourceTypes.h
// for the on-disk format this package implements.
package binres

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Aliucord/binary-resources/bytecursor"
	"github.com/Aliucord/binary-resources/errs"
)

// Chunk type codes, per ResourceTypes.h.
const (
	TypeNull                   uint16 = 0x0000
	TypeStringPool             uint16 = 0x0001
	TypeTable                  uint16 = 0x0002
	TypeXML                    uint16 = 0x0003
	TypeXMLStartNamespace      uint16 = 0x0100
	TypeXMLEndNamespace        uint16 = 0x0101
	TypeXMLStartElement        uint16 = 0x0102
	TypeXMLEndElement          uint16 = 0x0103
	TypeXMLCData               uint16 = 0x0104
	TypeXMLResourceMap         uint16 = 0x0180
	TypeTablePackage           uint16 = 0x0200
	TypeTableType              uint16 = 0x0201
	TypeTableTypeSpec          uint16 = 0x0202
	TypeTableLibrary           uint16 = 0x0203
	TypeTableOverlayable       uint16 = 0x0204
	TypeTableOverlayablePolicy uint16 = 0x0205
	TypeTableStagedAlias       uint16 = 0x0206
)

// noEntry is the sparse-offset-table and entry-index sentinel meaning
// "no entry/value here".
const noEntry uint32 = 0xFFFFFFFF

const commonHeaderSize = 8

// Chunk is implemented by every node in a parsed tree. It exposes the
// framing metadata captured at parse time (or set at construction time for
// a chunk built programmatically) without exposing the internal two-phase
// parse/write contract.
type Chunk interface {
	Type() uint16
	// Parent returns the chunk's non-owning back-reference to its enclosing
	// chunk, or nil for a top-level chunk or a detached subtree. It is a
	// lookup relation only; the tree's sole ownership direction is
	// parent-to-child.
	Parent() Chunk
	OriginalOffset() int
	OriginalHeaderSize() uint16
	OriginalChunkSize() uint32
}

// node is the internal contract the framing engine drives. Every exported
// chunk type implements it in addition to Chunk.
type node interface {
	Chunk
	// parseHeader reads this chunk's type-specific header fields. The
	// cursor is positioned immediately after the shared 8-byte
	// type/headerSize/chunkSize frame.
	parseHeader(r *bytecursor.Reader, parent Chunk) error
	// initPayload reads the payload. The cursor is positioned at the
	// header's end; the payload runs to OriginalOffset()+OriginalChunkSize().
	initPayload(r *bytecursor.Reader) error
	// writeHeaderFields writes this chunk's type-specific header fields
	// (excluding the shared frame, which writeChunk handles).
	writeHeaderFields(w *bytecursor.Writer)
	// writePayload writes the chunk's payload.
	writePayload(w *bytecursor.Writer)
	setFrame(typ uint16, parent Chunk, offset int, headerSize uint16, chunkSize uint32)
}

// base is embedded by every concrete chunk type. It stores the framing
// fields shared by all chunks (spec.md §3's "Chunk (abstract)").
type base struct {
	typ                uint16
	parent             Chunk
	originalOffset     int
	originalHeaderSize uint16
	originalChunkSize  uint32
}

func (b *base) Type() uint16               { return b.typ }
func (b *base) Parent() Chunk              { return b.parent }
func (b *base) OriginalOffset() int        { return b.originalOffset }
func (b *base) OriginalHeaderSize() uint16 { return b.originalHeaderSize }
func (b *base) OriginalChunkSize() uint32  { return b.originalChunkSize }

func (b *base) setFrame(typ uint16, parent Chunk, offset int, headerSize uint16, chunkSize uint32) {
	b.typ = typ
	b.parent = parent
	b.originalOffset = offset
	b.originalHeaderSize = headerSize
	b.originalChunkSize = chunkSize
}

// newNodeForType allocates the concrete chunk implementation for a type
// code. topLevel chunks with an unrecognized type code fail to parse;
// nested ones are absorbed into an UnknownChunk and preserved verbatim.
func newNodeForType(typ uint16, topLevel bool, offset int) (node, error) {
	switch typ {
	case TypeStringPool:
		return &StringPool{}, nil
	case TypeTable:
		return &TableChunk{}, nil
	case TypeXML:
		return &XMLChunk{}, nil
	case TypeXMLStartNamespace:
		return &XMLStartNamespace{}, nil
	case TypeXMLEndNamespace:
		return &XMLEndNamespace{}, nil
	case TypeXMLStartElement:
		return &XMLStartElement{}, nil
	case TypeXMLEndElement:
		return &XMLEndElement{}, nil
	case TypeXMLCData:
		return &XMLCData{}, nil
	case TypeXMLResourceMap:
		return &XMLResourceMap{}, nil
	case TypeTablePackage:
		return &PackageChunk{}, nil
	case TypeTableType:
		return &TypeChunk{}, nil
	case TypeTableTypeSpec:
		return &TypeSpecChunk{}, nil
	case TypeTableLibrary:
		return &LibraryChunk{}, nil
	default:
		if topLevel {
			return nil, errs.At(errs.UnknownTypeCode, typ, offset)
		}
		return &UnknownChunk{}, nil
	}
}

// parseChunk reads one chunk (framing, type-specific header, payload)
// starting at the reader's current position. limit is the absolute end
// offset of the enclosing chunk's payload window (or r.Len() at the top
// level); a chunk claiming to extend past it is BadChunkSize.
func parseChunk(r *bytecursor.Reader, parent Chunk, topLevel bool, limit int) (node, error) {
	offset := r.Pos()
	typ, err := r.U16()
	if err != nil {
		return nil, err
	}
	headerSize, err := r.U16()
	if err != nil {
		return nil, err
	}
	chunkSize, err := r.U32()
	if err != nil {
		return nil, err
	}
	if headerSize < commonHeaderSize {
		return nil, errs.Atf(errs.BadHeaderSize, typ, offset, "headerSize %d < %d", headerSize, commonHeaderSize)
	}
	if uint32(headerSize) > chunkSize {
		return nil, errs.Atf(errs.BadChunkSize, typ, offset, "chunkSize %d < headerSize %d", chunkSize, headerSize)
	}
	end := offset + int(chunkSize)
	if end > r.Len() || (limit >= 0 && end > limit) {
		return nil, errs.Atf(errs.BadChunkSize, typ, offset, "chunk end %d exceeds enclosing bound", end)
	}

	n, err := newNodeForType(typ, topLevel, offset)
	if err != nil {
		return nil, err
	}
	n.setFrame(typ, parent, offset, headerSize, chunkSize)

	r.Seek(offset + commonHeaderSize)
	if err := n.parseHeader(r, parent); err != nil {
		return nil, err
	}
	r.Seek(offset + int(headerSize))
	if err := n.initPayload(r); err != nil {
		return nil, err
	}
	r.Seek(end)
	return n, nil
}

// writeChunk serializes a chunk's framing, type-specific header and
// payload, back-patching chunkSize once the payload length is known.
// headerSize is re-emitted unchanged, enforced by assertion (a programmer
// error, per spec.md §7, if writeHeaderFields disagrees with it).
func writeChunk(w *bytecursor.Writer, n node) {
	start := w.Pos()
	w.U16(n.Type())
	w.U16(n.OriginalHeaderSize())
	chunkSizePos := w.Pos()
	w.U32(0) // placeholder, back-patched below
	n.writeHeaderFields(w)

	written := w.Pos() - start
	if written != int(n.OriginalHeaderSize()) {
		panic(fmt.Sprintf("binres: chunk type 0x%04x wrote %d header bytes, want %d",
			n.Type(), written, n.OriginalHeaderSize()))
	}

	n.writePayload(w)
	w.PatchU32(chunkSizePos, uint32(w.Pos()-start))
}

// parseChildren parses a contiguous run of child chunks filling
// [r.Pos(), end), as used by TABLE/XML/PACKAGE containers (spec.md §4.5).
func parseChildren(r *bytecursor.Reader, self Chunk, end int) ([]node, error) {
	var children []node
	for r.Pos() < end {
		child, err := parseChunk(r, self, false, end)
		if err != nil {
			return nil, errors.Wrapf(err, "child chunk at offset 0x%x", r.Pos())
		}
		children = append(children, child)
	}
	return children, nil
}

// writeChildren serializes children in order, padding each to a 4-byte
// boundary as spec.md §4.5 requires.
func writeChildren(w *bytecursor.Writer, children []node) {
	for _, c := range children {
		writeChunk(w, c)
		w.PadTo4()
	}
}

// childrenAsChunks exposes an internal []node slice as the public []Chunk
// accessor every container chunk provides.
func childrenAsChunks(children []node) []Chunk {
	out := make([]Chunk, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

// mustNode type-asserts a caller-supplied Chunk back to the internal node
// contract. Every exported chunk type this package constructs satisfies it;
// only a type from outside this package could fail the assertion.
func mustNode(child Chunk) node {
	n, ok := child.(node)
	if !ok {
		panic(fmt.Sprintf("binres: %T does not implement the chunk contract", child))
	}
	return n
}

// insertNode returns children with n inserted at index (an out-of-range
// index, negative or past the end, appends n at the end).
func insertNode(children []node, index int, n node) []node {
	if index < 0 || index > len(children) {
		index = len(children)
	}
	children = append(children, nil)
	copy(children[index+1:], children[index:])
	children[index] = n
	return children
}

// UnknownChunk preserves a chunk whose type code this engine does not
// recognize, byte-for-byte, as required by spec.md §8 scenario 6.
type UnknownChunk struct {
	base
	header  []byte
	payload []byte
}

func (c *UnknownChunk) parseHeader(r *bytecursor.Reader, parent Chunk) error {
	n := int(c.originalHeaderSize) - commonHeaderSize
	b, err := r.Bytes(n)
	if err != nil {
		return err
	}
	c.header = append([]byte(nil), b...)
	return nil
}

func (c *UnknownChunk) initPayload(r *bytecursor.Reader) error {
	n := int(c.originalChunkSize) - int(c.originalHeaderSize)
	b, err := r.Bytes(n)
	if err != nil {
		return err
	}
	c.payload = append([]byte(nil), b...)
	return nil
}

func (c *UnknownChunk) writeHeaderFields(w *bytecursor.Writer) { w.Data(c.header) }
func (c *UnknownChunk) writePayload(w *bytecursor.Writer)      { w.Data(c.payload) }

// HeaderBytes returns the raw type-specific header bytes (excluding the
// common 8-byte frame) preserved verbatim from parse.
func (c *UnknownChunk) HeaderBytes() []byte { return c.header }

// PayloadBytes returns the raw payload bytes preserved verbatim from parse.
func (c *UnknownChunk) PayloadBytes() []byte { return c.payload }
