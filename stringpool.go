package binres

import (
	"fmt"

	"github.com/Aliucord/binary-resources/bytecursor"
	"github.com/Aliucord/binary-resources/errs"
	"github.com/Aliucord/binary-resources/stringcodec"
)

// StringPool flag bits.
const (
	StringPoolFlagSorted uint32 = 1 << 0
	StringPoolFlagUTF8   uint32 = 1 << 8
)

const stringPoolHeaderSize = 28

// Span is a single style run: a name string (by pool index) applied to the
// [Start, Stop] code-unit range of the styled string.
type Span struct {
	NameIndex uint32
	Start     uint32
	Stop      uint32
}

// StringPool is a chunk holding an array of strings (UTF-8 or UTF-16),
// addressed by index and optionally annotated with style spans. Decoding
// is lazy: only the offset tables are read at parse time, and individual
// strings are decoded on demand from the shared source buffer.
type StringPool struct {
	base

	flags uint32

	src *bytecursor.Reader // shared reference to the whole input buffer

	originalCount        int
	originalStyleCount   int
	originalOffsets      []uint32 // chunk-relative, indexed like the pool itself
	originalStyleOffsets []uint32
	stringsStartOrig     uint32 // chunk-relative, as read from the header
	stylesStartOrig      uint32

	appended []string

	styleOverrides map[int][]Span

	// transient back-patch positions, valid only during a single write() call
	stringsStartPatchPos int
	stylesStartPatchPos  int
}

func (sp *StringPool) encoding() stringcodec.Encoding {
	if sp.flags&StringPoolFlagUTF8 != 0 {
		return stringcodec.UTF8
	}
	return stringcodec.UTF16
}

func (sp *StringPool) parseHeader(r *bytecursor.Reader, parent Chunk) error {
	stringCount, err := r.U32()
	if err != nil {
		return err
	}
	styleCount, err := r.U32()
	if err != nil {
		return err
	}
	flags, err := r.U32()
	if err != nil {
		return err
	}
	stringsStart, err := r.U32()
	if err != nil {
		return err
	}
	stylesStart, err := r.U32()
	if err != nil {
		return err
	}
	sp.originalCount = int(stringCount)
	sp.originalStyleCount = int(styleCount)
	sp.flags = flags
	sp.stringsStartOrig = stringsStart
	sp.stylesStartOrig = stylesStart
	return nil
}

func (sp *StringPool) initPayload(r *bytecursor.Reader) error {
	sp.src = r
	sp.originalOffsets = make([]uint32, sp.originalCount)
	for i := range sp.originalOffsets {
		v, err := r.U32()
		if err != nil {
			return err
		}
		sp.originalOffsets[i] = v
	}
	sp.originalStyleOffsets = make([]uint32, sp.originalStyleCount)
	for i := range sp.originalStyleOffsets {
		v, err := r.U32()
		if err != nil {
			return err
		}
		sp.originalStyleOffsets[i] = v
	}
	return nil
}

// Count returns the total number of strings in the pool (original + appended).
func (sp *StringPool) Count() int { return sp.originalCount + len(sp.appended) }

// Get decodes the string at pool index i.
func (sp *StringPool) Get(i int) (string, error) {
	if i < 0 || i >= sp.Count() {
		return "", errs.Atf(errs.StructuralInvariant, sp.typ, sp.originalOffset,
			"string pool index %d out of range [0,%d)", i, sp.Count())
	}
	if i < sp.originalCount {
		absOff := sp.originalOffset + int(sp.stringsStartOrig) + int(sp.originalOffsets[i])
		return stringcodec.Decode(sp.src.Raw(), absOff, sp.encoding())
	}
	return sp.appended[i-sp.originalCount], nil
}

// IndexOf returns the first pool index at which s occurs, scanning
// originals first (in their on-disk order) and then appended strings.
func (sp *StringPool) IndexOf(s string) (int, bool) {
	for i := 0; i < sp.originalCount; i++ {
		v, err := sp.Get(i)
		if err == nil && v == s {
			return i, true
		}
	}
	for i, v := range sp.appended {
		if v == s {
			return sp.originalCount + i, true
		}
	}
	return 0, false
}

// Add appends s to the pool, or (if dedup is true and s already exists in
// the original pool) returns its existing index unchanged. It returns the
// string's pool index. Appended strings are not deduplicated against each
// other: adding the same new string twice appends it twice.
func (sp *StringPool) Add(s string, dedup bool) int {
	if dedup {
		if k, ok := sp.IndexOf(s); ok && k < sp.originalCount {
			return k
		}
	}
	sp.appended = append(sp.appended, s)
	return sp.originalCount + len(sp.appended) - 1
}

// Style returns the style spans recorded for pool index i, or nil if it has
// none. Only indices within the original style range (or previously given
// to AddStyle) are resolvable.
func (sp *StringPool) Style(i int) ([]Span, error) {
	if spans, ok := sp.styleOverrides[i]; ok {
		return spans, nil
	}
	if i < 0 || i >= sp.originalStyleCount {
		return nil, nil
	}
	absOff := sp.originalOffset + int(sp.stylesStartOrig) + int(sp.originalStyleOffsets[i])
	return decodeStyleSpans(sp.src, absOff)
}

// AddStyle overrides the style spans recorded for an existing pool index
// (within the original style range). Growing the style table to cover
// newly appended strings is not supported; this engine never itself needs
// to grow it, since appended strings have no spans of their own.
func (sp *StringPool) AddStyle(index int, spans []Span) {
	if sp.styleOverrides == nil {
		sp.styleOverrides = make(map[int][]Span)
	}
	sp.styleOverrides[index] = spans
}

func decodeStyleSpans(r *bytecursor.Reader, absOff int) ([]Span, error) {
	var spans []Span
	pos := absOff
	for {
		nameIdx, err := r.U32At(pos)
		if err != nil {
			return nil, err
		}
		pos += 4
		if nameIdx == noEntry {
			break
		}
		start, err := r.U32At(pos)
		if err != nil {
			return nil, err
		}
		stop, err := r.U32At(pos + 4)
		if err != nil {
			return nil, err
		}
		pos += 8
		spans = append(spans, Span{NameIndex: nameIdx, Start: start, Stop: stop})
	}
	return spans, nil
}

// styleSpansByteLength returns the number of bytes a style entry (its spans
// plus its own terminating sentinel) occupies on disk, without allocating.
func styleSpansByteLength(r *bytecursor.Reader, absOff int) (int, error) {
	pos := absOff
	for {
		v, err := r.U32At(pos)
		if err != nil {
			return 0, err
		}
		pos += 4
		if v == noEntry {
			break
		}
		pos += 8
	}
	return pos - absOff, nil
}

func writeStyleSpans(w *bytecursor.Writer, spans []Span) {
	for _, s := range spans {
		w.U32(s.NameIndex)
		w.U32(s.Start)
		w.U32(s.Stop)
	}
	w.U32(noEntry)
}

func (sp *StringPool) writeHeaderFields(w *bytecursor.Writer) {
	w.U32(uint32(sp.Count()))
	w.U32(uint32(sp.originalStyleCount))
	w.U32(sp.flags)
	sp.stringsStartPatchPos = w.Pos()
	w.U32(0)
	sp.stylesStartPatchPos = w.Pos()
	w.U32(0)
}

// writePayload implements the serialization algorithm of spec.md §4.3:
// placeholder offset tables, then string data with offset-sharing dedup
// preserved via byte-copy from the source buffer, then style data the same
// way, each section padded to 4 bytes.
func (sp *StringPool) writePayload(w *bytecursor.Writer) {
	payloadStart := w.Pos()
	headerSize := int(sp.originalHeaderSize)
	relToChunkStart := func(pos int) uint32 { return uint32(headerSize + (pos - payloadStart)) }
	enc := sp.encoding()

	offsetsPos := make([]int, sp.Count())
	for i := range offsetsPos {
		offsetsPos[i] = w.Pos()
		w.U32(0)
	}
	styleOffsetsPos := make([]int, sp.originalStyleCount)
	for i := range styleOffsetsPos {
		styleOffsetsPos[i] = w.Pos()
		w.U32(0)
	}

	var stringsStart uint32
	if sp.Count() > 0 {
		stringsStart = relToChunkStart(w.Pos())
	}

	stringsDataStart := w.Pos()
	seen := make(map[uint32]uint32) // original chunk-relative string offset -> new offset relative to stringsDataStart
	for i := 0; i < sp.originalCount; i++ {
		srcOff := sp.originalOffsets[i]
		if rel, ok := seen[srcOff]; ok {
			w.PatchU32(offsetsPos[i], rel)
			continue
		}
		rel := uint32(w.Pos() - stringsDataStart)
		absOff := sp.originalOffset + int(sp.stringsStartOrig) + int(srcOff)
		n, err := stringcodec.EncodedLength(sp.src.Raw(), absOff, enc)
		if err != nil {
			panic(fmt.Sprintf("binres: string pool %d: entry %d: %v", sp.originalOffset, i, err))
		}
		raw, err := sp.src.BytesAt(absOff, n)
		if err != nil {
			panic(fmt.Sprintf("binres: string pool %d: entry %d: %v", sp.originalOffset, i, err))
		}
		w.Data(raw)
		seen[srcOff] = rel
		w.PatchU32(offsetsPos[i], rel)
	}
	for i, s := range sp.appended {
		rel := uint32(w.Pos() - stringsDataStart)
		w.Data(stringcodec.Encode(s, enc))
		w.PatchU32(offsetsPos[sp.originalCount+i], rel)
	}
	w.PadTo4()

	var stylesStart uint32
	if sp.originalStyleCount > 0 {
		stylesStart = relToChunkStart(w.Pos())
	}
	stylesDataStart := w.Pos()
	seenStyles := make(map[uint32]uint32)
	for i := 0; i < sp.originalStyleCount; i++ {
		if spans, overridden := sp.styleOverrides[i]; overridden {
			rel := uint32(w.Pos() - stylesDataStart)
			writeStyleSpans(w, spans)
			w.PatchU32(styleOffsetsPos[i], rel)
			continue
		}
		srcOff := sp.originalStyleOffsets[i]
		if rel, ok := seenStyles[srcOff]; ok {
			w.PatchU32(styleOffsetsPos[i], rel)
			continue
		}
		rel := uint32(w.Pos() - stylesDataStart)
		absOff := sp.originalOffset + int(sp.stylesStartOrig) + int(srcOff)
		n, err := styleSpansByteLength(sp.src, absOff)
		if err != nil {
			panic(fmt.Sprintf("binres: string pool %d: style %d: %v", sp.originalOffset, i, err))
		}
		raw, err := sp.src.BytesAt(absOff, n)
		if err != nil {
			panic(fmt.Sprintf("binres: string pool %d: style %d: %v", sp.originalOffset, i, err))
		}
		w.Data(raw)
		seenStyles[srcOff] = rel
		w.PatchU32(styleOffsetsPos[i], rel)
	}
	if sp.originalStyleCount > 0 {
		// table-level terminator, beyond each style's own sentinel
		w.U32(noEntry)
		w.U32(noEntry)
	}
	w.PadTo4()

	w.PatchU32(sp.stringsStartPatchPos, stringsStart)
	w.PatchU32(sp.stylesStartPatchPos, stylesStart)
}

// NewStringPool constructs an empty string pool, UTF-8-encoded when utf8 is
// true and UTF-16-encoded otherwise, suitable for insertion into a container
// via TableChunk.Insert, PackageChunk.Insert or XMLChunk.Insert.
func NewStringPool(utf8 bool) *StringPool {
	sp := &StringPool{}
	if utf8 {
		sp.flags = StringPoolFlagUTF8
	}
	sp.base.typ = TypeStringPool
	sp.base.originalHeaderSize = stringPoolHeaderSize
	return sp
}
