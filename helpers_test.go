package binres

// Hand-rolled byte fixtures for the chunk types under test. These builders
// are independent of the package's own Writer so that a round-trip test
// comparing parsed-then-rewritten bytes against a fixture actually exercises
// both decode and encode rather than checking a value against itself.

import (
	"encoding/binary"
)

func putU16(buf []byte, v uint16) []byte { return binary.LittleEndian.AppendUint16(buf, v) }
func putU32(buf []byte, v uint32) []byte { return binary.LittleEndian.AppendUint32(buf, v) }

func padTo4(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// encodeUTF16String mirrors spec.md §3's UTF-16 two-length-header encoding,
// written independently of stringcodec so fixture construction does not
// share a bug with the codec it feeds.
func encodeUTF16String(s string) []byte {
	units := utf16Encode(s)
	var out []byte
	if len(units) < 0x8000 {
		out = putU16(out, uint16(len(units)))
	} else {
		out = putU16(out, uint16(0x8000|(len(units)>>16)))
		out = putU16(out, uint16(len(units)))
	}
	for _, u := range units {
		out = putU16(out, u)
	}
	out = putU16(out, 0)
	return out
}

func encodeUTF8String(s string) []byte {
	data := []byte(s)
	units := utf16Encode(s)
	var out []byte
	if len(units) < 0x80 {
		out = append(out, byte(len(units)))
	} else {
		out = append(out, byte(0x80|(len(units)>>8)), byte(len(units)))
	}
	if len(data) < 0x80 {
		out = append(out, byte(len(data)))
	} else {
		out = append(out, byte(0x80|(len(data)>>8)), byte(len(data)))
	}
	out = append(out, data...)
	out = append(out, 0)
	return out
}

func utf16Encode(s string) []uint16 {
	var units []uint16
	for _, r := range s {
		if r <= 0xFFFF {
			units = append(units, uint16(r))
			continue
		}
		r -= 0x10000
		units = append(units, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
	}
	return units
}

// fixturePool describes a string pool fixture: its strings, optional
// offset-sharing between indices, and optional per-index styles.
type fixturePool struct {
	strings []string
	utf8    bool
	// sameOffsetAs[i] = j means string i should point at string j's already
	// encoded offset rather than getting its own (offset-sharing fixture).
	sameOffsetAs map[int]int
	styles       [][]Span // len(styles) == styleCount; index i styles string i
}

// buildStringPoolChunk constructs a complete on-disk StringPool chunk
// (framing + header + payload) per spec.md §3/§4.3.
func buildStringPoolChunk(f fixturePool) []byte {
	const headerSize = 28
	stringCount := len(f.strings)
	styleCount := len(f.styles)

	offsetsTableLen := 4 * (stringCount + styleCount)

	var stringsData []byte
	offsets := make([]uint32, stringCount)
	encodedAt := make(map[int]uint32) // string index -> relative offset
	for i, s := range f.strings {
		if srcIdx, ok := f.sameOffsetAs[i]; ok {
			offsets[i] = encodedAt[srcIdx]
			continue
		}
		rel := uint32(len(stringsData))
		if f.utf8 {
			stringsData = append(stringsData, encodeUTF8String(s)...)
		} else {
			stringsData = append(stringsData, encodeUTF16String(s)...)
		}
		offsets[i] = rel
		encodedAt[i] = rel
	}
	stringsData = padTo4(stringsData)

	var stylesData []byte
	styleOffsets := make([]uint32, styleCount)
	for i, spans := range f.styles {
		styleOffsets[i] = uint32(len(stylesData))
		for _, sp := range spans {
			stylesData = putU32(stylesData, sp.NameIndex)
			stylesData = putU32(stylesData, sp.Start)
			stylesData = putU32(stylesData, sp.Stop)
		}
		stylesData = putU32(stylesData, noEntry)
	}
	if styleCount > 0 {
		stylesData = putU32(stylesData, noEntry)
		stylesData = putU32(stylesData, noEntry)
	}
	stylesData = padTo4(stylesData)

	var stringsStart, stylesStart uint32
	if stringCount > 0 {
		stringsStart = uint32(headerSize + offsetsTableLen)
	}
	if styleCount > 0 {
		stylesStart = uint32(headerSize+offsetsTableLen) + uint32(len(stringsData))
	}

	var flags uint32
	if f.utf8 {
		flags |= StringPoolFlagUTF8
	}

	var payload []byte
	for _, o := range offsets {
		payload = putU32(payload, o)
	}
	for _, o := range styleOffsets {
		payload = putU32(payload, o)
	}
	payload = append(payload, stringsData...)
	payload = append(payload, stylesData...)

	var header []byte
	header = putU32(header, uint32(stringCount))
	header = putU32(header, uint32(styleCount))
	header = putU32(header, flags)
	header = putU32(header, stringsStart)
	header = putU32(header, stylesStart)

	return wrapChunk(TypeStringPool, headerSize, header, payload)
}

// wrapChunk prepends the common 8-byte frame to a chunk's header fields and
// payload, computing chunkSize from their combined length.
func wrapChunk(typ uint16, headerSize uint16, headerFields, payload []byte) []byte {
	chunkSize := uint32(headerSize) + uint32(len(payload))
	var out []byte
	out = putU16(out, typ)
	out = putU16(out, headerSize)
	out = putU32(out, chunkSize)
	out = append(out, headerFields...)
	out = append(out, payload...)
	return out
}

// fixtureEntry mirrors Entry for fixture construction; nil means NO_ENTRY.
type fixtureEntry struct {
	simple  *TypedValue
	complex []ComplexValue
	key     uint32
	parent  uint32
}

func encodeFixtureEntry(e *fixtureEntry) []byte {
	if e.complex != nil {
		var out []byte
		out = putU16(out, 16)
		out = putU16(out, EntryFlagComplex)
		out = putU32(out, e.key)
		out = putU32(out, e.parent)
		out = putU32(out, uint32(len(e.complex)))
		for _, v := range e.complex {
			out = putU32(out, v.ResourceKey)
			out = append(out, encodeTypedValueBytes(v.Value)...)
		}
		return out
	}
	var out []byte
	out = putU16(out, 8)
	out = putU16(out, 0)
	out = putU32(out, e.key)
	out = append(out, encodeTypedValueBytes(*e.simple)...)
	return out
}

func encodeTypedValueBytes(v TypedValue) []byte {
	var out []byte
	out = putU16(out, 8)
	out = append(out, 0, byte(v.Type))
	out = putU32(out, v.Data)
	return out
}

// buildTypeChunkBytes constructs a complete on-disk TypeChunk per
// spec.md §3/§4.4. entries[i] == nil means NO_ENTRY at index i.
func buildTypeChunkBytes(id uint8, configBlob []byte, entries []*fixtureEntry) []byte {
	headerSize := uint16(typeChunkFixedHeaderSize + len(configBlob))
	entryCount := len(entries)
	entriesStart := uint32(int(headerSize) + 4*entryCount)

	var entriesData []byte
	offsets := make([]uint32, entryCount)
	for i, e := range entries {
		if e == nil {
			offsets[i] = noEntry
			continue
		}
		offsets[i] = uint32(len(entriesData))
		entriesData = append(entriesData, encodeFixtureEntry(e)...)
	}
	entriesData = padTo4(entriesData)

	var header []byte
	header = putU32(header, uint32(id))
	header = putU32(header, uint32(entryCount))
	header = putU32(header, entriesStart)
	header = append(header, configBlob...)

	var payload []byte
	for _, o := range offsets {
		payload = putU32(payload, o)
	}
	payload = append(payload, entriesData...)

	return wrapChunk(TypeTableType, headerSize, header, payload)
}

// wrapContainer wraps children byte blobs (each already a full chunk) into a
// containing chunk of typ, padding each child to 4 bytes as spec.md §4.5
// requires.
func wrapContainer(typ uint16, headerSize uint16, headerFields []byte, children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
		payload = padTo4(payload)
	}
	return wrapChunk(typ, headerSize, headerFields, payload)
}

func encodeUTF16Fixed(s string, units int) []byte {
	u := utf16Encode(s)
	if len(u) > units-1 {
		u = u[:units-1]
	}
	var out []byte
	for _, v := range u {
		out = putU16(out, v)
	}
	for i := len(u); i < units; i++ {
		out = putU16(out, 0)
	}
	return out
}

// buildPackageChunkBytes wraps typePool/keyPool/typeChunks (each an already
// built chunk) into a PACKAGE chunk per spec.md §4.5. typeStrings/keyStrings
// offsets are computed to match what writePayload would recompute, so a
// parse-then-rewrite of this fixture is byte-identical.
func buildPackageChunkBytes(id uint32, name string, typePool, keyPool []byte, typeChunks ...[]byte) []byte {
	const headerSize = packageHeaderSizeNoTypeIDOffset
	typeStringsStart := uint32(headerSize)
	keyStringsStart := typeStringsStart + uint32(len(padTo4(append([]byte(nil), typePool...))))

	var header []byte
	header = putU32(header, id)
	header = append(header, encodeUTF16Fixed(name, packageNameUnits)...)
	header = putU32(header, typeStringsStart)
	header = putU32(header, 0) // lastPublicType
	header = putU32(header, keyStringsStart)
	header = putU32(header, 0) // lastPublicKey

	children := append([][]byte{typePool, keyPool}, typeChunks...)
	return wrapContainer(TypeTablePackage, headerSize, header, children...)
}

// buildTableChunkBytes wraps a value string pool and package chunks into a
// TABLE chunk per spec.md §4.5.
func buildTableChunkBytes(valuePool []byte, packages ...[]byte) []byte {
	const headerSize = commonHeaderSize + 4
	header := putU32(nil, uint32(len(packages)))
	children := append([][]byte{valuePool}, packages...)
	return wrapContainer(TypeTable, headerSize, header, children...)
}

const xmlNodeHeaderSize = commonHeaderSize + 8 // lineNumber + commentRef

func xmlNodeCommonHeader(lineNumber, commentRef uint32) []byte {
	var h []byte
	h = putU32(h, lineNumber)
	h = putU32(h, commentRef)
	return h
}

func buildXMLStartNamespace(prefix, uri uint32) []byte {
	return wrapChunk(TypeXMLStartNamespace, xmlNodeHeaderSize, xmlNodeCommonHeader(1, noComment),
		append(putU32(nil, prefix), putU32(nil, uri)...))
}

func buildXMLEndNamespace(prefix, uri uint32) []byte {
	return wrapChunk(TypeXMLEndNamespace, xmlNodeHeaderSize, xmlNodeCommonHeader(1, noComment),
		append(putU32(nil, prefix), putU32(nil, uri)...))
}

func buildXMLResourceMap(ids ...uint32) []byte {
	var payload []byte
	for _, id := range ids {
		payload = putU32(payload, id)
	}
	return wrapChunk(TypeXMLResourceMap, commonHeaderSize, nil, payload)
}

func buildXMLStartElement(ns, name uint32, attrs []XMLAttribute) []byte {
	const attrStart = 20 // bytes from payload start to the attribute array
	const attrSize = 20  // namespace+name+rawValue+TypedValue(8) = 20
	var payload []byte
	payload = putU32(payload, ns)
	payload = putU32(payload, name)
	payload = putU16(payload, attrStart)
	payload = putU16(payload, attrSize)
	payload = putU16(payload, uint16(len(attrs)))
	payload = putU16(payload, 0) // idIndex
	payload = putU16(payload, 0) // classIndex
	payload = putU16(payload, 0) // styleIndex
	for _, a := range attrs {
		payload = putU32(payload, a.Namespace)
		payload = putU32(payload, a.Name)
		payload = putU32(payload, a.RawValue)
		payload = append(payload, encodeTypedValueBytes(a.Value)...)
	}
	return wrapChunk(TypeXMLStartElement, xmlNodeHeaderSize, xmlNodeCommonHeader(1, noComment), payload)
}

func buildXMLEndElement(ns, name uint32) []byte {
	return wrapChunk(TypeXMLEndElement, xmlNodeHeaderSize, xmlNodeCommonHeader(1, noComment),
		append(putU32(nil, ns), putU32(nil, name)...))
}

func buildXMLCData(data uint32, v TypedValue) []byte {
	payload := append(putU32(nil, data), encodeTypedValueBytes(v)...)
	return wrapChunk(TypeXMLCData, xmlNodeHeaderSize, xmlNodeCommonHeader(1, noComment), payload)
}

// buildXMLChunkBytes wraps children (already-built node chunks) into an XML
// document chunk per spec.md §4.6.
func buildXMLChunkBytes(children ...[]byte) []byte {
	return wrapContainer(TypeXML, commonHeaderSize, nil, children...)
}
