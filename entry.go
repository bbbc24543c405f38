package binres

import "github.com/Aliucord/binary-resources/bytecursor"

// EntryFlagComplex marks an Entry as a complex (map-valued) entry rather
// than a single simple TypedValue.
const EntryFlagComplex uint16 = 1 << 0

// ComplexValue is one (resourceKey, value) pair inside a complex Entry's
// value map.
type ComplexValue struct {
	ResourceKey uint32
	Value       TypedValue
}

// Entry is a single resource value (simple) or a keyed map of values
// (complex) inside a TypeChunk.
type Entry struct {
	HeaderSize uint16
	Flags      uint16
	KeyIndex   uint32

	Value TypedValue // simple

	ParentRef uint32         // complex
	Values    []ComplexValue // complex
}

// IsComplex reports whether the entry carries a value map rather than a
// single simple value.
func (e Entry) IsComplex() bool { return e.Flags&EntryFlagComplex != 0 }

// DecodeEntry reads one Entry record at the reader's current position.
func DecodeEntry(r *bytecursor.Reader) (Entry, error) {
	headerSize, err := r.U16()
	if err != nil {
		return Entry{}, err
	}
	flags, err := r.U16()
	if err != nil {
		return Entry{}, err
	}
	keyIndex, err := r.U32()
	if err != nil {
		return Entry{}, err
	}
	e := Entry{HeaderSize: headerSize, Flags: flags, KeyIndex: keyIndex}
	if e.IsComplex() {
		parentRef, err := r.U32()
		if err != nil {
			return Entry{}, err
		}
		count, err := r.U32()
		if err != nil {
			return Entry{}, err
		}
		e.ParentRef = parentRef
		e.Values = make([]ComplexValue, count)
		for i := range e.Values {
			resKey, err := r.U32()
			if err != nil {
				return Entry{}, err
			}
			tv, err := DecodeTypedValue(r)
			if err != nil {
				return Entry{}, err
			}
			e.Values[i] = ComplexValue{ResourceKey: resKey, Value: tv}
		}
		return e, nil
	}
	tv, err := DecodeTypedValue(r)
	if err != nil {
		return Entry{}, err
	}
	e.Value = tv
	return e, nil
}

// Encode writes the Entry record.
func (e Entry) Encode(w *bytecursor.Writer) {
	w.U16(e.HeaderSize)
	w.U16(e.Flags)
	w.U32(e.KeyIndex)
	if e.IsComplex() {
		w.U32(e.ParentRef)
		w.U32(uint32(len(e.Values)))
		for _, v := range e.Values {
			w.U32(v.ResourceKey)
			v.Value.Encode(w)
		}
		return
	}
	e.Value.Encode(w)
}

// NewSimpleEntry builds a simple entry with a fresh default headerSize.
func NewSimpleEntry(keyIndex uint32, value TypedValue) Entry {
	return Entry{HeaderSize: 8, KeyIndex: keyIndex, Value: value}
}

// NewComplexEntry builds a complex entry with a fresh default headerSize.
func NewComplexEntry(keyIndex, parentRef uint32, values []ComplexValue) Entry {
	return Entry{HeaderSize: 16, Flags: EntryFlagComplex, KeyIndex: keyIndex, ParentRef: parentRef, Values: values}
}

// entryByteSize derives an already-written entry's total on-disk size from
// its own header bytes, without decoding its values (spec.md §4.4).
func entryByteSize(r *bytecursor.Reader, absOff int) (int, error) {
	headerSize, err := r.U16At(absOff)
	if err != nil {
		return 0, err
	}
	flags, err := r.U16At(absOff + 2)
	if err != nil {
		return 0, err
	}
	if flags&EntryFlagComplex != 0 {
		count, err := r.U32At(absOff + 12)
		if err != nil {
			return 0, err
		}
		return int(headerSize) + int(count)*12, nil
	}
	return int(headerSize) + 8, nil
}
