package binres

import (
	"fmt"

	"github.com/Aliucord/binary-resources/bytecursor"
	"github.com/Aliucord/binary-resources/errs"
)

const typeChunkFixedHeaderSize = 20 // 8 framing + id(4) + entryCount(4) + entriesStart(4)

// TypeChunk holds all entries for one (type, configuration) pair within a
// package: a sparse offset table (NO_ENTRY sentinel for absent entries)
// addressing simple or complex Entry records.
type TypeChunk struct {
	base

	id     uint8
	config ResConfig

	src                 *bytecursor.Reader
	originalEntryCount  int
	originalOffsets     []uint32
	entriesStartOrig    uint32

	overrides       map[int]*Entry
	appendedEntries []*Entry
}

func (tc *TypeChunk) parseHeader(r *bytecursor.Reader, parent Chunk) error {
	idPacked, err := r.U32() // id is the low byte; the other 3 are padding, contiguous in LE
	if err != nil {
		return err
	}
	tc.id = uint8(idPacked)

	entryCount, err := r.U32()
	if err != nil {
		return err
	}
	entriesStart, err := r.U32()
	if err != nil {
		return err
	}
	tc.originalEntryCount = int(entryCount)
	tc.entriesStartOrig = entriesStart

	configSize := int(tc.originalHeaderSize) - typeChunkFixedHeaderSize
	if configSize < 0 {
		return errs.Atf(errs.BadHeaderSize, tc.typ, tc.originalOffset, "type chunk header too small for config blob")
	}
	cfg, err := DecodeResConfig(r, configSize)
	if err != nil {
		return err
	}
	tc.config = cfg
	return nil
}

func (tc *TypeChunk) initPayload(r *bytecursor.Reader) error {
	tc.src = r
	tc.originalOffsets = make([]uint32, tc.originalEntryCount)
	for i := range tc.originalOffsets {
		v, err := r.U32()
		if err != nil {
			return err
		}
		tc.originalOffsets[i] = v
	}
	return nil
}

// Id returns the 1-based type id.
func (tc *TypeChunk) Id() uint8 { return tc.id }

// Config returns the type's (opaque) configuration descriptor.
func (tc *TypeChunk) Config() ResConfig { return tc.config }

// SetConfig replaces the configuration descriptor. Its byte length must
// match the original (headerSize is re-emitted unchanged on write).
func (tc *TypeChunk) SetConfig(c ResConfig) { tc.config = c }

// TypeName resolves the type's name via the ancestor PackageChunk's type
// string pool.
func (tc *TypeChunk) TypeName() (string, error) {
	pkg, ok := tc.parent.(*PackageChunk)
	if !ok {
		return "", errs.Atf(errs.StructuralInvariant, tc.typ, tc.originalOffset, "type chunk has no package ancestor")
	}
	pool, err := pkg.TypeStringPool()
	if err != nil {
		return "", err
	}
	return pool.Get(int(tc.id) - 1)
}

// TotalEntryCount is the original entry count plus any appended entries.
func (tc *TypeChunk) TotalEntryCount() int { return tc.originalEntryCount + len(tc.appendedEntries) }

// Get returns the entry at index i, or nil if that index has no entry.
func (tc *TypeChunk) Get(i int) (*Entry, error) {
	if i < 0 || i >= tc.TotalEntryCount() {
		return nil, errs.Atf(errs.StructuralInvariant, tc.typ, tc.originalOffset,
			"entry index %d out of range [0,%d)", i, tc.TotalEntryCount())
	}
	if e, ok := tc.overrides[i]; ok {
		return e, nil
	}
	if i < tc.originalEntryCount {
		off := tc.originalOffsets[i]
		if off == noEntry {
			return nil, nil
		}
		absOff := tc.originalOffset + int(tc.entriesStartOrig) + int(off)
		tc.src.Seek(absOff)
		e, err := DecodeEntry(tc.src)
		if err != nil {
			return nil, err
		}
		return &e, nil
	}
	return tc.appendedEntries[i-tc.originalEntryCount], nil
}

// Contains reports whether resID names a present entry in this type, under
// the ancestor PackageChunk's package id.
func (tc *TypeChunk) Contains(resID BinaryResourceIdentifier) bool {
	pkg, ok := tc.parent.(*PackageChunk)
	if !ok || uint8(pkg.ID) != resID.PackageID || tc.id != resID.TypeID {
		return false
	}
	idx := int(resID.EntryID)
	if idx < 0 || idx >= tc.TotalEntryCount() {
		return false
	}
	e, err := tc.Get(idx)
	return err == nil && e != nil
}

// OverrideEntry records an override for index i, replacing whatever entry
// (original or appended) would otherwise be written there. e == nil
// removes the entry (emitted as NO_ENTRY). Out-of-range indices are a no-op.
func (tc *TypeChunk) OverrideEntry(i int, e *Entry) {
	if i < 0 || i >= tc.TotalEntryCount() {
		return
	}
	if tc.overrides == nil {
		tc.overrides = make(map[int]*Entry)
	}
	tc.overrides[i] = e
}

// AddEntry appends a new entry (or an explicit absence, for e == nil) and
// returns its index.
func (tc *TypeChunk) AddEntry(e *Entry) uint32 {
	idx := tc.TotalEntryCount()
	tc.appendedEntries = append(tc.appendedEntries, e)
	return uint32(idx)
}

func (tc *TypeChunk) writeHeaderFields(w *bytecursor.Writer) {
	w.U32(uint32(tc.id))
	total := tc.TotalEntryCount()
	w.U32(uint32(total))
	entriesStart := uint32(int(tc.originalHeaderSize) + 4*total)
	w.U32(entriesStart)
	tc.config.Encode(w)
}

// writePayload implements spec.md §4.4's serialization: a placeholder
// offset table, then each entry either byte-copied from source, freshly
// encoded (override/append), or marked NO_ENTRY.
func (tc *TypeChunk) writePayload(w *bytecursor.Writer) {
	total := tc.TotalEntryCount()
	offsetsPos := make([]int, total)
	for i := range offsetsPos {
		offsetsPos[i] = w.Pos()
		w.U32(0)
	}
	entriesDataStart := w.Pos()

	writeEntryAt := func(i int, e *Entry) {
		if e == nil {
			w.PatchU32(offsetsPos[i], noEntry)
			return
		}
		rel := uint32(w.Pos() - entriesDataStart)
		e.Encode(w)
		w.PatchU32(offsetsPos[i], rel)
	}

	for i := 0; i < tc.originalEntryCount; i++ {
		if e, overridden := tc.overrides[i]; overridden {
			writeEntryAt(i, e)
			continue
		}
		origOff := tc.originalOffsets[i]
		if origOff == noEntry {
			w.PatchU32(offsetsPos[i], noEntry)
			continue
		}
		rel := uint32(w.Pos() - entriesDataStart)
		absOff := tc.originalOffset + int(tc.entriesStartOrig) + int(origOff)
		n, err := entryByteSize(tc.src, absOff)
		if err != nil {
			panic(fmt.Sprintf("binres: type chunk %d: entry %d: %v", tc.originalOffset, i, err))
		}
		raw, err := tc.src.BytesAt(absOff, n)
		if err != nil {
			panic(fmt.Sprintf("binres: type chunk %d: entry %d: %v", tc.originalOffset, i, err))
		}
		w.Data(raw)
		w.PatchU32(offsetsPos[i], rel)
	}
	for i, e := range tc.appendedEntries {
		idx := tc.originalEntryCount + i
		if ov, overridden := tc.overrides[idx]; overridden {
			writeEntryAt(idx, ov)
			continue
		}
		writeEntryAt(idx, e)
	}
	w.PadTo4()
}
