package binres

import "github.com/Aliucord/binary-resources/bytecursor"

const libraryEntryNameUnits = 128

// LibraryEntry names one package id referenced by a shared/dynamic library.
type LibraryEntry struct {
	PackageID   uint32
	PackageName string
}

// LibraryChunk lists the dynamic package ids a shared-library resource
// table depends on.
type LibraryChunk struct {
	base

	count   uint32
	Entries []LibraryEntry
}

func (c *LibraryChunk) parseHeader(r *bytecursor.Reader, parent Chunk) error {
	count, err := r.U32()
	if err != nil {
		return err
	}
	c.count = count
	return nil
}

func (c *LibraryChunk) initPayload(r *bytecursor.Reader) error {
	c.Entries = make([]LibraryEntry, c.count)
	for i := range c.Entries {
		pkgID, err := r.U32()
		if err != nil {
			return err
		}
		name, err := readUTF16Fixed(r, libraryEntryNameUnits)
		if err != nil {
			return err
		}
		c.Entries[i] = LibraryEntry{PackageID: pkgID, PackageName: name}
	}
	return nil
}

func (c *LibraryChunk) writeHeaderFields(w *bytecursor.Writer) {
	w.U32(uint32(len(c.Entries)))
}

func (c *LibraryChunk) writePayload(w *bytecursor.Writer) {
	for _, e := range c.Entries {
		w.U32(e.PackageID)
		writeUTF16Fixed(w, e.PackageName, libraryEntryNameUnits)
	}
}
