package binres

import (
	"github.com/pkg/errors"

	"github.com/Aliucord/binary-resources/bytecursor"
)

// growthFactor sizes File.ToBytes's output buffer against the input, since
// mutation (appended strings/entries) typically grows a file only slightly.
const growthFactor = 1.125

// File is a parsed resources.arsc or compiled binary XML document: an
// ordered sequence of top-level chunks (typically a single TABLE or XML).
type File struct {
	top []node
}

// Parse decodes buf into a File. Parsing aborts on the first error; no
// partial tree is returned.
func Parse(buf []byte) (*File, error) {
	r := bytecursor.NewReader(buf)
	f := &File{}
	for r.Remaining() > 0 {
		c, err := parseChunk(r, nil, true, r.Len())
		if err != nil {
			return nil, errors.Wrapf(err, "top-level chunk at offset 0x%x", r.Pos())
		}
		f.top = append(f.top, c)
	}
	return f, nil
}

// Chunks returns the file's top-level chunks in order.
func (f *File) Chunks() []Chunk { return childrenAsChunks(f.top) }

// ChunksMut returns the file's top-level chunks in order, typed for
// in-place mutation via their own exported setters.
func (f *File) ChunksMut() []Chunk { return childrenAsChunks(f.top) }

// ToBytes re-serializes the file's current tree to bytes.
func (f *File) ToBytes() []byte {
	size := 0
	for _, c := range f.top {
		size += int(c.OriginalChunkSize())
	}
	w := bytecursor.NewWriter(int(float64(size) * growthFactor))
	for _, c := range f.top {
		writeChunk(w, c)
	}
	return w.Bytes()
}
