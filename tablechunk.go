package binres

import "github.com/Aliucord/binary-resources/bytecursor"

// TableChunk is the root of a resources.arsc file: a global value string
// pool followed by one PackageChunk per Android package.
type TableChunk struct {
	base

	children []node
}

func (c *TableChunk) parseHeader(r *bytecursor.Reader, parent Chunk) error {
	_, err := r.U32() // packageCount, recomputed from children on write
	return err
}

func (c *TableChunk) initPayload(r *bytecursor.Reader) error {
	end := c.originalOffset + int(c.originalChunkSize)
	children, err := parseChildren(r, c, end)
	if err != nil {
		return err
	}
	c.children = children
	return nil
}

// StringPool returns the table's global value string pool: the first
// StringPool among its children.
func (c *TableChunk) StringPool() *StringPool {
	for _, child := range c.children {
		if sp, ok := child.(*StringPool); ok {
			return sp
		}
	}
	return nil
}

// Packages returns the table's package chunks in order.
func (c *TableChunk) Packages() []*PackageChunk {
	var out []*PackageChunk
	for _, child := range c.children {
		if pkg, ok := child.(*PackageChunk); ok {
			out = append(out, pkg)
		}
	}
	return out
}

// Children returns the table's direct child chunks in order.
func (c *TableChunk) Children() []Chunk { return childrenAsChunks(c.children) }

// Insert places child at index among the table's children.
func (c *TableChunk) Insert(index int, child Chunk) {
	n := mustNode(child)
	n.setFrame(n.Type(), c, n.OriginalOffset(), n.OriginalHeaderSize(), n.OriginalChunkSize())
	c.children = insertNode(c.children, index, n)
}

func (c *TableChunk) writeHeaderFields(w *bytecursor.Writer) {
	w.U32(uint32(len(c.Packages())))
}

func (c *TableChunk) writePayload(w *bytecursor.Writer) {
	writeChildren(w, c.children)
}
