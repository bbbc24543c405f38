package binres

import "github.com/Aliucord/binary-resources/bytecursor"

// XMLChunk is the root of a compiled binary XML document: a string pool, an
// optional resource id map, and a sequence of namespace/element/CDATA
// nodes. It carries no header fields of its own beyond the common frame.
type XMLChunk struct {
	base

	children []node
}

func (c *XMLChunk) parseHeader(r *bytecursor.Reader, parent Chunk) error { return nil }

func (c *XMLChunk) initPayload(r *bytecursor.Reader) error {
	end := c.originalOffset + int(c.originalChunkSize)
	children, err := parseChildren(r, c, end)
	if err != nil {
		return err
	}
	c.children = children
	return nil
}

// StringPool returns the document's string pool: the first StringPool
// among its children.
func (c *XMLChunk) StringPool() *StringPool {
	for _, child := range c.children {
		if sp, ok := child.(*StringPool); ok {
			return sp
		}
	}
	return nil
}

// ResourceMap returns the document's resource id map, if present.
func (c *XMLChunk) ResourceMap() *XMLResourceMap {
	for _, child := range c.children {
		if rm, ok := child.(*XMLResourceMap); ok {
			return rm
		}
	}
	return nil
}

// Children returns the document's direct child chunks in order.
func (c *XMLChunk) Children() []Chunk { return childrenAsChunks(c.children) }

// Insert places child at index among the document's children.
func (c *XMLChunk) Insert(index int, child Chunk) {
	n := mustNode(child)
	n.setFrame(n.Type(), c, n.OriginalOffset(), n.OriginalHeaderSize(), n.OriginalChunkSize())
	c.children = insertNode(c.children, index, n)
}

func (c *XMLChunk) writeHeaderFields(w *bytecursor.Writer) {}

func (c *XMLChunk) writePayload(w *bytecursor.Writer) {
	writeChildren(w, c.children)
}
