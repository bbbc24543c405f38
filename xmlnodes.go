package binres

import (
	"sort"

	"github.com/Aliucord/binary-resources/bytecursor"
)

// noComment is the commentRef sentinel meaning "no comment attached".
const noComment uint32 = 0xFFFFFFFF

func readXMLNodeCommon(r *bytecursor.Reader) (lineNumber, commentRef uint32, err error) {
	lineNumber, err = r.U32()
	if err != nil {
		return
	}
	commentRef, err = r.U32()
	return
}

func writeXMLNodeCommon(w *bytecursor.Writer, lineNumber, commentRef uint32) {
	w.U32(lineNumber)
	w.U32(commentRef)
}

// XMLStartNamespace opens a namespace prefix/URI binding.
type XMLStartNamespace struct {
	base
	LineNumber uint32
	CommentRef uint32
	Prefix     uint32
	URI        uint32
}

func (c *XMLStartNamespace) parseHeader(r *bytecursor.Reader, parent Chunk) (err error) {
	c.LineNumber, c.CommentRef, err = readXMLNodeCommon(r)
	return
}
func (c *XMLStartNamespace) initPayload(r *bytecursor.Reader) error {
	prefix, err := r.U32()
	if err != nil {
		return err
	}
	uri, err := r.U32()
	if err != nil {
		return err
	}
	c.Prefix, c.URI = prefix, uri
	return nil
}
func (c *XMLStartNamespace) writeHeaderFields(w *bytecursor.Writer) {
	writeXMLNodeCommon(w, c.LineNumber, c.CommentRef)
}
func (c *XMLStartNamespace) writePayload(w *bytecursor.Writer) {
	w.U32(c.Prefix)
	w.U32(c.URI)
}

// XMLEndNamespace closes a namespace prefix/URI binding.
type XMLEndNamespace struct {
	base
	LineNumber uint32
	CommentRef uint32
	Prefix     uint32
	URI        uint32
}

func (c *XMLEndNamespace) parseHeader(r *bytecursor.Reader, parent Chunk) (err error) {
	c.LineNumber, c.CommentRef, err = readXMLNodeCommon(r)
	return
}
func (c *XMLEndNamespace) initPayload(r *bytecursor.Reader) error {
	prefix, err := r.U32()
	if err != nil {
		return err
	}
	uri, err := r.U32()
	if err != nil {
		return err
	}
	c.Prefix, c.URI = prefix, uri
	return nil
}
func (c *XMLEndNamespace) writeHeaderFields(w *bytecursor.Writer) {
	writeXMLNodeCommon(w, c.LineNumber, c.CommentRef)
}
func (c *XMLEndNamespace) writePayload(w *bytecursor.Writer) {
	w.U32(c.Prefix)
	w.U32(c.URI)
}

// XMLAttribute is one attribute record on an XMLStartElement.
type XMLAttribute struct {
	Namespace uint32
	Name      uint32
	RawValue  uint32
	Value     TypedValue
}

func decodeXMLAttribute(r *bytecursor.Reader) (XMLAttribute, error) {
	ns, err := r.U32()
	if err != nil {
		return XMLAttribute{}, err
	}
	name, err := r.U32()
	if err != nil {
		return XMLAttribute{}, err
	}
	rawValue, err := r.U32()
	if err != nil {
		return XMLAttribute{}, err
	}
	tv, err := DecodeTypedValue(r)
	if err != nil {
		return XMLAttribute{}, err
	}
	return XMLAttribute{Namespace: ns, Name: name, RawValue: rawValue, Value: tv}, nil
}

func (a XMLAttribute) encode(w *bytecursor.Writer) {
	w.U32(a.Namespace)
	w.U32(a.Name)
	w.U32(a.RawValue)
	a.Value.Encode(w)
}

// XMLStartElement opens an element, carrying its attribute list.
type XMLStartElement struct {
	base
	LineNumber uint32
	CommentRef uint32

	Namespace      uint32
	Name           uint32
	AttributeStart uint16
	AttributeSize  uint16
	IDIndex        uint16
	ClassIndex     uint16
	StyleIndex     uint16
	Attributes     []XMLAttribute
}

func (c *XMLStartElement) parseHeader(r *bytecursor.Reader, parent Chunk) (err error) {
	c.LineNumber, c.CommentRef, err = readXMLNodeCommon(r)
	return
}

func (c *XMLStartElement) initPayload(r *bytecursor.Reader) error {
	payloadStart := r.Pos()
	ns, err := r.U32()
	if err != nil {
		return err
	}
	name, err := r.U32()
	if err != nil {
		return err
	}
	attrStart, err := r.U16()
	if err != nil {
		return err
	}
	attrSize, err := r.U16()
	if err != nil {
		return err
	}
	attrCount, err := r.U16()
	if err != nil {
		return err
	}
	idIdx, err := r.U16()
	if err != nil {
		return err
	}
	classIdx, err := r.U16()
	if err != nil {
		return err
	}
	styleIdx, err := r.U16()
	if err != nil {
		return err
	}

	c.Namespace, c.Name = ns, name
	c.AttributeStart, c.AttributeSize = attrStart, attrSize
	c.IDIndex, c.ClassIndex, c.StyleIndex = idIdx, classIdx, styleIdx

	r.Seek(payloadStart + int(attrStart))
	c.Attributes = make([]XMLAttribute, attrCount)
	for i := range c.Attributes {
		attr, err := decodeXMLAttribute(r)
		if err != nil {
			return err
		}
		c.Attributes[i] = attr
		// advance past any vendor-specific extra bytes per attribute
		r.Seek(payloadStart + int(attrStart) + (i+1)*int(attrSize))
	}
	return nil
}

func (c *XMLStartElement) writeHeaderFields(w *bytecursor.Writer) {
	writeXMLNodeCommon(w, c.LineNumber, c.CommentRef)
}

func (c *XMLStartElement) writePayload(w *bytecursor.Writer) {
	w.U32(c.Namespace)
	w.U32(c.Name)
	w.U16(c.AttributeStart)
	w.U16(c.AttributeSize)
	w.U16(uint16(len(c.Attributes)))
	w.U16(c.IDIndex)
	w.U16(c.ClassIndex)
	w.U16(c.StyleIndex)
	for _, a := range c.Attributes {
		a.encode(w)
	}
}

// AddAttribute appends attr and re-sorts the attribute list by resolved
// resource id (falling back to name string order), matching the ordering
// the platform's own writer produces.
func (c *XMLStartElement) AddAttribute(attr XMLAttribute) {
	c.Attributes = append(c.Attributes, attr)
	xml, _ := c.parent.(*XMLChunk)
	resID := func(nameIdx uint32) uint32 {
		if xml == nil {
			return noEntry
		}
		rm := xml.ResourceMap()
		if rm == nil || nameIdx >= uint32(len(rm.ResourceIDs)) {
			return noEntry
		}
		return rm.ResourceIDs[nameIdx]
	}
	name := func(nameIdx uint32) string {
		if xml == nil {
			return ""
		}
		sp := xml.StringPool()
		if sp == nil {
			return ""
		}
		s, err := sp.Get(int(nameIdx))
		if err != nil {
			return ""
		}
		return s
	}
	sort.SliceStable(c.Attributes, func(i, j int) bool {
		ri, rj := resID(c.Attributes[i].Name), resID(c.Attributes[j].Name)
		if ri != rj {
			return ri < rj
		}
		return name(c.Attributes[i].Name) < name(c.Attributes[j].Name)
	})
}

// XMLEndElement closes an element.
type XMLEndElement struct {
	base
	LineNumber uint32
	CommentRef uint32
	Namespace  uint32
	Name       uint32
}

func (c *XMLEndElement) parseHeader(r *bytecursor.Reader, parent Chunk) (err error) {
	c.LineNumber, c.CommentRef, err = readXMLNodeCommon(r)
	return
}
func (c *XMLEndElement) initPayload(r *bytecursor.Reader) error {
	ns, err := r.U32()
	if err != nil {
		return err
	}
	name, err := r.U32()
	if err != nil {
		return err
	}
	c.Namespace, c.Name = ns, name
	return nil
}
func (c *XMLEndElement) writeHeaderFields(w *bytecursor.Writer) {
	writeXMLNodeCommon(w, c.LineNumber, c.CommentRef)
}
func (c *XMLEndElement) writePayload(w *bytecursor.Writer) {
	w.U32(c.Namespace)
	w.U32(c.Name)
}

// XMLCData is a CDATA text node.
type XMLCData struct {
	base
	LineNumber uint32
	CommentRef uint32
	Data       uint32
	Value      TypedValue
}

func (c *XMLCData) parseHeader(r *bytecursor.Reader, parent Chunk) (err error) {
	c.LineNumber, c.CommentRef, err = readXMLNodeCommon(r)
	return
}
func (c *XMLCData) initPayload(r *bytecursor.Reader) error {
	data, err := r.U32()
	if err != nil {
		return err
	}
	tv, err := DecodeTypedValue(r)
	if err != nil {
		return err
	}
	c.Data, c.Value = data, tv
	return nil
}
func (c *XMLCData) writeHeaderFields(w *bytecursor.Writer) {
	writeXMLNodeCommon(w, c.LineNumber, c.CommentRef)
}
func (c *XMLCData) writePayload(w *bytecursor.Writer) {
	w.U32(c.Data)
	c.Value.Encode(w)
}

// XMLResourceMap maps each string pool index to the resource id it names
// (e.g. for attribute names); index i corresponds to string index i in the
// enclosing document's string pool. Unlike other XML node chunks it has no
// lineNumber/commentRef fields.
type XMLResourceMap struct {
	base
	ResourceIDs []uint32
}

func (c *XMLResourceMap) parseHeader(r *bytecursor.Reader, parent Chunk) error { return nil }

func (c *XMLResourceMap) initPayload(r *bytecursor.Reader) error {
	n := (int(c.originalChunkSize) - int(c.originalHeaderSize)) / 4
	c.ResourceIDs = make([]uint32, n)
	for i := range c.ResourceIDs {
		v, err := r.U32()
		if err != nil {
			return err
		}
		c.ResourceIDs[i] = v
	}
	return nil
}

func (c *XMLResourceMap) writeHeaderFields(w *bytecursor.Writer) {}

func (c *XMLResourceMap) writePayload(w *bytecursor.Writer) {
	for _, id := range c.ResourceIDs {
		w.U32(id)
	}
}
