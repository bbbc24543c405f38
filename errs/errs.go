// Package errs defines the sentinel error kinds returned while parsing a
// binary resource container.
package errs

import "fmt"

// Kind identifies one of the structural failure modes a parse can hit.
// It implements error directly, mirroring a plain string-constant sentinel.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	// Truncated means a read crossed the end of the input buffer.
	Truncated Kind = "truncated: read past end of buffer"
	// BadChunkSize means the declared chunkSize is inconsistent with its
	// frame (smaller than headerSize, or extending past the parent chunk).
	BadChunkSize Kind = "bad chunk size"
	// BadHeaderSize means the declared headerSize is too small for the
	// fields the chunk's type requires.
	BadHeaderSize Kind = "bad header size"
	// UnknownTypeCode means a top-level chunk could not be framed because
	// its type code isn't recognized. Nested unknown chunks are absorbed
	// rather than raising this.
	UnknownTypeCode Kind = "unknown top-level chunk type"
	// BadValueSize means a TypedValue declared a size other than 8.
	BadValueSize Kind = "typed value size is not 8"
	// StructuralInvariant covers violations discovered on an already-parsed
	// tree rather than during parse, e.g. a TypeChunk with no ancestor
	// PackageChunk, or a PackageChunk missing a type or key string pool.
	StructuralInvariant Kind = "structural invariant violated"
)

// ParseError wraps a Kind with the byte offset and chunk type code where it
// was detected, so callers get a precise location without every call site
// having to thread that context through fmt.Errorf by hand.
type ParseError struct {
	Kind   Kind
	Offset int
	Type   uint16
	detail string
}

func (e *ParseError) Error() string {
	if e.detail == "" {
		return fmt.Sprintf("%s (type 0x%04x, offset 0x%x)", e.Kind, e.Type, e.Offset)
	}
	return fmt.Sprintf("%s: %s (type 0x%04x, offset 0x%x)", e.Kind, e.detail, e.Type, e.Offset)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// At constructs a ParseError for the given kind, chunk type code and offset.
func At(kind Kind, typ uint16, offset int) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Type: typ}
}

// Atf is At with a formatted detail message appended.
func Atf(kind Kind, typ uint16, offset int, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Type: typ, detail: fmt.Sprintf(format, args...)}
}
