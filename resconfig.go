package binres

import "github.com/Aliucord/binary-resources/bytecursor"

// ResConfig is the resource configuration descriptor (device qualifiers:
// locale, density, screen size, ...) embedded in every TypeChunk header.
// This package treats it as opaque: its size is derived from the owning
// TypeChunk's headerSize, and it is preserved byte-for-byte rather than
// decoded field by field.
type ResConfig struct {
	raw []byte
}

// DecodeResConfig reads n raw bytes as an opaque configuration blob.
func DecodeResConfig(r *bytecursor.Reader, n int) (ResConfig, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return ResConfig{}, err
	}
	return ResConfig{raw: append([]byte(nil), b...)}, nil
}

// Size returns the blob's byte length.
func (c ResConfig) Size() int { return len(c.raw) }

// Bytes returns the raw configuration bytes.
func (c ResConfig) Bytes() []byte { return c.raw }

// Encode writes the blob back out unchanged.
func (c ResConfig) Encode(w *bytecursor.Writer) { w.Data(c.raw) }
