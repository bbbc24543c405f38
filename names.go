package binres

import (
	"unicode/utf16"

	"github.com/Aliucord/binary-resources/bytecursor"
)

// readUTF16Fixed reads a fixed-width, NUL-padded UTF-16 field (used by
// PackageChunk.Name and LibraryChunk entry names): exactly units code
// units, with the logical string ending at the first NUL.
func readUTF16Fixed(r *bytecursor.Reader, units int) (string, error) {
	raw := make([]uint16, units)
	for i := range raw {
		v, err := r.U16()
		if err != nil {
			return "", err
		}
		raw[i] = v
	}
	n := len(raw)
	for i, u := range raw {
		if u == 0 {
			n = i
			break
		}
	}
	return string(utf16.Decode(raw[:n])), nil
}

// writeUTF16Fixed writes s as a fixed-width, NUL-padded UTF-16 field.
// s is truncated if its encoding does not fit in units-1 code units
// (leaving room for the terminating NUL).
func writeUTF16Fixed(w *bytecursor.Writer, s string, units int) {
	encoded := utf16.Encode([]rune(s))
	if len(encoded) > units-1 {
		encoded = encoded[:units-1]
	}
	for _, u := range encoded {
		w.U16(u)
	}
	for i := len(encoded); i < units; i++ {
		w.U16(0)
	}
}
