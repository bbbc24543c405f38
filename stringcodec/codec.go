// Package stringcodec implements the two length-prefixed string encodings
// used inside an Android resource string pool: UTF-16 (two-length-header:
// a UTF-16 code unit count followed by that many code units and a NUL
// code unit) and UTF-8 (two-length-header: a UTF-16 character count, a
// UTF-8 byte count, that many UTF-8 bytes, and a NUL byte). It is kept
// independent of the chunk/pool machinery so the "length < 0x80 (or 0x8000)"
// vs ">=" branches can be exercised directly.
package stringcodec

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/Aliucord/binary-resources/errs"
)

// Encoding selects which of the pool's two string representations to use.
type Encoding int

const (
	UTF16 Encoding = iota
	UTF8
)

func require(buf []byte, off, n int) error {
	if off < 0 || n < 0 || off+n > len(buf) {
		return errs.Truncated
	}
	return nil
}

// decodeLenU16 reads a UTF-16-style one-or-two-u16 length prefix: if the high
// bit of the first u16 is set, the low 15 bits combine with a second u16 to
// form a 31-bit length; otherwise the first u16 alone is the length. It
// returns the decoded length and the number of bytes the prefix occupied.
func decodeLenU16(buf []byte, off int) (length, consumed int, err error) {
	if err = require(buf, off, 2); err != nil {
		return 0, 0, err
	}
	first := binary.LittleEndian.Uint16(buf[off:])
	if first&0x8000 == 0 {
		return int(first), 2, nil
	}
	if err = require(buf, off, 4); err != nil {
		return 0, 0, err
	}
	second := binary.LittleEndian.Uint16(buf[off+2:])
	return (int(first&0x7fff) << 16) | int(second), 4, nil
}

// encodeLenU16 appends the one-or-two-u16 length prefix for length.
func encodeLenU16(out []byte, length int) []byte {
	if length < 0x8000 {
		return binary.LittleEndian.AppendUint16(out, uint16(length))
	}
	out = binary.LittleEndian.AppendUint16(out, uint16(0x8000|(length>>16)))
	return binary.LittleEndian.AppendUint16(out, uint16(length))
}

// decodeLenU8 is the UTF-8 pool's one-or-two-byte length prefix: high bit of
// the first byte set means a 15-bit length spread across both bytes.
func decodeLenU8(buf []byte, off int) (length, consumed int, err error) {
	if err = require(buf, off, 1); err != nil {
		return 0, 0, err
	}
	first := buf[off]
	if first&0x80 == 0 {
		return int(first), 1, nil
	}
	if err = require(buf, off, 2); err != nil {
		return 0, 0, err
	}
	second := buf[off+1]
	return (int(first&0x7f) << 8) | int(second), 2, nil
}

func encodeLenU8(out []byte, length int) []byte {
	if length < 0x80 {
		return append(out, byte(length))
	}
	return append(out, byte(0x80|(length>>8)), byte(length))
}

// EncodedLength returns the total number of bytes the string encoded at
// buf[off:] occupies, including its length prefix(es) and terminator,
// without materializing the decoded string. Used when byte-copying an
// original string's bytes forward unchanged.
func EncodedLength(buf []byte, off int, enc Encoding) (int, error) {
	switch enc {
	case UTF16:
		runeCount, prefixLen, err := decodeLenU16(buf, off)
		if err != nil {
			return 0, err
		}
		total := prefixLen + runeCount*2 + 2 // + NUL code unit
		if err := require(buf, off, total); err != nil {
			return 0, err
		}
		return total, nil
	case UTF8:
		_, utf16PrefixLen, err := decodeLenU8(buf, off)
		if err != nil {
			return 0, err
		}
		byteLen, utf8PrefixLen, err := decodeLenU8(buf, off+utf16PrefixLen)
		if err != nil {
			return 0, err
		}
		total := utf16PrefixLen + utf8PrefixLen + byteLen + 1 // + NUL byte
		if err := require(buf, off, total); err != nil {
			return 0, err
		}
		return total, nil
	default:
		return 0, errs.Atf(errs.StructuralInvariant, 0, off, "unknown string encoding %d", enc)
	}
}

// Decode decodes the string encoded at buf[off:].
func Decode(buf []byte, off int, enc Encoding) (string, error) {
	switch enc {
	case UTF16:
		runeCount, prefixLen, err := decodeLenU16(buf, off)
		if err != nil {
			return "", err
		}
		dataOff := off + prefixLen
		if err := require(buf, dataOff, runeCount*2); err != nil {
			return "", err
		}
		units := make([]uint16, runeCount)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(buf[dataOff+i*2:])
		}
		return string(utf16.Decode(units)), nil
	case UTF8:
		_, utf16PrefixLen, err := decodeLenU8(buf, off)
		if err != nil {
			return "", err
		}
		byteLen, utf8PrefixLen, err := decodeLenU8(buf, off+utf16PrefixLen)
		if err != nil {
			return "", err
		}
		dataOff := off + utf16PrefixLen + utf8PrefixLen
		if err := require(buf, dataOff, byteLen); err != nil {
			return "", err
		}
		return string(buf[dataOff : dataOff+byteLen]), nil
	default:
		return "", errs.Atf(errs.StructuralInvariant, 0, off, "unknown string encoding %d", enc)
	}
}

// Encode produces the on-disk bytes (length prefix(es), data, terminator)
// for a freshly appended string.
func Encode(s string, enc Encoding) []byte {
	switch enc {
	case UTF16:
		units := utf16.Encode([]rune(s))
		out := make([]byte, 0, 4+len(units)*2+2)
		out = encodeLenU16(out, len(units))
		for _, u := range units {
			out = binary.LittleEndian.AppendUint16(out, u)
		}
		out = binary.LittleEndian.AppendUint16(out, 0) // NUL code unit
		return out
	case UTF8:
		data := []byte(s)
		utf16Len := len(utf16.Encode([]rune(s)))
		out := make([]byte, 0, 4+len(data)+1)
		out = encodeLenU8(out, utf16Len)
		out = encodeLenU8(out, len(data))
		out = append(out, data...)
		out = append(out, 0) // NUL byte
		return out
	default:
		return nil
	}
}
