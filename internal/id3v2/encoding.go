package id3v2

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding text encoding byte of text, comment and picture frames
type Encoding byte

const (
	// EncodingISO88591 single byte ISO-8859-1
	EncodingISO88591 Encoding = 0
	// EncodingUTF16 UTF-16 with byte order mark
	EncodingUTF16 Encoding = 1
	// EncodingUTF16BE UTF-16 big endian without byte order mark (v2.4)
	EncodingUTF16BE Encoding = 2
	// EncodingUTF8 UTF-8 (v2.4)
	EncodingUTF8 Encoding = 3
)

// Valid known encoding byte
func (e Encoding) Valid() bool {
	return e <= EncodingUTF8
}

// Wide strings use two byte units and a two byte terminator
func (e Encoding) Wide() bool {
	return e == EncodingUTF16 || e == EncodingUTF16BE
}

func (e Encoding) String() string {
	switch e {
	case EncodingISO88591:
		return "iso-8859-1"
	case EncodingUTF16:
		return "utf-16"
	case EncodingUTF16BE:
		return "utf-16be"
	case EncodingUTF8:
		return "utf-8"
	default:
		return fmt.Sprintf("unknown(%d)", byte(e))
	}
}

// ParseEncoding inverse of Encoding.String
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "iso-8859-1", "latin1", "":
		return EncodingISO88591, nil
	case "utf-16":
		return EncodingUTF16, nil
	case "utf-16be":
		return EncodingUTF16BE, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}

func (e Encoding) terminator() []byte {
	if e.Wide() {
		return []byte{0, 0}
	}
	return []byte{0}
}

func (e Encoding) textEncoding() encoding.Encoding {
	switch e {
	case EncodingISO88591:
		return charmap.ISO8859_1
	case EncodingUTF16:
		// BOM decides byte order, big endian if missing. Written as little
		// endian with BOM.
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return unicode.UTF8
	}
}

// hasBOM b starts with a UTF-16 byte order mark
func hasBOM(b []byte) bool {
	return len(b) >= 2 &&
		((b[0] == 0xff && b[1] == 0xfe) || (b[0] == 0xfe && b[1] == 0xff))
}

// decode decodes b to UTF-8 and trims trailing terminators
func (e Encoding) decode(b []byte) (string, error) {
	if !e.Valid() {
		return "", fmt.Errorf("unknown encoding %d", byte(e))
	}

	var err error
	if e.Wide() && len(b)%2 != 0 {
		err = fmt.Errorf("odd UTF-16 length %d", len(b))
		b = b[:len(b)-1]
	}

	var d []byte
	var derr error
	switch {
	case e == EncodingUTF16 && !hasBOM(b):
		d, derr = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	case e == EncodingUTF8:
		d = b
	default:
		d, derr = e.textEncoding().NewDecoder().Bytes(b)
	}
	if derr != nil {
		return "", derr
	}

	return strings.TrimRight(string(d), "\x00"), err
}

// encode encodes s, without terminator
func (e Encoding) encode(s string) ([]byte, error) {
	if e == EncodingUTF8 {
		return []byte(s), nil
	}
	return e.textEncoding().NewEncoder().Bytes([]byte(s))
}

// encodeStrings encodes all strings with e, or with UTF-16 if any of them
// can't be represented in e. Returns the encoding used.
func encodeStrings(e Encoding, ss ...string) (Encoding, [][]byte) {
	if !e.Valid() {
		e = EncodingUTF16
	}

	bs := make([][]byte, len(ss))
	for i, s := range ss {
		b, err := e.encode(s)
		if err != nil {
			return EncodingUTF16, encodeAll(EncodingUTF16, ss)
		}
		bs[i] = b
	}

	return e, bs
}

// encodeAll encodes with a unicode encoding, invalid UTF-8 becomes
// replacement characters
func encodeAll(e Encoding, ss []string) [][]byte {
	bs := make([][]byte, len(ss))
	for i, s := range ss {
		bs[i], _ = e.encode(s)
	}
	return bs
}

// splitTerminated splits b at the first terminator for e. Wide terminators
// are only matched at even offsets.
func splitTerminated(b []byte, e Encoding) (value []byte, rest []byte, ok bool) {
	if e.Wide() {
		for i := 0; i+1 < len(b); i += 2 {
			if b[i] == 0 && b[i+1] == 0 {
				return b[:i], b[i+2:], true
			}
		}
		return b, nil, false
	}

	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}
