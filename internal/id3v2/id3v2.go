// Package id3v2 reads and writes ID3v2 tags found at the start of MP3 files.
//
// Tags with major version 3 and 4 can be read. Tags are always written as
// ID3v2.3: a syncsafe tag size in the header followed by frames with plain
// big-endian 32 bit sizes.
package id3v2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// HeaderSize size of the tag header and of a v2.4 footer
	HeaderSize = 10
	// FrameHeaderSize size of frame id, size and flags
	FrameHeaderSize = 10
	// MaxTagSize largest body size a syncsafe size can express
	MaxTagSize = 1<<28 - 1
)

var magic = []byte("ID3")

var (
	// ErrNoTag no ID3v2 identifier at the start of the input
	ErrNoTag = errors.New("id3v2: no tag")
	// ErrTruncated input ended before the tag did
	ErrTruncated = errors.New("id3v2: truncated tag")
	// ErrTagTooLarge tag does not fit a syncsafe size
	ErrTagTooLarge = errors.New("id3v2: tag too large")
	// ErrInvalidFrameID frame id is not four characters A-Z or 0-9
	ErrInvalidFrameID = errors.New("id3v2: invalid frame id")
)

// UnsupportedVersionError tag has a major version other than 3 or 4
type UnsupportedVersionError struct {
	MajorVersion byte
	MinorVersion byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("id3v2: unsupported version 2.%d.%d", e.MajorVersion, e.MinorVersion)
}

// SyncsafeEncode spreads the low 28 bits of v over four bytes using 7 bits
// per byte, leaving the top bit of each byte zero.
func SyncsafeEncode(v uint32) uint32 {
	var out uint32
	mask := uint32(0x7f)

	for mask != 0x7fffffff {
		out = v &^ mask
		out <<= 1
		out |= v & mask
		mask = ((mask + 1) << 8) - 1
		v = out
	}

	return out
}

// SyncsafeDecode reassembles a syncsafe integer into a normal one
func SyncsafeDecode(v uint32) uint32 {
	return v&0x7f |
		(v>>8&0x7f)<<7 |
		(v>>16&0x7f)<<14 |
		(v>>24&0x7f)<<21
}

// HeaderFlags tag header flags byte
type HeaderFlags byte

// Unsynchronisation whole tag is unsynchronised
func (f HeaderFlags) Unsynchronisation() bool { return f&0x80 != 0 }

// ExtendedHeader an extended header follows the header
func (f HeaderFlags) ExtendedHeader() bool { return f&0x40 != 0 }

// Experimental tag is experimental
func (f HeaderFlags) Experimental() bool { return f&0x20 != 0 }

// Footer a footer follows the tag (v2.4 only)
func (f HeaderFlags) Footer() bool { return f&0x10 != 0 }

// Header ID3v2 tag header
type Header struct {
	MajorVersion byte
	MinorVersion byte
	Flags        HeaderFlags
	// Size of the tag body, excluding the header and footer
	Size int
	// ExtendedHeaderSize number of body bytes taken by the extended header,
	// only known after the body has been parsed
	ExtendedHeaderSize int
}

// TotalSize number of bytes the tag takes at the start of the file
func (h Header) TotalSize() int {
	n := HeaderSize + h.Size
	if h.MajorVersion == 4 && h.Flags.Footer() {
		n += HeaderSize
	}
	return n
}

// Version version string like "2.3.0"
func (h Header) Version() string {
	return fmt.Sprintf("2.%d.%d", h.MajorVersion, h.MinorVersion)
}

// ParseHeader parses the first 10 bytes of b.
// Returns ErrNoTag if b does not start with the ID3 identifier and
// ErrTruncated if b starts with it but is too short.
func ParseHeader(b []byte) (Header, error) {
	n := len(b)
	if n > len(magic) {
		n = len(magic)
	}
	if !bytes.Equal(b[:n], magic[:n]) || n == 0 {
		return Header{}, ErrNoTag
	}
	if len(b) < HeaderSize {
		return Header{}, ErrTruncated
	}

	h := Header{
		MajorVersion: b[3],
		MinorVersion: b[4],
		Flags:        HeaderFlags(b[5]),
		Size:         int(SyncsafeDecode(binary.BigEndian.Uint32(b[6:10]))),
	}
	if h.MajorVersion != 3 && h.MajorVersion != 4 {
		return h, &UnsupportedVersionError{MajorVersion: h.MajorVersion, MinorVersion: h.MinorVersion}
	}

	return h, nil
}

// ReadHeader reads and parses a tag header from r
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Header{}, err
	}

	return ParseHeader(buf[:n])
}

// extendedHeaderSize number of body bytes taken by the extended header
func extendedHeaderSize(h Header, body []byte) (int, error) {
	if len(body) < 4 {
		return 0, ErrTruncated
	}

	size := binary.BigEndian.Uint32(body[0:4])
	var n int
	if h.MajorVersion == 4 {
		// v2.4 size is syncsafe and includes the size field
		n = int(SyncsafeDecode(size))
	} else {
		n = 4 + int(size)
	}
	if n < 4 || n > len(body) {
		return 0, ErrTruncated
	}

	return n, nil
}

// removeUnsynchronisation reverses the 0xff 0x00 escaping
func removeUnsynchronisation(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xff && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}

	return out
}

func binaryWriteBE(w io.Writer, v interface{}) (int, error) {
	return binary.Size(v), binary.Write(w, binary.BigEndian, v)
}

func binaryWriteMany(w io.Writer, fields []interface{}) (int, error) {
	tn := 0

	for _, f := range fields {
		n, err := binaryWriteBE(w, f)
		if err != nil {
			return tn, err
		}
		tn += n
	}

	return tn, nil
}
