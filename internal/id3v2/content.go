package id3v2

import (
	"bytes"
	"fmt"
)

// DecodeError frame payload could not be fully decoded
type DecodeError struct {
	ID     string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("id3v2: malformed %s frame: %s", e.ID, e.Reason)
}

func decodeErr(id string, format string, a ...interface{}) *DecodeError {
	return &DecodeError{ID: id, Reason: fmt.Sprintf(format, a...)}
}

// PictureType APIC picture type
type PictureType byte

// APIC picture types
const (
	PictureTypeOther      PictureType = 0
	PictureTypeFrontCover PictureType = 3
	PictureTypeBackCover  PictureType = 4
)

// PictureTypes descriptions indexed by picture type
var PictureTypes = []string{
	"Other",
	"32x32 pixels 'file icon' (PNG only)",
	"Other file icon",
	"Cover (front)",
	"Cover (back)",
	"Leaflet page",
	"Media (e.g. label side of CD)",
	"Lead artist/lead performer/soloist",
	"Artist/performer",
	"Conductor",
	"Band/Orchestra",
	"Composer",
	"Lyricist/text writer",
	"Recording Location",
	"During recording",
	"During performance",
	"Movie/video screen capture",
	"A bright coloured fish",
	"Illustration",
	"Band/artist logotype",
	"Publisher/Studio logotype",
}

func (p PictureType) String() string {
	if int(p) >= len(PictureTypes) {
		return fmt.Sprintf("Unknown(%d)", byte(p))
	}
	return PictureTypes[p]
}

// payload frame data without the v2.3 group id. Compressed and encrypted
// payloads are kept opaque.
func payload(f *Frame) ([]byte, error) {
	if f.Flags.Compressed() || f.Flags.Encrypted() {
		return nil, decodeErr(f.ID, "compressed or encrypted payload")
	}
	if f.Flags.Grouped() {
		if len(f.Data) < 1 {
			return nil, decodeErr(f.ID, "missing group id")
		}
		return f.Data[1:], nil
	}
	return f.Data, nil
}

// TextContent decoded text information frame
type TextContent struct {
	Encoding Encoding
	Text     string
}

// ParseTextContent decodes a text frame payload: encoding byte followed by
// the text. On error the returned content holds what could be decoded.
func ParseTextContent(f *Frame) (TextContent, error) {
	data, err := payload(f)
	if err != nil {
		return TextContent{}, err
	}
	if len(data) == 0 {
		return TextContent{}, decodeErr(f.ID, "empty payload")
	}

	c := TextContent{Encoding: Encoding(data[0])}
	if !c.Encoding.Valid() {
		return c, decodeErr(f.ID, "unknown encoding %d", data[0])
	}

	text, err := c.Encoding.decode(data[1:])
	c.Text = text
	if err != nil {
		return c, decodeErr(f.ID, "%s", err)
	}

	return c, nil
}

// Bytes encoded payload. Falls back to UTF-16 if the text can't be
// represented with the content encoding.
func (c TextContent) Bytes() []byte {
	enc, bs := encodeStrings(c.Encoding, c.Text)
	return concat([]byte{byte(enc)}, bs[0])
}

// CommentContent decoded COMM frame
type CommentContent struct {
	Language    string
	Description string
	Text        TextContent
}

// ParseCommentContent decodes a comment payload:
// encoding, 3 byte language, terminated description, text.
func ParseCommentContent(f *Frame) (CommentContent, error) {
	var c CommentContent
	data, err := payload(f)
	if err != nil {
		return c, err
	}
	if len(data) < 1 {
		return c, decodeErr(f.ID, "empty payload")
	}

	enc := Encoding(data[0])
	c.Text.Encoding = enc
	if !enc.Valid() {
		return c, decodeErr(f.ID, "unknown encoding %d", data[0])
	}
	if len(data) < 4 {
		return c, decodeErr(f.ID, "missing language")
	}
	c.Language = string(bytes.TrimRight(data[1:4], "\x00"))

	desc, text, ok := splitTerminated(data[4:], enc)
	c.Description, err = enc.decode(desc)
	if err != nil {
		return c, decodeErr(f.ID, "description: %s", err)
	}
	if !ok {
		return c, decodeErr(f.ID, "missing description terminator")
	}

	c.Text.Text, err = enc.decode(text)
	if err != nil {
		return c, decodeErr(f.ID, "text: %s", err)
	}

	return c, nil
}

// Bytes encoded payload
func (c CommentContent) Bytes() []byte {
	enc, bs := encodeStrings(c.Text.Encoding, c.Description, c.Text.Text)
	return concat(
		[]byte{byte(enc)},
		language(c.Language),
		bs[0], enc.terminator(),
		bs[1],
	)
}

// language 3 byte language code, padded with spaces or truncated
func language(s string) []byte {
	l := []byte("   ")
	copy(l, s)
	return l
}

// PictureContent decoded APIC frame
type PictureContent struct {
	Encoding    Encoding
	MIMEType    string
	PictureType PictureType
	Description string
	Data        []byte
}

// Size size of the picture data
func (c PictureContent) Size() int {
	return len(c.Data)
}

// ParsePictureContent decodes an attached picture payload: encoding,
// terminated ISO-8859-1 MIME type, picture type, terminated description,
// picture data.
func ParsePictureContent(f *Frame) (PictureContent, error) {
	var c PictureContent
	payloadData, err := payload(f)
	if err != nil {
		return c, err
	}
	if len(payloadData) < 1 {
		return c, decodeErr(f.ID, "empty payload")
	}

	c.Encoding = Encoding(payloadData[0])
	if !c.Encoding.Valid() {
		return c, decodeErr(f.ID, "unknown encoding %d", payloadData[0])
	}

	mime, rest, ok := splitTerminated(payloadData[1:], EncodingISO88591)
	c.MIMEType, _ = EncodingISO88591.decode(mime)
	if !ok {
		return c, decodeErr(f.ID, "missing MIME type terminator")
	}
	if len(rest) < 1 {
		return c, decodeErr(f.ID, "missing picture type")
	}
	c.PictureType = PictureType(rest[0])

	desc, data, ok := splitTerminated(rest[1:], c.Encoding)
	c.Description, err = c.Encoding.decode(desc)
	if err != nil {
		return c, decodeErr(f.ID, "description: %s", err)
	}
	if !ok {
		return c, decodeErr(f.ID, "missing description terminator")
	}

	c.Data = make([]byte, len(data))
	copy(c.Data, data)

	return c, nil
}

// Bytes encoded payload
func (c PictureContent) Bytes() []byte {
	enc, bs := encodeStrings(c.Encoding, c.Description)
	mime, _ := EncodingISO88591.encode(c.MIMEType)
	return concat(
		[]byte{byte(enc)},
		mime, []byte{0},
		[]byte{byte(c.PictureType)},
		bs[0], enc.terminator(),
		c.Data,
	)
}

func concat(bs ...[]byte) []byte {
	n := 0
	for _, b := range bs {
		n += len(b)
	}
	out := make([]byte, 0, n)
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}
