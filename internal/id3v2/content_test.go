package id3v2

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseTextContent(t *testing.T) {
	for _, c := range []struct {
		name              string
		data              []byte
		expected          TextContent
		expectedDecodeErr bool
	}{
		{"iso-8859-1", []byte("\x00Hello"), TextContent{EncodingISO88591, "Hello"}, false},
		{"iso-8859-1 latin", []byte("\x00k\xfcrzer"), TextContent{EncodingISO88591, "kürzer"}, false},
		{"iso-8859-1 terminated", []byte("\x00Hello\x00"), TextContent{EncodingISO88591, "Hello"}, false},
		{"utf-16 le bom", []byte("\x01\xff\xfeH\x00e\x00l\x00l\x00o\x00"), TextContent{EncodingUTF16, "Hello"}, false},
		{"utf-16 be bom", []byte("\x01\xfe\xff\x00H\x00e\x00l\x00l\x00o"), TextContent{EncodingUTF16, "Hello"}, false},
		{"utf-16 no bom", []byte("\x01\x00H\x00i"), TextContent{EncodingUTF16, "Hi"}, false},
		{"utf-16 terminated", []byte("\x01\xff\xfeH\x00i\x00\x00\x00"), TextContent{EncodingUTF16, "Hi"}, false},
		{"utf-16be", []byte("\x02\x00H\x00i"), TextContent{EncodingUTF16BE, "Hi"}, false},
		{"utf-8", []byte("\x03日本"), TextContent{EncodingUTF8, "日本"}, false},
		{"empty text", []byte("\x00"), TextContent{EncodingISO88591, ""}, false},
		{"empty payload", nil, TextContent{}, true},
		{"unknown encoding", []byte("\x07abc"), TextContent{Encoding: 7}, true},
		{"odd utf-16", []byte("\x01\xff\xfeH\x00i"), TextContent{EncodingUTF16, "H"}, true},
	} {
		t.Run(c.name, func(t *testing.T) {
			actual, err := ParseTextContent(&Frame{ID: "TIT2", Data: c.data})
			var derr *DecodeError
			if c.expectedDecodeErr != errors.As(err, &derr) {
				t.Errorf("expected decode error %v, got %v", c.expectedDecodeErr, err)
			}
			if actual != c.expected {
				t.Errorf("expected %#v, got %#v", c.expected, actual)
			}
		})
	}
}

func TestTextBOMEquivalence(t *testing.T) {
	utf16, err := ParseTextContent(&Frame{ID: "TIT2", Data: []byte("\x01\xff\xfeA\x00B\x00C\x00")})
	if err != nil {
		t.Fatal(err)
	}
	iso, err := ParseTextContent(&Frame{ID: "TIT2", Data: []byte("\x00ABC")})
	if err != nil {
		t.Fatal(err)
	}
	if utf16.Text != iso.Text {
		t.Errorf("expected same text, got %q and %q", utf16.Text, iso.Text)
	}
}

func TestTextContentBytes(t *testing.T) {
	for _, c := range []struct {
		name     string
		c        TextContent
		expected []byte
	}{
		{"iso-8859-1", TextContent{EncodingISO88591, "Hi"}, []byte("\x00Hi")},
		{"utf-16", TextContent{EncodingUTF16, "Hi"}, []byte("\x01\xff\xfeH\x00i\x00")},
		{"utf-16be", TextContent{EncodingUTF16BE, "Hi"}, []byte("\x02\x00H\x00i")},
		{"utf-8", TextContent{EncodingUTF8, "Hi"}, []byte("\x03Hi")},
		{"fallback", TextContent{EncodingISO88591, "€"}, []byte("\x01\xff\xfe\xac\x20")},
	} {
		t.Run(c.name, func(t *testing.T) {
			if actual := c.c.Bytes(); !bytes.Equal(actual, c.expected) {
				t.Errorf("expected %q, got %q", c.expected, actual)
			}
		})
	}
}

func TestParseCommentContent(t *testing.T) {
	c, err := ParseCommentContent(&Frame{ID: "COMM", Data: []byte("\x00eng\x00Test Comment")})
	if err != nil {
		t.Fatal(err)
	}
	if c.Language != "eng" || c.Description != "" || c.Text.Text != "Test Comment" {
		t.Errorf("unexpected comment %#v", c)
	}

	c, err = ParseCommentContent(&Frame{ID: "COMM", Data: []byte("\x00engdesc\x00body")})
	if err != nil {
		t.Fatal(err)
	}
	if c.Description != "desc" || c.Text.Text != "body" {
		t.Errorf("unexpected comment %#v", c)
	}
}

func TestParseCommentContentUTF16(t *testing.T) {
	data := []byte("\x01eng" +
		"\xff\xfed\x00\x00\x00" +
		"\xff\xfeT\x00e\x00s\x00t\x00")
	c, err := ParseCommentContent(&Frame{ID: "COMM", Data: data})
	if err != nil {
		t.Fatal(err)
	}
	if c.Description != "d" || c.Text.Text != "Test" || c.Text.Encoding != EncodingUTF16 {
		t.Errorf("unexpected comment %#v", c)
	}

	// unaligned 00 00 inside "\x01\x00\x00\x00" is not a terminator
	data = []byte("\x02eng\x00d\x01\x00\x00\x00\x00T")
	c, err = ParseCommentContent(&Frame{ID: "COMM", Data: data})
	if err != nil {
		t.Fatal(err)
	}
	if c.Description != "dĀ" || c.Text.Text != "T" {
		t.Errorf("unexpected comment %#v", c)
	}
}

func TestCommentContentRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{EncodingISO88591, EncodingUTF16, EncodingUTF16BE, EncodingUTF8} {
		t.Run(enc.String(), func(t *testing.T) {
			expected := CommentContent{
				Language:    "eng",
				Description: "desc",
				Text:        TextContent{Encoding: enc, Text: "Test Comment"},
			}
			actual, err := ParseCommentContent(&Frame{ID: "COMM", Data: expected.Bytes()})
			if err != nil {
				t.Fatal(err)
			}
			if actual != expected {
				t.Errorf("expected %#v, got %#v", expected, actual)
			}
		})
	}
}

func TestParseCommentContentMalformed(t *testing.T) {
	for _, c := range []struct {
		name     string
		data     []byte
		expected CommentContent
	}{
		{"empty", nil, CommentContent{}},
		{"no language", []byte("\x00en"), CommentContent{}},
		{"no terminator", []byte("\x00engdescription"), CommentContent{Language: "eng", Description: "description"}},
		{"no wide terminator", []byte("\x01eng\xff\xfed\x00"), CommentContent{Language: "eng", Description: "d", Text: TextContent{Encoding: EncodingUTF16}}},
	} {
		t.Run(c.name, func(t *testing.T) {
			actual, err := ParseCommentContent(&Frame{ID: "COMM", Data: c.data})
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if derr.ID != "COMM" {
				t.Errorf("expected COMM, got %s", derr.ID)
			}
			if actual != c.expected {
				t.Errorf("expected %#v, got %#v", c.expected, actual)
			}
		})
	}
}

func TestPictureContent(t *testing.T) {
	data := []byte("\x00image/png\x00\x03cover\x00\x89PNG\x00\x01")
	c, err := ParsePictureContent(&Frame{ID: "APIC", Data: data})
	if err != nil {
		t.Fatal(err)
	}
	if c.MIMEType != "image/png" || c.PictureType != PictureTypeFrontCover || c.Description != "cover" {
		t.Errorf("unexpected picture %#v", c)
	}
	if !bytes.Equal(c.Data, []byte("\x89PNG\x00\x01")) || c.Size() != 6 {
		t.Errorf("unexpected picture data %q", c.Data)
	}
	if !bytes.Equal(c.Bytes(), data) {
		t.Errorf("expected %q, got %q", data, c.Bytes())
	}
	if c.PictureType.String() != "Cover (front)" {
		t.Errorf("unexpected picture type name %s", c.PictureType)
	}

	data[len(data)-1] = 0xff
	if c.Data[len(c.Data)-1] != 0x01 {
		t.Errorf("picture data aliases the frame payload")
	}
}

func TestPictureContentUTF16Description(t *testing.T) {
	expected := PictureContent{
		Encoding:    EncodingUTF16,
		MIMEType:    "image/jpeg",
		PictureType: PictureTypeBackCover,
		Description: "back",
		Data:        []byte{0xff, 0xd8, 0x00, 0x00, 0xff},
	}
	actual, err := ParsePictureContent(&Frame{ID: "APIC", Data: expected.Bytes()})
	if err != nil {
		t.Fatal(err)
	}
	if actual.Description != "back" || !bytes.Equal(actual.Data, expected.Data) || actual.MIMEType != "image/jpeg" {
		t.Errorf("expected %#v, got %#v", expected, actual)
	}
}

func TestParsePictureContentMalformed(t *testing.T) {
	for _, c := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown encoding", []byte("\x09image/png\x00\x03\x00")},
		{"no mime terminator", []byte("\x00image/png")},
		{"no picture type", []byte("\x00image/png\x00")},
		{"no description terminator", []byte("\x00image/png\x00\x03cover")},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParsePictureContent(&Frame{ID: "APIC", Data: c.data})
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Errorf("expected DecodeError, got %v", err)
			}
		})
	}
}

func TestParseEncoding(t *testing.T) {
	for _, e := range []Encoding{EncodingISO88591, EncodingUTF16, EncodingUTF16BE, EncodingUTF8} {
		actual, err := ParseEncoding(e.String())
		if err != nil || actual != e {
			t.Errorf("%s: got %v %v", e, actual, err)
		}
	}
	if _, err := ParseEncoding("ebcdic"); err == nil {
		t.Errorf("expected error")
	}
}

func TestParseOpaquePayload(t *testing.T) {
	for _, flags := range []FrameFlags{0x0080, 0x0040, 0x00c0} {
		text := &Frame{ID: "TIT2", Flags: flags, Data: []byte("\x00Hello")}
		comment := &Frame{ID: "COMM", Flags: flags, Data: []byte("\x00eng\x00Hello")}
		picture := &Frame{ID: "APIC", Flags: flags, Data: []byte("\x00image/png\x00\x03\x00data")}

		var derr *DecodeError
		if _, err := ParseTextContent(text); !errors.As(err, &derr) {
			t.Errorf("%#x: expected text DecodeError, got %v", flags, err)
		}
		if _, err := ParseCommentContent(comment); !errors.As(err, &derr) {
			t.Errorf("%#x: expected comment DecodeError, got %v", flags, err)
		}
		if _, err := ParsePictureContent(picture); !errors.As(err, &derr) {
			t.Errorf("%#x: expected picture DecodeError, got %v", flags, err)
		}
	}
}

func TestParseGroupedPayload(t *testing.T) {
	c, err := ParseTextContent(&Frame{ID: "TIT2", Flags: 0x0020, Data: []byte("\x05\x00Hello")})
	if err != nil {
		t.Fatal(err)
	}
	if c.Text != "Hello" {
		t.Errorf("expected Hello, got %q", c.Text)
	}

	var derr *DecodeError
	if _, err := ParseTextContent(&Frame{ID: "TIT2", Flags: 0x0020}); !errors.As(err, &derr) {
		t.Errorf("expected DecodeError for missing group id, got %v", err)
	}
}
