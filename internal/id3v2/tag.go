package id3v2

import (
	"bufio"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// Tag header and frames of an ID3v2 tag
type Tag struct {
	Header Header
	Frames FrameList
	// Padding number of zero bytes written after the frames
	Padding int
	// Truncated frame list ended with a frame running past the tag
	Truncated bool
}

// NewTag returns an empty v2.3 tag
func NewTag() *Tag {
	return &Tag{Header: Header{MajorVersion: 3}}
}

// Parse parses a tag at the start of b.
// Returns ErrNoTag if b has no tag.
func Parse(b []byte) (*Tag, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}

	body := b[HeaderSize:]
	t := &Tag{Header: h}
	if len(body) < h.Size {
		t.Truncated = true
	} else {
		body = body[:h.Size]
	}

	// v2.4 unsynchronises per frame, the tag flag only marks all frames
	if h.Flags.Unsynchronisation() && h.MajorVersion < 4 {
		body = removeUnsynchronisation(body)
	}

	if h.Flags.ExtendedHeader() {
		n, err := extendedHeaderSize(h, body)
		if err != nil {
			t.Truncated = true
			return t, nil
		}
		t.Header.ExtendedHeaderSize = n
		body = body[n:]
	}

	var truncated bool
	t.Frames, truncated = parseFrames(body, h)
	t.Truncated = t.Truncated || truncated

	return t, nil
}

// Read reads a tag from r. r is left positioned after the tag body or at
// the end of r if the tag was truncated.
func Read(r io.Reader) (*Tag, error) {
	hdr := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, hdr)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	h, err := ParseHeader(hdr[:n])
	if err != nil {
		return nil, err
	}

	// grows with what is actually read, the declared size is untrusted
	body, err := ioutil.ReadAll(io.LimitReader(r, int64(h.Size)))
	if err != nil {
		return nil, err
	}

	return Parse(append(hdr[:n:n], body...))
}

// Load reads the tag of the file at path.
// Returns ErrNoTag if the file has no tag.
func Load(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(bufio.NewReader(f))
	if err != nil {
		if err == ErrNoTag {
			return nil, err
		}
		return nil, errors.Wrapf(err, "%s", path)
	}

	return t, nil
}

// Text decoded text of the first frame with id. ok is false if there is no
// such frame or it could not be decoded.
func (t *Tag) Text(id string) (text string, ok bool) {
	f := t.Frames.Get(id)
	if f == nil {
		return "", false
	}
	c, err := ParseTextContent(f)
	if err != nil {
		return "", false
	}
	return c.Text, true
}

// SetText sets the text of the first frame with id, adding a frame if needed.
// The frame keeps its position and status flags.
func (t *Tag) SetText(id string, enc Encoding, value string) {
	t.setData(id, TextContent{Encoding: enc, Text: value}.Bytes())
}

func (t *Tag) setData(id string, data []byte) {
	if f := t.Frames.Get(id); f != nil {
		replaceData(f, data)
		return
	}
	t.Frames.Add(&Frame{ID: id, Data: data})
}

// replaceData new data is plain so compression, encryption and grouping
// flags no longer apply
func replaceData(f *Frame, data []byte) {
	f.Data = data
	f.Flags &^= formatFlags
}

func (t *Tag) textOrEmpty(id string) string {
	s, _ := t.Text(id)
	return s
}

// Title TIT2
func (t *Tag) Title() string { return t.textOrEmpty(FrameTitle) }

// SetTitle sets TIT2
func (t *Tag) SetTitle(enc Encoding, s string) { t.SetText(FrameTitle, enc, s) }

// Artist TPE1
func (t *Tag) Artist() string { return t.textOrEmpty(FrameArtist) }

// SetArtist sets TPE1
func (t *Tag) SetArtist(enc Encoding, s string) { t.SetText(FrameArtist, enc, s) }

// Album TALB
func (t *Tag) Album() string { return t.textOrEmpty(FrameAlbum) }

// SetAlbum sets TALB
func (t *Tag) SetAlbum(enc Encoding, s string) { t.SetText(FrameAlbum, enc, s) }

// AlbumArtist TPE2
func (t *Tag) AlbumArtist() string { return t.textOrEmpty(FrameAlbumArtist) }

// SetAlbumArtist sets TPE2
func (t *Tag) SetAlbumArtist(enc Encoding, s string) { t.SetText(FrameAlbumArtist, enc, s) }

// Genre raw TCON content, may contain "(n)" genre references
func (t *Tag) Genre() string { return t.textOrEmpty(FrameGenre) }

// SetGenre sets TCON
func (t *Tag) SetGenre(enc Encoding, s string) { t.SetText(FrameGenre, enc, s) }

// Track TRCK, "n" or "n/total"
func (t *Tag) Track() string { return t.textOrEmpty(FrameTrack) }

// SetTrack sets TRCK
func (t *Tag) SetTrack(enc Encoding, s string) { t.SetText(FrameTrack, enc, s) }

// Year TYER, or the year part of TDRC for tags read from v2.4
func (t *Tag) Year() string {
	if s, ok := t.Text(FrameYear); ok {
		return s
	}
	s := t.textOrEmpty(FrameRecordingTime)
	if len(s) > 4 {
		s = s[:4]
	}
	return s
}

// SetYear sets TYER
func (t *Tag) SetYear(enc Encoding, s string) { t.SetText(FrameYear, enc, s) }

// DiscNumber TPOS
func (t *Tag) DiscNumber() string { return t.textOrEmpty(FrameDiscNumber) }

// SetDiscNumber sets TPOS
func (t *Tag) SetDiscNumber(enc Encoding, s string) { t.SetText(FrameDiscNumber, enc, s) }

// Composer TCOM
func (t *Tag) Composer() string { return t.textOrEmpty(FrameComposer) }

// SetComposer sets TCOM
func (t *Tag) SetComposer(enc Encoding, s string) { t.SetText(FrameComposer, enc, s) }

// commentFrame first COMM frame with an empty description, other
// descriptions are used by players for their own data
func (t *Tag) commentFrame() *Frame {
	for _, f := range t.Frames.GetAll(FrameComment) {
		if c, err := ParseCommentContent(f); err == nil && c.Description == "" {
			return f
		}
	}
	return nil
}

// CommentContent first COMM frame with an empty description, or the first
// COMM frame if there is none. ok is false if there is no comment or it
// could not be decoded.
func (t *Tag) CommentContent() (c CommentContent, ok bool) {
	f := t.commentFrame()
	if f == nil {
		f = t.Frames.Get(FrameComment)
	}
	if f == nil {
		return CommentContent{}, false
	}
	c, err := ParseCommentContent(f)
	if err != nil {
		return CommentContent{}, false
	}
	return c, true
}

// Comment text of the comment, see CommentContent
func (t *Tag) Comment() string {
	c, _ := t.CommentContent()
	return c.Text.Text
}

// SetComment sets the text of the first COMM frame with an empty
// description, adding one if needed. lang is a 3 letter language code.
// Comments with a description are left as is.
func (t *Tag) SetComment(enc Encoding, lang string, s string) {
	data := CommentContent{
		Language: lang,
		Text:     TextContent{Encoding: enc, Text: s},
	}.Bytes()
	if f := t.commentFrame(); f != nil {
		replaceData(f, data)
		return
	}
	t.Frames.Add(&Frame{ID: FrameComment, Data: data})
}

// RemoveComment removes COMM frames with an empty description
func (t *Tag) RemoveComment() {
	for f := t.commentFrame(); f != nil; f = t.commentFrame() {
		t.Frames.removeFrame(f)
	}
}

// AlbumCover first APIC frame
func (t *Tag) AlbumCover() (c PictureContent, ok bool) {
	f := t.Frames.Get(FrameAlbumCover)
	if f == nil {
		return PictureContent{}, false
	}
	c, err := ParsePictureContent(f)
	if err != nil {
		return PictureContent{}, false
	}
	return c, true
}

// SetAlbumCover sets the first APIC frame to a front cover
func (t *Tag) SetAlbumCover(mimeType string, data []byte) {
	t.setData(FrameAlbumCover, PictureContent{
		Encoding:    EncodingISO88591,
		MIMEType:    mimeType,
		PictureType: PictureTypeFrontCover,
		Data:        data,
	}.Bytes())
}

// ErrNotImage cover file content is not an image
var ErrNotImage = errors.New("id3v2: not an image")

// SetAlbumCoverFromFile sets the album cover to the content of the file at
// path, MIME type is detected from the content
func (t *Tag) SetAlbumCoverFromFile(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return errors.Wrapf(ErrNotImage, "%s: %s", path, mime.String())
	}
	t.SetAlbumCover(mime.String(), data)

	return nil
}
