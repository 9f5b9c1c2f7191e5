// Package tagsio edits the common text fields of an mp3 file's ID3v2 tag.
//
// Open reads all fields into a Fields struct, the caller changes them and
// Save writes the changed ones back.
package tagsio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/wader/id3edit/internal/id3v2"
	"github.com/wader/id3edit/internal/position"
	"go.uber.org/zap"
)

// ErrNotMP3 path is not a file with a .mp3 extension
var ErrNotMP3 = errors.New("tagsio: not an mp3 file")

// ErrUnknownField field name is not one of FieldNames
var ErrUnknownField = errors.New("tagsio: unknown field")

// Fields plain text values of the edited fields
type Fields struct {
	Title       string
	Artist      string
	Album       string
	Year        string
	Track       string
	Comment     string
	AlbumArtist string
	Genre       string
	Composer    string
	DiscNumber  string
}

type field struct {
	name   string
	remove func(t *id3v2.Tag)
	value  func(f *Fields) *string
	get    func(t *id3v2.Tag) string
	set    func(t *id3v2.Tag, c Config, s string)
}

func frameRemover(ids ...string) func(t *id3v2.Tag) {
	return func(t *id3v2.Tag) {
		for _, id := range ids {
			t.Frames.Remove(id)
		}
	}
}

func textSetter(id string) func(t *id3v2.Tag, c Config, s string) {
	return func(t *id3v2.Tag, c Config, s string) { t.SetText(id, c.Encoding, s) }
}

var fields = []field{
	{"Title", frameRemover(id3v2.FrameTitle), func(f *Fields) *string { return &f.Title }, (*id3v2.Tag).Title, textSetter(id3v2.FrameTitle)},
	{"Artist", frameRemover(id3v2.FrameArtist), func(f *Fields) *string { return &f.Artist }, (*id3v2.Tag).Artist, textSetter(id3v2.FrameArtist)},
	{"Album", frameRemover(id3v2.FrameAlbum), func(f *Fields) *string { return &f.Album }, (*id3v2.Tag).Album, textSetter(id3v2.FrameAlbum)},
	{"Year", frameRemover(id3v2.FrameYear, id3v2.FrameRecordingTime), func(f *Fields) *string { return &f.Year }, (*id3v2.Tag).Year, textSetter(id3v2.FrameYear)},
	{"Track", frameRemover(id3v2.FrameTrack), func(f *Fields) *string { return &f.Track }, (*id3v2.Tag).Track, textSetter(id3v2.FrameTrack)},
	{"Comment", (*id3v2.Tag).RemoveComment, func(f *Fields) *string { return &f.Comment }, (*id3v2.Tag).Comment,
		func(t *id3v2.Tag, c Config, s string) { t.SetComment(c.Encoding, c.CommentLanguage, s) }},
	{"AlbumArtist", frameRemover(id3v2.FrameAlbumArtist), func(f *Fields) *string { return &f.AlbumArtist }, (*id3v2.Tag).AlbumArtist, textSetter(id3v2.FrameAlbumArtist)},
	{"Genre", frameRemover(id3v2.FrameGenre), func(f *Fields) *string { return &f.Genre }, (*id3v2.Tag).Genre, textSetter(id3v2.FrameGenre)},
	{"Composer", frameRemover(id3v2.FrameComposer), func(f *Fields) *string { return &f.Composer }, (*id3v2.Tag).Composer, textSetter(id3v2.FrameComposer)},
	{"DiscNumber", frameRemover(id3v2.FrameDiscNumber), func(f *Fields) *string { return &f.DiscNumber }, (*id3v2.Tag).DiscNumber, textSetter(id3v2.FrameDiscNumber)},
}

// FieldNames names accepted by Get and Set in display order
var FieldNames = func() []string {
	var names []string
	for _, f := range fields {
		names = append(names, f.name)
	}
	return names
}()

func findField(name string) (field, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return field{}, false
}

// Get value of field name, case-insensitive
func (f *Fields) Get(name string) (string, bool) {
	fd, ok := findField(name)
	if !ok {
		return "", false
	}
	return *fd.value(f), true
}

// Set sets field name, case-insensitive. Track and DiscNumber must be
// "n" or "n/total" and are normalized.
func (f *Fields) Set(name string, value string) error {
	fd, ok := findField(name)
	if !ok {
		return errors.Wrapf(ErrUnknownField, "%q", name)
	}
	if fd.name == "Track" || fd.name == "DiscNumber" {
		p, err := position.Parse(value)
		if err != nil {
			return errors.Wrapf(err, "%s", fd.name)
		}
		value = p.String()
	}
	*fd.value(f) = value

	return nil
}

func fieldsFromTag(t *id3v2.Tag) Fields {
	var fs Fields
	for _, fd := range fields {
		*fd.value(&fs) = fd.get(t)
	}
	return fs
}

// ValidateMP3 checks that path exists, is a regular file and has a .mp3
// extension (any case)
func ValidateMP3(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() || strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return errors.Wrapf(ErrNotMP3, "%s", path)
	}
	return nil
}

// File an opened mp3 file and its fields
type File struct {
	Path string
	// Fields current values, change and call Save to write
	Fields Fields
	// Tag the underlying tag, frames not covered by Fields are kept on save
	Tag *id3v2.Tag
	// HadTag file had a tag when opened
	HadTag bool

	loaded Fields
	config Config
	log    *zap.Logger
}

// Open validates path and reads its fields. A file without a tag gets an
// empty new tag. log can be nil.
func Open(path string, c Config, log *zap.Logger) (*File, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := ValidateMP3(path); err != nil {
		return nil, err
	}

	f := &File{Path: path, config: c, log: log}
	t, err := id3v2.Load(path)
	switch {
	case err == id3v2.ErrNoTag:
		log.Debug("no tag, using new tag", zap.String("file", path))
		t = id3v2.NewTag()
	case err != nil:
		return nil, err
	default:
		f.HadTag = true
		log.Debug("read tag",
			zap.String("file", path),
			zap.String("version", t.Header.Version()),
			zap.Int("size", t.Header.Size),
			zap.Int("frames", t.Frames.Len()))
		if t.Truncated {
			log.Warn("truncated tag, frames after the damage are lost on save", zap.String("file", path))
		}
	}

	f.Tag = t
	f.Fields = fieldsFromTag(t)
	f.loaded = f.Fields

	return f, nil
}

// Changed names of fields that differ from what was read or last saved
func (f *File) Changed() []string {
	var names []string
	for _, fd := range fields {
		if *fd.value(&f.Fields) != *fd.value(&f.loaded) {
			names = append(names, fd.name)
		}
	}
	return names
}

// Save writes changed fields to the file. A field set to empty has its
// frames removed, for Comment only comments without a description. Other
// frames are kept in order.
func (f *File) Save() error {
	for _, fd := range fields {
		v := *fd.value(&f.Fields)
		if v == *fd.value(&f.loaded) {
			continue
		}
		if v == "" {
			fd.remove(f.Tag)
		} else {
			fd.set(f.Tag, f.config, v)
		}
		f.log.Debug("set field", zap.String("file", f.Path), zap.String("field", fd.name), zap.String("value", v))
	}
	f.Tag.Padding = f.config.Padding

	if err := id3v2.Save(f.Path, f.Tag); err != nil {
		return err
	}
	f.HadTag = true
	f.loaded = f.Fields
	f.log.Info("saved tag", zap.String("file", f.Path), zap.Int("size", f.Tag.Size()))

	return nil
}

// Cover album cover if present
func (f *File) Cover() (id3v2.PictureContent, bool) {
	return f.Tag.AlbumCover()
}

// SetCover sets the album cover from an image file, written on Save
func (f *File) SetCover(imagePath string) error {
	if err := f.Tag.SetAlbumCoverFromFile(imagePath); err != nil {
		return err
	}
	c, _ := f.Tag.AlbumCover()
	f.log.Debug("attached cover",
		zap.String("file", f.Path),
		zap.String("mime", c.MIMEType),
		zap.Int("size", c.Size()))
	return nil
}

// Remove strips the tag from the file. Fields are cleared.
func (f *File) Remove() error {
	if err := id3v2.Remove(f.Path); err != nil {
		return err
	}
	f.log.Info("removed tag", zap.String("file", f.Path))
	f.Tag = id3v2.NewTag()
	f.HadTag = false
	f.Fields = Fields{}
	f.loaded = Fields{}

	return nil
}
