package id3v2

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Size number of bytes the serialized tag will take
func (t *Tag) Size() int {
	n := HeaderSize + t.Padding
	for _, f := range t.Frames.frames {
		n += f.Size()
	}
	return n
}

// WriteTo writes the tag as ID3v2.3: header with syncsafe size, frames in
// list order with plain big-endian sizes, then padding
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	bodySize := t.Size() - HeaderSize
	if bodySize > MaxTagSize {
		return 0, ErrTagTooLarge
	}
	for _, f := range t.Frames.frames {
		if !validFrameID([]byte(f.ID)) {
			return 0, errors.Wrapf(ErrInvalidFrameID, "%q", f.ID)
		}
	}

	tn, err := binaryWriteMany(w, []interface{}{
		magic,          // ID3v2 header
		uint16(0x0300), // version 3
		uint8(0),       // no flags
		SyncsafeEncode(uint32(bodySize)),
	})
	if err != nil {
		return int64(tn), err
	}

	for _, f := range t.Frames.frames {
		n, err := binaryWriteMany(w, []interface{}{
			[]byte(f.ID),        // frame id
			uint32(len(f.Data)), // len
			uint16(f.Flags),     // flags
			f.Data,              // frame data
		})
		tn += n
		if err != nil {
			return int64(tn), err
		}
	}

	if t.Padding > 0 {
		n, err := w.Write(make([]byte, t.Padding))
		tn += n
		if err != nil {
			return int64(tn), err
		}
	}

	return int64(tn), nil
}

// Bytes serialized tag
func (t *Tag) Bytes() ([]byte, error) {
	b := &bytes.Buffer{}
	b.Grow(t.Size())
	if _, err := t.WriteTo(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// RegionSize number of bytes taken by the tag at the start of r,
// 0 if there is no tag
func RegionSize(r io.Reader) (int64, error) {
	h, err := ReadHeader(r)
	var uerr *UnsupportedVersionError
	switch {
	case err == ErrNoTag:
		return 0, nil
	case errors.As(err, &uerr):
		// size field layout is the same for all v2 versions
	case err != nil:
		return 0, err
	}

	return int64(h.TotalSize()), nil
}

// Save replaces the tag of the file at path with t. The audio after the
// old tag is kept as is. The new file is written next to the old one and
// renamed over it.
func Save(path string, t *Tag) error {
	if err := replaceTag(path, t); err != nil {
		return err
	}

	t.Header = Header{MajorVersion: 3, Size: t.Size() - HeaderSize}
	t.Truncated = false

	return nil
}

// Remove strips the tag from the file at path. A file without a tag is
// left untouched.
func Remove(path string) error {
	return replaceTag(path, nil)
}

func replaceTag(path string, t *Tag) (err error) {
	var tagBytes []byte
	if t != nil {
		tagBytes, err = t.Bytes()
		if err != nil {
			return err
		}
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	fi, err := src.Stat()
	if err != nil {
		return err
	}

	offset, err := RegionSize(bufio.NewReader(src))
	if err != nil {
		return errors.Wrapf(err, "%s", path)
	}
	if t == nil && offset == 0 {
		return nil
	}
	if offset > fi.Size() {
		offset = fi.Size()
	}
	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrapf(err, "%s: seek audio", path)
	}

	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(tagBytes); err != nil {
		return errors.Wrapf(err, "%s: write tag", tmp.Name())
	}
	if _, err = io.Copy(tmp, src); err != nil {
		return errors.Wrapf(err, "%s: copy audio", path)
	}
	if err = tmp.Chmod(fi.Mode().Perm()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = src.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
