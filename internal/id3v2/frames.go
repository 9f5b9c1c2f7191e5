package id3v2

import (
	"encoding/binary"
)

// Frame ids of the fields the tag accessors work with
const (
	FrameTitle         = "TIT2"
	FrameArtist        = "TPE1"
	FrameAlbum         = "TALB"
	FrameAlbumArtist   = "TPE2"
	FrameGenre         = "TCON"
	FrameTrack         = "TRCK"
	FrameYear          = "TYER"
	FrameRecordingTime = "TDRC"
	FrameComment       = "COMM"
	FrameDiscNumber    = "TPOS"
	FrameComposer      = "TCOM"
	FrameAlbumCover    = "APIC"
)

// FrameFlags frame status and format flags in v2.3 layout
type FrameFlags uint16

// TagAlterDiscard frame should be discarded if the tag is altered
func (f FrameFlags) TagAlterDiscard() bool { return f&0x8000 != 0 }

// FileAlterDiscard frame should be discarded if the audio is altered
func (f FrameFlags) FileAlterDiscard() bool { return f&0x4000 != 0 }

// ReadOnly frame is read only
func (f FrameFlags) ReadOnly() bool { return f&0x2000 != 0 }

// Compressed payload is zlib compressed
func (f FrameFlags) Compressed() bool { return f&0x0080 != 0 }

// Encrypted payload is encrypted
func (f FrameFlags) Encrypted() bool { return f&0x0040 != 0 }

// Grouped payload has a group identifier
func (f FrameFlags) Grouped() bool { return f&0x0020 != 0 }

// formatFlags flags describing how the payload is stored, only valid for
// the payload they were read with
const formatFlags FrameFlags = 0x00e0

// Frame a raw frame. Data is owned by the frame.
type Frame struct {
	ID    string
	Flags FrameFlags
	Data  []byte
}

// Size size of the serialized frame including its header
func (f *Frame) Size() int {
	return FrameHeaderSize + len(f.Data)
}

// Name human readable frame name, or the id if unknown
func (f *Frame) Name() string {
	if n, ok := FrameNames[f.ID]; ok {
		return n
	}
	return f.ID
}

// FrameList frames in file order
type FrameList struct {
	frames []*Frame
}

// Add appends f
func (l *FrameList) Add(f *Frame) {
	l.frames = append(l.frames, f)
}

// Get first frame with id or nil
func (l *FrameList) Get(id string) *Frame {
	for _, f := range l.frames {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// GetAll all frames with id in order
func (l *FrameList) GetAll(id string) []*Frame {
	var fs []*Frame
	for _, f := range l.frames {
		if f.ID == id {
			fs = append(fs, f)
		}
	}
	return fs
}

// Set replaces the first frame with the same id keeping its position,
// appends if there is none
func (l *FrameList) Set(f *Frame) {
	for i, of := range l.frames {
		if of.ID == f.ID {
			l.frames[i] = f
			return
		}
	}
	l.Add(f)
}

// Remove removes all frames with id and returns how many were removed
func (l *FrameList) Remove(id string) int {
	n := 0
	kept := l.frames[:0]
	for _, f := range l.frames {
		if f.ID == id {
			n++
			continue
		}
		kept = append(kept, f)
	}
	for i := len(kept); i < len(l.frames); i++ {
		l.frames[i] = nil
	}
	l.frames = kept

	return n
}

func (l *FrameList) removeFrame(f *Frame) {
	for i, of := range l.frames {
		if of == f {
			copy(l.frames[i:], l.frames[i+1:])
			l.frames[len(l.frames)-1] = nil
			l.frames = l.frames[:len(l.frames)-1]
			return
		}
	}
}

// Len number of frames
func (l *FrameList) Len() int {
	return len(l.frames)
}

// All frames in order. The slice is a copy, the frames are not.
func (l *FrameList) All() []*Frame {
	fs := make([]*Frame, len(l.frames))
	copy(fs, l.frames)
	return fs
}

func validFrameID(id []byte) bool {
	if len(id) != 4 {
		return false
	}
	for _, c := range id {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

func isPadding(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// parseFrames walks the frame records in body. Parsing stops at padding,
// at a garbage id or at a frame that runs past the end of body; the last
// case is reported as truncated.
func parseFrames(body []byte, h Header) (l FrameList, truncated bool) {
	pos := 0

	for len(body)-pos >= FrameHeaderSize {
		hdr := body[pos : pos+FrameHeaderSize]
		if isPadding(hdr[0:4]) || !validFrameID(hdr[0:4]) {
			break
		}

		size := binary.BigEndian.Uint32(hdr[4:8])
		if h.MajorVersion == 4 {
			size = SyncsafeDecode(size)
		}
		flags := FrameFlags(binary.BigEndian.Uint16(hdr[8:10]))
		pos += FrameHeaderSize

		if uint64(size) > uint64(len(body)-pos) {
			return l, true
		}

		data := make([]byte, size)
		copy(data, body[pos:pos+int(size)])
		pos += int(size)

		f := &Frame{ID: string(hdr[0:4]), Flags: flags, Data: data}
		if h.MajorVersion == 4 {
			convertV24Frame(f, h.Flags.Unsynchronisation())
		}
		l.Add(f)
	}

	return l, false
}

// convertV24Frame rewrites a frame read from a v2.4 tag into the v2.3
// layout used when writing. unsync is the tag level flag which in v2.4
// means every frame is unsynchronised.
//
// v2.4 payload prefix: group id, encryption method, data length indicator.
// v2.3 payload prefix: decompressed size, encryption method, group id.
func convertV24Frame(f *Frame, unsync bool) {
	v4 := uint16(f.Flags)
	var v3 uint16

	if v4&0x4000 != 0 {
		v3 |= 0x8000
	}
	if v4&0x2000 != 0 {
		v3 |= 0x4000
	}
	if v4&0x1000 != 0 {
		v3 |= 0x2000
	}
	if v4&0x0008 != 0 {
		v3 |= 0x0080
	}
	if v4&0x0004 != 0 {
		v3 |= 0x0040
	}
	if v4&0x0040 != 0 {
		v3 |= 0x0020
	}
	f.Flags = FrameFlags(v3)

	if v4&0x0002 != 0 || unsync {
		f.Data = removeUnsynchronisation(f.Data)
	}

	prefixLen := 0
	if v4&0x0040 != 0 {
		prefixLen++
	}
	if v4&0x0004 != 0 {
		prefixLen++
	}
	if v4&0x0001 != 0 {
		prefixLen += 4
	}
	if prefixLen == 0 || len(f.Data) < prefixLen {
		return
	}

	rest := f.Data
	var group, method, dataLen []byte
	if v4&0x0040 != 0 {
		group, rest = rest[:1], rest[1:]
	}
	if v4&0x0004 != 0 {
		method, rest = rest[:1], rest[1:]
	}
	if v4&0x0001 != 0 {
		dataLen, rest = rest[:4], rest[4:]
		// v2.3 only has a size prefix for compressed frames and it is a
		// plain integer
		if v4&0x0008 != 0 {
			n := SyncsafeDecode(binary.BigEndian.Uint32(dataLen))
			dataLen = []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
		} else {
			dataLen = nil
		}
	}

	f.Data = concat(dataLen, method, group, rest)
}

// FrameNames descriptions of known v2.3 and v2.4 frames
var FrameNames = map[string]string{
	"AENC": "Audio encryption",
	"APIC": "Attached picture",
	"COMM": "Comments",
	"COMR": "Commercial frame",
	"ENCR": "Encryption method registration",
	"EQUA": "Equalization",
	"ETCO": "Event timing codes",
	"GEOB": "General encapsulated object",
	"GRID": "Group identification registration",
	"IPLS": "Involved people list",
	"LINK": "Linked information",
	"MCDI": "Music CD identifier",
	"MLLT": "MPEG location lookup table",
	"OWNE": "Ownership frame",
	"PRIV": "Private frame",
	"PCNT": "Play counter",
	"POPM": "Popularimeter",
	"POSS": "Position synchronisation frame",
	"RBUF": "Recommended buffer size",
	"RVAD": "Relative volume adjustment",
	"RVRB": "Reverb",
	"SYLT": "Synchronized lyric/text",
	"SYTC": "Synchronized tempo codes",
	"TALB": "Album/Movie/Show title",
	"TBPM": "BPM (beats per minute)",
	"TCOM": "Composer",
	"TCON": "Content type",
	"TCOP": "Copyright message",
	"TDAT": "Date",
	"TDLY": "Playlist delay",
	"TDRC": "Recording time",
	"TENC": "Encoded by",
	"TEXT": "Lyricist/Text writer",
	"TFLT": "File type",
	"TIME": "Time",
	"TIT1": "Content group description",
	"TIT2": "Title/songname/content description",
	"TIT3": "Subtitle/Description refinement",
	"TKEY": "Initial key",
	"TLAN": "Language(s)",
	"TLEN": "Length",
	"TMED": "Media type",
	"TOAL": "Original album/movie/show title",
	"TOFN": "Original filename",
	"TOLY": "Original lyricist(s)/text writer(s)",
	"TOPE": "Original artist(s)/performer(s)",
	"TORY": "Original release year",
	"TOWN": "File owner/licensee",
	"TPE1": "Lead performer(s)/Soloist(s)",
	"TPE2": "Band/orchestra/accompaniment",
	"TPE3": "Conductor/performer refinement",
	"TPE4": "Interpreted, remixed, or otherwise modified by",
	"TPOS": "Part of a set",
	"TPUB": "Publisher",
	"TRCK": "Track number/Position in set",
	"TRDA": "Recording dates",
	"TRSN": "Internet radio station name",
	"TRSO": "Internet radio station owner",
	"TSIZ": "Size",
	"TSRC": "ISRC (international standard recording code)",
	"TSSE": "Software/Hardware and settings used for encoding",
	"TYER": "Year",
	"TXXX": "User defined text information frame",
	"UFID": "Unique file identifier",
	"USER": "Terms of use",
	"USLT": "Unsychronized lyric/text transcription",
	"WCOM": "Commercial information",
	"WCOP": "Copyright/Legal information",
	"WOAF": "Official audio file webpage",
	"WOAR": "Official artist/performer webpage",
	"WOAS": "Official audio source webpage",
	"WORS": "Official internet radio station homepage",
	"WPAY": "Payment",
	"WPUB": "Publishers official webpage",
	"WXXX": "User defined URL link frame",
}
