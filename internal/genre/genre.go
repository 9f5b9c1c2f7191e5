// Package genre maps ID3v1 numeric genres to names and resolves TCON
// references like "(17)" or "(17)Rock".
package genre

import (
	"strconv"
	"strings"
)

// List genre names indexed by ID3v1 genre id
var List = []string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic", "Darkwave",
	"Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap",
	"Pop/Funk", "Jungle", "Native American", "Cabaret", "New Wave",
	"Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal",
	"Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll",
	"Hard Rock",
}

// Extra choices offered besides the numbered genres. They have no id and
// are stored as plain text.
var Extra = []string{"Podcast", "Audiobook"}

// Choices all genre names in list order followed by the extra choices
func Choices() []string {
	c := make([]string, 0, len(List)+len(Extra))
	c = append(c, List...)
	return append(c, Extra...)
}

// Name genre name for id
func Name(id int) (string, bool) {
	if id < 0 || id >= len(List) {
		return "", false
	}
	return List[id], true
}

// ID id for genre name, case-insensitive
func ID(name string) (int, bool) {
	for i, n := range List {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return -1, false
}

func refName(ref string) (string, bool) {
	switch ref {
	case "RX":
		return "Remix", true
	case "CR":
		return "Cover", true
	}
	id, err := strconv.Atoi(ref)
	if err != nil {
		return "", false
	}
	return Name(id)
}

// Resolve human readable form of a TCON value.
// "(17)" is "Rock", "(17)Indie Rock" is the refinement "Indie Rock",
// "(4)(17)" is "Disco, Rock", "17" is "Rock" and "((text" is "(text".
// Unknown references are kept as is.
func Resolve(s string) string {
	var names []string
	rest := s
	for strings.HasPrefix(rest, "(") && !strings.HasPrefix(rest, "((") {
		i := strings.Index(rest, ")")
		if i == -1 {
			break
		}
		if name, ok := refName(rest[1:i]); ok {
			names = append(names, name)
		} else {
			names = append(names, rest[:i+1])
		}
		rest = rest[i+1:]
	}

	if rest != "" {
		if strings.HasPrefix(rest, "((") {
			return rest[1:]
		}
		if len(names) == 0 {
			if name, ok := refName(rest); ok {
				return name
			}
		}
		return rest
	}

	return strings.Join(names, ", ")
}
