// Package position parses TRCK/TPOS style "n" and "n/total" values
package position

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Position track or disc number with optional total, zero means unset
type Position struct {
	N     int
	Total int
}

func atoi(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	i := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	if i != -1 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return strconv.Atoi(s)
}

// Parse parses "n", "n/total" or "" (zero Position)
func Parse(s string) (Position, error) {
	ns, totals, hasTotal := strings.Cut(s, "/")
	n, err := atoi(ns)
	if err != nil {
		return Position{}, err
	}
	var total int
	if hasTotal {
		total, err = atoi(totals)
		if err != nil {
			return Position{}, err
		}
	}

	return Position{N: n, Total: total}, nil
}

func (p Position) String() string {
	switch {
	case p.N == 0 && p.Total == 0:
		return ""
	case p.Total == 0:
		return strconv.Itoa(p.N)
	default:
		return fmt.Sprintf("%d/%d", p.N, p.Total)
	}
}
