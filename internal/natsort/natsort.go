// Package natsort orders relative file paths the way a person reading a
// track list expects: digit runs compare by numeric value, text runs compare
// case-insensitively, so "track2" sorts before "track10".
package natsort

import (
	"errors"
	"path/filepath"
	"strings"
)

// Chunk is a maximal run of digits or non-digits inside one path segment.
// Digit runs keep their raw text so magnitude is unbounded; they are
// compared as trimmed digit strings, never parsed into machine integers.
type Chunk struct {
	Numeric bool
	Text    string // lower-cased text run when Numeric is false
	Digits  string // raw digit run when Numeric is true
}

// Segment is the chunk sequence of one path component. An empty path
// component yields an empty Segment, which sorts before everything else.
type Segment []Chunk

// Key is a comparable order key for a relative path: one Segment per
// directory level, then the filename stem, then the suffix.
type Key []Segment

var errAbsolutePath = errors.New("natsort: path must be relative")

// PathKey builds the order key for a path expressed relative to a fixed
// root. Absolute paths are a contract violation and rejected.
func PathKey(rel string) (Key, error) {
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return nil, errAbsolutePath
	}

	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")

	key := make(Key, 0, len(parts)+1)
	for _, dir := range parts[:len(parts)-1] {
		key = append(key, SegmentKey(dir))
	}

	base := parts[len(parts)-1]
	suffix := ""
	if dot := strings.LastIndex(base, "."); dot > 0 {
		suffix = base[dot:]
		base = base[:dot]
	}
	key = append(key, SegmentKey(base), SegmentKey(suffix))

	return key, nil
}

// SegmentKey tokenizes one path component into alternating text and digit
// chunks, preserving their order of appearance.
func SegmentKey(s string) Segment {
	var segment Segment
	for len(s) > 0 {
		numeric := isDigit(s[0])
		end := 1
		for end < len(s) && isDigit(s[end]) == numeric {
			end++
		}
		run := s[:end]
		s = s[end:]

		if numeric {
			segment = append(segment, Chunk{Numeric: true, Digits: run})
		} else {
			segment = append(segment, Chunk{Text: strings.ToLower(run)})
		}
	}
	return segment
}

// Compare returns -1, 0 or 1. The order is total: segments compare
// positionally, chunks compare positionally within a segment, a missing
// segment or chunk sorts before any present one, and when a numeric chunk
// meets a text chunk at the same position the numeric chunk sorts first.
func Compare(a, b Key) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareSegments(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInts(len(a), len(b))
}

func compareSegments(a, b Segment) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareChunks(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInts(len(a), len(b))
}

func compareChunks(a, b Chunk) int {
	if a.Numeric != b.Numeric {
		if a.Numeric {
			return -1
		}
		return 1
	}
	if a.Numeric {
		return compareNumeric(a.Digits, b.Digits)
	}
	return strings.Compare(a.Text, b.Text)
}

// compareNumeric compares two digit runs by value: leading zeros are
// ignored for magnitude, then length decides, then the trimmed digits
// compare lexically. Runs of equal value order by their raw text so the
// comparison stays total for differently padded spellings.
func compareNumeric(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if c := compareInts(len(ta), len(tb)); c != 0 {
		return c
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
