package resolve

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"
)

// probeTitle reads the embedded tag title of an audio file. Any failure
// yields "" and the episode falls back to its file name.
func probeTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(meta.Title())
}

// probeDuration sums the frame durations of an mp3 file. Non-mp3 files and
// undecodable streams yield no duration.
func probeDuration(path string) *float64 {
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil
		}
		total += frame.Duration().Seconds()
	}

	if total <= 0 {
		return nil
	}
	return &total
}
