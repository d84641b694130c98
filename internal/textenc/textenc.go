// Package textenc decodes description documents of unknown encoding on a
// best-effort basis.
package textenc

import (
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// Decode turns raw file bytes into a string. Valid UTF-8 passes through;
// anything else goes through charset detection and the matching decoder.
// An undetectable or unsupported encoding is an error so the caller can
// move on to the next candidate file.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}

	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		return "", fmt.Errorf("unsupported charset %q: %w", result.Charset, err)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", result.Charset, err)
	}
	return string(decoded), nil
}
