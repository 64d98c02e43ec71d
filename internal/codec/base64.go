// Package codec converts synthesized speech payloads between the forms the
// rest of the application needs: base64 text from the speech provider, raw
// 16-bit little-endian mono PCM, normalized float samples for playback, and
// canonical 44-byte-header WAV files for export and the disk cache.
//
// Every function here is pure and safe to call concurrently.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the codec.
var (
	// ErrDecode reports a payload that is not valid standard base64.
	ErrDecode = errors.New("invalid base64 payload")
	// ErrInvalidWAV reports bytes that are not a readable RIFF/WAVE file.
	ErrInvalidWAV = errors.New("invalid wav data")
)

// DecodeBase64 returns the exact bytes encoded by a standard-alphabet base64
// string. ASCII whitespace is ignored and trailing padding is optional.
// On malformed input it returns nil and an error wrapping ErrDecode.
func DecodeBase64(encoded string) ([]byte, error) {
	clean := stripSpace(encoded)

	enc := base64.StdEncoding
	if len(clean)%4 != 0 && !strings.HasSuffix(clean, "=") {
		enc = base64.RawStdEncoding
	}

	out, err := enc.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return out, nil
}

// stripSpace drops the whitespace characters a base64 transport may insert.
func stripSpace(s string) string {
	if !strings.ContainsAny(s, " \t\r\n\f") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '\f':
			return -1
		}
		return r
	}, s)
}
