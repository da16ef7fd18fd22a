// Package manifest hashes registry manifests the same way the local store
// records model digests.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/opencontainers/go-digest"
)

// Normalize compacts the manifest and strips every whitespace character,
// including whitespace inside string values. Key order and escape sequences
// are kept as sent.
func Normalize(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", fmt.Errorf("invalid manifest: %w", err)
	}
	return strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, buf.String()), nil
}

// isSpace matches the ECMAScript whitespace and line terminator set: the
// Unicode White_Space characters plus U+FEFF, without U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}

// Digest returns the lowercase hex SHA-256 of the normalized manifest.
func Digest(raw []byte) (string, error) {
	s, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return digest.SHA256.FromString(s).Encoded(), nil
}

// Matches reports whether the manifest hashes to the local digest. The local
// digest may be bare hex or algorithm-prefixed ("sha256:...").
func Matches(raw []byte, local string) (bool, error) {
	d, err := Digest(raw)
	if err != nil {
		return false, err
	}
	if parsed, err := digest.Parse(local); err == nil && parsed.Algorithm() == digest.SHA256 {
		local = parsed.Encoded()
	}
	return d == local, nil
}
