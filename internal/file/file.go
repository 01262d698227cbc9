// Package file contains file naming utilities.
package file

import (
	"path/filepath"
	"strings"
)

// ExtractSuffix returns the extension of s, including the dot, and the
// index at which it starts. idx is -1 when s has no extension.
func ExtractSuffix(s string) (suffix string, idx int) {
	idx = strings.LastIndex(s, ".")
	if idx == -1 {
		return s, idx
	}
	return s[idx:], idx
}

// Sanitize reduces a client-supplied filename to a safe flat name: path
// components are stripped and anything outside [A-Za-z0-9._-] becomes an
// underscore.
func Sanitize(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	sanitized := strings.Trim(b.String(), ".")
	if sanitized == "" {
		return "file"
	}
	return sanitized
}
