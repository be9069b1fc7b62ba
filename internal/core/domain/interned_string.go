package domain

import (
	"strings"
	"unique"
)

// InternedString wraps a unique.Handle[string]. Package names repeat across
// requirements, graph nodes and lockfile entries, so interning keeps the
// per-resolution footprint flat.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s and returns a handle to it.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// Compare orders two interned strings lexically by their underlying value.
// Handles compare by identity, which is useless for deterministic output.
func (is InternedString) Compare(other InternedString) int {
	return strings.Compare(is.String(), other.String())
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
