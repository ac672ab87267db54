package core

import (
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter restricts which channels an import may touch.
type Filter interface {
	Allows(key Key) bool
}

// KeySet is a Filter made of exact channel keys. An empty set places no
// restriction when used as a Policy filter.
type KeySet map[Key]struct{}

// NewKeySet builds a KeySet from keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Allows implements Filter.
func (s KeySet) Allows(key Key) bool {
	_, ok := s[key]
	return ok
}

// PathPatterns is a Filter of glob patterns over data paths. A pattern may end
// in ":N" to restrict it to one array index, e.g. "pose.bones*:2".
type PathPatterns []string

// Allows implements Filter.
func (p PathPatterns) Allows(key Key) bool {
	for _, pattern := range p {
		glob, idx, hasIdx := splitIndex(pattern)
		if hasIdx && idx != key.ArrayIndex {
			continue
		}
		if ok, err := doublestar.Match(glob, key.DataPath); err == nil && ok {
			return true
		}
	}
	return false
}

// Validate reports the first malformed pattern.
func (p PathPatterns) Validate() error {
	for _, pattern := range p {
		glob, _, _ := splitIndex(pattern)
		if !doublestar.ValidatePattern(glob) {
			return &ValidationError{Problems: []Problem{{Message: "invalid channel pattern " + strconv.Quote(pattern)}}}
		}
	}
	return nil
}

func splitIndex(pattern string) (string, int, bool) {
	i := strings.LastIndex(pattern, ":")
	if i < 0 {
		return pattern, 0, false
	}
	idx, err := strconv.Atoi(pattern[i+1:])
	if err != nil || idx < 0 {
		return pattern, 0, false
	}
	return pattern[:i], idx, true
}

// AnyOf allows a key if any of the filters allows it.
type AnyOf []Filter

// Allows implements Filter.
func (a AnyOf) Allows(key Key) bool {
	for _, f := range a {
		if !isEmpty(f) && f.Allows(key) {
			return true
		}
	}
	return false
}

// isEmpty reports whether f restricts nothing: nil, or a key set, pattern list
// or union without any members.
func isEmpty(f Filter) bool {
	switch v := f.(type) {
	case nil:
		return true
	case KeySet:
		return len(v) == 0
	case PathPatterns:
		return len(v) == 0
	case AnyOf:
		for _, member := range v {
			if !isEmpty(member) {
				return false
			}
		}
		return true
	}
	return false
}
