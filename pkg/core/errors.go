package core

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrNoAnimation       = errors.New("no animation data exists in the selected object")
	ErrNoActiveAction    = errors.New("object has no animation data or active action")
	ErrMalformedDocument = errors.New("malformed action document")
	ErrIO                = errors.New("i/o failure")
)

// Problem is a single structural defect of a document.
type Problem struct {
	// Location is a dotted path into the document, e.g. "keyframes.3.co".
	Location string
	Message  string
}

func (p Problem) String() string {
	if p.Location == "" {
		return p.Message
	}
	return p.Location + ": " + p.Message
}

// ValidationError collects every problem found while validating a document.
type ValidationError struct {
	Path     string
	Problems []Problem
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	b.WriteString(ErrMalformedDocument.Error())
	for i, p := range e.Problems {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// Unwrap makes errors.Is(err, ErrMalformedDocument) hold.
func (e *ValidationError) Unwrap() error {
	return ErrMalformedDocument
}

// IOError wraps a failure to read or write path.
func IOError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
