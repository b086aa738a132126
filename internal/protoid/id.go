// Package protoid provides the identifier types shared across the store:
// tool/plugin ids and the optional backend-qualified tool context.
package protoid

import (
	"fmt"
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ID is a validated plugin/tool identifier: a non-empty sequence
// beginning with a letter, containing letters, digits, dashes, and
// underscores.
type ID string

// New validates and constructs an ID from a raw string.
func New(raw string) (ID, error) {
	if !idPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return ID(raw), nil
}

// String returns the display form of the identifier.
func (id ID) String() string {
	return string(id)
}

// Context is a qualified tool reference: `[<backend-id>:]<tool-id>`.
// An empty backend fragment is dropped; an empty tool fragment is a
// parse error.
type Context struct {
	Backend *ID
	Tool    ID
}

// ParseContext parses a Context of the form "backend:tool" or "tool".
// An empty fragment before the colon is dropped; an empty fragment
// after it fails with ErrInvalidID.
func ParseContext(raw string) (Context, error) {
	if idx := strings.IndexByte(raw, ':'); idx >= 0 {
		prefix := strings.TrimSpace(raw[:idx])
		suffix := strings.TrimSpace(raw[idx+1:])

		if suffix == "" {
			return Context{}, fmt.Errorf("%w: missing tool id in %q", ErrInvalidID, raw)
		}

		tool, err := New(suffix)
		if err != nil {
			return Context{}, err
		}

		if prefix == "" {
			return Context{Tool: tool}, nil
		}

		backend, err := New(prefix)
		if err != nil {
			return Context{}, err
		}
		return Context{Backend: &backend, Tool: tool}, nil
	}

	tool, err := New(raw)
	if err != nil {
		return Context{}, err
	}
	return Context{Tool: tool}, nil
}

// String renders the context back to its canonical "backend:tool" or
// "tool" form.
func (c Context) String() string {
	if c.Backend != nil {
		return fmt.Sprintf("%s:%s", *c.Backend, c.Tool)
	}
	return c.Tool.String()
}

// HasBackend reports whether the context names a sourcing backend.
func (c Context) HasBackend() bool {
	return c.Backend != nil
}
