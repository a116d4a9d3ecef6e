package router

import (
	"fmt"
	"strings"

	"github.com/xy-planning-network/switchback"
)

// CapturePrefix marks a pattern segment as a capture, e.g., "@id".
const CapturePrefix = "@"

var (
	ErrBadPattern       = fmt.Errorf("%w: bad pattern", switchback.ErrNotValid)
	ErrDuplicateCapture = fmt.Errorf("%w: duplicate capture", switchback.ErrNotValid)
)

// A Segment is one slash-delimited part of a Pattern.
// It either matches Literal exactly or, when Capture is set,
// matches any value of one or more letters, digits, '_' or '-' and records it under Capture.
type Segment struct {
	Literal string
	Capture string
}

// IsCapture reports whether s captures a value.
func (s Segment) IsCapture() bool { return s.Capture != "" }

func (s Segment) String() string {
	if s.IsCapture() {
		return CapturePrefix + s.Capture
	}
	return s.Literal
}

// A Pattern is a compiled route pattern.
//
// A path matches a Pattern when it has exactly as many segments
// and each segment matches the Pattern's segment at the same position.
// So, "/users/@id" matches "/users/42" but neither "/users/42/" nor "/users/42/edit".
type Pattern struct {
	raw      string
	segments []Segment
}

// Compile parses pattern into a Pattern.
// An empty pattern is the same as "/".
//
// Compile returns an error wrapping ErrBadPattern if a capture segment has no name
// or a name containing anything other than letters, digits, '_' or '-',
// and ErrDuplicateCapture if two captures share a name.
func Compile(pattern string) (Pattern, error) {
	if pattern == "" {
		pattern = "/"
	}

	parts := splitPath(pattern)
	p := Pattern{raw: pattern, segments: make([]Segment, 0, len(parts))}
	seen := make(map[string]bool)
	for _, part := range parts {
		if !strings.HasPrefix(part, CapturePrefix) {
			p.segments = append(p.segments, Segment{Literal: part})
			continue
		}

		name := strings.TrimPrefix(part, CapturePrefix)
		if !isWord(name) {
			return Pattern{}, fmt.Errorf("%w: %q has an invalid capture %q", ErrBadPattern, pattern, part)
		}

		if seen[name] {
			return Pattern{}, fmt.Errorf("%w: %q captures %q more than once", ErrDuplicateCapture, pattern, name)
		}

		seen[name] = true
		p.segments = append(p.segments, Segment{Capture: name})
	}

	return p, nil
}

// MustCompile is like Compile but panics if pattern cannot be compiled.
func MustCompile(pattern string) Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	return p
}

// Match reports whether path matches p and, if so, the values captured keyed by capture name,
// in the order they appear in p.
// An empty path is the same as "/".
func (p Pattern) Match(path string) (switchback.Params, bool) {
	if path == "" {
		path = "/"
	}

	parts := splitPath(path)
	if len(parts) != len(p.segments) {
		return switchback.Params{}, false
	}

	var captures switchback.Params
	for i, seg := range p.segments {
		if !seg.IsCapture() {
			if parts[i] != seg.Literal {
				return switchback.Params{}, false
			}
			continue
		}

		if !isWord(parts[i]) {
			return switchback.Params{}, false
		}

		captures.Set(seg.Capture, parts[i])
	}

	return captures, true
}

// Captures lists the names p captures, in order.
func (p Pattern) Captures() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.IsCapture() {
			names = append(names, seg.Capture)
		}
	}

	return names
}

// Segments returns a copy of p's segments.
func (p Pattern) Segments() []Segment {
	segs := make([]Segment, len(p.segments))
	copy(segs, p.segments)
	return segs
}

// String returns the source text p was compiled from.
func (p Pattern) String() string { return p.raw }

func splitPath(s string) []string { return strings.Split(s, "/") }

// isWord reports whether s is one or more of [A-Za-z0-9_-].
func isWord(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}

	return true
}
