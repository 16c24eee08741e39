package rules

import "strings"

// Location identifies a node in the specification tree as an explicit list of
// segments, rendered like "/users.get.responses.200". Deriving a child
// location copies the segment list, so sibling branches of a tree walk never
// alias each other.
type Location struct {
	segs []string
}

// Loc builds a location from segments.
func Loc(segs ...string) Location {
	return Location{segs: segs}
}

// With returns a child location extended by the given segments.
func (l Location) With(segs ...string) Location {
	out := make([]string, len(l.segs), len(l.segs)+len(segs))
	copy(out, l.segs)
	return Location{segs: append(out, segs...)}
}

// WithKey returns a child location extended by a bracketed map access,
// e.g. WithKey("content", "application/json") appends "content[application/json]".
func (l Location) WithKey(field, key string) Location {
	return l.With(field + "[" + key + "]")
}

// String renders the dotted pointer form.
func (l Location) String() string {
	return strings.Join(l.segs, ".")
}

// IsEmpty reports whether the location has no segments.
func (l Location) IsEmpty() bool {
	return len(l.segs) == 0
}
