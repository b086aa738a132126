package version

import "fmt"

// UnresolvedKind discriminates the five unresolved spec shapes: the four
// resolved shapes (a pinned version needs no further resolution) plus a
// true requirement expression.
type UnresolvedKind int

const (
	UnresolvedSemantic UnresolvedKind = iota
	UnresolvedCalendar
	UnresolvedAlias
	UnresolvedCanary
	UnresolvedRequirement
)

// UnresolvedSpec is what a config layer or CLI argument names before
// resolution against an inventory: either an exact pinned spec, or a
// requirement expression to be satisfied by PickBest. Mirrors the Rust
// crate's `UnresolvedVersionSpec`.
type UnresolvedSpec struct {
	Kind UnresolvedKind
	Spec Spec        // set when Kind is not UnresolvedRequirement
	Req  Requirement // set when Kind is UnresolvedRequirement
}

// String renders the unresolved spec back to its canonical textual form.
func (u UnresolvedSpec) String() string {
	if u.Kind == UnresolvedRequirement {
		return u.Req.String()
	}
	return u.Spec.String()
}

// ParseUnresolved resolves s into an UnresolvedSpec following the same
// precedence as Parse, but falling back to requirement grammar (rather
// than erroring) when the cleaned string matches neither the calendar
// nor the full semver grammar. See spec.md §4.1 steps 1-6.
func ParseUnresolved(s string) (UnresolvedSpec, error) {
	cleaned := cleanSpecString(s)

	if cleaned == "canary" {
		return UnresolvedSpec{Kind: UnresolvedCanary, Spec: Spec{Kind: KindCanary, Alias: "canary"}}, nil
	}
	if isAliasName(cleaned) {
		return UnresolvedSpec{Kind: UnresolvedAlias, Spec: Spec{Kind: KindAlias, Alias: cleaned}}, nil
	}
	if isCalendar(cleaned) {
		v, err := parseCalendar(cleaned)
		if err != nil {
			return UnresolvedSpec{}, err
		}
		return UnresolvedSpec{Kind: UnresolvedCalendar, Spec: Spec{Kind: KindCalendar, Version: v}}, nil
	}
	if v, err := parseSemantic(cleaned); err == nil {
		return UnresolvedSpec{Kind: UnresolvedSemantic, Spec: Spec{Kind: KindSemantic, Version: v}}, nil
	}

	req, err := ParseRequirement(cleaned)
	if err != nil {
		return UnresolvedSpec{}, fmt.Errorf("%w: %q matches no known version grammar", ErrInvalidSpec, s)
	}
	return UnresolvedSpec{Kind: UnresolvedRequirement, Req: req}, nil
}

// IsExact reports whether the unresolved spec already names a concrete
// version or alias, requiring no candidate search to resolve.
func (u UnresolvedSpec) IsExact() bool {
	return u.Kind != UnresolvedRequirement
}
