package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind discriminates the four resolved spec shapes.
type Kind int

const (
	KindSemantic Kind = iota
	KindCalendar
	KindAlias
	KindCanary
)

func (k Kind) String() string {
	switch k {
	case KindSemantic:
		return "semantic"
	case KindCalendar:
		return "calendar"
	case KindAlias:
		return "alias"
	case KindCanary:
		return "canary"
	default:
		return "unknown"
	}
}

// Spec is a fully resolved version spec: a concrete semantic or
// calendar version, a named alias, or the canary marker. Mirrors
// the Rust crate's `VersionSpec` enum.
type Spec struct {
	Kind    Kind
	Version Version // set when Kind is KindSemantic or KindCalendar
	Alias   string  // set when Kind is KindAlias or KindCanary ("canary")
}

// String renders the spec back to its canonical textual form.
func (s Spec) String() string {
	switch s.Kind {
	case KindAlias, KindCanary:
		return s.Alias
	default:
		return s.Version.String()
	}
}

// IsCanary reports whether the spec is the canary marker.
func (s Spec) IsCanary() bool {
	return s.Kind == KindCanary
}

// IsLatest reports whether the spec is the "latest" alias.
func (s Spec) IsLatest() bool {
	return s.Kind == KindAlias && s.Alias == "latest"
}

// semverFullPattern matches a complete major.minor.patch version, with
// optional prerelease and build metadata, per the semver 2.0 grammar.
var semverFullPattern = regexp.MustCompile(
	`^(?P<major>\d+)\.(?P<minor>\d+)\.(?P<patch>\d+)` +
		`(?:-(?P<pre>[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?` +
		`(?:\+(?P<build>[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`,
)

// aliasPattern matches an identifier-shaped string: it must not begin
// with a digit, since leading-digit strings are always attempted as
// version or calendar grammar first. See
// original_source/crates/version-spec/tests/helpers_test.rs's
// `is_alias_name` cases.
var aliasPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// cleanSpecString applies the parse-precedence cleanup shared by every
// resolved-spec parse: trim whitespace, strip a leading v/V, drop
// trailing ".*"/"-*" globs, and collapse whitespace after a comparator.
func cleanSpecString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".*", "")
	s = strings.TrimSuffix(s, "-*")
	if len(s) > 0 && (s[0] == 'v' || s[0] == 'V') && len(s) > 1 && (s[1] >= '0' && s[1] <= '9') {
		s = s[1:]
	}
	s = collapseComparatorSpace(s)
	return s
}

var comparatorSpacePattern = regexp.MustCompile(`([<>=!])\s+`)

func collapseComparatorSpace(s string) string {
	return comparatorSpacePattern.ReplaceAllString(s, "$1")
}

// isAliasName reports whether s names an alias rather than a version:
// a letter followed by letters, digits, dashes, or underscores.
func isAliasName(s string) bool {
	return s != "" && aliasPattern.MatchString(s)
}

// Parse resolves s into a Spec following the precedence: canary, alias,
// calendar, semantic. It does not accept requirement grammar (comparators,
// disjunction, or partial versions) — use UnresolvedSpec.Parse for that.
func Parse(s string) (Spec, error) {
	cleaned := cleanSpecString(s)

	if cleaned == "canary" {
		return Spec{Kind: KindCanary, Alias: "canary"}, nil
	}
	if isAliasName(cleaned) {
		return Spec{Kind: KindAlias, Alias: cleaned}, nil
	}
	if isCalendar(cleaned) {
		v, err := parseCalendar(cleaned)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindCalendar, Version: v}, nil
	}

	v, err := parseSemantic(cleaned)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q is not a valid semantic or calendar version", ErrInvalidSpec, s)
	}
	return Spec{Kind: KindSemantic, Version: v}, nil
}

func parseSemantic(s string) (Version, error) {
	m := semverFullPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, ErrInvalidSpec
	}
	names := semverFullPattern.SubexpNames()
	groups := make(map[string]string, len(names))
	for i, name := range names {
		if name != "" && i < len(m) {
			groups[name] = m[i]
		}
	}

	major, err := strconv.ParseUint(groups["major"], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	minor, err := strconv.ParseUint(groups["minor"], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	patch, err := strconv.ParseUint(groups["patch"], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}

	return Version{
		Major: major,
		Minor: minor,
		Patch: patch,
		Pre:   groups["pre"],
		Build: groups["build"],
	}, nil
}
