// Package version implements the version specification algebra: parsing
// semantic, calendar, alias, and canary version strings plus the
// requirement grammar used to constrain them, alongside comparison and
// best-candidate selection.
//
// Grounded on the moonrepo/proto Rust crates `version-spec` and
// `core::version` (see original_source/crates/version-spec and
// original_source/crates/core/src/version.rs): a resolved VersionSpec is
// one of Semantic, Calendar, Alias, or Canary, and an unresolved spec
// additionally admits a requirement (comparator expression).
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a semver-shaped (major.minor.patch[-pre][+build]) value.
// Calendar versions are normalized into this same shape: year→major,
// month→minor, day→patch, micro→build.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	Pre   string // dot-joined prerelease identifiers, e.g. "alpha.1"
	Build string // build metadata, e.g. a calendar micro component
}

// String renders the version in canonical major.minor.patch[-pre][+build] form.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		b.WriteByte('-')
		b.WriteString(v.Pre)
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}

// IsPrerelease reports whether the version carries a prerelease tag.
func (v Version) IsPrerelease() bool {
	return v.Pre != ""
}

// Compare orders two versions per semver 2.0 precedence, delegating to
// golang.org/x/mod/semver the way the teacher's resolver.go does
// (internal/domain/plugin/resolver.go: semver.IsValid, semver.Compare,
// semver.Major) rather than reimplementing prerelease-identifier
// comparison by hand. Calendar versions normalize into the same
// major.minor.patch[-pre][+build] shape before reaching here, so they
// compare correctly too. Build metadata never affects ordering.
func Compare(a, b Version) int {
	return semver.Compare(semverString(a), semverString(b))
}

// semverString renders v in the "v"-prefixed form golang.org/x/mod/semver
// expects, matching the normalization resolver.go applies to every
// version string before handing it to semver.Compare/semver.IsValid.
func semverString(v Version) string {
	return "v" + v.String()
}
