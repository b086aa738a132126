package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Op is a requirement comparator.
type Op string

const (
	OpEq    Op = "="
	OpGt    Op = ">"
	OpGte   Op = ">="
	OpLt    Op = "<"
	OpLte   Op = "<="
	OpCaret Op = "^"
	OpTilde Op = "~"
)

// Partial is a version with optionally-omitted minor/patch components,
// as produced by requirement terms like "1", "1.2", or "1.2.3".
type Partial struct {
	Major uint64
	Minor *uint64
	Patch *uint64
	Pre   string
}

// String renders the partial back to its dotted form.
func (p Partial) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", p.Major)
	if p.Minor != nil {
		fmt.Fprintf(&b, ".%d", *p.Minor)
		if p.Patch != nil {
			fmt.Fprintf(&b, ".%d", *p.Patch)
		}
	}
	if p.Pre != "" {
		b.WriteByte('-')
		b.WriteString(p.Pre)
	}
	return b.String()
}

// Term is a single comparator applied to a partial version.
type Term struct {
	Op      Op
	Partial Partial
}

// String renders the term back to its canonical textual form.
func (t Term) String() string {
	return string(t.Op) + t.Partial.String()
}

// Conjunction is a set of terms that must all hold (space-joined).
type Conjunction []Term

// Requirement is a disjunction of conjunctions ("||"-joined).
type Requirement []Conjunction

// String renders the requirement back to its canonical textual form.
func (r Requirement) String() string {
	disjuncts := make([]string, len(r))
	for i, conj := range r {
		terms := make([]string, len(conj))
		for j, t := range conj {
			terms[j] = t.String()
		}
		disjuncts[i] = strings.Join(terms, " ")
	}
	return strings.Join(disjuncts, " || ")
}

var termPattern = regexp.MustCompile(`^(>=|<=|\^|~|>|<|=)?(\d+)(?:\.(\d+)(?:\.(\d+))?)?(?:-([0-9A-Za-z.-]+))?$`)

// ParseRequirement parses a semver requirement expression: "||" splits
// disjuncts, whitespace joins conjuncts within a disjunct, and a
// comparator-less bare version term means "^version". Matches the
// fallback step of the resolved-spec parse precedence (spec.md §4.1
// step 6), grounded on the Rust crate's requirement handling in
// original_source/crates/core/src/version.rs and its helper tests.
func ParseRequirement(s string) (Requirement, error) {
	cleaned := cleanRequirementString(s)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty requirement", ErrEmptyComponent)
	}

	disjuncts := strings.Split(cleaned, "||")
	req := make(Requirement, 0, len(disjuncts))

	for _, disjunct := range disjuncts {
		fields := strings.Fields(disjunct)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: empty disjunct in %q", ErrEmptyComponent, s)
		}

		conj := make(Conjunction, 0, len(fields))
		for _, field := range fields {
			term, err := parseTerm(field)
			if err != nil {
				return nil, err
			}
			conj = append(conj, term)
		}
		req = append(req, conj)
	}

	return req, nil
}

// cleanRequirementString strips trailing ".*"/"-*" glob segments and
// collapses whitespace after comparators, without the alias/v-prefix
// handling applied to resolved specs (a requirement term's comparator
// must stay distinguishable from a literal "v").
func cleanRequirementString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".*", "")
	s = collapseComparatorSpace(s)
	return s
}

func parseTerm(field string) (Term, error) {
	field = strings.TrimSuffix(field, "-*")

	m := termPattern.FindStringSubmatch(field)
	if m == nil {
		return Term{}, fmt.Errorf("%w: %q", ErrMisplacedComparator, field)
	}

	opStr, majorStr, minorStr, patchStr, pre := m[1], m[2], m[3], m[4], m[5]

	op := Op(opStr)
	if op == "" {
		op = OpCaret // comparator-less bare versions mean ^version
	}

	major, err := strconv.ParseUint(majorStr, 10, 64)
	if err != nil {
		return Term{}, fmt.Errorf("%w: %q", ErrInvalidSpec, field)
	}

	partial := Partial{Major: major, Pre: pre}
	if minorStr != "" {
		minor, err := strconv.ParseUint(minorStr, 10, 64)
		if err != nil {
			return Term{}, fmt.Errorf("%w: %q", ErrInvalidSpec, field)
		}
		partial.Minor = &minor
	}
	if patchStr != "" {
		patch, err := strconv.ParseUint(patchStr, 10, 64)
		if err != nil {
			return Term{}, fmt.Errorf("%w: %q", ErrInvalidSpec, field)
		}
		partial.Patch = &patch
	}

	return Term{Op: op, Partial: partial}, nil
}

// SatisfiesRequirement reports whether the version satisfies the
// requirement: each conjunction's terms must all hold, and at least
// one conjunction (disjunct) must be fully satisfied.
func SatisfiesRequirement(req Requirement, v Version) bool {
	for _, conj := range req {
		if conjunctionHolds(conj, v) {
			return true
		}
	}
	return false
}

func conjunctionHolds(conj Conjunction, v Version) bool {
	for _, t := range conj {
		if !termHolds(t, v) {
			return false
		}
	}
	return true
}

// termHolds checks a single comparator term against v. Every numeric
// comparison goes through Compare, which is itself backed by
// golang.org/x/mod/semver (see version.go), so "=, >, >=, <, <=" are
// direct semver.Compare results and "^, ~" are a [lo, hi) window over
// the same semver-backed ordering — termRange computes the window
// bounds (cargo/npm caret/tilde semantics have no x/mod/semver
// equivalent to call into), but the comparisons against those bounds
// are the teacher's semver.Compare, not a hand-rolled one.
func termHolds(t Term, v Version) bool {
	lo, hi, hasHi := termRange(t)
	cmpLo := Compare(v, lo)

	switch t.Op {
	case OpCaret, OpTilde:
		if cmpLo < 0 {
			return false
		}
		if hasHi && Compare(v, hi) >= 0 {
			return false
		}
		return true
	case OpEq:
		return cmpLo == 0
	case OpGt:
		return cmpLo > 0
	case OpGte:
		return cmpLo >= 0
	case OpLt:
		return cmpLo < 0
	case OpLte:
		return cmpLo <= 0
	default:
		return false
	}
}

// termRange expands a caret/tilde partial into its inclusive lower and
// exclusive upper bound, mirroring cargo/npm caret semantics (no
// x/mod/semver equivalent exists for this, since Go modules don't have
// a caret operator). For comparator terms (=, >, etc.) only the lower
// bound (the normalized version) is meaningful; hi/hasHi are unused by
// the caller in that case.
func termRange(t Term) (lo Version, hi Version, hasHi bool) {
	major := t.Partial.Major
	minor := uint64(0)
	if t.Partial.Minor != nil {
		minor = *t.Partial.Minor
	}
	patch := uint64(0)
	if t.Partial.Patch != nil {
		patch = *t.Partial.Patch
	}
	lo = Version{Major: major, Minor: minor, Patch: patch, Pre: t.Partial.Pre}

	switch t.Op {
	case OpCaret:
		// ^1 -> [1.0.0, 2.0.0); ^1.2 -> [1.2.0, 2.0.0); ^1.2.3 -> [1.2.3, 2.0.0)
		// unless major is 0, in which case the leftmost nonzero component bounds it.
		if major > 0 {
			hi = Version{Major: major + 1}
			return lo, hi, true
		}
		if t.Partial.Minor != nil && minor > 0 {
			hi = Version{Major: 0, Minor: minor + 1}
			return lo, hi, true
		}
		if t.Partial.Patch != nil {
			hi = Version{Major: 0, Minor: minor, Patch: patch + 1}
			return lo, hi, true
		}
		hi = Version{Major: 1}
		return lo, hi, true
	case OpTilde:
		// ~1 -> [1.0.0, 2.0.0); ~1.2 -> [1.2.0, 1.3.0); ~1.2.3 -> [1.2.3, 1.3.0)
		if t.Partial.Minor == nil {
			hi = Version{Major: major + 1}
			return lo, hi, true
		}
		hi = Version{Major: major, Minor: minor + 1}
		return lo, hi, true
	default:
		return lo, Version{}, false
	}
}
