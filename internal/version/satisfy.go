package version

// AliasLookup resolves a user- or plugin-declared alias name to its
// target spec, as recorded in the tool's inventory (§4.1's "candidate's
// inventory records that alias").
type AliasLookup func(alias string) (Spec, bool)

// Satisfies reports whether candidate matches req. An Alias requirement
// matches only when aliases records that exact alias name for the
// candidate; everything else routes through numeric comparison with
// semver's standard prerelease ordering. Canary requirements match only
// canary candidates; calendar and semantic requirements compare their
// normalized Version directly.
func Satisfies(req UnresolvedSpec, candidate Spec, aliases AliasLookup) bool {
	switch req.Kind {
	case UnresolvedAlias:
		if aliases != nil {
			if target, ok := aliases(req.Spec.Alias); ok {
				return Satisfies(target.toUnresolved(), candidate, aliases)
			}
		}
		return candidate.Kind == KindAlias && candidate.Alias == req.Spec.Alias
	case UnresolvedCanary:
		return candidate.IsCanary()
	case UnresolvedSemantic, UnresolvedCalendar:
		if candidate.Kind != KindSemantic && candidate.Kind != KindCalendar {
			return false
		}
		return Compare(candidate.Version, req.Spec.Version) == 0
	case UnresolvedRequirement:
		if candidate.Kind != KindSemantic && candidate.Kind != KindCalendar {
			return false
		}
		return SatisfiesRequirement(req.Req, candidate.Version)
	default:
		return false
	}
}

func (s Spec) toUnresolved() UnresolvedSpec {
	switch s.Kind {
	case KindAlias:
		return UnresolvedSpec{Kind: UnresolvedAlias, Spec: s}
	case KindCanary:
		return UnresolvedSpec{Kind: UnresolvedCanary, Spec: s}
	case KindCalendar:
		return UnresolvedSpec{Kind: UnresolvedCalendar, Spec: s}
	default:
		return UnresolvedSpec{Kind: UnresolvedSemantic, Spec: s}
	}
}

// PickBest iterates candidates sorted in descending order and returns
// the first that satisfies req. When req is unbounded (the "latest"
// alias, or a requirement with no terms) prerelease candidates are
// skipped unless the entire candidate set is prereleases, and an
// unbounded req that aliases does not map accepts any semantic or
// calendar candidate. Returns ErrNoMatch when nothing satisfies.
func PickBest(req UnresolvedSpec, candidates []Spec, aliases AliasLookup) (Spec, error) {
	sorted := make([]Spec, len(candidates))
	copy(sorted, candidates)
	sortSpecsDescending(sorted)

	unbounded := (req.Kind == UnresolvedAlias && req.Spec.Alias == "latest") ||
		(req.Kind == UnresolvedRequirement && len(req.Req) == 0)
	anyVersion := unbounded
	if unbounded && req.Kind == UnresolvedAlias && aliases != nil {
		if _, ok := aliases(req.Spec.Alias); ok {
			anyVersion = false
		}
	}

	allPrerelease := len(sorted) > 0
	for _, c := range sorted {
		if c.Kind == KindSemantic || c.Kind == KindCalendar {
			if !c.Version.IsPrerelease() {
				allPrerelease = false
				break
			}
		} else {
			allPrerelease = false
			break
		}
	}

	for _, c := range sorted {
		if unbounded && !allPrerelease && (c.Kind == KindSemantic || c.Kind == KindCalendar) && c.Version.IsPrerelease() {
			continue
		}
		if anyVersion && (c.Kind == KindSemantic || c.Kind == KindCalendar) {
			return c, nil
		}
		if Satisfies(req, c, aliases) {
			return c, nil
		}
	}

	return Spec{}, ErrNoMatch
}

func sortSpecsDescending(specs []Spec) {
	// Simple insertion sort: candidate lists are small (per-tool version
	// sets), and it keeps the comparator logic colocated and auditable.
	for i := 1; i < len(specs); i++ {
		for j := i; j > 0 && specLess(specs[j-1], specs[j]); j-- {
			specs[j-1], specs[j] = specs[j], specs[j-1]
		}
	}
}

// specLess reports whether a sorts before b in descending order, i.e.
// whether b outranks a.
func specLess(a, b Spec) bool {
	av, aok := a.version()
	bv, bok := b.version()
	if aok && bok {
		return Compare(av, bv) < 0
	}
	return false
}

func (s Spec) version() (Version, bool) {
	if s.Kind == KindSemantic || s.Kind == KindCalendar {
		return s.Version, true
	}
	return Version{}, false
}
