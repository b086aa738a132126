package version

import "errors"

var (
	// ErrInvalidSpec is returned when a version string matches no known
	// grammar (semantic, calendar, alias, or requirement).
	ErrInvalidSpec = errors.New("invalid version spec")

	// ErrEmptyComponent is returned when a numeric component is missing
	// where the grammar requires one.
	ErrEmptyComponent = errors.New("empty version component")

	// ErrMisplacedComparator is returned when a comparator appears
	// somewhere a requirement grammar does not allow it.
	ErrMisplacedComparator = errors.New("misplaced comparator")

	// ErrNoMatch is returned by PickBest when no candidate in the set
	// satisfies the requirement.
	ErrNoMatch = errors.New("no candidate satisfies requirement")

	// ErrAliasCycle is returned when resolving an alias chain exceeds
	// the depth limit or loops back on itself.
	ErrAliasCycle = errors.New("alias resolution cycle")

	// ErrUnknownAlias is returned when an alias has no terminal mapping.
	ErrUnknownAlias = errors.New("unknown alias")
)
