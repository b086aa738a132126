package version

import (
	"fmt"
	"regexp"
	"strconv"
)

// calendarPattern matches YYYY[-MM[-DD]][.micro][-prerelease], the
// calver grammar recognized before falling back to semver. A 4-digit
// year disambiguates it from a semver major component in common usage;
// see original_source/crates/version-spec/src/version_types.rs's CalVer.
var calendarPattern = regexp.MustCompile(
	`^(?P<year>\d{4})` +
		`(?:-(?P<month>\d{1,2})(?:-(?P<day>\d{1,2}))?)?` +
		`(?:\.(?P<micro>\d+))?` +
		`(?:-(?P<pre>[0-9A-Za-z][0-9A-Za-z.-]*))?$`,
)

// isCalendar reports whether s matches the calendar grammar.
func isCalendar(s string) bool {
	return calendarPattern.MatchString(s)
}

// parseCalendar converts a calver string into its semver-normalized
// Version: leading zeros stripped, missing components become zero, the
// micro component (if present) becomes build metadata, and any
// prerelease suffix is preserved.
func parseCalendar(s string) (Version, error) {
	m := calendarPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q is not a valid calendar version", ErrInvalidSpec, s)
	}

	names := calendarPattern.SubexpNames()
	groups := make(map[string]string, len(names))
	for i, name := range names {
		if name != "" && i < len(m) {
			groups[name] = m[i]
		}
	}

	year, err := atoiOrZero(groups["year"])
	if err != nil {
		return Version{}, err
	}
	month, err := atoiOrZero(groups["month"])
	if err != nil {
		return Version{}, err
	}
	day, err := atoiOrZero(groups["day"])
	if err != nil {
		return Version{}, err
	}

	return Version{
		Major: year,
		Minor: month,
		Patch: day,
		Pre:   groups["pre"],
		Build: groups["micro"],
	}, nil
}

func atoiOrZero(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpec, s)
	}
	return n, nil
}
