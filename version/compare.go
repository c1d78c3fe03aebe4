// Package version looks up the latest syncwatch release and tells the user when an update is available.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type semver struct {
	parts      [3]int
	prerelease string
}

// parse accepts "1.2.3", "v1.2" and "1.2.3-rc.1". Build metadata after "+" is ignored.
func parse(s string) (semver, error) {
	var v semver

	core, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "+")
	core, v.prerelease, _ = strings.Cut(core, "-")

	fields := strings.Split(core, ".")
	if len(fields) == 0 || len(fields) > 3 {
		return v, fmt.Errorf("invalid version %q", s)
	}

	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return v, fmt.Errorf("invalid version %q", s)
		}
		v.parts[i] = n
	}
	return v, nil
}

// Compare orders two versions: 1 if a is newer, -1 if b is newer, 0 if equal.
// A pre-release sorts before the release it precedes.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av.parts {
		if av.parts[i] != bv.parts[i] {
			return lo.Ternary(av.parts[i] > bv.parts[i], 1, -1), nil
		}
	}

	switch {
	case av.prerelease == bv.prerelease:
		return 0, nil
	case av.prerelease == "":
		return 1, nil
	case bv.prerelease == "":
		return -1, nil
	default:
		return strings.Compare(av.prerelease, bv.prerelease), nil
	}
}
