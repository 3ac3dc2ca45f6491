package wheel

import (
	"cmp"
	"slices"

	"github.com/hashicorp/go-version"
)

// Strategy orders compatible wheels of the same project.
type Strategy string

// Known strategies.
const (
	// StrategyLatest prefers the highest version.
	StrategyLatest Strategy = "default"
	// StrategyEarliestCompatible prefers the lowest version.
	StrategyEarliestCompatible Strategy = "earliest-compatible"
)

// StrategyFor maps a configured strategy name to a Strategy. Unknown names
// fall back to StrategyLatest.
func StrategyFor(name string) Strategy {
	if Strategy(name) == StrategyEarliestCompatible {
		return StrategyEarliestCompatible
	}
	return StrategyLatest
}

// Rank sorts the supported candidates by preference: version first (per
// strategy), then tag preference. Unsupported candidates are dropped.
func Rank(candidates []*Name, supported []Tag, strategy Strategy) []*Name {
	type ranked struct {
		name  *Name
		index int
	}
	var keep []ranked
	for _, c := range candidates {
		if idx, ok := c.SupportIndexMin(supported); ok {
			keep = append(keep, ranked{name: c, index: idx})
		}
	}

	slices.SortStableFunc(keep, func(a, b ranked) int {
		byVersion := compareVersions(a.name.Version, b.name.Version)
		if strategy != StrategyEarliestCompatible {
			byVersion = -byVersion
		}
		if byVersion != 0 {
			return byVersion
		}
		return cmp.Compare(a.index, b.index)
	})

	out := make([]*Name, 0, len(keep))
	for _, r := range keep {
		out = append(out, r.name)
	}
	return out
}

// SelectBest returns the most preferred supported candidate.
func SelectBest(candidates []*Name, supported []Tag, strategy Strategy) (*Name, bool) {
	ranked := Rank(candidates, supported, strategy)
	if len(ranked) == 0 {
		return nil, false
	}
	return ranked[0], true
}

// compareVersions compares two version strings, falling back to a plain
// string comparison when either side does not parse.
func compareVersions(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA != nil || errB != nil {
		return cmp.Compare(a, b)
	}
	return va.Compare(vb)
}
