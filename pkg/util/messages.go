// Package util provides small helpers shared by the gowheel packages.
package util

import "strings"

// OxfordJoin joins values for use in a sentence: "a", "a and b",
// "a, b, and c". conjunction replaces "and".
func OxfordJoin(values []string, conjunction string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	case 2:
		return values[0] + " " + conjunction + " " + values[1]
	default:
		return strings.Join(values[:len(values)-1], ", ") + ", " + conjunction + " " + values[len(values)-1]
	}
}
