package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOxfordJoin(t *testing.T) {
	tests := []struct {
		values      []string
		conjunction string
		want        string
	}{
		{nil, "and", ""},
		{[]string{"a"}, "and", "a"},
		{[]string{"a", "b"}, "and", "a and b"},
		{[]string{"a", "b", "c"}, "and", "a, b, and c"},
		{[]string{"a", "b", "c", "d"}, "and", "a, b, c, and d"},
		{[]string{"a", "b"}, "or", "a or b"},
		{[]string{"a", "b", "c"}, "or", "a, b, or c"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OxfordJoin(tt.values, tt.conjunction))
		})
	}
}
