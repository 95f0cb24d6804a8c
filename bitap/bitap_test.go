package bitap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlphabet(t *testing.T) {
	tests := []struct {
		pattern  string
		expected map[byte]int
	}{
		{"abc", map[byte]int{'a': 4, 'b': 2, 'c': 1}},
		{"abcaba", map[byte]int{'a': 37, 'b': 18, 'c': 8}},
	}
	for i, test := range tests {
		table := alphabet([]byte(test.pattern))
		for b, want := range test.expected {
			assert.Equal(t, want, table[b], fmt.Sprintf("case #%d byte %q", i, b))
		}
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		pattern   string
		loc       int
		distance  int
		threshold float64
		expected  int
	}{
		{"exact match #1", "abcdefghijk", "fgh", 5, 100, 0.5, 5},
		{"exact match #2", "abcdefghijk", "fgh", 0, 100, 0.5, 5},
		{"fuzzy match #1", "abcdefghijk", "efxhi", 0, 100, 0.5, 4},
		{"fuzzy match #2", "abcdefghijk", "cdefxyhijk", 5, 100, 0.5, 2},
		{"fuzzy match #3", "abcdefghijk", "bxy", 1, 100, 0.5, -1},
		{"overflow", "123456789xx0", "3456789x0", 2, 100, 0.5, 2},
		{"before start match", "abcdef", "xxabc", 4, 100, 0.5, 0},
		{"beyond end match", "abcdef", "defyy", 4, 100, 0.5, 3},
		{"oversized pattern", "abcdef", "xabcdefy", 0, 100, 0.5, 0},
		{"threshold #1", "abcdefghijk", "efxyhi", 1, 100, 0.4, 4},
		{"threshold #2", "abcdefghijk", "efxyhi", 1, 100, 0.3, -1},
		{"threshold #3", "abcdefghijk", "bcdef", 1, 100, 0.0, 1},
		{"multiple select #1", "abcdexyzabcde", "abccde", 3, 100, 0.5, 0},
		{"multiple select #2", "abcdexyzabcde", "abccde", 5, 100, 0.5, 8},
		{"distance #1", "abcdefghijklmnopqrstuvwxyz", "abcdefg", 24, 10, 0.5, -1},
		{"distance #2", "abcdefghijklmnopqrstuvwxyz", "abcdxxefg", 1, 10, 0.5, 0},
		{"distance #3", "abcdefghijklmnopqrstuvwxyz", "abcdefg", 24, 1000, 0.5, 0},
		{"equality", "abcdef", "abcdef", 0, 100, 0.5, 0},
		{"null pattern", "abcdef", "", 3, 100, 0.5, 3},
	}
	for i, test := range tests {
		c := Config{Distance: test.distance, Threshold: test.threshold}
		actual := c.Search([]byte(test.text), []byte(test.pattern), test.loc)
		assert.Equal(t, test.expected, actual, fmt.Sprintf("case #%d %s", i, test.name))
	}
}

func TestSearchEmptyText(t *testing.T) {
	c := Config{Distance: 100, Threshold: 0.5}
	assert.Equal(t, -1, c.Search(nil, []byte("abc"), 0))
}
