package bytepatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanupMergesAndFactors(t *testing.T) {
	tests := []struct {
		name     string
		in       []Fragment
		expected []Fragment
	}{
		{
			"no change",
			[]Fragment{del(slice("a")), ins(slice("b")), eq(slice("c"))},
			[]Fragment{del(slice("a")), ins(slice("b")), eq(slice("c"))},
		},
		{
			"merge equalities",
			[]Fragment{eq(slice("a")), eq(slice("b")), eq(slice("c"))},
			[]Fragment{eq(slice("abc"))},
		},
		{
			"merge deletions",
			[]Fragment{del(slice("a")), del(slice("b")), del(slice("c"))},
			[]Fragment{del(slice("abc"))},
		},
		{
			"merge insertions",
			[]Fragment{ins(slice("a")), ins(slice("b")), ins(slice("c"))},
			[]Fragment{ins(slice("abc"))},
		},
		{
			"prefix and suffix factored",
			[]Fragment{del(slice("a")), ins(slice("abc")), del(slice("dc"))},
			[]Fragment{eq(slice("a")), del(slice("d")), ins(slice("b")), eq(slice("c"))},
		},
		{
			"leading empty equality is dropped",
			[]Fragment{eq(slice("")), ins(slice("a")), eq(slice("b"))},
			[]Fragment{ins(slice("a")), eq(slice("b"))},
		},
		{
			"shift edit leftward over prior equality",
			[]Fragment{eq(slice("a")), ins(slice("ba")), eq(slice("c"))},
			[]Fragment{ins(slice("ab")), eq(slice("ac"))},
		},
		{
			"shift edit rightward over following equality",
			[]Fragment{eq(slice("c")), ins(slice("ab")), eq(slice("a"))},
			[]Fragment{eq(slice("ca")), ins(slice("ba"))},
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanup(Diff{Fragments: tt.in})
			assert.Equal(t, fragText(tt.expected), fragText(got.Fragments), fmt.Sprintf("case #%d %s", i, tt.name))
		})
	}
}
