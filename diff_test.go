package bytepatch

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmpcore/bytepatch/buffer"
)

func slice(s string) buffer.Slice { return buffer.New([]byte(s)) }

func rebuild(d Diff) (string, string) {
	return string(d.Left().Bytes()), string(d.Right().Bytes())
}

// fragText renders fragments as glyph plus bytes, so tests compare
// operations and contents without depending on each slice's absolute
// offset.
func fragText(fs []Fragment) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f.Op.Glyph()) + string(f.Data.Bytes())
	}
	return out
}

func TestBuildDiffReconstructsBothSides(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
	}{
		{"equal", "identical text", "identical text"},
		{"cat-map", "cat", "map"},
		{"empty-left", "", "added"},
		{"empty-right", "removed", ""},
		{"both-empty", "", ""},
		{"apples-bananas", "Apples are a fruit.", "Bananas are also fruit."},
		{"prefix-suffix", "the quick brown fox", "the slow brown fox"},
	}
	cfg := NewDefaultConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := BuildDiff(cfg, slice(tt.left), slice(tt.right))
			l, r := rebuild(d)
			assert.Equal(t, tt.left, l)
			assert.Equal(t, tt.right, r)
		})
	}
}

func TestBuildDiffNoAdjacentSameOp(t *testing.T) {
	cfg := NewDefaultConfig()
	d := BuildDiff(cfg, slice("Apples are a fruit."), slice("Bananas are also fruit."))
	for i := 1; i < len(d.Fragments); i++ {
		assert.NotEqual(t, d.Fragments[i-1].Op, d.Fragments[i].Op, "adjacent fragments share an operation at %d", i)
	}
}

func TestBisectCatMap(t *testing.T) {
	cfg := NewDefaultConfig()
	frags := bisect(cfg, slice("cat"), slice("map"), time.Time{}, false)
	d := Diff{Fragments: frags}
	l, r := rebuild(d)
	assert.Equal(t, "cat", l)
	assert.Equal(t, "map", r)
}

func TestBuildDiffRespectsDeadline(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.DiffTimeout = time.Nanosecond
	left := "abcdefghijklmnopqrstuvwxyz0123456789"
	right := "zyxwvutsrqponmlkjihgfedcba9876543210"
	d := BuildDiff(cfg, slice(left), slice(right))
	l, r := rebuild(d)
	require.Equal(t, left, l)
	require.Equal(t, right, r)
}

func TestDiffLevenshtein(t *testing.T) {
	tests := []struct {
		name     string
		diffs    []Fragment
		expected int
	}{
		{"all equal", []Fragment{eq(slice("abc"))}, 0},
		{"delete insert", []Fragment{del(slice("abc")), ins(slice("1234"))}, 4},
		{"equal then edit", []Fragment{eq(slice("xyz")), del(slice("abc")), ins(slice("xyz"))}, 3},
	}
	for i, tt := range tests {
		d := Diff{Fragments: tt.diffs}
		assert.Equal(t, tt.expected, d.Levenshtein(), fmt.Sprintf("case #%d %s", i, tt.name))
	}
}

func TestDiffMapIndex(t *testing.T) {
	d := Diff{Fragments: []Fragment{
		del(slice("1234")),
		ins(slice("xyz")),
		eq(slice("56789")),
	}}
	assert.Equal(t, 0, d.MapIndex(0))
	assert.Equal(t, 4, d.MapIndex(5))
}

func TestHalfMatch(t *testing.T) {
	tests := []struct {
		name   string
		l, r   string
		wantOK bool
	}{
		{"no match, too short", "4", "1234567890123456", false},
		{"single match", "1234567890", "a345678z", true},
		{"multiple matches, longer wins", "121231234123451234123121", "a1234123451234z", true},
		{"non-optimal match", "x-=-=-=-=-=-=-=-=-=-=-=-=", "xx-=-=-=-=-=-=-=", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := halfMatch(slice(tt.l), slice(tt.r))
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDiffExtractIgnoresOp(t *testing.T) {
	d := Diff{Fragments: []Fragment{
		eq(slice("pre")),
		del(slice("old")),
		ins(slice("new")),
		eq(slice("post")),
	}}
	assert.Equal(t, "preoldpost", string(d.Extract(OpInsert).Bytes()))
	assert.Equal(t, "prenewpost", string(d.Extract(OpDelete).Bytes()))
}
