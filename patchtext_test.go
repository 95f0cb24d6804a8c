package bytepatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchTextRoundTrip(t *testing.T) {
	p := Patch{Fragments: []PatchFragment{
		{
			LeftSpan:  LongSpan{Offset: 20, Length: 18},
			RightSpan: LongSpan{Offset: 21, Length: 17},
			Diffs: []Fragment{
				eq(slice("jump")),
				del(slice("s")),
				ins(slice("ed")),
				eq(slice(" over ")),
				del(slice("the")),
				ins(slice("a")),
				eq(slice("\nlaz")),
			},
		},
	}}
	want := "@@ -21,18 +22,17 @@\n jump\n-s\n+ed\n  over \n-the\n+a\n %0Alaz\n"
	assert.Equal(t, want, p.Text())

	cfg := NewDefaultConfig()
	parsed, err := ParsePatch(cfg, want)
	require.NoError(t, err)
	require.Len(t, parsed.Fragments, 1)
	assert.Equal(t, p.Fragments[0].LeftSpan, parsed.Fragments[0].LeftSpan)
	assert.Equal(t, p.Fragments[0].RightSpan, parsed.Fragments[0].RightSpan)
	assert.Equal(t, want, parsed.Text())
}

func TestParsePatchHeaderVariants(t *testing.T) {
	tests := []string{
		"",
		"@@ -21,18 +22,17 @@\n jump\n-s\n+ed\n  over \n-the\n+a\n %0Alaz\n",
		"@@ -1 +1 @@\n-a\n+b\n",
		"@@ -1,3 +0,0 @@\n-abc\n",
		"@@ -0,0 +1,3 @@\n+abc\n",
	}
	cfg := NewDefaultConfig()
	for i, tt := range tests {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			p, err := ParsePatch(cfg, tt)
			require.NoError(t, err)
			if tt == "" {
				assert.Empty(t, p.Fragments)
				return
			}
			assert.Equal(t, tt, p.Text())
		})
	}
}

func TestParsePatchRejectsMalformedHeader(t *testing.T) {
	cfg := NewDefaultConfig()
	_, err := ParsePatch(cfg, "@@ _0,0 +0,0 @@\n+abc\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPatch)

	_, err = ParsePatch(cfg, "Bad\nPatch\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPatch)
}

func TestParsePatchPunctuationPreserved(t *testing.T) {
	cfg := NewDefaultConfig()
	text := "@@ -1,21 +1,21 @@\n-%601234567890-=%5B%5D%5C;',./\n+~!@#$%25%5E&*()_+%7B%7D%7C:%22%3C%3E?\n"
	p, err := ParsePatch(cfg, text)
	require.NoError(t, err)
	require.Len(t, p.Fragments, 1)
	want := []Fragment{
		del(slice("`1234567890-=[]\\;',./")),
		ins(slice("~!@#$%^&*()_+{}|:\"<>?")),
	}
	assert.Equal(t, want, p.Fragments[0].Diffs)
}

func TestPatchToTextMultiFragment(t *testing.T) {
	text := "@@ -1,9 +1,9 @@\n-f\n+F\n oo+fooba\n@@ -7,9 +7,9 @@\n obar\n-,\n+.\n  tes\n"
	cfg := NewDefaultConfig()
	p, err := ParsePatch(cfg, text)
	require.NoError(t, err)
	assert.Equal(t, text, p.Text())
}
