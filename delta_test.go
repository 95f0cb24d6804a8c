package bytepatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffEncodeFormat(t *testing.T) {
	d := Diff{Fragments: []Fragment{
		eq(slice("jump")),
		del(slice("s")),
		ins(slice("ed")),
		eq(slice(" over ")),
		del(slice("the")),
		ins(slice("a")),
		eq(slice(" lazy")),
	}}
	assert.Equal(t, "=4\t-1\t+ed\t=6\t-3\t+a\t=5", d.Encode())
}

func TestDecodeDiffRoundTrip(t *testing.T) {
	left := "jumps over the lazy"
	d := Diff{Fragments: []Fragment{
		eq(slice("jump")),
		del(slice("s")),
		ins(slice("ed")),
		eq(slice(" over ")),
		del(slice("the")),
		ins(slice("a")),
		eq(slice(" lazy")),
	}}
	delta := d.Encode()
	got, err := DecodeDiff(slice(left), delta)
	require.NoError(t, err)
	assert.Equal(t, fragText(d.Fragments), fragText(got.Fragments))
}

func TestDiffEncodeEscapesInsertedBytes(t *testing.T) {
	d := Diff{Fragments: []Fragment{ins(slice(" \\|%\n"))}}
	delta := d.Encode()
	got, err := DecodeDiff(slice(""), delta)
	require.NoError(t, err)
	require.Len(t, got.Fragments, 1)
	assert.Equal(t, OpInsert, got.Fragments[0].Op)
	assert.Equal(t, " \\|%\n", string(got.Fragments[0].Data.Bytes()))
}

func TestDiffEncodePreservesPunctuationPool(t *testing.T) {
	text := "A-Z a-z 0-9 - _ . ! ~ ' ( ) ; / ? : @ & = + $ , # "
	d := Diff{Fragments: []Fragment{ins(slice(text))}}
	assert.Equal(t, "+"+text, d.Encode())
}

func TestDecodeDiffRejectsLengthMismatch(t *testing.T) {
	_, err := DecodeDiff(slice("jumps over the lazyx"), "=4\t-1\t+ed\t=6\t-3\t+a\t=5")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPatch)
}

func TestDecodeDiffRejectsUnknownOperation(t *testing.T) {
	_, err := DecodeDiff(slice(""), "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPatch)
}

func TestDecodeDiffRejectsNegativeLength(t *testing.T) {
	_, err := DecodeDiff(slice(""), "--1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPatch)
}
