// Package buffer implements the zero-copy byte-slice primitive the rest of
// bytepatch is built on: an immutable view over a byte range supporting
// cheap head/tail/cut/trunc slicing, concatenation, prefix/suffix
// comparison and substring search, plus the absolute offset bitap needs to
// translate its hits back into document coordinates.
package buffer

import "bytes"

// Slice is an immutable view of a byte range. The zero value is the empty
// slice. Slices are cheap to copy: copying a Slice never copies the
// underlying bytes.
type Slice struct {
	data []byte
	abs  int
}

// New wraps b as a root Slice with absolute offset 0. b is never mutated
// through the returned Slice or any of its descendants.
func New(b []byte) Slice {
	return Slice{data: b}
}

// Length returns the number of bytes in the slice.
func (s Slice) Length() int {
	return len(s.data)
}

// Offset returns the slice's absolute position in the document it was cut
// from. Used only to translate bitap hits back into caller coordinates.
func (s Slice) Offset() int {
	return s.abs
}

// Bytes materializes the slice's contents. The returned slice aliases the
// underlying array and must not be mutated by the caller.
func (s Slice) Bytes() []byte {
	if s.data == nil {
		return nil
	}
	return s.data
}

// Head returns the first n bytes of s. Panics if n is out of range.
func (s Slice) Head(n int) Slice {
	return Slice{data: s.data[:n], abs: s.abs}
}

// Tail returns the last n bytes of s.
func (s Slice) Tail(n int) Slice {
	start := len(s.data) - n
	return Slice{data: s.data[start:], abs: s.abs + start}
}

// Cut drops the first n bytes, returning the remainder.
func (s Slice) Cut(n int) Slice {
	return Slice{data: s.data[n:], abs: s.abs + n}
}

// Trunc keeps the first n bytes, discarding the rest.
func (s Slice) Trunc(n int) Slice {
	return Slice{data: s.data[:n], abs: s.abs}
}

// SliceAt returns the suffix of s starting at the relative position pos.
// Equivalent to Cut(pos); provided as a distinct name for callers indexing
// by position rather than by a byte count. pos is relative to s, not an
// absolute document position.
func (s Slice) SliceAt(pos int) Slice {
	return s.Cut(pos)
}

// Range returns s[from:to].
func (s Slice) Range(from, to int) Slice {
	return Slice{data: s.data[from:to], abs: s.abs + from}
}

// Concat appends other after s, copying into a freshly allocated buffer
// unless the two slices are already adjacent views over the same
// underlying array, in which case no copy is needed.
func (s Slice) Concat(other Slice) Slice {
	if len(s.data) == 0 {
		return other
	}
	if len(other.data) == 0 {
		return s
	}
	// Zero-copy fast path: other begins exactly where s ends in the same
	// backing array.
	if n := len(s.data); n+len(other.data) <= cap(s.data) && &s.data[:n+1][n] == &other.data[0] {
		return Slice{data: s.data[0 : len(s.data)+len(other.data) : len(s.data)+len(other.data)], abs: s.abs}
	}
	buf := make([]byte, 0, len(s.data)+len(other.data))
	buf = append(buf, s.data...)
	buf = append(buf, other.data...)
	return Slice{data: buf, abs: s.abs}
}

// Merge concatenates a sequence of slices left to right.
func Merge(slices ...Slice) Slice {
	switch len(slices) {
	case 0:
		return Slice{}
	case 1:
		return slices[0]
	}
	out := slices[0]
	for _, s := range slices[1:] {
		out = out.Concat(s)
	}
	return out
}

// ReadRelative returns the byte at relative position i within s.
func (s Slice) ReadRelative(i int) byte {
	return s.data[i]
}

// Equal reports whether s and other have identical contents.
func (s Slice) Equal(other Slice) bool {
	return bytes.Equal(s.data, other.data)
}

// Empty reports whether the slice has zero length.
func (s Slice) Empty() bool {
	return len(s.data) == 0
}

// CommonPrefix returns the length of the longest common prefix of s and
// other.
func (s Slice) CommonPrefix(other Slice) int {
	n := 0
	limit := min(len(s.data), len(other.data))
	for n < limit && s.data[n] == other.data[n] {
		n++
	}
	return n
}

// CommonSuffix returns the length of the longest common suffix of s and
// other.
func (s Slice) CommonSuffix(other Slice) int {
	i1, i2 := len(s.data), len(other.data)
	n := 0
	for i1 > 0 && i2 > 0 && s.data[i1-1] == other.data[i2-1] {
		i1--
		i2--
		n++
	}
	return n
}

// PositionOf returns the index of the first occurrence of pattern in s at
// or after from, or -1 if pattern does not occur.
func (s Slice) PositionOf(pattern Slice, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s.data) {
		return -1
	}
	idx := bytes.Index(s.data[from:], pattern.data)
	if idx < 0 {
		return -1
	}
	return idx + from
}

// LastPositionOf returns the index of the last occurrence of pattern in
// s[:upto], or -1 if pattern does not occur.
func (s Slice) LastPositionOf(pattern Slice, upto int) int {
	if upto > len(s.data) {
		upto = len(s.data)
	}
	if upto < 0 {
		return -1
	}
	return bytes.LastIndex(s.data[:upto], pattern.data)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
