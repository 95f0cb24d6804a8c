package bytepatch

import "github.com/dmpcore/bytepatch/buffer"

// LongSpan is a half-open byte range, offset and length, with its end
// derived rather than stored. It records a patch fragment's footprint in
// either the left or the right buffer.
type LongSpan struct {
	Offset int
	Length int
}

// End returns the span's exclusive end offset.
func (s LongSpan) End() int { return s.Offset + s.Length }

// PatchFragment is one hunk of a Patch: a contiguous run of diff
// fragments (edits plus their surrounding EQUAL context), anchored at a
// span in the left buffer and a span in the right buffer. The invariant
// held throughout construction and mutation: the sum of the lengths of
// every non-INSERT diff fragment equals LeftSpan.Length, and the sum of
// the lengths of every non-DELETE diff fragment equals RightSpan.Length.
type PatchFragment struct {
	LeftSpan  LongSpan
	RightSpan LongSpan
	Diffs     []Fragment
	empty     bool // false once an INSERT or DELETE has been added
}

// add appends a diff fragment to the hunk, updating spans and the
// empty/non-empty bookkeeping flag used by splitMax.
func (pf *PatchFragment) add(f Fragment) {
	pf.Diffs = append(pf.Diffs, f)
	switch f.Op {
	case OpInsert:
		pf.RightSpan.Length += f.Len()
	case OpDelete:
		pf.LeftSpan.Length += f.Len()
		pf.empty = false
	case OpEqual:
		pf.LeftSpan.Length += f.Len()
		pf.RightSpan.Length += f.Len()
	}
	if f.Op == OpInsert {
		pf.empty = false
	}
}

// leftBuffer concatenates every non-INSERT diff fragment, reconstructing
// the span of the pre-patch buffer this hunk expects to find.
func (pf PatchFragment) leftBuffer() buffer.Slice {
	return Diff{Fragments: pf.Diffs}.Extract(OpInsert)
}

// rightBuffer concatenates every non-DELETE diff fragment, the payload
// that replaces leftBuffer on a successful apply.
func (pf PatchFragment) rightBuffer() buffer.Slice {
	return Diff{Fragments: pf.Diffs}.Extract(OpDelete)
}

func (pf PatchFragment) deepCopy() PatchFragment {
	cp := PatchFragment{LeftSpan: pf.LeftSpan, RightSpan: pf.RightSpan, empty: pf.empty}
	cp.Diffs = append(cp.Diffs, pf.Diffs...)
	return cp
}
