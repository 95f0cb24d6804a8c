package bytepatch

import (
	"fmt"

	"github.com/dmpcore/bytepatch/buffer"
)

// Patch is an ordered list of PatchFragments that together transform a
// left buffer into a right buffer, plus the bitap tuning and
// delete-quality threshold apply needs when a fragment's expected
// location has drifted.
type Patch struct {
	Fragments     []PatchFragment
	MatchDistance int
	MatchThresh   float64
	DeleteThresh  float64
}

// BuildPatch constructs a Patch from a diff already computed over left,
// with context grown against left so each fragment's pattern is unique.
func BuildPatch(cfg *Config, left buffer.Slice, d Diff) Patch {
	p := Patch{
		MatchDistance: cfg.MatchDistance,
		MatchThresh:   cfg.MatchThreshold,
		DeleteThresh:  cfg.PatchDeleteThreshold,
	}
	if len(d.Fragments) == 0 {
		return p
	}

	var cur *PatchFragment
	bytesL, bytesR := 0, 0
	pre, post := left, left
	n := len(d.Fragments)

	for i, f := range d.Fragments {
		if cur == nil && f.Op != OpEqual {
			cur = &PatchFragment{
				LeftSpan:  LongSpan{Offset: bytesL},
				RightSpan: LongSpan{Offset: bytesR},
			}
		}

		switch f.Op {
		case OpInsert:
			if cur != nil {
				cur.add(f)
			}
			post = post.Head(bytesR).Concat(f.Data).Concat(post.Cut(bytesR))
		case OpDelete:
			if cur != nil {
				cur.add(f)
			}
			post = post.Head(bytesR).Concat(post.Cut(bytesR + f.Len()))
		case OpEqual:
			if cur != nil && f.Len() <= 2*cfg.PatchMargin && i != n-1 {
				cur.add(f)
			}
			if cur != nil && f.Len() >= 2*cfg.PatchMargin {
				cur = finalizePatchFragment(cfg, &p, cur, pre)
				// Rolling context: the next fragment's pre-patch baseline
				// is this fragment's post-patch result.
				pre = post
				bytesL = bytesR
			}
		}

		if f.Op != OpInsert {
			bytesL += f.Len()
		}
		if f.Op != OpDelete {
			bytesR += f.Len()
		}
	}
	if cur != nil {
		finalizePatchFragment(cfg, &p, cur, pre)
	}
	return p
}

func finalizePatchFragment(cfg *Config, p *Patch, cur *PatchFragment, prePatch buffer.Slice) *PatchFragment {
	*cur = addContext(cfg, *cur, prePatch)
	p.Fragments = append(p.Fragments, *cur)
	return nil
}

// addContext grows a fragment's context on both sides, against the
// pre-patch buffer text, until the pattern it anchors on is unique in
// text (or the word-width cap is hit), then adds one more margin "for
// luck".
func addContext(cfg *Config, pf PatchFragment, text buffer.Slice) PatchFragment {
	if text.Empty() {
		return pf
	}
	pattern := text.Range(pf.RightSpan.Offset, pf.RightSpan.Offset+pf.LeftSpan.Length)
	padding := 0
	for {
		first := text.PositionOf(pattern, 0)
		last := text.LastPositionOf(pattern, text.Length())
		if first == last {
			break
		}
		if pattern.Length() >= WordBits-2*cfg.PatchMargin {
			break
		}
		padding += cfg.PatchMargin
		maxStart := maxInt(0, pf.RightSpan.Offset-padding)
		minEnd := minInt(text.Length(), pf.RightSpan.Offset+pf.LeftSpan.Length+padding)
		pattern = text.Range(maxStart, minEnd)
	}
	padding += cfg.PatchMargin

	prefix := text.Range(maxInt(0, pf.RightSpan.Offset-padding), pf.RightSpan.Offset)
	if !prefix.Empty() {
		pf.Diffs = append([]Fragment{eq(prefix)}, pf.Diffs...)
	}
	suffixStart := pf.RightSpan.Offset + pf.LeftSpan.Length
	suffix := text.Range(suffixStart, minInt(text.Length(), suffixStart+padding))
	if !suffix.Empty() {
		pf.Diffs = append(pf.Diffs, eq(suffix))
	}
	pf.LeftSpan = LongSpan{Offset: pf.LeftSpan.Offset - prefix.Length(), Length: pf.LeftSpan.Length + prefix.Length() + suffix.Length()}
	pf.RightSpan = LongSpan{Offset: pf.RightSpan.Offset - prefix.Length(), Length: pf.RightSpan.Length + prefix.Length() + suffix.Length()}
	return pf
}

// SplitMax chops any fragment whose left span exceeds the bitap word
// width into several smaller fragments, each carrying rolling context
// from its neighbor so bitap always has something to anchor on. margin
// is the padding length the caller applied to the buffer being matched
// against, so the rolling context SplitMax carries matches what's
// actually available at the edges.
func SplitMax(margin int, p Patch) Patch {
	margin = clampInt(margin, 0, WordBits-1)
	budget := WordBits - margin
	out := make([]PatchFragment, 0, len(p.Fragments))

	for _, big := range p.Fragments {
		if big.LeftSpan.Length <= WordBits {
			out = append(out, big)
			continue
		}
		start1, start2 := big.LeftSpan.Offset, big.RightSpan.Offset
		var precontext buffer.Slice
		remaining := append([]Fragment(nil), big.Diffs...)

		for len(remaining) != 0 {
			pf := PatchFragment{LeftSpan: LongSpan{Offset: start1 - precontext.Length()}, RightSpan: LongSpan{Offset: start2 - precontext.Length()}, empty: true}
			if !precontext.Empty() {
				pf.LeftSpan.Length = precontext.Length()
				pf.RightSpan.Length = precontext.Length()
				pf.Diffs = append(pf.Diffs, eq(precontext))
			}
			for len(remaining) != 0 && pf.LeftSpan.Length < budget {
				d := remaining[0]
				switch {
				case d.Op == OpInsert:
					pf.RightSpan.Length += d.Len()
					start2 += d.Len()
					pf.Diffs = append(pf.Diffs, d)
					pf.empty = false
					remaining = remaining[1:]
				case d.Op == OpDelete && len(pf.Diffs) == 1 && pf.Diffs[0].Op == OpEqual && d.Len() > 2*WordBits:
					pf.LeftSpan.Length += d.Len()
					start1 += d.Len()
					pf.empty = false
					pf.Diffs = append(pf.Diffs, d)
					remaining = remaining[1:]
				default:
					take := minInt(d.Len(), budget-pf.LeftSpan.Length)
					head := d.Data.Head(take)
					pf.LeftSpan.Length += take
					start1 += take
					if d.Op == OpEqual {
						pf.RightSpan.Length += take
						start2 += take
					} else {
						pf.empty = false
					}
					pf.Diffs = append(pf.Diffs, Fragment{Op: d.Op, Data: head})
					if take == d.Len() {
						remaining = remaining[1:]
					} else {
						remaining[0] = Fragment{Op: d.Op, Data: d.Data.Cut(take)}
					}
				}
			}

			postHunk := Diff{Fragments: pf.Diffs}.Extract(OpDelete)
			precontext = postHunk.Tail(minInt(postHunk.Length(), margin))

			remDiff := Diff{Fragments: remaining}
			remainingLeft := remDiff.Extract(OpInsert)
			postcontext := remainingLeft.Head(minInt(remainingLeft.Length(), margin))
			if !postcontext.Empty() {
				pf.LeftSpan.Length += postcontext.Length()
				pf.RightSpan.Length += postcontext.Length()
				if n := len(pf.Diffs); n != 0 && pf.Diffs[n-1].Op == OpEqual {
					pf.Diffs[n-1] = eq(pf.Diffs[n-1].Data.Concat(postcontext))
				} else {
					pf.Diffs = append(pf.Diffs, eq(postcontext))
				}
			}
			if !pf.empty {
				out = append(out, pf)
			}
		}
	}
	return Patch{Fragments: out, MatchDistance: p.MatchDistance, MatchThresh: p.MatchThresh, DeleteThresh: p.DeleteThresh}
}

// applyPadding builds a sentinel buffer of paddingLength synthetic bytes
// (1..paddingLength) and returns a deep copy of the fragments, shifted
// forward by paddingLength and extended at both ends so bitap always has
// context at the document edges.
func applyPadding(p Patch, paddingLength int) (Patch, buffer.Slice) {
	pad := make([]byte, paddingLength)
	for i := range pad {
		pad[i] = byte(i + 1)
	}
	nullPad := buffer.New(pad)

	out := make([]PatchFragment, len(p.Fragments))
	for i, pf := range p.Fragments {
		cp := pf.deepCopy()
		cp.LeftSpan.Offset += paddingLength
		cp.RightSpan.Offset += paddingLength
		out[i] = cp
	}
	if len(out) == 0 {
		return Patch{Fragments: out, MatchDistance: p.MatchDistance, MatchThresh: p.MatchThresh, DeleteThresh: p.DeleteThresh}, nullPad
	}

	first := &out[0]
	if len(first.Diffs) == 0 || first.Diffs[0].Op != OpEqual {
		first.Diffs = append([]Fragment{eq(nullPad)}, first.Diffs...)
		first.LeftSpan = LongSpan{Offset: first.LeftSpan.Offset - paddingLength, Length: first.LeftSpan.Length + paddingLength}
		first.RightSpan = LongSpan{Offset: first.RightSpan.Offset - paddingLength, Length: first.RightSpan.Length + paddingLength}
	} else if paddingLength > first.Diffs[0].Len() {
		extra := paddingLength - first.Diffs[0].Len()
		grown := nullPad.Tail(extra).Concat(first.Diffs[0].Data)
		first.Diffs[0] = eq(grown)
		first.LeftSpan = LongSpan{Offset: first.LeftSpan.Offset - extra, Length: first.LeftSpan.Length + extra}
		first.RightSpan = LongSpan{Offset: first.RightSpan.Offset - extra, Length: first.RightSpan.Length + extra}
	}

	last := &out[len(out)-1]
	lastIdx := len(last.Diffs) - 1
	if lastIdx < 0 || last.Diffs[lastIdx].Op != OpEqual {
		last.Diffs = append(last.Diffs, eq(nullPad))
		last.LeftSpan.Length += paddingLength
		last.RightSpan.Length += paddingLength
	} else if paddingLength > last.Diffs[lastIdx].Len() {
		extra := paddingLength - last.Diffs[lastIdx].Len()
		last.Diffs[lastIdx] = eq(last.Diffs[lastIdx].Data.Concat(nullPad.Head(extra)))
		last.LeftSpan.Length += extra
		last.RightSpan.Length += extra
	}
	return Patch{Fragments: out, MatchDistance: p.MatchDistance, MatchThresh: p.MatchThresh, DeleteThresh: p.DeleteThresh}, nullPad
}

// Apply merges the patch onto buf, returning the patched buffer and a
// bitset recording which fragments were successfully applied.
func (p Patch) Apply(cfg *Config, buf buffer.Slice) (buffer.Slice, []bool, error) {
	return p.ApplyWithPadding(cfg, buf, cfg.PatchMargin)
}

// ApplyWithPadding is Apply with an explicit padding length, exposed for
// callers that need to match the padding of a patch produced elsewhere.
func (p Patch) ApplyWithPadding(cfg *Config, buf buffer.Slice, paddingLength int) (buffer.Slice, []bool, error) {
	if len(p.Fragments) == 0 {
		return buf, nil, nil
	}
	if paddingLength >= WordBits {
		return buffer.Slice{}, nil, fmt.Errorf("%w: paddingLength %d >= word width %d", ErrInvalidArgument, paddingLength, WordBits)
	}

	padded, nullPad := applyPadding(p, paddingLength)
	patched := nullPad.Concat(buf).Concat(nullPad)
	padded = SplitMax(paddingLength, padded)

	bc := cfg.bitapConfig()
	applied := make([]bool, len(padded.Fragments))
	delta := 0

	for i, f := range padded.Fragments {
		expected := f.RightSpan.Offset + delta
		left := f.leftBuffer()

		var startLoc, endLoc int
		endLoc = -1
		if left.Length() > WordBits {
			startLoc = bc.Search(patched.Bytes(), left.Head(WordBits).Bytes(), expected)
			if startLoc != -1 {
				endLoc = bc.Search(patched.Bytes(), left.Tail(WordBits).Bytes(), expected+left.Length()-WordBits)
				if endLoc == -1 || startLoc >= endLoc {
					startLoc = -1
				}
			}
		} else {
			startLoc = bc.Search(patched.Bytes(), left.Bytes(), expected)
		}

		if startLoc == -1 {
			delta -= f.RightSpan.Length - f.LeftSpan.Length
			continue
		}

		applied[i] = true
		delta = startLoc - expected
		var patchedText buffer.Slice
		if endLoc == -1 {
			patchedText = patched.Range(startLoc, minInt(startLoc+left.Length(), patched.Length()))
		} else {
			patchedText = patched.Range(startLoc, minInt(endLoc+WordBits, patched.Length()))
		}

		if patchedText.Equal(left) {
			right := f.rightBuffer()
			patched = patched.Head(startLoc).Concat(right).Concat(patched.Cut(startLoc + left.Length()))
			continue
		}

		deadline, bounded := cfg.deadline()
		if minInt(left.Length(), patchedText.Length()) < 1<<20 {
			bounded = false
		}
		inner := buildDiff(cfg, left, patchedText, deadline, bounded)
		if left.Length() > WordBits && float64(inner.Levenshtein())/float64(left.Length()) > p.DeleteThresh {
			applied[i] = false
			continue
		}

		idx1 := 0
		for _, d := range f.Diffs {
			if d.Op == OpEqual {
				idx1 += d.Len()
				continue
			}
			idx2 := inner.MapIndex(idx1)
			switch d.Op {
			case OpInsert:
				pos := startLoc + idx2
				patched = patched.Head(pos).Concat(d.Data).Concat(patched.Cut(pos))
			case OpDelete:
				from := startLoc + idx2
				to := startLoc + inner.MapIndex(idx1+d.Len())
				patched = patched.Head(from).Concat(patched.Cut(to))
			}
			if d.Op != OpDelete {
				idx1 += d.Len()
			}
		}
		applied[i] = true
	}

	stripped := patched.Range(nullPad.Length(), patched.Length()-nullPad.Length())
	return stripped, applied, nil
}

// Reverse produces the patch that applies to the right-hand buffer to
// reproduce the left-hand one: spans swap, DELETE and INSERT invert,
// EQUAL is unchanged, and each fragment's spans are shifted by the net
// length change accumulated by the fragments before it.
func (p Patch) Reverse() Patch {
	out := Patch{MatchDistance: p.MatchDistance, MatchThresh: p.MatchThresh, DeleteThresh: p.DeleteThresh}
	offset := 0
	for _, pf := range p.Fragments {
		rev := PatchFragment{
			LeftSpan:  LongSpan{Offset: pf.RightSpan.Offset + offset, Length: pf.RightSpan.Length},
			RightSpan: LongSpan{Offset: pf.LeftSpan.Offset + offset, Length: pf.LeftSpan.Length},
		}
		for _, d := range pf.Diffs {
			switch d.Op {
			case OpDelete:
				offset += d.Len()
				rev.Diffs = append(rev.Diffs, ins(d.Data))
			case OpInsert:
				offset -= d.Len()
				rev.Diffs = append(rev.Diffs, del(d.Data))
			default:
				rev.Diffs = append(rev.Diffs, d)
			}
		}
		out.Fragments = append(out.Fragments, rev)
	}
	return out
}
