package bytepatch

import (
	"time"

	"github.com/dmpcore/bytepatch/buffer"
)

// Diff is an ordered sequence of fragments. Concatenating the slices of
// its non-INSERT fragments reproduces the left buffer; concatenating the
// slices of its non-DELETE fragments reproduces the right buffer.
type Diff struct {
	Fragments []Fragment
}

// BuildDiff produces a canonical diff between l and r, honoring cfg's
// wall-clock deadline. A zero DiffTimeout means unbounded: the half-match
// heuristic is disabled in that case so the result stays minimal.
func BuildDiff(cfg *Config, l, r buffer.Slice) Diff {
	deadline, bounded := cfg.deadline()
	return buildDiff(cfg, l, r, deadline, bounded)
}

func buildDiff(cfg *Config, l, r buffer.Slice, deadline time.Time, bounded bool) Diff {
	if l.Equal(r) {
		if l.Empty() {
			return Diff{}
		}
		return Diff{Fragments: []Fragment{eq(l)}}
	}

	p := l.CommonPrefix(r)
	prefix := l.Head(p)
	l = l.Cut(p)
	r = r.Cut(p)

	s := l.CommonSuffix(r)
	suffix := l.Tail(s)
	l = l.Trunc(l.Length() - s)
	r = r.Trunc(r.Length() - s)

	var frags []Fragment
	if !prefix.Empty() {
		frags = append(frags, eq(prefix))
	}
	frags = append(frags, computeMiddle(cfg, l, r, deadline, bounded)...)
	if !suffix.Empty() {
		frags = append(frags, eq(suffix))
	}
	return cleanup(Diff{Fragments: frags})
}

// computeMiddle implements diff compute (spec 4.1.1) on two middles with
// no common prefix or suffix.
func computeMiddle(cfg *Config, a, b buffer.Slice, deadline time.Time, bounded bool) []Fragment {
	if a.Empty() {
		if b.Empty() {
			return nil
		}
		return []Fragment{ins(b)}
	}
	if b.Empty() {
		return []Fragment{del(a)}
	}

	long, short := a, b
	if b.Length() > a.Length() {
		long, short = b, a
	}
	if pos := long.PositionOf(short, 0); pos != -1 {
		op := OpInsert
		if a.Length() > b.Length() {
			op = OpDelete
		}
		pre := long.Head(pos)
		post := long.Cut(pos + short.Length())
		var out []Fragment
		if !pre.Empty() {
			out = append(out, Fragment{Op: op, Data: pre})
		}
		out = append(out, eq(short))
		if !post.Empty() {
			out = append(out, Fragment{Op: op, Data: post})
		}
		return out
	}

	if short.Length() == 1 {
		return []Fragment{del(a), ins(b)}
	}

	if bounded {
		if hm, ok := halfMatch(a, b); ok {
			head := buildDiff(cfg, hm.Text1A, hm.Text2A, deadline, bounded)
			tail := buildDiff(cfg, hm.Text1B, hm.Text2B, deadline, bounded)
			out := make([]Fragment, 0, len(head.Fragments)+1+len(tail.Fragments))
			out = append(out, head.Fragments...)
			out = append(out, eq(hm.CommonMid))
			out = append(out, tail.Fragments...)
			return out
		}
	}

	return bisect(cfg, a, b, deadline, bounded)
}

// Extract concatenates the slices of every fragment whose operation is
// not ignoreOp. With ignoreOp = OpInsert this reconstructs the left
// buffer; with OpDelete it reconstructs the right buffer.
func (d Diff) Extract(ignoreOp Op) buffer.Slice {
	var parts []buffer.Slice
	for _, f := range d.Fragments {
		if f.Op != ignoreOp {
			parts = append(parts, f.Data)
		}
	}
	return buffer.Merge(parts...)
}

// Left reconstructs the original left-hand buffer.
func (d Diff) Left() buffer.Slice { return d.Extract(OpInsert) }

// Right reconstructs the original right-hand buffer.
func (d Diff) Right() buffer.Slice { return d.Extract(OpDelete) }

// Levenshtein returns, for each maximal edit run, max(inserted, deleted)
// bytes, summed across the whole diff. It upper-bounds the classical edit
// distance and doubles as a fitness score for imperfect patch
// application.
func (d Diff) Levenshtein() int {
	total := 0
	insertions, deletions := 0, 0
	for _, f := range d.Fragments {
		switch f.Op {
		case OpInsert:
			insertions += f.Len()
		case OpDelete:
			deletions += f.Len()
		case OpEqual:
			total += maxInt(insertions, deletions)
			insertions, deletions = 0, 0
		}
	}
	total += maxInt(insertions, deletions)
	return total
}

// MapIndex translates a byte position in the left buffer into the
// corresponding position in the right buffer, accounting for deletions
// (a position that falls inside a deleted span clamps to the position
// immediately after the deletion).
func (d Diff) MapIndex(loc int) int {
	chars1, chars2 := 0, 0
	lastChars1, lastChars2 := 0, 0
	var last Fragment
	found := false
	for _, f := range d.Fragments {
		if f.Op != OpInsert {
			chars1 += f.Len()
		}
		if f.Op != OpDelete {
			chars2 += f.Len()
		}
		if chars1 > loc {
			last = f
			found = true
			break
		}
		lastChars1 = chars1
		lastChars2 = chars2
	}
	if found && last.Op == OpDelete {
		return lastChars2
	}
	return lastChars2 + (loc - lastChars1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
