package bytepatch

import "github.com/dmpcore/bytepatch/buffer"

// cleanup canonicalizes a raw fragment list: it accumulates consecutive
// INSERT/DELETE runs into a single DELETE followed by a single INSERT,
// factors out any common prefix/suffix between the two into the
// surrounding equalities, collapses adjacent equalities, then slides
// single edits across a neighboring equality whenever the edit's own
// text already ends with or begins with that equality's text. A shift
// can expose a fresh run for the first step to clean up, so the whole
// pass repeats until nothing moves.
func cleanup(d Diff) Diff {
	diffs := mergeRuns(d.Fragments)
	diffs, changed := shiftEdits(diffs)
	out := Diff{Fragments: diffs}
	if changed {
		return cleanup(out)
	}
	return out
}

// mergeRuns is the first pass: collapse every maximal run of
// INSERT/DELETE fragments into at most one DELETE and one INSERT, and
// merge adjacent EQUAL fragments.
func mergeRuns(in []Fragment) []Fragment {
	diffs := append([]Fragment(nil), in...)
	diffs = append(diffs, eq(buffer.Slice{})) // sentinel so the loop flushes the trailing run

	pointer := 0
	countDelete, countInsert := 0, 0
	var textDelete, textInsert buffer.Slice

	for pointer < len(diffs) {
		switch diffs[pointer].Op {
		case OpInsert:
			countInsert++
			textInsert = textInsert.Concat(diffs[pointer].Data)
			pointer++
		case OpDelete:
			countDelete++
			textDelete = textDelete.Concat(diffs[pointer].Data)
			pointer++
		case OpEqual:
			if countDelete+countInsert > 1 {
				if countDelete != 0 && countInsert != 0 {
					if p := textDelete.CommonPrefix(textInsert); p != 0 {
						x := pointer - countDelete - countInsert
						if x > 0 && diffs[x-1].Op == OpEqual {
							diffs[x-1] = eq(diffs[x-1].Data.Concat(textInsert.Head(p)))
						} else {
							diffs = append([]Fragment{eq(textInsert.Head(p))}, diffs...)
							pointer++
						}
						textInsert = textInsert.Cut(p)
						textDelete = textDelete.Cut(p)
					}
					if s := textDelete.CommonSuffix(textInsert); s != 0 {
						insertIdx := textInsert.Length() - s
						deleteIdx := textDelete.Length() - s
						diffs[pointer] = eq(textInsert.Cut(insertIdx).Concat(diffs[pointer].Data))
						textInsert = textInsert.Trunc(insertIdx)
						textDelete = textDelete.Trunc(deleteIdx)
					}
				}
				switch {
				case countDelete == 0:
					diffs = splice(diffs, pointer-countInsert, countDelete+countInsert, ins(textInsert))
				case countInsert == 0:
					diffs = splice(diffs, pointer-countDelete, countDelete+countInsert, del(textDelete))
				default:
					diffs = splice(diffs, pointer-countDelete-countInsert, countDelete+countInsert, del(textDelete), ins(textInsert))
				}
				pointer = pointer - countDelete - countInsert + 1
				if countDelete != 0 {
					pointer++
				}
				if countInsert != 0 {
					pointer++
				}
			} else if pointer != 0 && diffs[pointer-1].Op == OpEqual {
				diffs[pointer-1] = eq(diffs[pointer-1].Data.Concat(diffs[pointer].Data))
				diffs = append(diffs[:pointer], diffs[pointer+1:]...)
			} else {
				pointer++
			}
			countInsert, countDelete = 0, 0
			textDelete, textInsert = buffer.Slice{}, buffer.Slice{}
		}
	}
	if n := len(diffs); n > 0 && diffs[n-1].Data.Empty() {
		diffs = diffs[:n-1]
	}
	return diffs
}

// shiftEdits is the second pass: look for a single edit surrounded on
// both sides by equalities that can be shifted sideways to eliminate one
// of them, e.g. A<ins>BA</ins>C -> <ins>AB</ins>AC. Reports whether it
// moved anything.
func shiftEdits(in []Fragment) ([]Fragment, bool) {
	diffs := append([]Fragment(nil), in...)
	changed := false
	pointer := 1
	for pointer < len(diffs)-1 {
		prev, cur, next := diffs[pointer-1], diffs[pointer], diffs[pointer+1]
		if prev.Op != OpEqual || next.Op != OpEqual || cur.Op == OpEqual {
			pointer++
			continue
		}
		switch {
		case sliceHasSuffix(cur.Data, prev.Data):
			shifted := prev.Data.Concat(cur.Data.Trunc(cur.Data.Length() - prev.Data.Length()))
			diffs[pointer] = Fragment{Op: cur.Op, Data: shifted}
			diffs[pointer+1] = eq(prev.Data.Concat(next.Data))
			diffs = splice(diffs, pointer-1, 1)
			changed = true
		case sliceHasPrefix(cur.Data, next.Data):
			diffs[pointer-1] = eq(prev.Data.Concat(next.Data))
			diffs[pointer] = Fragment{Op: cur.Op, Data: cur.Data.Cut(next.Data.Length()).Concat(next.Data)}
			diffs = splice(diffs, pointer+1, 1)
			changed = true
		}
		pointer++
	}
	return diffs, changed
}

// splice removes deleteCount fragments starting at start and inserts
// items in their place, mirroring the classic JS Array.splice used
// throughout the diff-match-patch lineage.
func splice(s []Fragment, start, deleteCount int, items ...Fragment) []Fragment {
	tail := append([]Fragment(nil), s[start+deleteCount:]...)
	out := append(append([]Fragment(nil), s[:start]...), items...)
	return append(out, tail...)
}

func sliceHasSuffix(s, suffix buffer.Slice) bool {
	if suffix.Length() > s.Length() {
		return false
	}
	return s.Tail(suffix.Length()).Equal(suffix)
}

func sliceHasPrefix(s, prefix buffer.Slice) bool {
	if prefix.Length() > s.Length() {
		return false
	}
	return s.Head(prefix.Length()).Equal(prefix)
}
