package bytepatch

import "github.com/dmpcore/bytepatch/buffer"

// halfMatchResult carries the outcome of the half-match heuristic,
// oriented so Text1* belong to the first diff input and Text2* to the
// second.
type halfMatchResult struct {
	Text1A, Text1B buffer.Slice
	Text2A, Text2B buffer.Slice
	CommonMid      buffer.Slice
}

// halfMatch finds a substring common to both text1 and text2 that is at
// least half the length of the longer of the two, allowing divide and
// conquer ahead of a full bisect. It is a speed/quality trade and is only
// ever invoked by computeMiddle when a wall-clock deadline is in effect.
func halfMatch(text1, text2 buffer.Slice) (halfMatchResult, bool) {
	long, short := text1, text2
	text1Longer := true
	if text2.Length() > text1.Length() {
		long, short = text2, text1
		text1Longer = false
	}
	if long.Length() < 4 || short.Length()*2 < long.Length() {
		return halfMatchResult{}, false
	}

	hm1, ok1 := halfMatchSeed(long, short, (long.Length()+3)/4)
	hm2, ok2 := halfMatchSeed(long, short, (long.Length()+1)/2)

	var hm halfMatchResult
	switch {
	case !ok1 && !ok2:
		return halfMatchResult{}, false
	case !ok2:
		hm = hm1
	case !ok1:
		hm = hm2
	default:
		if hm1.CommonMid.Length() > hm2.CommonMid.Length() {
			hm = hm1
		} else {
			hm = hm2
		}
	}

	if text1Longer {
		return hm, true
	}
	// hm was computed with "long" = text2 and "short" = text1; swap the
	// A/B pairs so Text1* belongs to the original text1.
	return halfMatchResult{
		Text1A:    hm.Text2A,
		Text1B:    hm.Text2B,
		Text2A:    hm.Text1A,
		Text2B:    hm.Text1B,
		CommonMid: hm.CommonMid,
	}, true
}

// halfMatchSeed checks whether a quarter-length seed of long taken at i
// occurs in short, extending each occurrence by its common prefix/suffix
// against the unconsumed portions of long, and returns the longest such
// extension.
func halfMatchSeed(long, short buffer.Slice, i int) (halfMatchResult, bool) {
	seed := long.Range(i, i+long.Length()/4)

	var bestCommonA, bestCommonB buffer.Slice
	var bestCommonLen int
	var bestLongA, bestLongB buffer.Slice
	var bestShortA, bestShortB buffer.Slice

	for j := short.PositionOf(seed, 0); j != -1; j = short.PositionOf(seed, j+1) {
		prefixLen := long.Cut(i).CommonPrefix(short.Cut(j))
		suffixLen := long.Trunc(i).CommonSuffix(short.Trunc(j))
		if bestCommonLen < suffixLen+prefixLen {
			bestCommonA = short.Range(j-suffixLen, j)
			bestCommonB = short.Range(j, j+prefixLen)
			bestCommonLen = bestCommonA.Length() + bestCommonB.Length()
			bestLongA = long.Trunc(i - suffixLen)
			bestLongB = long.Cut(i + prefixLen)
			bestShortA = short.Trunc(j - suffixLen)
			bestShortB = short.Cut(j + prefixLen)
		}
	}
	if bestCommonLen*2 < long.Length() {
		return halfMatchResult{}, false
	}
	return halfMatchResult{
		Text1A:    bestLongA,
		Text1B:    bestLongB,
		Text2A:    bestShortA,
		Text2B:    bestShortB,
		CommonMid: bestCommonA.Concat(bestCommonB),
	}, true
}
