// Package bitap implements the Baeza-Yates-Gonnet approximate string
// matcher used to fuzzily relocate patch context against a drifted
// buffer. It is bounded to patterns of at most WordBits bytes, since the
// algorithm packs one bit per pattern byte into a machine word.
package bitap

import (
	"bytes"
	"math"
)

// WordBits is the bitap word width this package is hard-coded to. It
// bounds the longest pattern Search will accept and is plumbed through
// the patch package's split/pad logic so patterns never exceed it.
const WordBits = 32

// Config holds the tunables controlling how far from the anchor, and how
// imperfect, a match may be.
type Config struct {
	// Distance controls how far a match may be from the expected location
	// before it is penalized. 0 means only an exact location is
	// acceptable; large values (1000+) mean the location barely matters.
	Distance int
	// Threshold is the score, in [0,1], above which no match is reported.
	// 0 requires a perfect match; 1 accepts anything.
	Threshold float64
}

// Search locates the best instance of pattern in text near loc, returning
// its absolute index, or -1 if no match scores at or under the
// configured threshold. len(pattern) must be <= WordBits.
func (c Config) Search(text, pattern []byte, loc int) int {
	loc = clamp(loc, 0, len(text))
	if len(pattern) == 0 {
		return loc
	}
	if len(text) == 0 {
		return -1
	}
	if loc+len(pattern) <= len(text) && equalAt(text, pattern, loc) {
		return loc
	}
	return c.searchFuzzy(text, pattern, loc)
}

func equalAt(text, pattern []byte, loc int) bool {
	for i, b := range pattern {
		if text[loc+i] != b {
			return false
		}
	}
	return true
}

// searchFuzzy runs the bitap scan proper. Ported directly from the
// classic diff-match-patch algorithm, generalized to operate on raw
// bytes rather than runes, since comparisons in this module are always
// byte-exact.
func (c Config) searchFuzzy(text, pattern []byte, loc int) int {
	alphabet := alphabet(pattern)
	scoreThreshold := c.Threshold
	if bestLoc := indexOf(text, pattern, loc); bestLoc != -1 {
		scoreThreshold = math.Min(c.score(0, bestLoc, loc, len(pattern)), scoreThreshold)
		if bestLoc = lastIndexOf(text, pattern, loc+len(pattern)); bestLoc != -1 {
			scoreThreshold = math.Min(c.score(0, bestLoc, loc, len(pattern)), scoreThreshold)
		}
	}
	matchmask := 1 << uint(len(pattern)-1)
	bestLoc := -1
	binMax := len(pattern) + len(text)
	var lastRd []int
	for d := 0; d < len(pattern); d++ {
		binMin, binMid := 0, binMax
		for binMin < binMid {
			if c.score(d, loc+binMid, loc, len(pattern)) <= scoreThreshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid
		start := max(1, loc-binMid+1)
		finish := min(loc+binMid, len(text)) + len(pattern)
		rd := make([]int, finish+2)
		rd[finish+1] = (1 << uint(d)) - 1
		for j := finish; j >= start; j-- {
			var charMatch int
			if j-1 >= len(text) {
				charMatch = 0
			} else {
				charMatch = alphabet[text[j-1]]
			}
			if d == 0 {
				rd[j] = ((rd[j+1] << 1) | 1) & charMatch
			} else {
				rd[j] = ((rd[j+1]<<1)|1)&charMatch | (((lastRd[j+1] | lastRd[j]) << 1) | 1) | lastRd[j+1]
			}
			if rd[j]&matchmask != 0 {
				score := c.score(d, j-1, loc, len(pattern))
				if score <= scoreThreshold {
					scoreThreshold = score
					bestLoc = j - 1
					if bestLoc > loc {
						start = max(1, 2*loc-bestLoc)
					} else {
						break
					}
				}
			}
		}
		if c.score(d+1, loc, loc, len(pattern)) > scoreThreshold {
			break
		}
		lastRd = rd
	}
	return bestLoc
}

// score computes the match score for e errors at location x.
func (c Config) score(e, x, loc, patternLen int) float64 {
	accuracy := float64(e) / float64(patternLen)
	proximity := math.Abs(float64(loc - x))
	if c.Distance == 0 {
		if proximity == 0 {
			return accuracy
		}
		return 1.0
	}
	return accuracy + proximity/float64(c.Distance)
}

// alphabet builds the bitmask table mapping each pattern byte to the set
// of positions it occupies in pattern, most significant bit first.
func alphabet(pattern []byte) [256]int {
	var s [256]int
	for i, c := range pattern {
		s[c] |= 1 << uint(len(pattern)-i-1)
	}
	return s
}

func indexOf(text, pattern []byte, from int) int {
	if from > len(text)-1 {
		if len(pattern) == 0 && from <= len(text) {
			return from
		}
		return -1
	}
	if from <= 0 {
		return bytes.Index(text, pattern)
	}
	idx := bytes.Index(text[from:], pattern)
	if idx == -1 {
		return -1
	}
	return idx + from
}

func lastIndexOf(text, pattern []byte, from int) int {
	if from < 0 {
		return -1
	}
	if from >= len(text) {
		return bytes.LastIndex(text, pattern)
	}
	return bytes.LastIndex(text[:from+1], pattern)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
