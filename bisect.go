package bytepatch

import (
	"time"

	"github.com/dmpcore/bytepatch/buffer"
)

// bisect finds the middle snake of the edit graph between a and b using
// Myers' O(ND) algorithm, splits the problem in two at the meeting point,
// and recursively diffs each half. If the wall-clock deadline expires
// before a meeting point is found, it returns the degenerate
// [DELETE(a), INSERT(b)] result: a valid but non-minimal diff.
func bisect(cfg *Config, a, b buffer.Slice, deadline time.Time, bounded bool) []Fragment {
	aBytes, bBytes := a.Bytes(), b.Bytes()
	m, n := len(aBytes), len(bBytes)
	maxD := (m + n + 1) / 2
	vOffset := maxD
	vLen := 2 * maxD
	v1 := make([]int, vLen)
	v2 := make([]int, vLen)
	for i := range v1 {
		v1[i] = -1
		v2[i] = -1
	}
	v1[vOffset+1] = 0
	v2[vOffset+1] = 0
	delta := m - n
	front := delta%2 != 0
	k1start, k1end, k2start, k2end := 0, 0, 0, 0

	for d := 0; d < maxD; d++ {
		if bounded && time.Now().After(deadline) {
			break
		}
		for k1 := -d + k1start; k1 <= d-k1end; k1 += 2 {
			k1Offset := vOffset + k1
			var x1 int
			if k1 == -d || (k1 != d && v1[k1Offset-1] < v1[k1Offset+1]) {
				x1 = v1[k1Offset+1]
			} else {
				x1 = v1[k1Offset-1] + 1
			}
			y1 := x1 - k1
			for x1 < m && y1 < n && aBytes[x1] == bBytes[y1] {
				x1++
				y1++
			}
			v1[k1Offset] = x1
			switch {
			case x1 > m:
				k1end += 2
			case y1 > n:
				k1start += 2
			case front:
				k2Offset := vOffset + delta - k1
				if k2Offset >= 0 && k2Offset < vLen && v2[k2Offset] != -1 {
					x2 := m - v2[k2Offset]
					if x1 >= x2 {
						return bisectSplit(cfg, a, b, x1, y1, deadline, bounded)
					}
				}
			}
		}
		for k2 := -d + k2start; k2 <= d-k2end; k2 += 2 {
			k2Offset := vOffset + k2
			var x2 int
			if k2 == -d || (k2 != d && v2[k2Offset-1] < v2[k2Offset+1]) {
				x2 = v2[k2Offset+1]
			} else {
				x2 = v2[k2Offset-1] + 1
			}
			y2 := x2 - k2
			for x2 < m && y2 < n && aBytes[m-x2-1] == bBytes[n-y2-1] {
				x2++
				y2++
			}
			v2[k2Offset] = x2
			switch {
			case x2 > m:
				k2end += 2
			case y2 > n:
				k2start += 2
			case !front:
				k1Offset := vOffset + delta - k2
				if k1Offset >= 0 && k1Offset < vLen && v1[k1Offset] != -1 {
					x1 := v1[k1Offset]
					y1 := vOffset + x1 - k1Offset
					mirroredX2 := m - x2
					if x1 >= mirroredX2 {
						return bisectSplit(cfg, a, b, x1, y1, deadline, bounded)
					}
				}
			}
		}
	}
	return []Fragment{del(a), ins(b)}
}

func bisectSplit(cfg *Config, a, b buffer.Slice, x, y int, deadline time.Time, bounded bool) []Fragment {
	head := buildDiff(cfg, a.Trunc(x), b.Trunc(y), deadline, bounded)
	tail := buildDiff(cfg, a.Cut(x), b.Cut(y), deadline, bounded)
	out := make([]Fragment, 0, len(head.Fragments)+len(tail.Fragments))
	out = append(out, head.Fragments...)
	out = append(out, tail.Fragments...)
	return out
}
