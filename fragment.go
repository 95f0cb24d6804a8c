package bytepatch

import "github.com/dmpcore/bytepatch/buffer"

// Fragment pairs an operation with the buffer slice it applies to. A
// canonicalized Diff never contains a Fragment with an empty slice.
type Fragment struct {
	Op   Op
	Data buffer.Slice
}

// Len returns the number of bytes covered by the fragment.
func (f Fragment) Len() int {
	return f.Data.Length()
}

func eq(s buffer.Slice) Fragment  { return Fragment{Op: OpEqual, Data: s} }
func ins(s buffer.Slice) Fragment { return Fragment{Op: OpInsert, Data: s} }
func del(s buffer.Slice) Fragment { return Fragment{Op: OpDelete, Data: s} }
