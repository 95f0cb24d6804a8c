package bytepatch

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmpcore/bytepatch/buffer"
)

// Encode crushes a diff into a compact tab-separated description of the
// operations needed to turn the left buffer into the right one, e.g.
// "=3\t-2\t+ing" keeps 3 bytes, deletes 2, inserts "ing". EQUAL and
// DELETE record a byte count; INSERT carries its payload percent-encoded
// the same way the patch text format does.
func (d Diff) Encode() string {
	var buf bytes.Buffer
	for _, f := range d.Fragments {
		switch f.Op {
		case OpInsert:
			buf.WriteByte('+')
			buf.WriteString(encodePayload(f.Data))
			buf.WriteByte('\t')
		case OpDelete:
			buf.WriteByte('-')
			buf.WriteString(strconv.Itoa(f.Len()))
			buf.WriteByte('\t')
		case OpEqual:
			buf.WriteByte('=')
			buf.WriteString(strconv.Itoa(f.Len()))
			buf.WriteByte('\t')
		}
	}
	delta := buf.String()
	return strings.TrimSuffix(delta, "\t")
}

// DecodeDiff reconstructs a diff against left from a delta previously
// produced by Diff.Encode. It fails with MALFORMED_PATCH if the delta's
// total consumed length doesn't exactly match left.
func DecodeDiff(left buffer.Slice, delta string) (Diff, error) {
	var frags []Fragment
	i := 0
	for _, token := range strings.Split(delta, "\t") {
		if token == "" {
			continue
		}
		op, param := token[0], token[1:]
		switch op {
		case '+':
			data, err := decodePayload(param)
			if err != nil {
				return Diff{}, err
			}
			frags = append(frags, ins(data))
		case '=', '-':
			n, err := strconv.Atoi(param)
			if err != nil || n < 0 {
				return Diff{}, fmt.Errorf("%w: bad length token %q", ErrMalformedPatch, token)
			}
			if i+n > left.Length() {
				return Diff{}, fmt.Errorf("%w: delta overruns source length", ErrMalformedPatch)
			}
			span := left.Range(i, i+n)
			i += n
			if op == '=' {
				frags = append(frags, eq(span))
			} else {
				frags = append(frags, del(span))
			}
		default:
			return Diff{}, fmt.Errorf("%w: unknown delta operation %q", ErrMalformedPatch, string(op))
		}
	}
	if i != left.Length() {
		return Diff{}, fmt.Errorf("%w: delta length %d differs from source length %d", ErrMalformedPatch, i, left.Length())
	}
	return Diff{Fragments: frags}, nil
}
