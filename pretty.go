package bytepatch

import "bytes"

// PrettyText renders a diff as ANSI-colored text: insertions in green,
// deletions in red, equalities uncolored. Intended for terminal output,
// not for storage or interchange.
func (d Diff) PrettyText() string {
	var buf bytes.Buffer
	for _, f := range d.Fragments {
		switch f.Op {
		case OpInsert:
			buf.WriteString("\x1b[32m")
			buf.Write(f.Data.Bytes())
			buf.WriteString("\x1b[0m")
		case OpDelete:
			buf.WriteString("\x1b[31m")
			buf.Write(f.Data.Bytes())
			buf.WriteString("\x1b[0m")
		case OpEqual:
			buf.Write(f.Data.Bytes())
		}
	}
	return buf.String()
}
