package bytepatch

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmpcore/bytepatch/buffer"
)

// preservedEscapes is the set of percent-escapes left unescaped in the
// payload encoding, the punctuation that reads fine in a human-facing
// diff without being form-encoded: ! ~ ' ( ) ; / ? : @ & = + $ , #
var preservedEscapes = strings.NewReplacer(
	"%21", "!", "%7E", "~", "%27", "'",
	"%28", "(", "%29", ")", "%3B", ";",
	"%2F", "/", "%3F", "?", "%3A", ":",
	"%40", "@", "%26", "&", "%3D", "=",
	"%2B", "+", "%24", "$", "%2C", ",",
	"%23", "#",
)

var patchHeaderRE = regexp.MustCompile(`^@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@$`)

// Text renders the patch in the unified-diff-like percent-encoded format
// described in the patch text format section: one header and body block
// per fragment, body lines prefixed with the fragment's operation glyph.
func (p Patch) Text() string {
	var buf bytes.Buffer
	for _, pf := range p.Fragments {
		buf.WriteString(fragmentHeader(pf))
		buf.WriteByte('\n')
		for _, d := range pf.Diffs {
			buf.WriteByte(d.Op.Glyph())
			buf.WriteString(encodePayload(d.Data))
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

func fragmentHeader(pf PatchFragment) string {
	return fmt.Sprintf("@@ -%s +%s @@", coords(pf.LeftSpan), coords(pf.RightSpan))
}

func coords(s LongSpan) string {
	switch {
	case s.Length == 0:
		return fmt.Sprintf("%d,0", s.Offset)
	case s.Length == 1:
		return strconv.Itoa(s.Offset + 1)
	default:
		return fmt.Sprintf("%d,%d", s.Offset+1, s.Length)
	}
}

// encodePayload percent-encodes a fragment's raw bytes like URL form
// encoding, except it leaves the punctuation in preservedEscapes
// unescaped and renders an encoded space as a literal space rather than
// '+'.
func encodePayload(s buffer.Slice) string {
	escaped := url.QueryEscape(string(s.Bytes()))
	escaped = strings.ReplaceAll(escaped, "+", " ")
	return preservedEscapes.Replace(escaped)
}

// decodePayload reverses encodePayload: any literal '+' in the line is a
// real byte, not a space, so it is pre-escaped to %2B before standard
// form-url decoding; everything else, including literal spaces, decodes
// via url.QueryUnescape.
func decodePayload(line string) (buffer.Slice, error) {
	pre := strings.ReplaceAll(line, "+", "%2B")
	decoded, err := url.QueryUnescape(pre)
	if err != nil {
		return buffer.Slice{}, fmt.Errorf("%w: bad percent-escape in %q: %v", ErrMalformedPatch, line, err)
	}
	return buffer.New([]byte(decoded)), nil
}

// ParsePatch parses the textual representation produced by Text. Blank
// lines between fragments are tolerated; anything else that fails to
// match a header or a recognized body-line glyph is MALFORMED_PATCH.
func ParsePatch(cfg *Config, text string) (Patch, error) {
	p := Patch{
		MatchDistance: cfg.MatchDistance,
		MatchThresh:   cfg.MatchThreshold,
		DeleteThresh:  cfg.PatchDeleteThreshold,
	}
	if len(text) == 0 {
		return p, nil
	}
	lines := strings.Split(text, "\n")
	i := 0
	for i < len(lines) {
		if lines[i] == "" {
			i++
			continue
		}
		m := patchHeaderRE.FindStringSubmatch(lines[i])
		if m == nil {
			return Patch{}, fmt.Errorf("%w: invalid patch header %q", ErrMalformedPatch, lines[i])
		}
		pf, err := parseHeader(m)
		if err != nil {
			return Patch{}, err
		}
		i++
		for i < len(lines) {
			line := lines[i]
			if line == "" {
				i++
				continue
			}
			if line[0] == '@' {
				break
			}
			op, ok := OpFromGlyph(line[0])
			if !ok {
				return Patch{}, fmt.Errorf("%w: unknown operation glyph %q", ErrMalformedPatch, line[0])
			}
			data, err := decodePayload(line[1:])
			if err != nil {
				return Patch{}, err
			}
			pf.Diffs = append(pf.Diffs, Fragment{Op: op, Data: data})
			i++
		}
		p.Fragments = append(p.Fragments, pf)
	}
	return p, nil
}

func parseHeader(m []string) (PatchFragment, error) {
	var pf PatchFragment
	start1, err := strconv.Atoi(m[1])
	if err != nil {
		return pf, fmt.Errorf("%w: bad left offset in header", ErrMalformedPatch)
	}
	if m[2] == "" {
		pf.LeftSpan = LongSpan{Offset: start1 - 1, Length: 1}
	} else if m[2] == "0" {
		pf.LeftSpan = LongSpan{Offset: start1, Length: 0}
	} else {
		length1, err := strconv.Atoi(m[2])
		if err != nil {
			return pf, fmt.Errorf("%w: bad left length in header", ErrMalformedPatch)
		}
		pf.LeftSpan = LongSpan{Offset: start1 - 1, Length: length1}
	}

	start2, err := strconv.Atoi(m[3])
	if err != nil {
		return pf, fmt.Errorf("%w: bad right offset in header", ErrMalformedPatch)
	}
	if m[4] == "" {
		pf.RightSpan = LongSpan{Offset: start2 - 1, Length: 1}
	} else if m[4] == "0" {
		pf.RightSpan = LongSpan{Offset: start2, Length: 0}
	} else {
		length2, err := strconv.Atoi(m[4])
		if err != nil {
			return pf, fmt.Errorf("%w: bad right length in header", ErrMalformedPatch)
		}
		pf.RightSpan = LongSpan{Offset: start2 - 1, Length: length2}
	}
	return pf, nil
}
