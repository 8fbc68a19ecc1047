package geometry

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// withoutInlineImages returns a content stream the tokenizer can walk.
// Inline image data (BI ... ID <binary> EI) is not valid PDF syntax, so
// streams that contain it are decoded, stripped of the image and rewrapped.
// Streams without inline images are returned unchanged.
func withoutInlineImages(strm pdf.Value) pdf.Value {
	rd := strm.Reader()
	data, err := io.ReadAll(rd)
	rd.Close()
	if err != nil {
		return strm
	}

	stripped, changed := stripInlineImages(data)
	if !changed {
		return strm
	}

	clean, err := standalone(stripped)
	if err != nil {
		panic(fmt.Errorf("rewrap content stream: %w", err))
	}
	return clean
}

// stripInlineImages removes every BI ... EI span from decoded content and
// reports whether anything was removed.
func stripInlineImages(src []byte) ([]byte, bool) {
	var out []byte
	last := 0
	for i := 0; i < len(src); {
		start, end := nextToken(src, i)
		if start == len(src) {
			break
		}
		i = end
		if string(src[start:end]) != "BI" {
			continue
		}

		// one whitespace byte separates ID from the image data
		dataStart := -1
		for j := end; j < len(src); {
			s, e := nextToken(src, j)
			if s == len(src) {
				break
			}
			j = e
			if string(src[s:e]) == "ID" {
				dataStart = e + 1
				break
			}
		}

		stop := len(src)
		if dataStart >= 0 && dataStart <= len(src) {
			if k := findEI(src, dataStart); k >= 0 {
				stop = k + 2
			}
		}

		out = append(out, src[last:start]...)
		out = append(out, ' ')
		last = stop
		i = stop
	}

	if out == nil {
		return src, false
	}
	return append(out, src[last:]...), true
}

// findEI returns the offset of the EI operator that ends image data
// starting at from, or -1.
func findEI(src []byte, from int) int {
	for k := from; k+1 < len(src); k++ {
		if src[k] != 'E' || src[k+1] != 'I' {
			continue
		}
		if k > from && !isWhite(src[k-1]) {
			continue
		}
		if k+2 < len(src) && !isWhite(src[k+2]) && !isDelim(src[k+2]) {
			continue
		}
		return k
	}
	return -1
}

// nextToken returns the span of the first token at or after i, skipping
// whitespace and comments. At the end of src both offsets are len(src).
func nextToken(src []byte, i int) (int, int) {
	for i < len(src) {
		switch c := src[i]; {
		case isWhite(c):
			i++
		case c == '%':
			for i < len(src) && src[i] != '\n' && src[i] != '\r' {
				i++
			}
		default:
			return i, tokenEnd(src, i)
		}
	}
	return len(src), len(src)
}

func tokenEnd(src []byte, i int) int {
	switch src[i] {
	case '(':
		depth := 0
		for ; i < len(src); i++ {
			switch src[i] {
			case '\\':
				i++
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
		return len(src)
	case '<':
		if i+1 < len(src) && src[i+1] == '<' {
			return i + 2
		}
		if j := bytes.IndexByte(src[i:], '>'); j >= 0 {
			return i + j + 1
		}
		return len(src)
	case '>':
		if i+1 < len(src) && src[i+1] == '>' {
			return i + 2
		}
		return i + 1
	case ')', '[', ']', '{', '}':
		return i + 1
	case '/':
		i++
	}
	for i < len(src) && !isWhite(src[i]) && !isDelim(src[i]) {
		i++
	}
	return i
}

func isWhite(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// standalone wraps decoded content in a one-object PDF so it can be read
// back as a stream value.
func standalone(content []byte) (pdf.Value, error) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offset := buf.Len()
	fmt.Fprintf(&buf, "1 0 obj\n<< /Length %d >>\nstream\n", len(content))
	buf.Write(content)
	buf.WriteString("\nendstream\nendobj\n")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 2\n0000000000 65535 f \n%010d 00000 n \n", offset)
	fmt.Fprintf(&buf, "trailer\n<< /Size 2 /Contents 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return pdf.Value{}, err
	}
	return r.Trailer().Key("Contents"), nil
}
