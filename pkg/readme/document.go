package readme

import (
	"io"
)

// Document is the README as three byte regions. The file content is exactly
// Preamble + Body + Footer; nothing is inserted between them.
type Document struct {
	Preamble []byte
	Body     []byte
	Footer   []byte
}

// Len returns the size of the document in bytes.
func (d *Document) Len() int {
	return len(d.Preamble) + len(d.Body) + len(d.Footer)
}

// Bytes returns the concatenated document.
func (d *Document) Bytes() []byte {
	out := make([]byte, 0, d.Len())
	out = append(out, d.Preamble...)
	out = append(out, d.Body...)
	out = append(out, d.Footer...)
	return out
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, part := range [][]byte{d.Preamble, d.Body, d.Footer} {
		if len(part) == 0 {
			continue
		}
		n, err := w.Write(part)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
