// Package tabular decodes delimited text payloads into records.
//
// The first row is the header and names the fields; each following row
// becomes one Record. Rows are never padded or truncated: a field count
// that differs from the header fails the whole payload.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// Decoder parses delimited text. The zero value reads comma-separated input.
type Decoder struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// Decode parses a comma-separated body.
func Decode(body string) ([]Record, error) {
	return Decoder{}.DecodeReader(strings.NewReader(body))
}

// DecodeReader parses rows from r. A header-only payload yields an empty,
// non-nil slice.
func (d Decoder) DecodeReader(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	if d.Comma != 0 {
		cr.Comma = d.Comma
	}
	// Field counts are checked below so the error can name the data row.
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMalformedInput(0, "empty header", nil)
	}
	if err != nil {
		return nil, ErrMalformedInput(0, "failed to read header", err)
	}
	header, err := parseHeader(first)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0)
	for row := 1; ; row++ {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ErrMalformedInput(row, "failed to read row", err)
		}
		if len(values) != header.Len() {
			return nil, ErrMalformedInput(row, fmt.Sprintf("expected %d fields, got %d", header.Len(), len(values)), nil)
		}
		records = append(records, NewRecord(header, values, row))
	}
	return records, nil
}

func parseHeader(fields []string) (*Header, error) {
	names := make([]string, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if i == 0 {
			f = strings.TrimPrefix(f, utf8BOM)
		}
		name := strings.TrimSpace(f)
		if name == "" {
			return nil, ErrMalformedInput(0, fmt.Sprintf("empty header name in column %d", i+1), nil)
		}
		if _, dup := seen[name]; dup {
			return nil, ErrMalformedInput(0, fmt.Sprintf("duplicate header name %q", name), nil)
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return newHeader(names), nil
}
