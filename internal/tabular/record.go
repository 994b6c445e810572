package tabular

// Header holds the ordered field names of one decoded payload. It is built
// from the first row and shared by every Record of the same request.
type Header struct {
	names []string
	index map[string]int
}

func newHeader(names []string) *Header {
	h := &Header{names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		h.index[n] = i
	}
	return h
}

// Names returns a copy of the field names in column order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Len returns the number of fields.
func (h *Header) Len() int { return len(h.names) }

// Index returns the column position of name.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// Record is one decoded data row: raw string values keyed by header name.
// Records are read-only once decoded.
type Record struct {
	header *Header
	values []string
	row    int
}

// NewRecord builds a record over an existing header. len(values) must equal
// header.Len(); Decode guarantees this for the records it produces.
func NewRecord(header *Header, values []string, row int) Record {
	return Record{header: header, values: values, row: row}
}

// Get returns the raw value of the named field.
func (r Record) Get(name string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i, ok := r.header.index[name]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Value returns the raw value at column i.
func (r Record) Value(i int) string { return r.values[i] }

// Len returns the field count.
func (r Record) Len() int { return len(r.values) }

// Fields returns the header names in column order.
func (r Record) Fields() []string {
	if r.header == nil {
		return nil
	}
	return r.header.Names()
}

// Header returns the shared header.
func (r Record) Header() *Header { return r.header }

// Row is the 1-based position of the record among the data rows of its request.
func (r Record) Row() int { return r.row }
