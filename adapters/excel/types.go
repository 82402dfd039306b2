package excel

// RawTable is a sheet or CSV file as trimmed string cells.
type RawTable struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows, padded to len(Headers)
}

// Column returns the index of header name (case-insensitive), or -1.
func (t *RawTable) Column(name string) int {
	for i, h := range t.Headers {
		if equalFold(h, name) {
			return i
		}
	}
	return -1
}
