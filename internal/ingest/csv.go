// Package ingest loads tabular financial data into named columns.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/soltixdb/finlytics/internal/analytics"
)

var (
	ErrNoHeader      = errors.New("csv has no header row")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotNumeric    = errors.New("column is not numeric")
)

// CSVOptions holds options for CSV loading
type CSVOptions struct {
	Delimiter rune // Field delimiter (default: ',')
	SkipRows  int  // Rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ','}
}

// Table is a header-indexed set of raw CSV columns
type Table struct {
	headers []string
	index   map[string]int
	cells   [][]string // column-major
}

// LoadFile opens filename and loads it with LoadCSV
func LoadFile(filename string, opts CSVOptions) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return LoadCSV(file, opts)
}

// LoadCSV reads a CSV with a header row. Short rows are padded with empty
// (missing) cells.
func LoadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skip row %d: %w", i, err)
		}
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{
		headers: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
		cells:   make([][]string, len(header)),
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		t.headers[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.Rows()+1, err)
		}
		for i := range t.cells {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			t.cells[i] = append(t.cells[i], cell)
		}
	}

	return t, nil
}

// Headers returns the column names in file order
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// Rows returns the number of data rows
func (t *Table) Rows() int {
	if len(t.cells) == 0 {
		return 0
	}
	return len(t.cells[0])
}

// Has reports whether the table has a column called name
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column extracts a numeric column. Empty, "NaN", "NA" and "null" cells
// become missing values; any other unparsable cell is an error.
func (t *Table) Column(name string) (analytics.Series, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	out := make(analytics.Series, len(t.cells[idx]))
	for row, cell := range t.cells[idx] {
		if isMissing(cell) {
			out[row] = analytics.Undefined()
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q row %d: %q", ErrNotNumeric, name, row+1, cell)
		}
		out[row] = v
	}
	return out, nil
}

// Strings returns a column's raw cells
func (t *Table) Strings(name string) ([]string, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]string, len(t.cells[idx]))
	copy(out, t.cells[idx])
	return out, nil
}

func isMissing(cell string) bool {
	switch cell {
	case "", "NaN", "nan", "NA", "N/A", "null":
		return true
	}
	return false
}
