// Package dataset reads numeric CSV tables for the woebin command.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

// Frame is a column-oriented numeric table.
type Frame struct {
	Header  []string
	columns [][]float64
	index   map[string]int
}

// missing cells are read as NaN.
var missing = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"null": true,
	"none": true,
}

// ReadFile reads the CSV file at path. The first record is the header.
func ReadFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, woeerrors.Wrapf(err, "failed to open CSV file %s", path)
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV from r. The first record is the header; every other cell
// must be a number or one of the missing markers (empty, NA, NaN, null, None).
func Read(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, woeerrors.Wrap(woeerrors.ErrEmptyData, "CSV has no header")
	}
	if err != nil {
		return nil, woeerrors.Wrap(err, "failed to read CSV header")
	}

	fr := &Frame{
		Header:  header,
		columns: make([][]float64, len(header)),
		index:   make(map[string]int, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		if _, dup := fr.index[name]; dup {
			return nil, woeerrors.NewValidationError("header", "duplicate column name", name)
		}
		fr.index[name] = i
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, woeerrors.Wrapf(err, "failed to read CSV line %d", line)
		}
		for i, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, woeerrors.NewValidationError(header[i],
					"line "+strconv.Itoa(line)+": not a number", cell)
			}
			fr.columns[i] = append(fr.columns[i], v)
		}
	}

	return fr, nil
}

func parseCell(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if missing[strings.ToLower(s)] {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// Rows returns the number of data rows.
func (f *Frame) Rows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return len(f.columns[0])
}

// Column returns the values of the named column. The slice is shared with the
// frame.
func (f *Frame) Column(name string) ([]float64, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, woeerrors.NewValidationError("column", "not found in CSV header", name)
	}
	return f.columns[i], nil
}

// Matrix returns the named columns as a rows x len(names) matrix.
func (f *Frame) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 || f.Rows() == 0 {
		return nil, woeerrors.ErrEmptyData
	}
	out := mat.NewDense(f.Rows(), len(names), nil)
	for j, name := range names {
		col, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		out.SetCol(j, col)
	}
	return out, nil
}

// Write writes the header and columns as CSV. All columns must have the same
// length. NaN is written as an empty cell.
func Write(w io.Writer, header []string, columns [][]float64) error {
	if len(header) != len(columns) {
		return woeerrors.NewDimensionError("dataset.Write", "columns", len(header), len(columns))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return woeerrors.Wrap(err, "write CSV header")
	}

	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}
	record := make([]string, len(columns))
	for i := 0; i < rows; i++ {
		for j, col := range columns {
			if len(col) != rows {
				return woeerrors.NewDimensionError("dataset.Write", header[j], rows, len(col))
			}
			if math.IsNaN(col[i]) {
				record[j] = ""
			} else {
				record[j] = strconv.FormatFloat(col[i], 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return woeerrors.Wrapf(err, "write CSV row %d", i+1)
		}
	}
	cw.Flush()
	return cw.Error()
}
