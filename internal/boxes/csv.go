package boxes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Header is the first row of every interchange file.
var Header = []string{"Box", "Item"}

// MalformedInputError reports a CSV row that is not exactly (box, item).
type MalformedInputError struct {
	// Line is the 1-based line number of the offending row.
	Line int

	// Fields is the number of fields found on that row.
	Fields int

	// Err is the underlying parse error, if the row could not be read.
	Err error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed CSV at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed CSV at line %d: expected 2 fields, got %d", e.Line, e.Fields)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// WriteCSV writes the header then one row per (box, item).
func WriteCSV(w io.Writer, boxes []*Box) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range boxes {
		for _, item := range b.items {
			if err := cw.Write([]string{b.Name, item}); err != nil {
				return fmt.Errorf("write row %s/%s: %w", b.Name, item, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes boxes to path, overwriting any existing file.
func ExportCSV(path string, boxes []*Box) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, boxes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV reads an interchange file. The first row is skipped as the header.
// Rows are grouped by box name in order of first appearance.
//
// Returns *MalformedInputError for any row without exactly two fields.
func ReadCSV(r io.Reader) (*Collection, error) {
	cr := csv.NewReader(r)
	// Field count is checked per row so the error carries the line number.
	cr.FieldsPerRecord = -1

	c := NewCollection()
	header := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &MalformedInputError{Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		if header {
			header = false
			continue
		}
		if len(record) != 2 {
			return nil, &MalformedInputError{Line: line, Fields: len(record)}
		}
		c.Ensure(record[0]).Add(record[1])
	}
	return c, nil
}

// ImportCSV reads boxes from the file at path.
func ImportCSV(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return c, nil
}
