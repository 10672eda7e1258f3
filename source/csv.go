// Package source loads the tabular data shown by the application.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrEmpty is returned when the input has no header record
	ErrEmpty = errors.New("no header row")

	// ErrRagged is returned when a record's field count differs from the header's
	ErrRagged = errors.New("record length differs from header")
)

// Data is an ordered list of column names and rows of equal length
type Data struct {
	Columns []string
	Rows    [][]string
}

// LoadCSV reads a comma separated file whose first record holds the column names
func LoadCSV(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	d, err := ReadCSV(f)
	if err != nil {
		return Data{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ReadCSV parses CSV from r
func ReadCSV(r io.Reader) (Data, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Data{}, ErrEmpty
	}
	if err != nil {
		return Data{}, fmt.Errorf("parse header: %w", err)
	}

	d := Data{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Data{}, fmt.Errorf("parse: %w", err)
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return Data{}, fmt.Errorf("line %d has %d fields, want %d: %w", line, len(rec), len(header), ErrRagged)
		}
		d.Rows = append(d.Rows, rec)
	}
	return d, nil
}
