package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/flowfind/flowfind/internal/catalog"
)

// ErrLoad indicates a CSV file that cannot be parsed into catalog records.
var ErrLoad = errors.New("loading catalog CSV")

// requiredColumns are the CSV header names the loader maps onto a record.
// The url column becomes the record link.
var requiredColumns = []string{"name", "description", "url"}

// LoadCSV reads catalog records from a CSV file with name, description and
// url columns. Column order does not matter; header matching is
// case-insensitive. Rows with an empty name or description are rejected with
// their row number so operators can fix the source file.
func LoadCSV(path string) ([]catalog.WorkflowRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	records, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return records, nil
}

func readCSV(r io.Reader) ([]catalog.WorkflowRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []catalog.WorkflowRecord
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		rec := catalog.WorkflowRecord{
			Name:        strings.TrimSpace(fields[cols["name"]]),
			Description: strings.TrimSpace(fields[cols["description"]]),
			Link:        strings.TrimSpace(fields[cols["url"]]),
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("row %d: empty name", row)
		}
		if rec.Description == "" {
			return nil, fmt.Errorf("row %d: empty description", row)
		}
		records = append(records, rec)
	}

	return records, nil
}

// mapColumns resolves the index of each required column in the header.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", want, header)
		}
	}
	return cols, nil
}
