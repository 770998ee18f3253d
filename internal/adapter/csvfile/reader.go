package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyFile is returned when the input has no header line.
var ErrEmptyFile = errors.New("delimited file is empty")

const utf8BOM = "\uFEFF"

// Reader implements usecase.DelimitedReader on encoding/csv.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses r with the given delimiter. The first record is the header;
// every following record becomes a map keyed by trimmed column name. Short
// records leave the missing columns empty and extra fields are dropped.
func (rd *Reader) Read(r io.Reader, delimiter rune) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyFile
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		header[i] = strings.TrimSpace(col)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read record: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// ParseDelimiter turns a user supplied delimiter into a rune. Empty means
// comma; "tab" and "\t" mean a tab character.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}

	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}

	d := runes[0]
	if d == '"' || d == '\r' || d == '\n' || d == 0xFFFD {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}

	return d, nil
}
