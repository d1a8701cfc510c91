package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultDelimiter is the field separator used by the roster export.
const DefaultDelimiter = ';'

var (
	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = errors.New("empty file: no header row found")
	// ErrNoDataRows is returned when the header is followed by nothing.
	ErrNoDataRows = errors.New("file contains no data rows")
)

// ParseWarning represents a non-fatal issue encountered during CSV parsing.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Table is a parsed roster. Headers keep their source order, which the
// column resolver depends on.
type Table struct {
	Headers  []string            `json:"headers"`
	Records  []map[string]string `json:"records"`
	Encoding string              `json:"encoding"`
	Warnings []ParseWarning      `json:"warnings"`
}

// Column returns the values of one column in row order.
func (t *Table) Column(header string) []string {
	values := make([]string, 0, len(t.Records))
	for _, rec := range t.Records {
		values = append(values, rec[header])
	}
	return values
}

// StreamParse parses delimited bytes into a Table.
// It handles mismatched column counts (pad/truncate), empty files, and truncated rows.
func StreamParse(data []byte, delimiter rune) (*Table, error) {
	decoded, enc, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = delimiter
	// Ragged rows are padded or truncated below.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	headers = uniqueHeaders(headers)

	table := &Table{
		Headers:  headers,
		Encoding: enc,
	}
	headerCount := len(headers)
	rowNum := 1 // 1-indexed, header is row 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			table.Warnings = append(table.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}

		if len(row) != headerCount {
			if len(row) < headerCount {
				table.Warnings = append(table.Warnings, ParseWarning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), headerCount),
				})
				padded := make([]string, headerCount)
				copy(padded, row)
				row = padded
			} else {
				table.Warnings = append(table.Warnings, ParseWarning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), headerCount),
				})
				row = row[:headerCount]
			}
		}

		record := make(map[string]string, headerCount)
		for i, h := range headers {
			record[h] = row[i]
		}
		table.Records = append(table.Records, record)
	}

	if len(table.Records) == 0 {
		return nil, ErrNoDataRows
	}

	return table, nil
}

// CleanHeader strips the artifacts spreadsheet exports leave in header
// cells: BOM markers, stray quotes, replacement characters and surrounding
// whitespace.
func CleanHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	h = strings.ReplaceAll(h, `"`, "")
	h = strings.ReplaceAll(h, "\ufffd", "")
	return strings.TrimSpace(h)
}

// uniqueHeaders cleans every header and suffixes repeats with ".1", ".2", ...
// so no column is shadowed in the record maps.
func uniqueHeaders(raw []string) []string {
	taken := make(map[string]bool, len(raw))
	next := make(map[string]int, len(raw))
	headers := make([]string, len(raw))
	for i, h := range raw {
		base := CleanHeader(h)
		h = base
		for taken[h] {
			next[base]++
			h = fmt.Sprintf("%s.%d", base, next[base])
		}
		taken[h] = true
		headers[i] = h
	}
	return headers
}
