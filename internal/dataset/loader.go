package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
)

// LoadFile reads a tabular data file into a loose Table. The format is
// picked by extension; anything other than .xlsx or .csv fails with an
// UnsupportedFormatError before any bytes are parsed.
func LoadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return LoadReader(f, filepath.Base(path))
}

// LoadReader reads tabular data from r, using filename only to pick the
// format.
func LoadReader(r io.Reader, filename string) (Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		table Table
		err   error
	)
	switch ext {
	case ".xlsx":
		table, err = readExcel(r)
	case ".csv":
		table, err = readCSV(r)
	default:
		return Table{}, &apperrors.UnsupportedFormatError{Ext: ext}
	}
	if err != nil {
		return Table{}, err
	}

	if len(table.Rows) == 0 {
		return Table{}, &apperrors.EmptyInputError{Op: "load " + filename}
	}

	slog.Info("loaded data file",
		slog.String("filename", filename),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

func readExcel(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	return tableFromRows(rows), nil
}

func readCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	// Strip a UTF-8 BOM so the first header survives exact matching.
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return tableFromRows(rows), nil
}

// tableFromRows splits the header row off and pads ragged data rows to the
// header width. excelize drops trailing empty cells, so short rows are
// common in otherwise valid workbooks.
func tableFromRows(rows [][]string) Table {
	headers := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		}
		data = append(data, row[:len(headers)])
	}
	return Table{Headers: headers, Rows: data}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
