package tabular

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"github.com/EngrShabir135/koboimg/pkg/domain/types"
)

// ParseResult is the outcome of scanning one uploaded spreadsheet.
type ParseResult struct {
	URLs        []string // All HTTP(S) URLs in row order, first occurrence only
	SkippedRows int      // Data rows that contained no usable URL
	Duplicates  int      // URLs dropped because they appeared in an earlier row
}

// ReadURLs detects the spreadsheet format from the file name and extracts
// every HTTP(S) URL in row order. The first row is treated as a header
// when it contains no URL. A file with data rows but no URLs at all fails
// with types.ErrMissingColumn; a file with no data rows yields an empty
// result without error.
func ReadURLs(filename string, r io.Reader) (*ParseResult, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(r)
	default:
		return nil, goerr.Wrap(types.ErrUnsupportedFormat, "unsupported file extension",
			goerr.V("filename", filename))
	}
	if err != nil {
		return nil, err
	}

	return scanRows(rows)
}

func scanRows(rows [][]string) (*ParseResult, error) {
	result := &ParseResult{}
	seen := make(map[string]struct{})

	dataRows := 0
	for i, row := range rows {
		found := 0
		for _, cell := range row {
			u := strings.TrimSpace(cell)
			if !isURL(u) {
				continue
			}
			found++

			if _, ok := seen[u]; ok {
				result.Duplicates++
				continue
			}
			seen[u] = struct{}{}
			result.URLs = append(result.URLs, u)
		}

		if found == 0 {
			if i == 0 {
				continue // header row
			}
			result.SkippedRows++
		}
		dataRows++
	}

	if dataRows > 0 && len(result.URLs) == 0 {
		return nil, goerr.Wrap(types.ErrMissingColumn, "no URL found in any column",
			goerr.V("rows", dataRows))
	}

	return result, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Malformed row. Kept empty so it still counts as skipped.
			rows = append(rows, nil)
			continue
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read CSV")
		}

		rows = append(rows, record)
	}
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, goerr.Wrap(types.ErrMissingColumn, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read sheet", goerr.V("sheet", sheets[0]))
	}

	return rows, nil
}

func isURL(s string) bool {
	if len(s) <= 6 {
		return false
	}
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
