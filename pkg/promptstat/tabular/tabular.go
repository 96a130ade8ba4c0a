// Package tabular reads and writes the flat spreadsheet-like files the
// analysis consumes and produces: CSV and XLSX workbooks with a header row.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
)

// Sheet is a header row plus data rows. Rows may be shorter than the header.
// Numeric lists column positions written to workbooks as numbers.
type Sheet struct {
	Name    string
	Header  []string
	Rows    [][]string
	Numeric []int
}

// Format identifies a supported file type.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// FormatOf maps a path's extension to a Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".xlsx", ".xlsm":
		return XLSX, nil
	default:
		return "", fmt.Errorf("%s: %w", path, internalerr.ErrUnsupportedFormat)
	}
}

// Read loads the first sheet of a CSV or XLSX file.
func Read(path string) (Sheet, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Sheet{}, err
	}
	switch format {
	case XLSX:
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var sheet Sheet
	sheet.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("read %s: %w", path, err)
		}
		if sheet.Header == nil {
			sheet.Header = trimHeader(row)
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	if sheet.Header == nil {
		return Sheet{}, fmt.Errorf("%s has no header row: %w", path, internalerr.ErrInvalidInput)
	}
	return sheet, nil
}

func readXLSX(path string) (Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Sheet{}, fmt.Errorf("%s has no sheets: %w", path, internalerr.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Sheet{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return Sheet{}, fmt.Errorf("%s has no header row: %w", path, internalerr.ErrInvalidInput)
	}
	return Sheet{Name: sheets[0], Header: trimHeader(rows[0]), Rows: rows[1:]}, nil
}

func trimHeader(row []string) []string {
	out := make([]string, len(row))
	for i, h := range row {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

// Cell returns row[i] and whether the cell exists and is non-blank.
// Blank cells are reported missing, the way spreadsheet readers yield NaN.
func Cell(row []string, i int) (string, bool) {
	if i < 0 || i >= len(row) {
		return "", false
	}
	if strings.TrimSpace(row[i]) == "" {
		return "", false
	}
	return row[i], true
}

// Index maps header names to column positions. Later duplicates are ignored.
func (s Sheet) Index() map[string]int {
	idx := make(map[string]int, len(s.Header))
	for i, h := range s.Header {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

// Write stores a single sheet as CSV or XLSX depending on the extension.
func Write(path string, sheet Sheet) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == XLSX {
		return WriteWorkbook(path, []Sheet{sheet})
	}
	return writeCSV(path, sheet)
}

func writeCSV(path string, sheet Sheet) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(sheet.Header); err != nil {
		return err
	}
	if err := w.WriteAll(sheet.Rows); err != nil {
		return err
	}
	return w.Error()
}

// MaxSheetName is the longest sheet name spreadsheet applications accept.
const MaxSheetName = 31

// SheetName truncates a name to MaxSheetName runes.
func SheetName(name string) string {
	r := []rune(name)
	if len(r) > MaxSheetName {
		return string(r[:MaxSheetName])
	}
	return name
}

// WriteWorkbook stores every sheet in one XLSX file. Header cells are bold
// on a tinted fill.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s: no sheets: %w", path, internalerr.ErrInvalidInput)
	}
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D7E4BC"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	const defaultSheet = "Sheet1"
	used := make(map[string]bool, len(sheets))
	for _, sh := range sheets {
		name := SheetName(sh.Name)
		if name == "" || used[name] {
			return fmt.Errorf("workbook %s: duplicate or empty sheet name %q: %w", path, sh.Name, internalerr.ErrInvalidInput)
		}
		used[name] = true
		if name != defaultSheet {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
		}
		if err := writeSheet(f, name, sh, headerStyle); err != nil {
			return err
		}
	}
	if !used[defaultSheet] {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}
	if idx, err := f.GetSheetIndex(SheetName(sheets[0].Name)); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, sh Sheet, headerStyle int) error {
	numeric := make(map[int]bool, len(sh.Numeric))
	for _, col := range sh.Numeric {
		numeric[col] = true
	}
	write := func(rowNum int, values []string, typed bool) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
			if typed && numeric[i] {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					row[i] = n
				}
			}
		}
		return f.SetSheetRow(name, cell, &row)
	}

	if err := write(1, sh.Header, false); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}
	if len(sh.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sh.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("sheet %s header style: %w", name, err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(sh.Header))
		if err := f.SetColWidth(name, "A", lastCol, 16); err != nil {
			return fmt.Errorf("sheet %s widths: %w", name, err)
		}
	}
	for i, row := range sh.Rows {
		if err := write(i+2, row, true); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}
