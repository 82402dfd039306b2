package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// TableReader handles reading Excel sheets and CSV files
type TableReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewTableReader creates a reader that handles both Excel and CSV files
func NewTableReader(filePath string) *TableReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &TableReader{filePath: filePath, fileType: fileType}
}

// IsWorkbook reports whether the file is read through excelize.
func (r *TableReader) IsWorkbook() bool {
	return r.fileType == "xlsx"
}

// ReadTable reads one table. sheet is ignored for CSV files.
func (r *TableReader) ReadTable(sheet string) (*RawTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	start := time.Now()
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readSheet(sheet)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[TableReader] %s read in %.2fms (%d rows)", r.describe(sheet), float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s must have a header row and at least one data row", r.describe(sheet))
	}
	return processRows(rows), nil
}

func (r *TableReader) describe(sheet string) string {
	if r.fileType == "csv" {
		return filepath.Base(r.filePath)
	}
	return fmt.Sprintf("%s[%s]", filepath.Base(r.filePath), sheet)
}

// HasSheet reports whether a workbook contains sheet.
func (r *TableReader) HasSheet(sheet string) (bool, error) {
	if !r.IsWorkbook() {
		return false, nil
	}
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return false, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return false, err
	}
	return idx >= 0, nil
}

func (r *TableReader) readSheet(sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *TableReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows trims cells and pads short rows; excelize drops trailing empty cells.
func processRows(rows [][]string) *RawTable {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		cells := make([]string, len(headers))
		for j := 0; j < len(row) && j < len(headers); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		data = append(data, cells)
	}
	return &RawTable{Headers: headers, Rows: data}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
