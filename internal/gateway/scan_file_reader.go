package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxSheetRows = 100000

// headerNames are first-row labels that are skipped instead of being
// treated as scans.
var headerNames = map[string]bool{
	"tracking":        true,
	"tracking number": true,
	"trackingnumber":  true,
	"tracking_number": true,
	"guia":            true,
	"guía":            true,
	"numero de guia":  true,
}

// ScanFileReader loads batches of scans exported by handheld scanners or
// spreadsheets. Only the first non-empty cell of each row is used.
type ScanFileReader struct{}

// NewScanFileReader creates a new reader instance.
func NewScanFileReader() *ScanFileReader {
	return &ScanFileReader{}
}

// ReadScans reads the scans stored at path.
func (r *ScanFileReader) ReadScans(ctx context.Context, path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan file %s: %w", path, err)
	}
	defer file.Close()

	return r.ReadScansFrom(ctx, file, filepath.Base(path))
}

// ReadScansFrom reads scans from reader. filename selects the format:
// .csv, .xlsx, .xls, anything else is read as plain lines.
func (r *ScanFileReader) ReadScansFrom(ctx context.Context, reader io.Reader, filename string) ([]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan file %s: %w", filename, err)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSVRows(data)
	case ".xlsx":
		rows, err = readXLSXRows(data)
	case ".xls":
		rows, err = readXLSRows(data)
	default:
		rows, err = readTextRows(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scan file %s: %w", filename, err)
	}
	return firstCells(rows), nil
}

func readCSVRows(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readXLSXRows(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	return file.GetRows(sheetName)
}

func readXLSRows(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	return workbook.ReadAllCells(maxSheetRows), nil
}

func readTextRows(data []byte) ([][]string, error) {
	var rows [][]string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		rows = append(rows, []string{scanner.Text()})
	}
	return rows, scanner.Err()
}

// firstCells keeps the first non-empty cell of each row and drops a
// header row.
func firstCells(rows [][]string) []string {
	out := make([]string, 0, len(rows))
	for i, row := range rows {
		cell := ""
		for _, c := range row {
			if c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")); c != "" {
				cell = c
				break
			}
		}
		if cell == "" {
			continue
		}
		if i == 0 && headerNames[strings.ToLower(cell)] {
			continue
		}
		out = append(out, cell)
	}
	return out
}
