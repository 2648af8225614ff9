// Package excel reads batch prediction input from spreadsheets and writes
// the results back out.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lifeexp/domain/indicator"
	"lifeexp/internal"
	"lifeexp/internal/errors"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, log *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if log == nil {
		log = internal.NewNopLogger()
	}
	return &DataReader{filePath: filePath, fileType: fileType, log: log}
}

// ReadData reads the first sheet (or the csv) into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.log.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput("unsupported file type: " + r.fileType)
	}
}

func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read %s: %w", sheets[0], err))
	}
	r.log.Debug("[DataReader] %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, errors.InvalidInput("Excel file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open CSV file: %w", err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}
	r.log.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, errors.InvalidInput("CSV file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format. Headers are
// resolved to indicator keys so a sheet may use either the keys or the
// training column names.
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = HeaderKey(header)
	}

	var (
		dataRows []RawRowData
		lines    []int
	)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		rowData := make(RawRowData)
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
		lines = append(lines, i+1)
	}

	r.log.Info("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
		Lines:   lines,
	}, nil
}

// HeaderKey maps a sheet header to the indicator key it names. Keys, labels
// and training column names are all accepted; the status column also
// accepts "Status". Unknown headers come back trimmed.
func HeaderKey(header string) string {
	h := strings.TrimSpace(header)
	if strings.EqualFold(h, string(indicator.StatusKey)) {
		return string(indicator.StatusKey)
	}
	for _, ind := range indicator.Catalog() {
		if h == string(ind.Key) || h == ind.Column || strings.EqualFold(h, ind.Label) {
			return string(ind.Key)
		}
	}
	return h
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Fields returns the rows as plain maps for indicator.Parse.
func (d *ExcelData) Fields() []map[string]string {
	out := make([]map[string]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row
	}
	return out
}
