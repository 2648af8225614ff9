package excel

// RawRowData represents a row of raw spreadsheet data as header to cell text
type RawRowData map[string]string

// ExcelData represents a complete sheet read from xlsx or csv
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
	Lines   []int        // 1-based sheet line of each data row
}
