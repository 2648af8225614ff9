package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"lifeexp/internal/errors"
)

// WriteSheet writes a header row followed by rows into a new workbook at path.
func WriteSheet(path, sheet string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return errors.Wrap(err, "failed to name sheet")
		}
	} else {
		sheet = "Sheet1"
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for i, row := range rows {
		row := row
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "invalid row coordinate")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+2)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to save %s", path))
	}
	return nil
}
