// Package export serializes reporting results into downloadable spreadsheet
// files.
package export

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/lunchcrew/lunch-api/internal/domain/report"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Orders Summary"

type column struct {
	header string
	width  float64
}

var columns = []column{
	{"Order ID", 25},
	{"User ID", 25},
	{"Delivery Date", 20},
	{"Status", 15},
	{"Item Name", 25},
	{"Quantity", 10},
	{"Extras", 30},
	{"Total Price", 15},
}

// WriteOrdersSummary writes one workbook with a bold header row and one data
// row per export row to w.
func WriteOrdersSummary(w io.Writer, rows []report.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.header

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.Wrap(err, "column name")
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return errors.Wrap(err, "set column width")
		}
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "write header row")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return errors.Wrap(err, "style header row")
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		row := []any{
			r.OrderID, r.UserID, r.DeliveryDate, r.Status,
			r.ItemName, r.Quantity, r.Extras, r.TotalPrice,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
