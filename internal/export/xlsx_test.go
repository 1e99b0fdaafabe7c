package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lunchcrew/lunch-api/internal/domain/report"
)

func TestWriteOrdersSummary(t *testing.T) {
	rows := []report.ExportRow{
		{
			OrderID:      "o1",
			UserID:       "u1",
			DeliveryDate: "2026-09-03",
			Status:       "ordered",
			ItemName:     "Pizza",
			Quantity:     2,
			Extras:       "extra cheese, olives",
			TotalPrice:   41.90,
		},
		{
			OrderID:      "o1",
			UserID:       "u1",
			DeliveryDate: "2026-09-03",
			Status:       "ordered",
			ItemName:     "Salad",
			Quantity:     1,
			Extras:       "",
			TotalPrice:   41.90,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersSummary(&buf, rows))
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Orders Summary")
	require.NoError(t, err)
	require.Len(t, got, 3, "header plus one row per line item")

	assert.Equal(t, []string{
		"Order ID", "User ID", "Delivery Date", "Status",
		"Item Name", "Quantity", "Extras", "Total Price",
	}, got[0])

	assert.Equal(t, "o1", got[1][0])
	assert.Equal(t, "2026-09-03", got[1][2])
	assert.Equal(t, "Pizza", got[1][4])
	assert.Equal(t, "2", got[1][5])
	assert.Equal(t, "extra cheese, olives", got[1][6])
	assert.Equal(t, "41.9", got[1][7])

	assert.Equal(t, "Salad", got[2][4])
}

func TestWriteOrdersSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersSummary(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Orders Summary")
	require.NoError(t, err)
	require.Len(t, got, 1, "only the header row")
}
