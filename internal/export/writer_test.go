package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"checklens/internal/domain"
)

func sampleRecords() []domain.CheckRecord {
	return []domain.CheckRecord{
		{
			ID:               1,
			CheckNumber:      "1042",
			Amount:           1250.5,
			Payee:            "Jane Doe",
			Date:             "2024-03-15",
			SignaturePresent: "true",
			ConfidenceScore:  90,
			FraudRiskScore:   10,
			Recommendation:   domain.RecommendationAccept,
			RiskFactors:      domain.RiskFactors{"smudged ink", "low contrast"},
			ProcessedAt:      time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:             2,
			CheckNumber:    domain.Sentinel,
			Payee:          "John Roe",
			Date:           domain.Sentinel,
			Recommendation: domain.RecommendationManualReview,
			ProcessedAt:    time.Date(2024, 3, 17, 9, 30, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	out := buf.Bytes()
	assert.Equal(t, BOM, out[:3])

	rows, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Processed At", rows[0][15])

	assert.Equal(t, "1042", rows[1][1])
	assert.Equal(t, "1250.50", rows[1][2])
	assert.Equal(t, "smudged ink; low contrast", rows[1][14])
	assert.Equal(t, "2024-03-16T12:00:00Z", rows[1][15])

	assert.Equal(t, domain.Sentinel, rows[2][1])
	assert.Equal(t, "0.00", rows[2][2])
	assert.Equal(t, "manual_review", rows[2][13])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	checkNumber, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1042", checkNumber)

	recommendation, err := f.GetCellValue(sheet, "N3")
	require.NoError(t, err)
	assert.Equal(t, "manual_review", recommendation)
}
