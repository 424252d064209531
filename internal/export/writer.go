package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"checklens/internal/domain"
)

// BOM is the UTF-8 byte order mark, written ahead of CSV output so Excel on
// Windows detects the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row.
var columns = []string{
	"ID",
	"Check Number",
	"Amount",
	"Amount In Words",
	"Payee",
	"Date",
	"Bank Name",
	"Account Number",
	"Routing Number",
	"Memo",
	"Signature Present",
	"Confidence Score",
	"Fraud Risk Score",
	"Recommendation",
	"Risk Factors",
	"Processed At",
}

func row(rec *domain.CheckRecord) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.CheckNumber,
		strconv.FormatFloat(rec.Amount, 'f', 2, 64),
		rec.AmountInWords,
		rec.Payee,
		rec.Date,
		rec.BankName,
		rec.AccountNumber,
		rec.RoutingNumber,
		rec.Memo,
		rec.SignaturePresent,
		strconv.FormatFloat(rec.ConfidenceScore, 'f', 2, 64),
		strconv.FormatFloat(rec.FraudRiskScore, 'f', 2, 64),
		string(rec.Recommendation),
		strings.Join(rec.RiskFactors, "; "),
		rec.ProcessedAt.Format(time.RFC3339),
	}
}

// WriteCSV writes all records as CSV, preceded by a UTF-8 BOM.
func WriteCSV(w io.Writer, records []domain.CheckRecord) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range records {
		if err := cw.Write(row(&records[i])); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes all records as a single-sheet XLSX workbook.
func WriteXLSX(w io.Writer, records []domain.CheckRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("writing header cell %s: %w", cell, err)
		}
	}

	for i := range records {
		for j, val := range row(&records[i]) {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
