package service

import (
	"context"
	"fmt"
	"io"

	"checklens/internal/domain"
	"checklens/internal/export"
	"checklens/internal/port"
)

// ExportFormat selects the export file format.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// exportPageSize bounds how many records are pulled from the store at once.
const exportPageSize = 500

// ExportService streams stored check records as CSV or XLSX.
type ExportService interface {
	Export(ctx context.Context, format ExportFormat, w io.Writer) error
}

type exportService struct {
	repo port.CheckRepository
}

// NewExportService creates an ExportService.
func NewExportService(repo port.CheckRepository) ExportService {
	return &exportService{repo: repo}
}

func (s *exportService) Export(ctx context.Context, format ExportFormat, w io.Writer) error {
	records, err := s.fetchAll(ctx)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		return export.WriteCSV(w, records)
	case FormatXLSX:
		return export.WriteXLSX(w, records)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func (s *exportService) fetchAll(ctx context.Context) ([]domain.CheckRecord, error) {
	var all []domain.CheckRecord
	offset := 0
	for {
		page, total, err := s.repo.List(ctx, offset, exportPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			return all, nil
		}
	}
}
