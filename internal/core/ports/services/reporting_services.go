package services

import (
	"context"
	"io"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
)

// ReportingService defines operations for generating practice reports
type ReportingService interface {
	// Summary aggregates billing, expense and pipeline figures across the firm
	Summary(ctx context.Context) (*domain.PracticeSummary, error)

	// ExportWorkbook writes an XLSX workbook with one sheet per register
	ExportWorkbook(ctx context.Context, w io.Writer) error
}
