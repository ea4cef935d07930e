package model

import "time"

// ExportFormat selects the export output encoding.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportAudit records one export for billing and abuse review.
type ExportAudit struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	DatasetID    string       `json:"dataset_id"`
	Format       ExportFormat `json:"format"`
	RowsTotal    int          `json:"rows_total"`
	RowsReturned int          `json:"rows_returned"`
	Gated        bool         `json:"gated"`
	CreatedAt    time.Time    `json:"created_at"`
}
