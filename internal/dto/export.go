package dto

import "time"

// ExportFormat enumerates supported export encodings.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatICS  ExportFormat = "ics"
)

// ExportRequest asks for a rendered copy of a draft's active slots.
type ExportRequest struct {
	Format ExportFormat `json:"format" validate:"required,oneof=csv xlsx ics"`
}

// ExportResponse points at a signed download.
type ExportResponse struct {
	Token     string       `json:"token"`
	URL       string       `json:"url"`
	Format    ExportFormat `json:"format"`
	ExpiresAt time.Time    `json:"expiresAt"`
}
