package dto

// ExportRequest captures parameters for listing exports. Columns is the
// caller-selected comma-separated subset; names outside the allow-list are
// silently dropped, an empty selection exports every allowed column.
type ExportRequest struct {
	Query   string
	Columns []string
	Format  string
}

// ExportResponse returns the rendered file location for download.
type ExportResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	DownloadURL string `json:"download_url"`
}
