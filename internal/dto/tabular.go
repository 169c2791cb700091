package dto

import "github.com/campusforge/ttcore/internal/tabular"

// ValidateRowRequest is the body of a single-file row-level validation
// call; Kind comes from the path parameter.
type ValidateRowRequest struct {
	Row map[string]string `json:"row" validate:"required"`
}

// ValidateRowResponse mirrors tabular.Result over the wire.
type ValidateRowResponse struct {
	tabular.Result
}

// UploadFileResult is the per-file outcome reported by POST /upload.
type UploadFileResult struct {
	Filename string         `json:"filename"`
	Kind     string         `json:"kind"`
	Rows     int            `json:"rows"`
	Result   tabular.Result `json:"result"`
}

// UploadResponse is the aggregate response for a multi-file upload,
// carrying a generated id the caller can reference in follow-up calls.
type UploadResponse struct {
	UploadID string             `json:"upload_id"`
	Files    []UploadFileResult `json:"files"`
	Overall  tabular.Result     `json:"overall"`
}
