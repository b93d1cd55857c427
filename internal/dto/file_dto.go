package dto

import "github.com/assignamate/assignamate-api/internal/models"

// FileMetaResponse serializes an attachment descriptor.
type FileMetaResponse struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Mimetype     string `json:"mimetype"`
}

// NewFileMetaResponse converts an attachment descriptor, returning nil when
// no file is attached so the field is omitted from JSON output.
func NewFileMetaResponse(meta models.FileMeta) *FileMetaResponse {
	if meta.IsZero() {
		return nil
	}

	return &FileMetaResponse{
		Filename:     meta.Filename,
		OriginalName: meta.OriginalName,
		Path:         meta.Path,
		Size:         meta.Size,
		Mimetype:     meta.Mimetype,
	}
}
