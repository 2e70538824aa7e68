// Package document provides HTTP handlers for uploaded PDF documents.
// It includes handlers for uploading, listing, finding and deleting documents
// and for reading the text of a single page.
package document

import (
	"time"

	"smartvision/internal/domain/entity"
)

// DTO represents the JSON structure for document data transfer.
// Field names follow the browser client.
type DTO struct {
	ID         int64     `json:"id" example:"1"`
	Name       string    `json:"name" example:"report.pdf"`
	Filename   string    `json:"filename" example:"1730000000000-0b6f3c3e-5b1a-4c1e-9f51-0e0c3a7d2b11.pdf"`
	Path       string    `json:"path" example:"/uploads/1730000000000-0b6f3c3e-5b1a-4c1e-9f51-0e0c3a7d2b11.pdf"`
	Size       int64     `json:"size" example:"102400"`
	PageCount  int       `json:"pageCount" example:"12"`
	UploadDate time.Time `json:"uploadDate" example:"2025-10-26T12:00:00Z"`
	UserID     *string   `json:"userId" swaggertype:"string"`
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Message string `json:"message" example:"PDF uploaded successfully"`
	PDF     DTO    `json:"pdf"`
}

// MessageResponse is the {"message": ...} body used by the document endpoints.
type MessageResponse struct {
	Message string `json:"message" example:"PDF deleted successfully"`
}

// PageTextResponse is the text of one page.
type PageTextResponse struct {
	Page int    `json:"page" example:"1"`
	Text string `json:"text"`
}

func toDTO(d *entity.Document) DTO {
	return DTO{
		ID:         d.ID,
		Name:       d.Name,
		Filename:   d.Filename,
		Path:       d.Path,
		Size:       d.Size,
		PageCount:  d.PageCount,
		UploadDate: d.UploadedAt,
		UserID:     d.UserID,
	}
}
