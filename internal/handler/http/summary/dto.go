// Package summary provides HTTP handlers for summarizing free text and
// the pages of stored documents.
package summary

import (
	"smartvision/internal/infra/summarizer"
	sumUC "smartvision/internal/usecase/summarize"
)

// Request is the body of POST /api/pdf/summarize.
type Request struct {
	Text *string `json:"text" example:"First sentence. Second sentence. Third sentence. Fourth sentence."`
}

// ResultDTO is a summary as the browser client reads it. Length metrics are
// present only when sentences were actually selected.
type ResultDTO struct {
	Summary         string `json:"summary" example:"First sentence. Fourth sentence."`
	OriginalLength  *int   `json:"originalLength,omitempty" example:"64"`
	SummaryLength   *int   `json:"summaryLength,omitempty" example:"32"`
	CompressionRate *int   `json:"compressionRate,omitempty" example:"50"`
	Fallback        bool   `json:"fallback,omitempty"`
	Error           string `json:"error,omitempty"`
}

// ErrorResponse is the body of a rejected summarize request. Summary echoes
// text that was too short to summarize.
type ErrorResponse struct {
	Error   string  `json:"error" example:"Text too short to summarize"`
	Summary *string `json:"summary,omitempty"`
}

// PageDTO is the summary of one document page.
type PageDTO struct {
	Page int `json:"page" example:"1"`
	ResultDTO
	TooShort bool `json:"tooShort,omitempty"`
}

// DocumentDTO holds page summaries in page order.
type DocumentDTO struct {
	DocumentID int64     `json:"document_id" example:"1"`
	Pages      []PageDTO `json:"pages"`
}

// NewResultDTO converts a summarizer result to its wire form. Length metrics are
// included only for summarized results.
func NewResultDTO(r summarizer.Result) ResultDTO {
	out := ResultDTO{
		Summary:  r.Summary,
		Fallback: r.Fallback(),
		Error:    r.ErrorMessage(),
	}
	if r.HasMetrics() {
		original, summary, rate := r.OriginalLength, r.SummaryLength, r.CompressionRate
		out.OriginalLength = &original
		out.SummaryLength = &summary
		out.CompressionRate = &rate
	}
	return out
}

func toDocumentDTO(s *sumUC.DocumentSummary) DocumentDTO {
	out := DocumentDTO{DocumentID: s.DocumentID, Pages: make([]PageDTO, 0, len(s.Pages))}
	for _, p := range s.Pages {
		out.Pages = append(out.Pages, PageDTO{
			Page:      p.Page,
			ResultDTO: NewResultDTO(p.Result),
			TooShort:  p.TooShort,
		})
	}
	return out
}
