// Package document provides use cases for uploaded PDF documents: upload, listing,
// lookup by name, deletion and page text extraction.
package document

import "errors"

// Sentinel errors for document use case operations.
var (
	// ErrDocumentNotFound indicates that no document matched the id or name.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidDocumentID indicates a non-positive document id.
	ErrInvalidDocumentID = errors.New("invalid document ID")

	// ErrNotPDF indicates an upload whose content type is not application/pdf.
	ErrNotPDF = errors.New("only PDF files are allowed")

	// ErrFileTooLarge indicates an upload above the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
)
