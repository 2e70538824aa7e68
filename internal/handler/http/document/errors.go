package document

import (
	"errors"
	"fmt"
	"net/http"

	"smartvision/internal/domain/entity"
	"smartvision/internal/handler/http/pathutil"
	"smartvision/internal/handler/http/respond"
	docUC "smartvision/internal/usecase/document"
)

// User-facing messages.
const (
	msgNoFile          = "No file uploaded"
	msgUploaded        = "PDF uploaded successfully"
	msgNotFound        = "PDF not found"
	msgDeleted         = "PDF deleted successfully"
	msgDBUnavailable   = "Database service temporarily unavailable. Please try again later."
	msgSaveFailed      = "Error saving PDF details"
	msgFetchFailed     = "Error fetching PDFs"
	msgFindFailed      = "Error finding PDF"
	msgDeleteFailed    = "Error deleting PDF"
	msgPageTextFailed  = "Error reading PDF page"
	fileTooLargeFormat = "File size too large. Maximum size is %dMB."
)

func fileTooLargeMessage(limit int64) string {
	return fmt.Sprintf(fileTooLargeFormat, limit>>20)
}

// isClientError reports errors caused by the request rather than the server.
func isClientError(err error) bool {
	return errors.Is(err, entity.ErrInvalidInput) ||
		errors.Is(err, docUC.ErrInvalidDocumentID) ||
		errors.Is(err, docUC.ErrNotPDF) ||
		errors.Is(err, entity.ErrInvalidPDF) ||
		errors.Is(err, pathutil.ErrInvalidID) ||
		errors.Is(err, pathutil.ErrInvalidPage)
}

// writeError maps a use case error to a {"message": ...} response.
// fallback replaces the text of internal errors.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, docUC.ErrDocumentNotFound):
		respond.Message(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, entity.ErrDatabaseUnavailable):
		respond.SafeMessage(w, http.StatusServiceUnavailable,
			respond.NewAppError(http.StatusServiceUnavailable, msgDBUnavailable, err), fallback)
	case isClientError(err):
		respond.SafeMessage(w, http.StatusBadRequest, err, fallback)
	default:
		respond.SafeMessage(w, http.StatusInternalServerError, err, fallback)
	}
}
