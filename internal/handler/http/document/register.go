package document

import (
	"net/http"

	docUC "smartvision/internal/usecase/document"
)

// Register registers the document handlers with the given mux.
// maxUploadBytes caps PDF uploads.
func Register(mux *http.ServeMux, svc *docUC.Service, maxUploadBytes int64) {
	mux.Handle("POST   /api/pdf/upload", UploadHandler{Svc: svc, MaxBytes: maxUploadBytes})
	mux.Handle("GET    /api/pdf/all", ListHandler{svc})
	mux.Handle("GET    /api/pdf/find/{name}", FindHandler{svc})
	mux.Handle("DELETE /api/pdf/delete/{id}", DeleteHandler{svc})
	mux.Handle("GET    /api/pdf/{id}/pages/{page}/text", PageTextHandler{svc})
}
