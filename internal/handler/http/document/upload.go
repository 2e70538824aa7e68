package document

import (
	"errors"
	"net/http"

	"smartvision/internal/handler/http/respond"
	docUC "smartvision/internal/usecase/document"
)

const (
	// multipartOverhead allows for the multipart envelope and the name field.
	multipartOverhead int64 = 1 << 20
	// formMemory is kept in memory while parsing; larger files spill to disk.
	formMemory int64 = 1 << 20
)

type UploadHandler struct {
	Svc *docUC.Service
	// MaxBytes caps the PDF size; zero means docUC.DefaultMaxUploadBytes.
	MaxBytes int64
}

func (h UploadHandler) limit() int64 {
	if h.MaxBytes > 0 {
		return h.MaxBytes
	}
	return docUC.DefaultMaxUploadBytes
}

// ServeHTTP PDFアップロード
// @Summary      PDFアップロード
// @Description  multipart の pdf フィールドで PDF をアップロードします。name を省略した場合は元のファイル名を使います
// @Tags         pdf
// @Accept       multipart/form-data
// @Produce      json
// @Param        pdf  formData file   true  "PDFファイル (最大10MB)"
// @Param        name formData string false "表示名"
// @Success      200 {object} UploadResponse "アップロード成功"
// @Failure      400 {object} MessageResponse "No file uploaded / PDF以外 / サイズ超過"
// @Failure      503 {object} MessageResponse "データベース利用不可"
// @Failure      500 {object} MessageResponse "サーバーエラー"
// @Router       /api/pdf/upload [post]
func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := h.limit()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(formMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Message(w, http.StatusBadRequest, fileTooLargeMessage(limit))
			return
		}
		respond.Message(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("pdf")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.Svc.Upload(r.Context(), docUC.UploadInput{
		Name:         r.FormValue("name"),
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		if errors.Is(err, docUC.ErrFileTooLarge) {
			respond.Message(w, http.StatusBadRequest, fileTooLargeMessage(limit))
			return
		}
		writeError(w, err, msgSaveFailed)
		return
	}

	respond.JSON(w, http.StatusOK, UploadResponse{Message: msgUploaded, PDF: toDTO(doc)})
}
