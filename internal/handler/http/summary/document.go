package summary

import (
	"errors"
	"log/slog"
	"net/http"

	"smartvision/internal/domain/entity"
	"smartvision/internal/handler/http/pathutil"
	"smartvision/internal/handler/http/respond"
	docUC "smartvision/internal/usecase/document"
	sumUC "smartvision/internal/usecase/summarize"
)

const msgDBUnavailable = "Database service temporarily unavailable. Please try again later."

type DocumentHandler struct{ Svc *sumUC.Service }

// ServeHTTP ドキュメント要約
// @Summary      ドキュメント要約
// @Description  保存済みPDFのページごとの要約を返します。page を省略すると全ページを要約します
// @Tags         summarize
// @Produce      json
// @Param        id   path  int true  "PDF ID"
// @Param        page query int false "ページ番号 (1始まり)"
// @Success      200 {object} DocumentDTO "ページごとの要約"
// @Failure      400 {object} ErrorResponse "不正なIDまたはページ番号"
// @Failure      404 {object} ErrorResponse "PDFまたはページが存在しない"
// @Failure      429 {object} ErrorResponse "rate limit exceeded"
// @Failure      503 {object} ErrorResponse "データベース利用不可"
// @Failure      504 {object} ErrorResponse "request timeout"
// @Failure      500 {object} ErrorResponse "サーバーエラー"
// @Router       /api/pdf/summary/{id} [get]
func (h DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err = pathutil.ParsePage(raw); err != nil {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
	}

	out, err := h.Svc.SummarizeDocument(r.Context(), id, page)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, docUC.ErrInvalidDocumentID):
			code = http.StatusBadRequest
		case errors.Is(err, docUC.ErrDocumentNotFound), errors.Is(err, entity.ErrPageOutOfRange):
			code = http.StatusNotFound
		case errors.Is(err, entity.ErrDatabaseUnavailable):
			slog.Default().Error("document summary: database unavailable",
				slog.Int64("document_id", id),
				slog.String("error", respond.SanitizeError(err)))
			respond.JSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: msgDBUnavailable})
			return
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDocumentDTO(out))
}
