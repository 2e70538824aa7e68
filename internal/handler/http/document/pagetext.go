package document

import (
	"errors"
	"net/http"

	"smartvision/internal/domain/entity"
	"smartvision/internal/handler/http/pathutil"
	"smartvision/internal/handler/http/respond"
	docUC "smartvision/internal/usecase/document"
)

type PageTextHandler struct{ Svc *docUC.Service }

// ServeHTTP ページテキスト取得
// @Summary      ページテキスト取得
// @Description  指定ページ（1始まり）のプレーンテキストを返します。読み上げ用
// @Tags         pdf
// @Produce      json
// @Param        id   path int true "PDF ID"
// @Param        page path int true "ページ番号 (1始まり)"
// @Success      200 {object} PageTextResponse "ページテキスト"
// @Failure      400 {object} MessageResponse "不正なIDまたはページ番号"
// @Failure      404 {object} MessageResponse "PDFまたはページが存在しない"
// @Failure      503 {object} MessageResponse "データベース利用不可"
// @Failure      500 {object} MessageResponse "サーバーエラー"
// @Router       /api/pdf/{id}/pages/{page}/text [get]
func (h PageTextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, err, msgPageTextFailed)
		return
	}
	page, err := pathutil.ParsePage(r.PathValue("page"))
	if err != nil {
		writeError(w, err, msgPageTextFailed)
		return
	}

	text, err := h.Svc.PageText(r.Context(), id, page)
	if err != nil {
		if errors.Is(err, entity.ErrPageOutOfRange) {
			respond.SafeMessage(w, http.StatusNotFound, err, msgPageTextFailed)
			return
		}
		writeError(w, err, msgPageTextFailed)
		return
	}
	respond.JSON(w, http.StatusOK, PageTextResponse{Page: page, Text: text})
}
