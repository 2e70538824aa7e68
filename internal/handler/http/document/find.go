package document

import (
	"net/http"

	"smartvision/internal/handler/http/respond"
	docUC "smartvision/internal/usecase/document"
)

type FindHandler struct{ Svc *docUC.Service }

// ServeHTTP PDF名前検索
// @Summary      PDF名前検索
// @Description  名前に指定文字列を含む最初のPDFを返します（大文字小文字を区別しない）
// @Tags         pdf
// @Produce      json
// @Param        name path string true "検索する名前"
// @Success      200 {object} DTO "見つかったPDF"
// @Failure      400 {object} MessageResponse "不正な名前"
// @Failure      404 {object} MessageResponse "PDF not found"
// @Failure      503 {object} MessageResponse "データベース利用不可"
// @Failure      500 {object} MessageResponse "サーバーエラー"
// @Router       /api/pdf/find/{name} [get]
func (h FindHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.FindByName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err, msgFindFailed)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(doc))
}
