package document

import (
	"net/http"

	"smartvision/internal/handler/http/pathutil"
	"smartvision/internal/handler/http/respond"
	docUC "smartvision/internal/usecase/document"
)

type DeleteHandler struct{ Svc *docUC.Service }

// ServeHTTP PDF削除
// @Summary      PDF削除
// @Description  保存ファイルとレコードを削除します
// @Tags         pdf
// @Produce      json
// @Param        id path int true "PDF ID"
// @Success      200 {object} MessageResponse "PDF deleted successfully"
// @Failure      400 {object} MessageResponse "不正なID"
// @Failure      404 {object} MessageResponse "PDF not found"
// @Failure      503 {object} MessageResponse "データベース利用不可"
// @Failure      500 {object} MessageResponse "サーバーエラー"
// @Router       /api/pdf/delete/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, err, msgDeleteFailed)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err, msgDeleteFailed)
		return
	}
	respond.Message(w, http.StatusOK, msgDeleted)
}
