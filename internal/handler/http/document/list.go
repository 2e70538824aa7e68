package document

import (
	"net/http"

	"smartvision/internal/handler/http/respond"
	docUC "smartvision/internal/usecase/document"
)

type ListHandler struct{ Svc *docUC.Service }

// ServeHTTP PDF一覧取得
// @Summary      PDF一覧取得
// @Description  アップロード済みのPDFを新しい順に返します
// @Tags         pdf
// @Produce      json
// @Success      200 {array}  DTO "PDF一覧"
// @Failure      503 {object} MessageResponse "データベース利用不可"
// @Failure      500 {object} MessageResponse "サーバーエラー"
// @Router       /api/pdf/all [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, err, msgFetchFailed)
		return
	}

	out := make([]DTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDTO(d))
	}
	respond.JSON(w, http.StatusOK, out)
}
