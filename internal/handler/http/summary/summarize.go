package summary

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartvision/internal/handler/http/respond"
	sumUC "smartvision/internal/usecase/summarize"
)

// User-facing messages.
const (
	msgTextRequired = "Text is required"
	msgTooShort     = "Text too short to summarize"
	msgInvalidJSON  = "invalid JSON body"
	msgBodyTooLarge = "request body too large"
)

// DefaultMaxBodyBytes caps the JSON body when SummarizeHandler.MaxBodyBytes is zero.
const DefaultMaxBodyBytes int64 = 1 << 20

type SummarizeHandler struct {
	Svc          *sumUC.Service
	MaxBodyBytes int64
}

// ServeHTTP テキスト要約
// @Summary      テキスト要約
// @Description  文をスコアリングして重要な文を原文の順序で抜き出します。3文以下の場合はそのまま返します
// @Tags         summarize
// @Accept       json
// @Produce      json
// @Param        request body Request true "要約するテキスト"
// @Success      200 {object} ResultDTO "要約結果"
// @Failure      400 {object} ErrorResponse "Text is required / Text too short to summarize"
// @Failure      413 {object} ErrorResponse "リクエストが大きすぎる"
// @Failure      429 {object} ErrorResponse "rate limit exceeded"
// @Router       /api/pdf/summarize [post]
func (h SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.JSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: msgBodyTooLarge})
			return
		}
		respond.JSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidJSON})
		return
	}

	text := ""
	if req.Text != nil {
		text = *req.Text
	}

	res, err := h.Svc.Summarize(r.Context(), text)
	if err != nil {
		var tooShort *sumUC.TooShortError
		switch {
		case errors.Is(err, sumUC.ErrTextRequired):
			respond.JSON(w, http.StatusBadRequest, ErrorResponse{Error: msgTextRequired})
		case errors.As(err, &tooShort):
			// 短すぎるテキストはそのまま要約として返す
			respond.JSON(w, http.StatusBadRequest, ErrorResponse{Error: msgTooShort, Summary: &tooShort.Text})
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	respond.JSON(w, http.StatusOK, NewResultDTO(*res))
}
