package reviewapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

// getReviewsHandler は ?id= で指定されたディーラーのレビュー一覧を返す。
func (h *Handler) getReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if !query.Has("id") {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "Missing 'id' parameter in the URL", nil)
			return
		}
		dealership, err := strconv.Atoi(strings.TrimSpace(query.Get("id")))
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "'id' parameter must be an integer", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		reviews, err := h.queries.ListByDealership(ctx, dealership)
		if err != nil {
			h.logger.Error("レビュー一覧の取得に失敗", zap.Int("dealership", dealership), zap.Error(err))
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "Failed to fetch reviews", nil)
			return
		}

		items := make([]reviewResponse, 0, len(reviews))
		for _, review := range reviews {
			items = append(items, toReviewResponse(review))
		}
		common.WriteJSON(w, r, http.StatusOK, items)
	}
}
