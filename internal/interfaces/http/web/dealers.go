package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

const (
	dealersUnavailableMessage = "Dealerships are unavailable right now. Please try again later."
	reviewsUnavailableMessage = "Reviews are unavailable right now. Please try again later."
	upstreamTimeout           = 10 * time.Second
)

// indexHandler はディーラー一覧を表示する。?state= で州を絞り込む。
func (h *Handler) indexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
		defer cancel()

		state := strings.TrimSpace(r.URL.Query().Get("state"))
		dealers, err := h.dealers.Dealers(ctx, state)
		if err != nil {
			h.logger.Error("ディーラー一覧の取得に失敗", zap.String("state", state), zap.Error(err))
			h.render(w, r, http.StatusBadGateway, "index.html", pageData{State: state, Message: dealersUnavailableMessage})
			return
		}
		h.render(w, r, http.StatusOK, "index.html", pageData{State: state, Dealers: dealers})
	}
}

// dealerDetailHandler はディーラー詳細とレビュー (感情ラベル付き) を表示する。
func (h *Handler) dealerDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := common.ParsePositiveInt(chi.URLParam(r, "id"), 0)
		if !ok {
			h.notFound(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
		defer cancel()

		detail, err := h.dealers.DealerDetail(ctx, id)
		switch {
		case errors.Is(err, domain.ErrDealerNotFound):
			h.notFound(w, r)
			return
		case err != nil && detail.Dealer.ID == 0:
			h.logger.Error("ディーラー情報の取得に失敗", zap.Int("dealerId", id), zap.Error(err))
			h.render(w, r, http.StatusBadGateway, "error.html", pageData{Message: dealersUnavailableMessage})
			return
		case err != nil:
			h.logger.Error("レビューの取得に失敗", zap.Int("dealerId", id), zap.Error(err))
			h.render(w, r, http.StatusBadGateway, "dealer.html", pageData{Dealer: detail.Dealer, Message: reviewsUnavailableMessage})
			return
		}

		h.render(w, r, http.StatusOK, "dealer.html", pageData{Dealer: detail.Dealer, Reviews: detail.Reviews})
	}
}
