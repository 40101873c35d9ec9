package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

const (
	reviewTextRequiredMessage = "Please enter the review content."
	unknownCarMessage         = "The selected car is not sold by this dealership."
	reviewPostFailedMessage   = "Your review could not be posted. Please try again later."
)

// addReviewPageHandler はレビュー投稿フォームを表示する。車種はこのディーラーのものに限る。
func (h *Handler) addReviewPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, _, ok := h.loadReviewForm(w, r)
		if !ok {
			return
		}
		h.render(w, r, http.StatusOK, "add_review.html", data)
	}
}

func (h *Handler) addReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, id, ok := h.loadReviewForm(w, r)
		if !ok {
			return
		}
		if !parseForm(w, r) {
			data.Message = reviewTextRequiredMessage
			h.render(w, r, http.StatusBadRequest, "add_review.html", data)
			return
		}

		user, _ := common.UserFromContext(r.Context())
		carID, _ := strconv.ParseUint(strings.TrimSpace(r.PostFormValue("car")), 10, 64)
		purchase := r.PostFormValue("purchasecheck") != ""
		data.Form = map[string]string{
			"content":      r.PostFormValue("content"),
			"purchasedate": r.PostFormValue("purchasedate"),
		}
		if purchase {
			data.Form["purchasecheck"] = "on"
		}

		ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
		defer cancel()

		_, err := h.reviews.Submit(ctx, dealerapp.SubmitReviewCommand{
			DealerID:     id,
			Reviewer:     user.Name,
			Username:     user.Username,
			Content:      r.PostFormValue("content"),
			Purchase:     purchase,
			CarModelID:   uint(carID),
			PurchaseDate: formatPurchaseDate(r.PostFormValue("purchasedate")),
		})
		switch {
		case errors.Is(err, dealerapp.ErrReviewTextRequired):
			data.Message = reviewTextRequiredMessage
			h.render(w, r, http.StatusBadRequest, "add_review.html", data)
			return
		case errors.Is(err, domain.ErrCarModelNotFound):
			data.Message = unknownCarMessage
			h.render(w, r, http.StatusBadRequest, "add_review.html", data)
			return
		case err != nil:
			h.logger.Error("レビューの投稿に失敗", zap.Int("dealerId", id), zap.Error(err))
			data.Message = reviewPostFailedMessage
			h.render(w, r, http.StatusBadGateway, "add_review.html", data)
			return
		}

		http.Redirect(w, r, BasePath+"/dealer/"+strconv.Itoa(id), http.StatusSeeOther)
	}
}

// loadReviewForm resolves the dealer and its car models; it writes the error page itself when ok is false.
func (h *Handler) loadReviewForm(w http.ResponseWriter, r *http.Request) (pageData, int, bool) {
	id, ok := common.ParsePositiveInt(chi.URLParam(r, "id"), 0)
	if !ok {
		h.notFound(w, r)
		return pageData{}, 0, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	dealer, err := h.dealers.Dealer(ctx, id)
	if errors.Is(err, domain.ErrDealerNotFound) {
		h.notFound(w, r)
		return pageData{}, 0, false
	}
	if err != nil {
		h.logger.Error("ディーラー情報の取得に失敗", zap.Int("dealerId", id), zap.Error(err))
		h.render(w, r, http.StatusBadGateway, "error.html", pageData{Message: dealersUnavailableMessage})
		return pageData{}, 0, false
	}

	models, err := h.catalog.ModelsForDealer(ctx, id)
	if err != nil {
		h.logger.Error("車種一覧の取得に失敗", zap.Int("dealerId", id), zap.Error(err))
		models = nil
	}
	return pageData{Dealer: dealer, Models: models}, id, true
}

// formatPurchaseDate converts the date input's YYYY-MM-DD into MM/DD/YYYY used by stored reviews.
func formatPurchaseDate(value string) string {
	value = strings.TrimSpace(value)
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return parsed.Format("01/02/2006")
}
