package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

// modelListHandler は ?make= ?year= ?dealer= ?q= で車種を絞り込む。
func (h *Handler) modelListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := domain.CarModelFilter{Search: strings.TrimSpace(query.Get("q"))}

		if raw := strings.TrimSpace(query.Get("make")); raw != "" {
			makeID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				common.WriteError(h.logger, w, r, http.StatusBadRequest, "make は整数で指定してください", nil)
				return
			}
			id := uint(makeID)
			filter.MakeID = &id
		}
		year, err := common.ParseOptionalInt(query.Get("year"))
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "year は整数で指定してください", nil)
			return
		}
		filter.Year = year
		dealerID, err := common.ParseOptionalInt(query.Get("dealer"))
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "dealer は整数で指定してください", nil)
			return
		}
		filter.DealerID = dealerID

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		models, err := h.catalog.ListModels(ctx, filter)
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "車種一覧の取得に失敗しました", err)
			return
		}

		items := make([]carModelResponse, 0, len(models))
		for _, m := range models {
			items = append(items, carModelToResponse(m))
		}
		common.WriteJSON(w, r, http.StatusOK, listResponse[carModelResponse]{Items: items})
	}
}

func (h *Handler) modelCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req carModelCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "リクエストの形式が不正です", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		model, err := h.catalog.CreateModel(ctx, dealerapp.CreateModelCommand{
			DealerID: req.DealerID,
			Name:     req.Name,
			Type:     req.Type,
			Year:     req.Year,
			MakeID:   req.MakeID,
		})
		switch {
		case isValidationError(err):
			common.WriteError(h.logger, w, r, http.StatusBadRequest, err.Error(), nil)
			return
		case errors.Is(err, domain.ErrCarMakeNotFound):
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "指定されたメーカーが存在しません", nil)
			return
		case err != nil:
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "車種の登録に失敗しました", err)
			return
		}

		h.logger.Info("車種を登録", zap.Uint("modelId", model.ID), zap.Int("dealerId", model.DealerID))
		common.WriteJSON(w, r, http.StatusCreated, carModelToResponse(model))
	}
}

func (h *Handler) modelDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(r)
		if !ok {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "車種IDの形式が不正です", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := h.catalog.DeleteModel(ctx, id)
		if errors.Is(err, domain.ErrCarModelNotFound) {
			common.WriteError(h.logger, w, r, http.StatusNotFound, "車種が見つかりません", nil)
			return
		}
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "車種の削除に失敗しました", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
