package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

func (h *Handler) makeListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		makes, err := h.catalog.ListMakes(ctx)
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "メーカー一覧の取得に失敗しました", err)
			return
		}

		items := make([]carMakeResponse, 0, len(makes))
		for _, m := range makes {
			items = append(items, carMakeToResponse(m))
		}
		common.WriteJSON(w, r, http.StatusOK, listResponse[carMakeResponse]{Items: items})
	}
}

// makeDetailHandler はメーカーと所属する車種 (年式の新しい順) を返す。
func (h *Handler) makeDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(r)
		if !ok {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "メーカーIDの形式が不正です", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		carMake, err := h.catalog.GetMake(ctx, id)
		if errors.Is(err, domain.ErrCarMakeNotFound) {
			common.WriteError(h.logger, w, r, http.StatusNotFound, "メーカーが見つかりません", nil)
			return
		}
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "メーカー情報の取得に失敗しました", err)
			return
		}

		common.WriteJSON(w, r, http.StatusOK, carMakeToResponse(carMake))
	}
}

func (h *Handler) makeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req carMakeCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "リクエストの形式が不正です", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		carMake, err := h.catalog.CreateMake(ctx, dealerapp.CreateMakeCommand{Name: req.Name, Description: req.Description})
		if isValidationError(err) {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "メーカーの登録に失敗しました", err)
			return
		}

		h.logger.Info("メーカーを登録", zap.Uint("makeId", carMake.ID), zap.String("name", carMake.Name))
		common.WriteJSON(w, r, http.StatusCreated, carMakeToResponse(carMake))
	}
}

// makeDeleteHandler はメーカーを削除する。所属する車種も合わせて削除される。
func (h *Handler) makeDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(r)
		if !ok {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, "メーカーIDの形式が不正です", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := h.catalog.DeleteMake(ctx, id)
		if errors.Is(err, domain.ErrCarMakeNotFound) {
			common.WriteError(h.logger, w, r, http.StatusNotFound, "メーカーが見つかりません", nil)
			return
		}
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "メーカーの削除に失敗しました", err)
			return
		}

		h.logger.Info("メーカーを削除", zap.Uint("makeId", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
