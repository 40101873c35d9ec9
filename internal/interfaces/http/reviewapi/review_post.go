package reviewapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
	reviewapp "github.com/sngm3741/dealer-review-services/internal/review/application"
	"github.com/sngm3741/dealer-review-services/internal/review/domain"
)

const invalidJSONMessage = "Invalid JSON data"

// postReviewHandler はレビュー 1 件を検証して保存する。
// 検証順: JSON オブジェクトか → 必須フィールド → 型 (JSON Schema)。
func (h *Handler) postReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		body, err := io.ReadAll(io.LimitReader(r.Body, common.MaxReviewRequestBody))
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, invalidJSONMessage, nil)
			return
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, invalidJSONMessage, nil)
			return
		}

		for _, field := range domain.RequiredFields {
			if _, ok := fields[field]; !ok {
				common.WriteError(h.logger, w, r, http.StatusBadRequest, "Missing required field: "+field, nil)
				return
			}
		}

		if msg, ok := h.validateSchema(body); !ok {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, msg, nil)
			return
		}

		cmd, err := decodeSubmitCommand(body)
		if err != nil {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, invalidJSONMessage, nil)
			return
		}
		if cmd.Extra, err = decodeExtraFields(fields); err != nil {
			common.WriteError(h.logger, w, r, http.StatusBadRequest, invalidJSONMessage, nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		review, err := h.commands.Submit(ctx, cmd)
		if errors.Is(err, domain.ErrReviewIDConflict) {
			h.logger.Warn("レビュー id が重複", zap.Int("reviewId", cmd.ID), zap.Error(err))
			common.WriteError(h.logger, w, r, http.StatusConflict, "Review id already exists", nil)
			return
		}
		if err != nil {
			h.logger.Error("レビューの保存に失敗", zap.Int("dealership", cmd.Dealership), zap.Error(err))
			common.WriteError(h.logger, w, r, http.StatusInternalServerError, "Failed to store review", nil)
			return
		}

		h.logger.Info("レビューを保存", zap.Int("reviewId", review.ID), zap.Int("dealership", review.Dealership))
		common.WriteJSON(w, r, http.StatusCreated, messageResponse{Message: "Review posted successfully"})
	}
}

// validateSchema returns the first type error in field order: required fields
// as listed in domain.RequiredFields, then the rest by name.
func (h *Handler) validateSchema(body []byte) (string, bool) {
	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return invalidJSONMessage, false
	}
	if result.Valid() {
		return "", true
	}

	errs := result.Errors()
	sort.SliceStable(errs, func(i, j int) bool {
		ri, rj := fieldRank(errs[i].Field()), fieldRank(errs[j].Field())
		if ri != rj {
			return ri < rj
		}
		return errs[i].Field() < errs[j].Field()
	})
	first := errs[0]
	return fmt.Sprintf("Invalid field %s: %s", first.Field(), first.Description()), false
}

func fieldRank(field string) int {
	root, _, _ := strings.Cut(field, ".")
	for i, name := range domain.RequiredFields {
		if name == root {
			return i
		}
	}
	return len(domain.RequiredFields)
}

// decodeExtraFields は既知フィールド以外のトップレベルキーをそのまま取り出す。
func decodeExtraFields(fields map[string]json.RawMessage) (map[string]any, error) {
	var extra map[string]any
	for key, raw := range fields {
		if !domain.IsExtraField(key) {
			continue
		}
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()
		var value any
		if err := decoder.Decode(&value); err != nil {
			return nil, err
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[key] = value
	}
	return extra, nil
}

func decodeSubmitCommand(body []byte) (reviewapp.SubmitReviewCommand, error) {
	var req postReviewRequest
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		return reviewapp.SubmitReviewCommand{}, err
	}

	id, err := numberToInt(req.ID)
	if err != nil {
		return reviewapp.SubmitReviewCommand{}, err
	}
	dealership, err := numberToInt(req.Dealership)
	if err != nil {
		return reviewapp.SubmitReviewCommand{}, err
	}
	carYear, err := numberToInt(req.CarYear)
	if err != nil {
		return reviewapp.SubmitReviewCommand{}, err
	}

	return reviewapp.SubmitReviewCommand{
		ID:           id,
		Name:         req.Name,
		Dealership:   dealership,
		Review:       req.Review,
		Purchase:     req.Purchase,
		PurchaseDate: req.PurchaseDate,
		CarMake:      req.CarMake,
		CarModel:     req.CarModel,
		CarYear:      carYear,
		Username:     req.Username,
	}, nil
}
