package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

type carMakeResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Models      []carModelResponse `json:"models,omitempty"`
}

type carModelResponse struct {
	ID       uint   `json:"id"`
	DealerID int    `json:"dealerId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Year     int    `json:"year"`
	MakeID   *uint  `json:"makeId,omitempty"`
	MakeName string `json:"makeName,omitempty"`
}

type carMakeCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type carModelCreateRequest struct {
	DealerID int    `json:"dealerId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Year     int    `json:"year"`
	MakeID   *uint  `json:"makeId"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

func carMakeToResponse(m domain.CarMake) carMakeResponse {
	resp := carMakeResponse{ID: m.ID, Name: m.Name, Description: m.Description}
	if len(m.Models) > 0 {
		resp.Models = make([]carModelResponse, 0, len(m.Models))
		for _, model := range m.Models {
			resp.Models = append(resp.Models, carModelToResponse(model))
		}
	}
	return resp
}

func carModelToResponse(m domain.CarModel) carModelResponse {
	return carModelResponse{
		ID:       m.ID,
		DealerID: m.DealerID,
		Name:     m.Name,
		Type:     string(m.Type),
		Year:     m.Year,
		MakeID:   m.MakeID,
		MakeName: m.MakeName,
	}
}

// decodeJSON は上限付きで body をデコードする。未知のフィールドは拒否する。
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxReviewRequestBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseIDParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidCatalogInput) || errors.Is(err, domain.ErrInvalidBodyType)
}
