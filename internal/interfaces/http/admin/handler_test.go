package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/infrastructure/sqlstore"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

var staff = common.AuthenticatedUser{ID: 1, Username: "admin", IsStaff: true}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlstore.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlstore.Close(db) })

	h := NewHandler(Config{Catalog: dealerapp.NewCatalogService(sqlstore.NewCarRepository(db))})
	r := chi.NewRouter()
	r.Route("/admin", h.Register)
	return r
}

func call(t *testing.T, router http.Handler, method, target, body string, user *common.AuthenticatedUser) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req = req.WithContext(common.ContextWithUser(req.Context(), *user))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAdminRequiresStaff(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodGet, "/admin/car-makes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, router, http.MethodGet, "/admin/car-makes", "", &common.AuthenticatedUser{ID: 2, Username: "jdoe"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCatalogLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodPost, "/admin/car-makes", `{"name":"Audi","description":"German"}`, &staff)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	audi := decode[carMakeResponse](t, rec)
	assert.Equal(t, "Audi", audi.Name)
	makeID := strconv.FormatUint(uint64(audi.ID), 10)

	for _, body := range []string{
		`{"dealerId":15,"name":"A6","type":"sedan","year":2010,"makeId":` + makeID + `}`,
		`{"dealerId":15,"name":"Q7","type":"SUV","year":2019,"makeId":` + makeID + `}`,
	} {
		rec = call(t, router, http.MethodPost, "/admin/car-models", body, &staff)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = call(t, router, http.MethodGet, "/admin/car-makes/"+makeID, "", &staff)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[carMakeResponse](t, rec)
	require.Len(t, detail.Models, 2)
	assert.Equal(t, "Q7", detail.Models[0].Name)
	assert.Equal(t, "suv", detail.Models[0].Type)

	rec = call(t, router, http.MethodGet, "/admin/car-models?year=2010", "", &staff)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[listResponse[carModelResponse]](t, rec)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, "A6", listed.Items[0].Name)
	assert.Equal(t, "Audi", listed.Items[0].MakeName)

	rec = call(t, router, http.MethodGet, "/admin/car-models?q=audi", "", &staff)
	assert.Len(t, decode[listResponse[carModelResponse]](t, rec).Items, 2)

	rec = call(t, router, http.MethodDelete, "/admin/car-makes/"+makeID, "", &staff)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, router, http.MethodGet, "/admin/car-models", "", &staff)
	assert.Empty(t, decode[listResponse[carModelResponse]](t, rec).Items)

	rec = call(t, router, http.MethodGet, "/admin/car-makes/"+makeID, "", &staff)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"malformed json", http.MethodPost, "/admin/car-makes", `{"name":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/admin/car-makes", `{"title":"x"}`, http.StatusBadRequest},
		{"long name", http.MethodPost, "/admin/car-makes", `{"name":"` + strings.Repeat("a", 31) + `"}`, http.StatusBadRequest},
		{"bad body type", http.MethodPost, "/admin/car-models", `{"name":"A6","type":"coupe","year":2010}`, http.StatusBadRequest},
		{"zero year", http.MethodPost, "/admin/car-models", `{"name":"A6","year":0}`, http.StatusBadRequest},
		{"missing make", http.MethodPost, "/admin/car-models", `{"name":"A6","year":2010,"makeId":99}`, http.StatusBadRequest},
		{"bad year filter", http.MethodGet, "/admin/car-models?year=new", "", http.StatusBadRequest},
		{"bad make id", http.MethodGet, "/admin/car-makes/abc", "", http.StatusBadRequest},
		{"unknown model", http.MethodDelete, "/admin/car-models/42", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := call(t, router, tc.method, tc.target, tc.body, &staff)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}
