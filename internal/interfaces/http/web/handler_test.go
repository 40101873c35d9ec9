package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
	"github.com/sngm3741/dealer-review-services/internal/infrastructure/sqlstore"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

type stubDealers struct {
	dealers    []domain.CarDealer
	reviews    []domain.DealerReview
	err        error
	reviewsErr error
}

func (s *stubDealers) Dealers(_ context.Context, state string) ([]domain.CarDealer, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.CarDealer
	for _, d := range s.dealers {
		if state == "" || d.State == state {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDealers) Dealer(_ context.Context, id int) (domain.CarDealer, error) {
	if s.err != nil {
		return domain.CarDealer{}, s.err
	}
	for _, d := range s.dealers {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.CarDealer{}, domain.ErrDealerNotFound
}

func (s *stubDealers) DealerDetail(ctx context.Context, id int) (dealerapp.DealerDetail, error) {
	dealer, err := s.Dealer(ctx, id)
	if err != nil {
		return dealerapp.DealerDetail{}, err
	}
	if s.reviewsErr != nil {
		return dealerapp.DealerDetail{Dealer: dealer}, s.reviewsErr
	}
	return dealerapp.DealerDetail{Dealer: dealer, Reviews: s.reviews}, nil
}

type recordingGateway struct {
	posted []domain.ReviewPayload
	err    error
}

func (g *recordingGateway) DealerReviews(context.Context, int) ([]domain.DealerReview, error) {
	return nil, nil
}

func (g *recordingGateway) PostReview(_ context.Context, review domain.ReviewPayload) error {
	if g.err != nil {
		return g.err
	}
	g.posted = append(g.posted, review)
	return nil
}

type testEnv struct {
	router   http.Handler
	sessions *common.SessionManager
	dealers  *stubDealers
	gateway  *recordingGateway
	accounts dealerapp.AccountService
	catalog  dealerapp.CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlstore.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlstore.Close(db) })

	cars := sqlstore.NewCarRepository(db)
	env := &testEnv{
		sessions: common.NewSessionManager([]byte("test-secret"), time.Hour, false),
		dealers: &stubDealers{dealers: []domain.CarDealer{
			{ID: 15, FullName: "Holdlamis Car Dealership", City: "El Paso", State: "TX", Zip: "79945"},
			{ID: 3, FullName: "Zathin Car Dealership", City: "Wichita", State: "KS"},
		}},
		gateway:  &recordingGateway{},
		accounts: dealerapp.NewAccountService(sqlstore.NewUserRepository(db), bcrypt.MinCost),
		catalog:  dealerapp.NewCatalogService(cars),
	}

	h, err := NewHandler(Config{
		Dealers:  env.dealers,
		Reviews:  dealerapp.NewReviewSubmissionService(env.gateway, cars),
		Accounts: env.accounts,
		Catalog:  env.catalog,
		Sessions: env.sessions,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(env.sessions.Middleware)
	r.Route(BasePath, h.Register)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values, user *common.AuthenticatedUser) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != nil {
		token, err := e.sessions.Sign(*user)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestIndexListsDealers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/djangoapp/", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Holdlamis Car Dealership")
	assert.Contains(t, rec.Body.String(), "Zathin Car Dealership")
	assert.Contains(t, rec.Body.String(), "/djangoapp/registration")
}

func TestIndexFiltersByState(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/djangoapp/?state=KS", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Holdlamis")
	assert.Contains(t, rec.Body.String(), "Zathin")
}

func TestIndexShowsMessageWhenDealerServiceFails(t *testing.T) {
	env := newTestEnv(t)
	env.dealers.err = errors.New("connection refused")

	rec := env.do(t, http.MethodGet, "/djangoapp/", nil, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dealerships are unavailable right now.")
}

func TestStaticPages(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/djangoapp/about", "/djangoapp/contact", "/djangoapp/login", "/djangoapp/registration"} {
		rec := env.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestDealerDetailShowsSentiment(t *testing.T) {
	env := newTestEnv(t)
	env.dealers.reviews = []domain.DealerReview{
		{ID: 1, Dealership: 15, Name: "Berkly Shepley", Review: "Great service", Sentiment: "Positive", Purchase: true, CarMake: "Audi", CarModel: "A6", CarYear: 2010},
	}

	rec := env.do(t, http.MethodGet, "/djangoapp/dealer/15", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Great service")
	assert.Contains(t, body, "badge-success")
	assert.Contains(t, body, "Audi A6 (2010)")
	assert.NotContains(t, body, "Write a review")
}

func TestDealerDetailNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/djangoapp/dealer/999", "/djangoapp/dealer/abc", "/djangoapp/dealer/0"} {
		rec := env.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestDealerDetailReviewServiceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.dealers.reviewsErr = errors.New("timeout")

	rec := env.do(t, http.MethodGet, "/djangoapp/dealer/15", nil, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Holdlamis Car Dealership")
	assert.Contains(t, rec.Body.String(), "Reviews are unavailable right now.")
}

func TestDealerDetailDealerServiceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.dealers.err = errors.New("timeout")

	rec := env.do(t, http.MethodGet, "/djangoapp/dealer/15", nil, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dealerships are unavailable right now.")
}

func TestRegistrationLogsUserIn(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/djangoapp/registration", url.Values{
		"username":  {"jdoe"},
		"psw":       {"password"},
		"firstname": {"Jane"},
		"lastname":  {"Doe"},
	}, nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/djangoapp/", rec.Header().Get("Location"))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	user, err := env.sessions.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jdoe", user.Username)
	assert.False(t, user.IsStaff)
}

func TestRegistrationDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.accounts.Register(context.Background(), dealerapp.RegisterCommand{Username: "jdoe", Password: "password"})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/djangoapp/registration", url.Values{
		"username": {"jdoe"},
		"psw":      {"other"},
	}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists.")
	assert.Nil(t, sessionCookie(rec))

	_, err = env.accounts.Authenticate(context.Background(), "jdoe", "password")
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.accounts.Register(context.Background(), dealerapp.RegisterCommand{Username: "jdoe", Password: "password", FirstName: "Jane"})
	require.NoError(t, err)

	t.Run("success redirects to next", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/djangoapp/login", url.Values{
			"username": {"jdoe"},
			"psw":      {"password"},
			"next":     {"/djangoapp/dealer/15/add-review"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/djangoapp/dealer/15/add-review", rec.Header().Get("Location"))
		require.NotNil(t, sessionCookie(rec))
	})

	t.Run("external next is ignored", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/djangoapp/login", url.Values{
			"username": {"jdoe"},
			"psw":      {"password"},
			"next":     {"//evil.example/"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/djangoapp/", rec.Header().Get("Location"))
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/djangoapp/login", url.Values{
			"username": {"jdoe"},
			"psw":      {"nope"},
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid username or password.")
		assert.Nil(t, sessionCookie(rec))
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/djangoapp/login", url.Values{"username": {"jdoe"}}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/djangoapp/logout", nil, &common.AuthenticatedUser{ID: 1, Username: "jdoe"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/djangoapp/", rec.Header().Get("Location"))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestAddReviewRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/djangoapp/dealer/15/add-review", nil, nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/djangoapp/login?next=%2Fdjangoapp%2Fdealer%2F15%2Fadd-review", rec.Header().Get("Location"))
	assert.Empty(t, env.gateway.posted)
}

func TestAddReviewFormListsDealerModels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	audi, err := env.catalog.CreateMake(ctx, dealerapp.CreateMakeCommand{Name: "Audi"})
	require.NoError(t, err)
	_, err = env.catalog.CreateModel(ctx, dealerapp.CreateModelCommand{DealerID: 15, Name: "A6", Type: "sedan", Year: 2010, MakeID: &audi.ID})
	require.NoError(t, err)
	_, err = env.catalog.CreateModel(ctx, dealerapp.CreateModelCommand{DealerID: 3, Name: "Q7", Type: "suv", Year: 2019, MakeID: &audi.ID})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/djangoapp/dealer/15/add-review", nil, &common.AuthenticatedUser{ID: 1, Username: "jdoe"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A6-Audi-2010")
	assert.NotContains(t, rec.Body.String(), "Q7")
}

func TestAddReviewPostsToReviewService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	audi, err := env.catalog.CreateMake(ctx, dealerapp.CreateMakeCommand{Name: "Audi"})
	require.NoError(t, err)
	a6, err := env.catalog.CreateModel(ctx, dealerapp.CreateModelCommand{DealerID: 15, Name: "A6", Type: "sedan", Year: 2010, MakeID: &audi.ID})
	require.NoError(t, err)
	user := &common.AuthenticatedUser{ID: 1, Name: "Jane Doe", Username: "jdoe"}

	rec := env.do(t, http.MethodPost, "/djangoapp/dealer/15/add-review", url.Values{
		"content":       {"Great service"},
		"purchasecheck": {"on"},
		"car":           {uintString(a6.ID)},
		"purchasedate":  {"2021-07-04"},
	}, user)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/djangoapp/dealer/15", rec.Header().Get("Location"))
	require.Len(t, env.gateway.posted, 1)
	posted := env.gateway.posted[0]
	assert.Equal(t, "Jane Doe", posted.Name)
	assert.Equal(t, "jdoe", posted.Username)
	assert.Equal(t, 15, posted.Dealership)
	assert.True(t, posted.Purchase)
	assert.Equal(t, "07/04/2021", posted.PurchaseDate)
	assert.Equal(t, "Audi", posted.CarMake)
	assert.Equal(t, "A6", posted.CarModel)
	assert.Equal(t, 2010, posted.CarYear)
}

func TestAddReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	user := &common.AuthenticatedUser{ID: 1, Username: "jdoe"}

	rec := env.do(t, http.MethodPost, "/djangoapp/dealer/15/add-review", url.Values{"content": {"  "}}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter the review content.")

	rec = env.do(t, http.MethodPost, "/djangoapp/dealer/15/add-review", url.Values{
		"content":       {"ok"},
		"purchasecheck": {"on"},
		"car":           {"42"},
	}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not sold by this dealership")
	assert.Empty(t, env.gateway.posted)
}

func TestAddReviewReviewServiceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.err = errors.New("503")

	rec := env.do(t, http.MethodPost, "/djangoapp/dealer/15/add-review", url.Values{"content": {"Great"}}, &common.AuthenticatedUser{ID: 1, Username: "jdoe"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your review could not be posted.")
	assert.Contains(t, rec.Body.String(), "Great")
}

func TestFormatPurchaseDate(t *testing.T) {
	assert.Equal(t, "07/04/2021", formatPurchaseDate("2021-07-04"))
	assert.Equal(t, "07/04/2021", formatPurchaseDate("07/04/2021"))
	assert.Equal(t, "", formatPurchaseDate(""))
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
