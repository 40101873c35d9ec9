package web

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

const (
	// BasePath is where the pages are mounted.
	BasePath  = "/djangoapp"
	indexPath = BasePath + "/"
	loginPath = BasePath + "/login"
)

// Handler wires the web pages to application services.
type Handler struct {
	logger    *zap.Logger
	dealers   dealerapp.DealerQueryService
	reviews   dealerapp.ReviewSubmissionService
	accounts  dealerapp.AccountService
	catalog   dealerapp.CatalogService
	sessions  *common.SessionManager
	templates map[string]*template.Template
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger   *zap.Logger
	Dealers  dealerapp.DealerQueryService
	Reviews  dealerapp.ReviewSubmissionService
	Accounts dealerapp.AccountService
	Catalog  dealerapp.CatalogService
	Sessions *common.SessionManager
}

// NewHandler parses the embedded templates and constructs the page handlers.
func NewHandler(cfg Config) (*Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:    logger,
		dealers:   cfg.Dealers,
		reviews:   cfg.Reviews,
		accounts:  cfg.Accounts,
		catalog:   cfg.Catalog,
		sessions:  cfg.Sessions,
		templates: templates,
	}, nil
}

// Register mounts all pages; expects to be routed under BasePath with the session middleware applied.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.indexHandler())
	r.Get("/about", h.staticHandler("about.html"))
	r.Get("/contact", h.staticHandler("contact.html"))
	r.Get("/login", h.loginPageHandler())
	r.Post("/login", h.loginHandler())
	r.Get("/logout", h.logoutHandler())
	r.Get("/registration", h.registrationPageHandler())
	r.Post("/registration", h.registrationHandler())
	r.Get("/dealer/{id}", h.dealerDetailHandler())
	r.Group(func(r chi.Router) {
		r.Use(common.RequireLogin(loginPath))
		r.Get("/dealer/{id}/add-review", h.addReviewPageHandler())
		r.Post("/dealer/{id}/add-review", h.addReviewHandler())
	})
}

func (h *Handler) staticHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, name, pageData{})
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "error.html", pageData{Message: "Page not found."})
}
