package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "templates/base.html"

// pageData is the view model shared by every page.
type pageData struct {
	User    *common.AuthenticatedUser
	Message string
	State   string
	Next    string
	Form    map[string]string
	Dealers []domain.CarDealer
	Dealer  domain.CarDealer
	Reviews []domain.DealerReview
	Models  []domain.CarModel
}

var templateFuncs = template.FuncMap{
	"sentimentClass": func(label string) string {
		switch label {
		case "Positive":
			return "success"
		case "Negative":
			return "danger"
		case "Neutral":
			return "secondary"
		}
		return "light"
	},
}

func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == baseTemplate {
			continue
		}
		tmpl, err := template.New(path.Base(page)).Funcs(templateFuncs).ParseFS(templateFS, baseTemplate, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		parsed[path.Base(page)] = tmpl
	}
	return parsed, nil
}

// render はページを描画する。テンプレートエラー時は 500 を返す。
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if user, ok := common.UserFromContext(r.Context()); ok {
		data.User = &user
	}

	tmpl, ok := h.templates[name]
	if !ok {
		h.logger.Error("テンプレートが見つかりません", zap.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("テンプレートの描画に失敗", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
