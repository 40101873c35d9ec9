package web

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

const (
	invalidLoginMessage    = "Invalid username or password."
	userExistsMessage      = "User already exists."
	missingFieldsMessage   = "Username and password are required."
	authUnavailableMessage = "Sign in is unavailable right now. Please try again later."
	accountStoreTimeout    = 5 * time.Second
)

func (h *Handler) loginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, "login.html", pageData{Next: safeNext(r.URL.Query().Get("next"))})
	}
}

// loginHandler はフォームの username / psw を検証し、成功時にセッションを発行する。
func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseForm(w, r) {
			h.render(w, r, http.StatusBadRequest, "login.html", pageData{Message: invalidLoginMessage})
			return
		}
		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("psw")
		next := safeNext(r.PostFormValue("next"))
		data := pageData{Next: next, Form: map[string]string{"username": username}}
		if username == "" || password == "" {
			data.Message = missingFieldsMessage
			h.render(w, r, http.StatusBadRequest, "login.html", data)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), accountStoreTimeout)
		defer cancel()

		user, err := h.accounts.Authenticate(ctx, username, password)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.logger.Info("ログインに失敗", zap.String("username", username))
			data.Message = invalidLoginMessage
			h.render(w, r, http.StatusUnauthorized, "login.html", data)
			return
		}
		if err != nil {
			h.logger.Error("ユーザー認証処理に失敗", zap.Error(err))
			data.Message = authUnavailableMessage
			h.render(w, r, http.StatusInternalServerError, "login.html", data)
			return
		}

		if !h.startSession(w, r, user, "login.html", data) {
			return
		}
		http.Redirect(w, r, next, http.StatusSeeOther)
	}
}

func (h *Handler) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.Clear(w)
		http.Redirect(w, r, indexPath, http.StatusSeeOther)
	}
}

func (h *Handler) registrationPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, "registration.html", pageData{})
	}
}

// registrationHandler はアカウントを作成してそのままログインさせる。
// 既存ユーザー名の場合はアカウントを作らずメッセージを表示する。
func (h *Handler) registrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseForm(w, r) {
			h.render(w, r, http.StatusBadRequest, "registration.html", pageData{Message: missingFieldsMessage})
			return
		}
		cmd := dealerapp.RegisterCommand{
			Username:  strings.TrimSpace(r.PostFormValue("username")),
			Password:  r.PostFormValue("psw"),
			FirstName: strings.TrimSpace(r.PostFormValue("firstname")),
			LastName:  strings.TrimSpace(r.PostFormValue("lastname")),
		}
		data := pageData{Form: map[string]string{
			"username":  cmd.Username,
			"firstname": cmd.FirstName,
			"lastname":  cmd.LastName,
		}}

		ctx, cancel := context.WithTimeout(r.Context(), accountStoreTimeout)
		defer cancel()

		user, err := h.accounts.Register(ctx, cmd)
		switch {
		case errors.Is(err, domain.ErrUserExists):
			data.Message = userExistsMessage
			h.render(w, r, http.StatusOK, "registration.html", data)
			return
		case errors.Is(err, dealerapp.ErrUsernameRequired):
			data.Message = missingFieldsMessage
			h.render(w, r, http.StatusBadRequest, "registration.html", data)
			return
		case err != nil:
			h.logger.Error("ユーザー登録に失敗", zap.String("username", cmd.Username), zap.Error(err))
			data.Message = authUnavailableMessage
			h.render(w, r, http.StatusInternalServerError, "registration.html", data)
			return
		}

		h.logger.Debug("新規ユーザーを登録", zap.String("username", user.Username))
		if !h.startSession(w, r, user, "registration.html", data) {
			return
		}
		http.Redirect(w, r, indexPath, http.StatusSeeOther)
	}
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user domain.User, page string, data pageData) bool {
	err := h.sessions.Issue(w, common.AuthenticatedUser{
		ID:       user.ID,
		Name:     user.DisplayName(),
		Username: user.Username,
		IsStaff:  user.IsStaff,
	})
	if err != nil {
		h.logger.Error("セッションの発行に失敗", zap.String("userId", strconv.FormatUint(uint64(user.ID), 10)), zap.Error(err))
		data.Message = authUnavailableMessage
		h.render(w, r, http.StatusInternalServerError, page, data)
		return false
	}
	return true
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxFormBody)
	return r.ParseForm() == nil
}

// safeNext only allows local absolute paths as redirect targets.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return indexPath
	}
	return next
}
