package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "dealer_session"
	sessionIssuer     = "dealer-review-web"
)

// ErrInvalidSession is returned for tokens that fail signature or claim checks.
var ErrInvalidSession = errors.New("セッションが無効です")

type sessionClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Staff             bool   `json:"staff,omitempty"`
}

// SessionManager は HS256 署名付き JWT をクッキーに格納してログイン状態を保持する。
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionManager(secret []byte, ttl time.Duration, secure bool) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Issue signs a token for user and sets it as the session cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, user AuthenticatedUser) error {
	token, err := m.Sign(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Sign returns the compact JWT for user.
func (m *SessionManager) Sign(user AuthenticatedUser) (string, error) {
	now := m.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Name:              user.Name,
		PreferredUsername: user.Username,
		Staff:             user.IsStaff,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("セッショントークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Parse verifies the token and returns the principal it carries.
func (m *SessionManager) Parse(tokenString string) (AuthenticatedUser, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return m.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return AuthenticatedUser{}, ErrInvalidSession
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return AuthenticatedUser{}, ErrInvalidSession
	}

	return AuthenticatedUser{
		ID:       uint(id),
		Name:     claims.Name,
		Username: claims.PreferredUsername,
		IsStaff:  claims.Staff,
	}, nil
}

// Middleware はクッキーのセッションを検証し、有効であればユーザーをコンテキストへ詰める。
// 無効なクッキーは削除して匿名として処理を続ける。
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.Parse(cookie.Value)
		if err != nil {
			m.Clear(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireLogin redirects anonymous visitors to loginPath with the original path in ?next=.
func RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); !ok {
				target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff rejects requests without a staff session using JSON errors.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteJSON(w, r, http.StatusUnauthorized, map[string]string{"error": "ログインが必要です"})
			return
		}
		if !user.IsStaff {
			WriteJSON(w, r, http.StatusForbidden, map[string]string{"error": "管理者権限が必要です"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
