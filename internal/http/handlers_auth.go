package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/observability/metrics"
	"github.com/rodaworks/academy/internal/observability/statsd"
	"github.com/rodaworks/academy/internal/service"
)

const sessionCookieName = "session_id"

// AuthHandlers provides HTTP handlers for both authentication flows: the
// credential endpoints used by the member app and CLI, and the browser OIDC
// flow used by staff.
type AuthHandlers struct {
	Svc          *service.AuthService
	CookieDomain string
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// authResponse is the envelope every credential auth endpoint returns.
// Token and User are set on success; Message explains failures.
type authResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    *model.User `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles credential sign-in.
// POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	metrics.EmitLogin(h.Metrics, err == nil)
	if err != nil {
		h.writeAuthFailure(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, authResponse{Success: true, Token: result.Token, User: result.User})
}

// Register creates a member account and signs it in.
// POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Register(r.Context(), &req)
	if err != nil {
		h.writeAuthFailure(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, authResponse{Success: true, Token: result.Token, User: result.User})
}

// Me resolves the bearer token to the current user record.
// GET /auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.Me(r.Context(), BearerToken(r))
	if err != nil {
		h.writeAuthFailure(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, authResponse{Success: true, User: user})
}

// Logout revokes the session behind the bearer token. Always succeeds for
// the client; revoking an unknown token is a no-op.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Logout(r.Context(), BearerToken(r)); err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
	}

	WriteJSON(w, http.StatusOK, authResponse{Success: true})
}

// writeAuthFailure maps a service error onto the auth envelope.
func (h *AuthHandlers) writeAuthFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case apperrors.IsUnauthorized(err):
		status = http.StatusUnauthorized
		message = err.Error()
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case apperrors.IsConflict(err):
		status = http.StatusConflict
		message = err.Error()
	default:
		h.logger().ErrorContext(r.Context(), "auth request failed", "error", err)
	}

	WriteJSON(w, status, authResponse{Success: false, Message: message})
}

// OIDCLogin starts the browser OIDC flow.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) OIDCLogin(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// OIDCCallback completes the browser OIDC flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) OIDCCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_params",
			Err:     errors.New("code and state parameters are required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	session, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		if apperrors.IsForbidden(err) {
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "no_role", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_completion_failed", Err: err})
		return
	}

	h.setSessionCookie(w, r, *session)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	http.Redirect(w, r, h.getPostLoginRedirect(w, r), http.StatusFound)
}

// Status reports the current browser session state.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := h.browserSession(r)
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    session.UserID,
			"name":  session.Name,
			"email": session.Email,
			"role":  session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// SignOut ends the browser session and clears the session cookie.
// POST /auth/signout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.Svc.RevokeSession(r.Context(), cookie.Value); err != nil {
			h.logger().WarnContext(r.Context(), "sign-out failed", "error", err)
		}
	}
	h.clearCookie(w, r, sessionCookieName)

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandlers) browserSession(r *http.Request) *domainauth.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	session, err := h.Svc.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// oauthCookieParams groups values needed to set OAuth cookies.
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	const oauthCookieTTL = 600 // 10 minutes

	isSecure := requestIsSecure(r)
	for name, value := range map[string]string{
		"oauth_state":         p.State,
		"oauth_nonce":         p.Nonce,
		"post_login_redirect": p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   oauthCookieTTL,
		})
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// getPostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if cookie, err := r.Cookie("post_login_redirect"); err == nil {
		if candidate, decodeErr := url.QueryUnescape(cookie.Value); decodeErr == nil {
			redirectURI = safeRedirectPath(candidate)
		}
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}

func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
