package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
	"jobportal/internal/auth"
	"jobportal/internal/board"
	"jobportal/internal/database"
	"jobportal/internal/metrics"
)

// Login outcome labels.
const (
	loginSucceeded = "succeeded"
	loginFailed    = "failed"
	loginThrottled = "throttled"
)

// AuthHandler serves sign up, login and logout.
type AuthHandler struct {
	board        *board.Service
	authService  *auth.AuthService
	sessions     *auth.SessionStore
	throttle     *auth.LoginThrottle
	cookieDomain string
}

// NewAuthHandler builds the handler. throttle may be nil to disable login limits.
func NewAuthHandler(boardService *board.Service, authService *auth.AuthService, sessions *auth.SessionStore, throttle *auth.LoginThrottle, cookieDomain string) *AuthHandler {
	return &AuthHandler{
		board:        boardService,
		authService:  authService,
		sessions:     sessions,
		throttle:     throttle,
		cookieDomain: cookieDomain,
	}
}

// RegisterPage shows the sign up form for the role bound to the route.
func (h *AuthHandler) RegisterPage(role database.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderRegister(c, http.StatusOK, role, board.RegisterInput{}, nil)
	}
}

// Register creates an account with the route's role and sends the visitor to the login page.
func (h *AuthHandler) Register(role database.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in board.RegisterInput
		_ = c.ShouldBind(&in)

		if _, err := h.board.Register(c.Request.Context(), in, role); err != nil {
			if fe, ok := board.AsFieldErrors(err); ok {
				renderRegister(c, http.StatusBadRequest, role, in, fe)
				return
			}
			Internal(c, err)
			return
		}

		setFlash(c, flashSuccess, "Registration successful. You can now sign in!")
		redirect(c, loginURL)
	}
}

func renderRegister(c *gin.Context, status int, role database.Role, in board.RegisterInput, errs board.FieldErrors) {
	in.Password, in.PasswordConfirm = "", ""
	action := "/register/"
	if role == database.RoleEmployer {
		action = "/employer/register/"
	}
	render(c, status, "register.html", gin.H{
		"Title":  "Sign up",
		"Role":   string(role),
		"Action": action,
		"Form":   in,
		"Errors": errs,
	})
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// LoginPage shows the login form. Signed in visitors go straight on.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := safeNext(c.Query("next"))
	if middleware.CurrentAccount(c) != nil {
		redirect(c, orDefault(next, jobListURL))
		return
	}
	renderLogin(c, http.StatusOK, loginForm{Next: next}, "")
}

// Login checks credentials and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)
	if form.Next == "" {
		form.Next = c.Query("next")
	}
	form.Next = safeNext(form.Next)
	form.Username = strings.TrimSpace(form.Username)

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("username", form.Username))

	if form.Username == "" || form.Password == "" {
		renderLogin(c, http.StatusBadRequest, form, board.ErrInvalidCredentials.Error())
		return
	}

	if h.throttle != nil {
		if err := h.throttle.Allow(ctx, c.ClientIP(), form.Username); err != nil {
			metrics.LoginsTotal.WithLabelValues(loginThrottled).Inc()
			logger.Info("login throttled", slog.Any("error", err))
			msg := "Too many login attempts. Please try again later."
			if errors.Is(err, auth.ErrLoginLocked) {
				msg = "This account is temporarily locked. Please try again later."
			}
			renderLogin(c, http.StatusTooManyRequests, form, msg)
			return
		}
	}

	account, err := h.board.Authenticate(ctx, form.Username, form.Password)
	if errors.Is(err, board.ErrInvalidCredentials) {
		metrics.LoginsTotal.WithLabelValues(loginFailed).Inc()
		logger.Info("login failed")
		if h.throttle != nil {
			if err := h.throttle.Failed(ctx, form.Username); err != nil {
				logger.Warn("record login failure", slog.Any("error", err))
			}
		}
		renderLogin(c, http.StatusBadRequest, form, err.Error())
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}

	if h.throttle != nil {
		h.throttle.Succeeded(ctx, form.Username)
	}

	token, _, err := h.authService.IssueSession(account.ID)
	if err != nil {
		Internal(c, err)
		return
	}
	h.setSessionCookie(c, token)

	metrics.LoginsTotal.WithLabelValues(loginSucceeded).Inc()
	logger.Info("login succeeded", slog.Uint64("account_id", uint64(account.ID)))
	redirect(c, orDefault(form.Next, jobListURL))
}

func renderLogin(c *gin.Context, status int, form loginForm, message string) {
	form.Password = ""
	render(c, status, "login.html", gin.H{
		"Title": "Sign in",
		"Form":  form,
		"Error": message,
	})
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := middleware.CurrentSession(c); claims != nil {
		if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
			Internal(c, err)
			return
		}
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
	})
	setFlash(c, flashInfo, "You have been signed out.")
	redirect(c, jobListURL)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	ttl := h.authService.SessionTTL()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   int(ttl.Seconds()),
		Path:     "/",
		Secure:   isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
		Expires:  time.Now().Add(ttl),
	})
}

func (h *AuthHandler) getCookieDomain() string { return strings.TrimSpace(h.cookieDomain) }

func isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}

// safeNext keeps only same-site absolute paths.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
