package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"jobportal/internal/auth"
	"jobportal/internal/database"
)

// SessionCookieName is the cookie holding the signed session token.
const SessionCookieName = "session"

const (
	accountKey       = "account"
	sessionClaimsKey = "sessionClaims"
)

// AccountLoader resolves the account a session belongs to.
type AccountLoader interface {
	Account(ctx context.Context, id uint) (*database.Account, error)
}

// RevocationChecker reports whether a session was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// SessionMiddleware resolves the session cookie into the current account.
// Requests without a usable session continue anonymously.
func SessionMiddleware(authService *auth.AuthService, sessions RevocationChecker, accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := authService.ValidateSession(token)
		if err != nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := LoggerFromContext(c)
		revoked, err := sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.Error("session revocation lookup failed", slog.Any("error", err))
			c.Next()
			return
		}
		if revoked {
			c.Next()
			return
		}

		account, err := accounts.Account(ctx, claims.AccountID)
		if err != nil {
			logger.Warn("session account unavailable",
				slog.Uint64("account_id", uint64(claims.AccountID)),
				slog.Any("error", err),
			)
			c.Next()
			return
		}

		c.Set(accountKey, account)
		c.Set(sessionClaimsKey, claims)
		SetLogger(c, logger.With(slog.Uint64("account_id", uint64(account.ID))))
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page, remembering where they were going.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentAccount(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL is the login page returning to next afterwards.
func LoginURL(next string) string {
	if next == "" {
		return "/login/"
	}
	return "/login/?next=" + url.QueryEscape(next)
}

// CurrentAccount returns the signed in account or nil.
func CurrentAccount(c *gin.Context) *database.Account {
	if value, ok := c.Get(accountKey); ok {
		if account, ok := value.(*database.Account); ok {
			return account
		}
	}
	return nil
}

// CurrentSession returns the claims of the active session or nil.
func CurrentSession(c *gin.Context) *auth.SessionClaims {
	if value, ok := c.Get(sessionClaimsKey); ok {
		if claims, ok := value.(*auth.SessionClaims); ok {
			return claims
		}
	}
	return nil
}
