package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Flash levels, used as CSS classes by the layout.
const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashError   = "error"
)

const (
	flashCookieName = "flash"
	pendingFlashKey = "pendingFlashes"
	nowFlashKey     = "nowFlashes"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// setFlash queues a message for the page the visitor is redirected to.
func setFlash(c *gin.Context, level, message string) {
	pending := append(flashesAt(c, pendingFlashKey), Flash{Level: level, Message: message})
	c.Set(pendingFlashKey, pending)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	writeFlashCookie(c, base64.RawURLEncoding.EncodeToString(raw), 0)
}

// flashNow shows a message on the page rendered by this request.
func flashNow(c *gin.Context, level, message string) {
	c.Set(nowFlashKey, append(flashesAt(c, nowFlashKey), Flash{Level: level, Message: message}))
}

// takeFlashes returns the messages carried over from the previous request
// followed by those added for this one, and clears the cookie.
func takeFlashes(c *gin.Context) []Flash {
	var out []Flash
	if value, err := c.Cookie(flashCookieName); err == nil && value != "" {
		out = decodeFlashes(value)
		writeFlashCookie(c, "", -1)
	}
	return append(out, flashesAt(c, nowFlashKey)...)
}

func decodeFlashes(value string) []Flash {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

func flashesAt(c *gin.Context, key string) []Flash {
	if value, ok := c.Get(key); ok {
		if flashes, ok := value.([]Flash); ok {
			return flashes
		}
	}
	return nil
}

func writeFlashCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isHTTPSRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
}
