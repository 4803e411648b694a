package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobportal/internal/access"
	"jobportal/internal/api/middleware"
	"jobportal/internal/errcode"
	"jobportal/internal/metrics"
)

// Fixed destinations used by handlers and denial fallbacks.
const (
	jobListURL           = "/"
	seekerDashboardURL   = "/seeker/dashboard/"
	employerDashboardURL = "/employer/dashboard/"
	profileURL           = "/profile/"
	loginURL             = "/login/"
)

func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	account := middleware.CurrentAccount(c)
	data["Account"] = account
	data["LoggedIn"] = account != nil
	data["IsEmployer"] = account.IsEmployer()
	data["Flashes"] = takeFlashes(c)
	data["Path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "error.html", gin.H{
		"Status":  http.StatusNotFound,
		"Message": "The page you requested does not exist.",
	})
}

func Internal(c *gin.Context, err error) {
	_ = c.Error(err)
	middleware.LoggerFromContext(c).Error("request failed", slog.Any("error", err))
	render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong on our side. Please try again later.",
	})
}

// fail turns a service error into the page the visitor ends up on.
// Validation and duplicate errors are page specific and handled by callers.
func fail(c *gin.Context, err error) {
	var denial *access.Denial
	switch {
	case errors.As(err, &denial):
		deny(c, denial)
	case errcode.Of(err) == errcode.NotFound:
		NotFound(c)
	default:
		Internal(c, err)
	}
}

func deny(c *gin.Context, d *access.Denial) {
	metrics.AccessDeniedTotal.WithLabelValues(string(d.Action)).Inc()
	middleware.LoggerFromContext(c).Info("access denied", slog.String("action", string(d.Action)))
	if d.Message != "" {
		setFlash(c, flashError, d.Message)
	}
	redirect(c, fallbackURL(c, d.Fallback))
}

func fallbackURL(c *gin.Context, fallback access.Fallback) string {
	switch fallback {
	case access.FallbackLogin:
		return middleware.LoginURL(c.Request.URL.RequestURI())
	case access.FallbackApplyPage:
		return "/job/" + c.Param("id") + "/apply/"
	case access.FallbackEmployerDashboard:
		return employerDashboardURL
	case access.FallbackSeekerDashboard:
		return seekerDashboardURL
	default:
		return jobListURL
	}
}

// idParam reads a numeric path parameter. Anything else is a 404.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		NotFound(c)
		return 0, false
	}
	return uint(id), true
}

func jobURL(id uint) string {
	return "/job/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func jobApplicationsURL(id uint) string {
	return "/job/" + strconv.FormatUint(uint64(id), 10) + "/applications/"
}
