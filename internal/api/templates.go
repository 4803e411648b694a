package api

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	ginrender "github.com/gin-gonic/gin/render"
	"gorm.io/datatypes"

	"jobportal/internal/board"
	"jobportal/internal/database"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

var applicationStatuses = []database.ApplicationStatus{
	database.StatusApplied,
	database.StatusReview,
	database.StatusRejected,
	database.StatusAccepted,
}

var templateFuncs = template.FuncMap{
	"date":         formatDate,
	"datetime":     formatDateTime,
	"fieldError":   fieldError,
	"statusLabel":  statusLabel,
	"nextStatuses": nextStatuses,
}

// pageTemplates renders each page inside the shared layout. Every page is
// parsed on its own so they can all define the same "content" block.
type pageTemplates map[string]*template.Template

func loadTemplates() (pageTemplates, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := pageTemplates{}
	for _, file := range files {
		if file == layoutTemplate {
			continue
		}
		name := path.Base(file)
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// Instance implements render.HTMLRender.
func (p pageTemplates) Instance(name string, data any) ginrender.Render {
	tmpl, ok := p[name]
	if !ok {
		panic(fmt.Sprintf("template %q is not loaded", name))
	}
	return ginrender.HTML{Template: tmpl, Name: "layout", Data: data}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case datatypes.Date:
		return time.Time(t).Format("Jan 2, 2006")
	case time.Time:
		return t.Format("Jan 2, 2006")
	}
	return ""
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}

func fieldError(errs any, field string) string {
	if fe, ok := errs.(board.FieldErrors); ok {
		return fe[field]
	}
	return ""
}

func statusLabel(s database.ApplicationStatus) string {
	if s == "" {
		return ""
	}
	label := string(s)
	return strings.ToUpper(label[:1]) + label[1:]
}

func nextStatuses(s database.ApplicationStatus) []database.ApplicationStatus {
	var out []database.ApplicationStatus
	for _, next := range applicationStatuses {
		if s.CanTransitionTo(next) {
			out = append(out, next)
		}
	}
	return out
}
