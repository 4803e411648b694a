package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobportal/internal/access"
	"jobportal/internal/api/middleware"
	"jobportal/internal/board"
	"jobportal/internal/database"
	"jobportal/internal/metrics"
)

// ApplicationHandler serves applying, the seeker dashboard and application management.
type ApplicationHandler struct {
	board *board.Service
}

func NewApplicationHandler(boardService *board.Service) *ApplicationHandler {
	return &ApplicationHandler{board: boardService}
}

// ApplyPage shows the apply form, or why the visitor cannot apply.
func (h *ApplicationHandler) ApplyPage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, err := h.board.CheckApply(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		h.blocked(c, job, err)
		return
	}
	renderApply(c, http.StatusOK, job, board.ApplyInput{}, nil)
}

// Apply submits an application with its resume.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	actor := middleware.CurrentAccount(c)

	limitBody(c, h.board.MaxResumeBytes())
	var in board.ApplyInput
	upload, err := bindWithUpload(c, &in, "resume")
	if err != nil {
		job, checkErr := h.board.CheckApply(ctx, actor, id)
		if checkErr != nil {
			h.blocked(c, job, checkErr)
			return
		}
		fe, _ := board.AsFieldErrors(err)
		renderApply(c, http.StatusBadRequest, job, in, fe)
		return
	}
	in.Resume = upload

	app, err := h.board.Apply(ctx, actor, id, in)
	if fe, ok := board.AsFieldErrors(err); ok {
		job, checkErr := h.board.GetJob(ctx, id)
		if checkErr != nil {
			fail(c, checkErr)
			return
		}
		renderApply(c, http.StatusBadRequest, job, in, fe)
		return
	}
	if err != nil {
		job, _ := h.board.GetJob(ctx, id)
		h.blocked(c, job, err)
		return
	}

	setFlash(c, flashSuccess, "Your application has been submitted successfully!")
	redirect(c, jobURL(app.JobID))
}

// blocked renders the apply page without a form for employers and for
// seekers who already applied, with the reason as a flash. Other errors
// take the usual path.
func (h *ApplicationHandler) blocked(c *gin.Context, job *database.Job, err error) {
	var denial *access.Denial
	switch {
	case job == nil:
		fail(c, err)
		return
	case errors.As(err, &denial):
		if denial.Fallback != access.FallbackApplyPage {
			deny(c, denial)
			return
		}
		metrics.AccessDeniedTotal.WithLabelValues(string(denial.Action)).Inc()
		flashNow(c, flashError, denial.Message)
	case errors.Is(err, board.ErrAlreadyApplied):
		flashNow(c, flashWarning, err.Error())
	default:
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "apply.html", gin.H{
		"Title":   "Apply",
		"Job":     job,
		"Blocked": true,
	})
}

func renderApply(c *gin.Context, status int, job *database.Job, in board.ApplyInput, errs board.FieldErrors) {
	render(c, status, "apply.html", gin.H{
		"Title":  "Apply",
		"Job":    job,
		"Form":   in,
		"Errors": errs,
	})
}

// Dashboard lists the seeker's applications.
func (h *ApplicationHandler) Dashboard(c *gin.Context) {
	apps, err := h.board.SeekerApplications(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "seeker_dashboard.html", gin.H{
		"Title":        "My applications",
		"Applications": apps,
	})
}

// DeletePage asks the applicant to confirm withdrawing an application.
func (h *ApplicationHandler) DeletePage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	app, err := h.board.ApplicationForDelete(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "confirm_delete_application.html", gin.H{
		"Title":       "Withdraw application",
		"Application": app,
	})
}

// Delete withdraws an application.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.board.DeleteApplication(c.Request.Context(), middleware.CurrentAccount(c), id); err != nil {
		fail(c, err)
		return
	}
	setFlash(c, flashSuccess, "Your application has been deleted successfully.")
	redirect(c, seekerDashboardURL)
}

// Resume redirects the applicant to a short lived link to their resume.
func (h *ApplicationHandler) Resume(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	url, err := h.board.ResumeURL(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	redirect(c, url)
}

type statusForm struct {
	Status string `form:"status"`
}

// SetStatus moves an application to the posted status on behalf of the job's creator.
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var form statusForm
	_ = c.ShouldBind(&form)
	next := database.ApplicationStatus(strings.TrimSpace(form.Status))

	app, err := h.board.SetApplicationStatus(c.Request.Context(), middleware.CurrentAccount(c), id, next)
	if errors.Is(err, board.ErrInvalidTransition) && app != nil {
		setFlash(c, flashWarning, err.Error())
		redirect(c, jobApplicationsURL(app.JobID))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Application #%d marked as %s.", app.ID, next))
	redirect(c, jobApplicationsURL(app.JobID))
}
