package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
	"jobportal/internal/board"
	"jobportal/internal/database"
)

// JobHandler serves the job catalog and the employer side of it.
type JobHandler struct {
	board *board.Service
}

func NewJobHandler(boardService *board.Service) *JobHandler {
	return &JobHandler{board: boardService}
}

// List shows every job, optionally filtered by ?q= and ?job_type=.
func (h *JobHandler) List(c *gin.Context) {
	var filter board.JobFilter
	_ = c.ShouldBindQuery(&filter)

	jobs, err := h.board.ListJobs(c.Request.Context(), middleware.CurrentAccount(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "job_list.html", gin.H{
		"Title":    "Jobs",
		"Jobs":     jobs,
		"Query":    filter.Query,
		"JobType":  filter.JobType,
		"JobTypes": database.JobTypes,
	})
}

// Detail shows one job. It is public.
func (h *JobHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, err := h.board.GetJob(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "job_detail.html", gin.H{
		"Title": job.Title,
		"Job":   job,
	})
}

// PostPage shows an empty job form to employers.
func (h *JobHandler) PostPage(c *gin.Context) {
	if err := h.board.CanPostJob(middleware.CurrentAccount(c)); err != nil {
		fail(c, err)
		return
	}
	renderJobForm(c, http.StatusOK, nil, board.JobInput{}, nil)
}

// Post creates a job owned by the current employer.
func (h *JobHandler) Post(c *gin.Context) {
	var in board.JobInput
	_ = c.ShouldBind(&in)

	_, err := h.board.PostJob(c.Request.Context(), middleware.CurrentAccount(c), in)
	if fe, ok := board.AsFieldErrors(err); ok {
		renderJobForm(c, http.StatusBadRequest, nil, in, fe)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	setFlash(c, flashSuccess, "Job posted successfully!")
	redirect(c, employerDashboardURL)
}

// EditPage shows the job form filled with the job. Only its creator gets it.
func (h *JobHandler) EditPage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, err := h.board.JobForEdit(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	renderJobForm(c, http.StatusOK, job, board.JobInputFrom(job), nil)
}

// Edit saves the job form.
func (h *JobHandler) Edit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in board.JobInput
	_ = c.ShouldBind(&in)

	ctx := c.Request.Context()
	actor := middleware.CurrentAccount(c)
	_, err := h.board.UpdateJob(ctx, actor, id, in)
	if fe, ok := board.AsFieldErrors(err); ok {
		job, lookupErr := h.board.JobForEdit(ctx, actor, id)
		if lookupErr != nil {
			fail(c, lookupErr)
			return
		}
		renderJobForm(c, http.StatusBadRequest, job, in, fe)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	setFlash(c, flashSuccess, "Job updated successfully!")
	redirect(c, employerDashboardURL)
}

func renderJobForm(c *gin.Context, status int, job *database.Job, in board.JobInput, errs board.FieldErrors) {
	data := gin.H{
		"Title":    "Post a job",
		"Action":   "/job/post/",
		"Job":      job,
		"Form":     in,
		"Errors":   errs,
		"JobTypes": database.JobTypes,
	}
	if job != nil {
		data["Title"] = "Edit job"
		data["Action"] = c.Request.URL.Path
	}
	render(c, status, "job_form.html", data)
}

// DeletePage asks the creator to confirm the deletion.
func (h *JobHandler) DeletePage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, err := h.board.JobForDelete(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "confirm_delete.html", gin.H{
		"Title": "Delete job",
		"Job":   job,
	})
}

// Delete removes the job together with its applications.
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.board.DeleteJob(c.Request.Context(), middleware.CurrentAccount(c), id); err != nil {
		fail(c, err)
		return
	}
	setFlash(c, flashSuccess, "Job deleted successfully!")
	redirect(c, employerDashboardURL)
}

// Dashboard lists the employer's own jobs.
func (h *JobHandler) Dashboard(c *gin.Context) {
	jobs, err := h.board.EmployerJobs(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "employer_dashboard.html", gin.H{
		"Title": "Employer dashboard",
		"Jobs":  jobs,
	})
}

// Applications lists who applied to a job. Only the job's creator sees it.
func (h *JobHandler) Applications(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, apps, err := h.board.JobApplications(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "applications.html", gin.H{
		"Title":        "Applications",
		"Job":          job,
		"Applications": apps,
	})
}
