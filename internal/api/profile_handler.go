package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
	"jobportal/internal/board"
)

// ProfileHandler serves the seeker and employer profile pages.
type ProfileHandler struct {
	board *board.Service
}

func NewProfileHandler(boardService *board.Service) *ProfileHandler {
	return &ProfileHandler{board: boardService}
}

func (h *ProfileHandler) Show(c *gin.Context) {
	profile, err := h.board.Profile(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "profile.html", gin.H{
		"Title":   "Profile",
		"Profile": profile,
	})
}

func (h *ProfileHandler) EditPage(c *gin.Context) {
	profile, err := h.board.Profile(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		fail(c, err)
		return
	}
	data := gin.H{"Title": "Edit profile", "Profile": profile}
	if profile.Seeker != nil {
		data["Form"] = board.SeekerProfileInput{
			Skills:     profile.Seeker.Skills,
			Experience: profile.Seeker.Experience,
			Education:  profile.Seeker.Education,
		}
	}
	if profile.Employer != nil {
		data["Form"] = board.EmployerProfileInput{
			CompanyName:        profile.Employer.CompanyName,
			CompanyDescription: profile.Employer.CompanyDescription,
			Website:            profile.Employer.Website,
		}
	}
	render(c, http.StatusOK, "profile_edit.html", data)
}

// Edit saves whichever profile the account's role has.
func (h *ProfileHandler) Edit(c *gin.Context) {
	ctx := c.Request.Context()
	actor := middleware.CurrentAccount(c)
	profile, err := h.board.Profile(ctx, actor)
	if err != nil {
		fail(c, err)
		return
	}

	var form any
	switch {
	case profile.Seeker != nil:
		limitBody(c, h.board.MaxResumeBytes())
		var in board.SeekerProfileInput
		upload, bindErr := bindWithUpload(c, &in, "resume")
		form = in
		if bindErr == nil {
			in.Resume = upload
			_, err = h.board.UpdateSeekerProfile(ctx, actor, in)
		} else {
			err = bindErr
		}
	default:
		var in board.EmployerProfileInput
		_ = c.ShouldBind(&in)
		form = in
		_, err = h.board.UpdateEmployerProfile(ctx, actor, in)
	}

	if fe, ok := board.AsFieldErrors(err); ok {
		render(c, http.StatusBadRequest, "profile_edit.html", gin.H{
			"Title":   "Edit profile",
			"Profile": profile,
			"Form":    form,
			"Errors":  fe,
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	setFlash(c, flashSuccess, "Your profile has been updated.")
	redirect(c, profileURL)
}

// Resume redirects a seeker to the resume stored on their profile.
func (h *ProfileHandler) Resume(c *gin.Context) {
	url, err := h.board.ProfileResumeURL(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		fail(c, err)
		return
	}
	redirect(c, url)
}
