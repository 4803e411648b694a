// Package access holds the per-action authorization rules of the job board.
//
// Rules never fail hard: a denial carries the page the caller should fall
// back to and, for some actions, a message to flash on it.
package access

import (
	"fmt"

	"jobportal/internal/database"
	"jobportal/internal/errcode"
)

// Action names a gated operation.
type Action string

const (
	ViewJobList          Action = "view_job_list"
	ViewJobDetail        Action = "view_job_detail"
	ApplyToJob           Action = "apply_to_job"
	PostJob              Action = "post_job"
	EditJob              Action = "edit_job"
	DeleteJob            Action = "delete_job"
	ViewJobApplicants    Action = "view_job_applications"
	SetApplicationStatus Action = "set_application_status"
	DeleteApplication    Action = "delete_application"
	ViewResume           Action = "view_resume"
	EmployerDashboard    Action = "employer_dashboard"
	SeekerDashboard      Action = "seeker_dashboard"
	ViewProfile          Action = "view_profile"
	EditProfile          Action = "edit_profile"
)

// Fallback is where a denied actor is sent.
type Fallback string

const (
	FallbackNone              Fallback = ""
	FallbackLogin             Fallback = "login"
	FallbackJobList           Fallback = "job_list"
	FallbackApplyPage         Fallback = "apply_page"
	FallbackEmployerDashboard Fallback = "employer_dashboard"
	FallbackSeekerDashboard   Fallback = "seeker_dashboard"
)

// Messages flashed alongside some denials.
const (
	MsgEmployersCannotApply = "Employers cannot apply for jobs."
	MsgNotYourApplication   = "You can only manage your own applications."
	MsgNotYourResume        = "You can only view your own resume."
)

// Target is the entity an action is aimed at. Unused fields stay nil.
type Target struct {
	Job         *database.Job
	Application *database.Application
}

// Denial is returned when an action is refused.
type Denial struct {
	Action   Action
	Fallback Fallback
	Message  string
}

func (d *Denial) Error() string {
	if d.Message != "" {
		return fmt.Sprintf("%s denied: %s", d.Action, d.Message)
	}
	return fmt.Sprintf("%s denied", d.Action)
}

// ErrorCode implements errcode.Coder.
func (d *Denial) ErrorCode() int { return errcode.Forbidden }

func deny(action Action, fallback Fallback, message string) *Denial {
	return &Denial{Action: action, Fallback: fallback, Message: message}
}

// Authorize checks whether actor may perform action on target. A nil actor is anonymous.
// It returns nil or a *Denial.
func Authorize(action Action, actor *database.Account, target Target) error {
	if action == ViewJobDetail {
		return nil
	}
	if actor == nil {
		return deny(action, FallbackLogin, "")
	}

	switch action {
	case ViewJobList, SeekerDashboard:
		return nil
	case ApplyToJob:
		if actor.IsEmployer() {
			return deny(action, FallbackApplyPage, MsgEmployersCannotApply)
		}
		return nil
	case PostJob:
		if !actor.IsEmployer() {
			return deny(action, FallbackJobList, "")
		}
		return nil
	case EmployerDashboard:
		if !actor.IsEmployer() {
			return deny(action, FallbackJobList, "")
		}
		return nil
	case ViewProfile, EditProfile:
		if !actor.IsSeeker() && !actor.IsEmployer() {
			return deny(action, FallbackJobList, "")
		}
		return nil
	case EditJob, DeleteJob, ViewJobApplicants:
		if !ownsJob(actor, target.Job) {
			return deny(action, FallbackEmployerDashboard, "")
		}
		return nil
	case SetApplicationStatus:
		if target.Application == nil || !ownsJob(actor, jobOf(target)) {
			return deny(action, FallbackEmployerDashboard, "")
		}
		return nil
	case DeleteApplication:
		if !isApplicant(actor, target.Application) {
			return deny(action, FallbackSeekerDashboard, MsgNotYourApplication)
		}
		return nil
	case ViewResume:
		if !isApplicant(actor, target.Application) {
			return deny(action, FallbackSeekerDashboard, MsgNotYourResume)
		}
		return nil
	}
	return deny(action, FallbackJobList, "")
}

func ownsJob(actor *database.Account, job *database.Job) bool {
	return job != nil && job.CreatedByID == actor.ID
}

func isApplicant(actor *database.Account, app *database.Application) bool {
	return app != nil && app.ApplicantID == actor.ID
}

func jobOf(target Target) *database.Job {
	if target.Job != nil {
		return target.Job
	}
	if target.Application != nil && target.Application.Job.ID != 0 {
		return &target.Application.Job
	}
	return nil
}
