package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/internal/database"
	"jobportal/internal/errcode"
)

func TestAuthorize(t *testing.T) {
	employer := &database.Account{ID: 1, Role: database.RoleEmployer}
	otherEmployer := &database.Account{ID: 2, Role: database.RoleEmployer}
	seeker := &database.Account{ID: 3, Role: database.RoleSeeker}
	otherSeeker := &database.Account{ID: 4, Role: database.RoleSeeker}
	unassigned := &database.Account{ID: 5, Role: database.RoleUnassigned}

	job := &database.Job{ID: 10, CreatedByID: employer.ID}
	app := &database.Application{ID: 20, JobID: job.ID, Job: *job, ApplicantID: seeker.ID}

	cases := []struct {
		name     string
		action   Action
		actor    *database.Account
		target   Target
		fallback Fallback
		message  string
		allowed  bool
	}{
		{"anonymous job detail", ViewJobDetail, nil, Target{Job: job}, FallbackNone, "", true},
		{"anonymous job list", ViewJobList, nil, Target{}, FallbackLogin, "", false},
		{"seeker job list", ViewJobList, seeker, Target{}, FallbackNone, "", true},
		{"seeker applies", ApplyToJob, seeker, Target{Job: job}, FallbackNone, "", true},
		{"unassigned applies", ApplyToJob, unassigned, Target{Job: job}, FallbackNone, "", true},
		{"employer applies", ApplyToJob, employer, Target{Job: job}, FallbackApplyPage, MsgEmployersCannotApply, false},
		{"employer posts", PostJob, employer, Target{}, FallbackNone, "", true},
		{"seeker posts", PostJob, seeker, Target{}, FallbackJobList, "", false},
		{"creator edits", EditJob, employer, Target{Job: job}, FallbackNone, "", true},
		{"other employer edits", EditJob, otherEmployer, Target{Job: job}, FallbackEmployerDashboard, "", false},
		{"seeker deletes job", DeleteJob, seeker, Target{Job: job}, FallbackEmployerDashboard, "", false},
		{"creator views applicants", ViewJobApplicants, employer, Target{Job: job}, FallbackNone, "", true},
		{"seeker views applicants", ViewJobApplicants, seeker, Target{Job: job}, FallbackEmployerDashboard, "", false},
		{"other employer views applicants", ViewJobApplicants, otherEmployer, Target{Job: job}, FallbackEmployerDashboard, "", false},
		{"creator sets status", SetApplicationStatus, employer, Target{Application: app}, FallbackNone, "", true},
		{"other employer sets status", SetApplicationStatus, otherEmployer, Target{Application: app}, FallbackEmployerDashboard, "", false},
		{"applicant deletes", DeleteApplication, seeker, Target{Application: app}, FallbackNone, "", true},
		{"other seeker deletes", DeleteApplication, otherSeeker, Target{Application: app}, FallbackSeekerDashboard, MsgNotYourApplication, false},
		{"applicant views resume", ViewResume, seeker, Target{Application: app}, FallbackNone, "", true},
		{"employer views resume", ViewResume, employer, Target{Application: app}, FallbackSeekerDashboard, MsgNotYourResume, false},
		{"employer dashboard", EmployerDashboard, employer, Target{}, FallbackNone, "", true},
		{"seeker employer dashboard", EmployerDashboard, seeker, Target{}, FallbackJobList, "", false},
		{"seeker profile", ViewProfile, seeker, Target{}, FallbackNone, "", true},
		{"unassigned profile", EditProfile, unassigned, Target{}, FallbackJobList, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.action, tc.actor, tc.target)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			var denial *Denial
			require.True(t, errors.As(err, &denial))
			assert.Equal(t, tc.fallback, denial.Fallback)
			assert.Equal(t, tc.message, denial.Message)
			assert.Equal(t, errcode.Forbidden, errcode.Of(err))
		})
	}
}

func TestUnknownActionIsDenied(t *testing.T) {
	err := Authorize(Action("nope"), &database.Account{ID: 1, Role: database.RoleEmployer}, Target{})
	assert.Error(t, err)
}
