package board

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobportal/internal/access"
	"jobportal/internal/database"
	"jobportal/internal/database/dbtest"
	"jobportal/internal/errcode"
	"jobportal/internal/scan"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	deleted  []string
	onUpload func(key string)
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) UploadFile(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.objects[key] = data
	f.mu.Unlock()
	if f.onUpload != nil {
		f.onUpload(key)
	}
	return nil
}

func (f *fakeStorage) GeneratePresignedURL(_ context.Context, key string, ttl time.Duration, name string) (string, error) {
	return "https://files.example.test/" + key + "?ttl=" + ttl.String() + "&name=" + name, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakePurge struct {
	batches [][]string
}

func (f *fakePurge) EnqueueResumePurge(_ context.Context, keys []string, _ string) error {
	f.batches = append(f.batches, append([]string(nil), keys...))
	return nil
}

type fakeScanner struct {
	err error
}

func (f fakeScanner) Scan(context.Context, io.Reader) error { return f.err }

type fixture struct {
	db      *gorm.DB
	svc     *Service
	storage *fakeStorage
	purge   *fakePurge
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	storage := newFakeStorage()
	purge := &fakePurge{}
	svc := NewService(db, Options{
		Storage:        storage,
		Purge:          purge,
		ResumeURLTTL:   time.Minute,
		MaxResumeBytes: 1 << 10,
	})
	return &fixture{db: db, svc: svc, storage: storage, purge: purge}
}

func (f *fixture) register(t *testing.T, username string, role database.Role) *database.Account {
	t.Helper()
	out, err := f.svc.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           username + "@example.test",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	}, role)
	require.NoError(t, err)
	return out.Account
}

func (f *fixture) postJob(t *testing.T, owner *database.Account, title string) *database.Job {
	t.Helper()
	job, err := f.svc.PostJob(context.Background(), owner, JobInput{
		Title:       title,
		Company:     "Acme",
		Location:    "Berlin",
		JobType:     string(database.JobTypeFullTime),
		Description: "Build things",
		Deadline:    "2031-06-30",
	})
	require.NoError(t, err)
	return job
}

func upload(name string, data []byte) *Upload {
	return &Upload{
		Filename: name,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func (f *fixture) countApplications(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&database.Application{}).Count(&n).Error)
	return n
}

func requireDenial(t *testing.T, err error, fallback access.Fallback) *access.Denial {
	t.Helper()
	var denial *access.Denial
	require.True(t, errors.As(err, &denial), "expected denial, got %v", err)
	assert.Equal(t, fallback, denial.Fallback)
	return denial
}

func TestRegisterProvisionsProfileByRole(t *testing.T) {
	f := newFixture(t)

	seeker := f.register(t, "sam", database.RoleSeeker)
	employer := f.register(t, "acme", database.RoleEmployer)
	none := f.register(t, "lurker", database.RoleUnassigned)

	var seekerProfiles, employerProfiles int64
	require.NoError(t, f.db.Model(&database.SeekerProfile{}).Where("account_id = ?", seeker.ID).Count(&seekerProfiles).Error)
	require.NoError(t, f.db.Model(&database.EmployerProfile{}).Where("account_id = ?", employer.ID).Count(&employerProfiles).Error)
	assert.Equal(t, int64(1), seekerProfiles)
	assert.Equal(t, int64(1), employerProfiles)

	var total int64
	require.NoError(t, f.db.Model(&database.SeekerProfile{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
	require.NoError(t, f.db.Model(&database.EmployerProfile{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	assert.True(t, seeker.IsSeeker())
	assert.True(t, employer.IsEmployer())
	assert.False(t, none.IsSeeker() || none.IsEmployer())
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Username: "sam", Password: "s3cret-pass", PasswordConfirm: "other-pass"}, database.RoleSeeker)
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "password2")
	assert.Equal(t, errcode.Validation, errcode.Of(err))

	_, err = f.svc.Register(ctx, RegisterInput{Username: "sam smith", Email: "nope", Password: "short", PasswordConfirm: "short"}, database.RoleSeeker)
	fe, ok = AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "username")
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password1")

	var accounts int64
	require.NoError(t, f.db.Model(&database.Account{}).Count(&accounts).Error)
	assert.Zero(t, accounts)

	f.register(t, "sam", database.RoleSeeker)
	_, err = f.svc.Register(ctx, RegisterInput{Username: "sam", Password: "s3cret-pass", PasswordConfirm: "s3cret-pass"}, database.RoleEmployer)
	fe, ok = AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, msgUsernameTaken, fe["username"])

	var employers int64
	require.NoError(t, f.db.Model(&database.EmployerProfile{}).Count(&employers).Error)
	assert.Zero(t, employers)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.register(t, "sam", database.RoleSeeker)

	got, err := f.svc.Authenticate(ctx, "sam", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = f.svc.Authenticate(ctx, "sam", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Authenticate(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfileGetOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker := f.register(t, "sam", database.RoleSeeker)
	require.NoError(t, f.db.Where("account_id = ?", seeker.ID).Delete(&database.SeekerProfile{}).Error)

	prof, err := f.svc.Profile(ctx, seeker)
	require.NoError(t, err)
	require.NotNil(t, prof.Seeker)
	assert.Nil(t, prof.Employer)

	again, err := f.svc.Profile(ctx, seeker)
	require.NoError(t, err)
	assert.Equal(t, prof.Seeker.ID, again.Seeker.ID)

	none := f.register(t, "lurker", database.RoleUnassigned)
	_, err = f.svc.Profile(ctx, none)
	requireDenial(t, err, access.FallbackJobList)
}

func TestUpdateProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker := f.register(t, "sam", database.RoleSeeker)
	employer := f.register(t, "acme", database.RoleEmployer)

	first, err := f.svc.UpdateSeekerProfile(ctx, seeker, SeekerProfileInput{Skills: " Go, SQL ", Resume: upload("cv.pdf", pdfBytes)})
	require.NoError(t, err)
	assert.Equal(t, "Go, SQL", first.Skills)
	require.NotEmpty(t, first.ResumeKey)
	assert.True(t, strings.HasPrefix(first.ResumeKey, "resumes/"))

	second, err := f.svc.UpdateSeekerProfile(ctx, seeker, SeekerProfileInput{Skills: "Go", Resume: upload("cv2.pdf", pdfBytes)})
	require.NoError(t, err)
	assert.NotEqual(t, first.ResumeKey, second.ResumeKey)
	require.Len(t, f.purge.batches, 1)
	assert.Equal(t, []string{first.ResumeKey}, f.purge.batches[0])

	kept, err := f.svc.UpdateSeekerProfile(ctx, seeker, SeekerProfileInput{Education: "BSc"})
	require.NoError(t, err)
	assert.Equal(t, second.ResumeKey, kept.ResumeKey)

	url, err := f.svc.ProfileResumeURL(ctx, seeker)
	require.NoError(t, err)
	assert.Contains(t, url, second.ResumeKey)

	_, err = f.svc.UpdateSeekerProfile(ctx, employer, SeekerProfileInput{Skills: "x"})
	requireDenial(t, err, access.FallbackJobList)

	_, err = f.svc.UpdateEmployerProfile(ctx, employer, EmployerProfileInput{CompanyName: "Acme", Website: "not a url"})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "website")

	prof, err := f.svc.UpdateEmployerProfile(ctx, employer, EmployerProfileInput{CompanyName: "Acme", Website: "https://acme.example"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", prof.CompanyName)
}

func TestListJobsSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.register(t, "acme", database.RoleEmployer)
	seeker := f.register(t, "sam", database.RoleSeeker)

	goJob := f.postJob(t, employer, "Senior Go Engineer")
	f.postJob(t, employer, "Designer")
	pct := f.postJob(t, employer, "100% remote_ops")

	all, err := f.svc.ListJobs(ctx, seeker, JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, goJob.ID, all[0].ID)

	hits, err := f.svc.ListJobs(ctx, seeker, JobFilter{Query: "go ENGINEER"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, goJob.ID, hits[0].ID)

	hits, err = f.svc.ListJobs(ctx, seeker, JobFilter{Query: "%"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, pct.ID, hits[0].ID)

	hits, err = f.svc.ListJobs(ctx, seeker, JobFilter{Query: "o_e"})
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = f.svc.ListJobs(ctx, seeker, JobFilter{Query: "berlin"})
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	hits, err = f.svc.ListJobs(ctx, seeker, JobFilter{JobType: string(database.JobTypeRemote)})
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = f.svc.ListJobs(ctx, nil, JobFilter{})
	requireDenial(t, err, access.FallbackLogin)
}

func TestPostJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.register(t, "acme", database.RoleEmployer)
	seeker := f.register(t, "sam", database.RoleSeeker)

	_, err := f.svc.PostJob(ctx, seeker, JobInput{Title: "x"})
	requireDenial(t, err, access.FallbackJobList)

	_, err = f.svc.PostJob(ctx, employer, JobInput{Title: "Go", Company: "Acme", Location: "Remote", JobType: "Contract", Description: "d", Deadline: "31/12/2030"})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "job_type")
	assert.Contains(t, fe, "deadline")

	job := f.postJob(t, employer, "Go")
	assert.Equal(t, employer.ID, job.CreatedByID)
	assert.Equal(t, "2031-06-30", JobInputFrom(job).Deadline)
}

func TestEditAndDeleteOnlyByCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "acme", database.RoleEmployer)
	rival := f.register(t, "globex", database.RoleEmployer)
	job := f.postJob(t, owner, "Go")

	in := JobInputFrom(job)
	in.Title = "Hijacked"
	_, err := f.svc.UpdateJob(ctx, rival, job.ID, in)
	requireDenial(t, err, access.FallbackEmployerDashboard)
	err = f.svc.DeleteJob(ctx, rival, job.ID)
	requireDenial(t, err, access.FallbackEmployerDashboard)

	stored, err := f.svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", stored.Title)

	in.Title = "Go Lead"
	updated, err := f.svc.UpdateJob(ctx, owner, job.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Go Lead", updated.Title)
	assert.Equal(t, owner.ID, updated.CreatedByID)

	require.NoError(t, f.svc.DeleteJob(ctx, owner, job.ID))
	_, err = f.svc.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Equal(t, errcode.NotFound, errcode.Of(err))
	assert.NotErrorIs(t, err, ErrApplicationNotFound)
}

func TestDeleteJobRemovesApplicationsAndPurgesResumes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "acme", database.RoleEmployer)
	job := f.postJob(t, owner, "Go")

	var keys []string
	for _, name := range []string{"sam", "kim"} {
		seeker := f.register(t, name, database.RoleSeeker)
		app, err := f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
		require.NoError(t, err)
		keys = append(keys, app.ResumeKey)
	}
	require.Equal(t, int64(2), f.countApplications(t))

	require.NoError(t, f.svc.DeleteJob(ctx, owner, job.ID))
	assert.Zero(t, f.countApplications(t))
	require.Len(t, f.purge.batches, 1)
	assert.ElementsMatch(t, keys, f.purge.batches[0])
}

func TestApplyRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "acme", database.RoleEmployer)
	seeker := f.register(t, "sam", database.RoleSeeker)
	job := f.postJob(t, owner, "Go")

	_, err := f.svc.Apply(ctx, owner, job.ID, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
	denial := requireDenial(t, err, access.FallbackApplyPage)
	assert.Equal(t, access.MsgEmployersCannotApply, denial.Message)
	assert.Zero(t, f.countApplications(t))

	_, err = f.svc.Apply(ctx, seeker, 9999, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = f.svc.Apply(ctx, seeker, job.ID, ApplyInput{})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "resume")

	_, err = f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.html", []byte("<html><body>hi</body></html>"))})
	_, ok = AsFieldErrors(err)
	assert.True(t, ok)

	_, err = f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("big.txt", bytes.Repeat([]byte("a"), 2048))})
	_, ok = AsFieldErrors(err)
	assert.True(t, ok)
	assert.Zero(t, f.storage.count())

	app, err := f.svc.Apply(ctx, seeker, job.ID, ApplyInput{CoverNote: " hello ", Resume: upload("cv.pdf", pdfBytes)})
	require.NoError(t, err)
	assert.Equal(t, database.StatusApplied, app.Status)
	assert.Equal(t, "hello", app.CoverNote)
	assert.True(t, strings.HasSuffix(app.ResumeKey, ".pdf"))

	_, err = f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.txt", []byte("plain resume"))})
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Equal(t, errcode.Duplicate, errcode.Of(err))
	assert.Equal(t, int64(1), f.countApplications(t))
	assert.Equal(t, 1, f.storage.count())
}

func TestApplyRaceHitsUniqueIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "acme", database.RoleEmployer)
	seeker := f.register(t, "sam", database.RoleSeeker)
	job := f.postJob(t, owner, "Go")

	f.storage.onUpload = func(string) {
		f.storage.onUpload = nil
		require.NoError(t, f.db.Create(&database.Application{
			JobID: job.ID, ApplicantID: seeker.ID, ResumeKey: "resumes/other.pdf",
			Status: database.StatusApplied, AppliedAt: time.Now(),
		}).Error)
	}

	_, err := f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Equal(t, int64(1), f.countApplications(t))
	assert.Zero(t, f.storage.count())
	assert.Len(t, f.storage.deleted, 1)
}

func TestApplyScanner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "acme", database.RoleEmployer)
	seeker := f.register(t, "sam", database.RoleSeeker)
	job := f.postJob(t, owner, "Go")

	f.svc.scanner = fakeScanner{err: scan.ErrInfected}
	_, err := f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe["resume"], "malware")

	f.svc.scanner = fakeScanner{err: errors.New("clamd down")}
	_, err = f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
	assert.Equal(t, errcode.SystemError, errcode.Of(err))
	assert.Zero(t, f.countApplications(t))
}

func TestUnassignedAccountMayApply(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "acme", database.RoleEmployer)
	none := f.register(t, "lurker", database.RoleUnassigned)
	job := f.postJob(t, owner, "Go")

	_, err := f.svc.Apply(context.Background(), none, job.ID, ApplyInput{Resume: upload("cv.txt", []byte("my resume"))})
	assert.NoError(t, err)
}

func TestApplicationOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "acme", database.RoleEmployer)
	seeker := f.register(t, "sam", database.RoleSeeker)
	other := f.register(t, "kim", database.RoleSeeker)
	job := f.postJob(t, owner, "Go")

	app, err := f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
	require.NoError(t, err)

	err = f.svc.DeleteApplication(ctx, other, app.ID)
	denial := requireDenial(t, err, access.FallbackSeekerDashboard)
	assert.Equal(t, access.MsgNotYourApplication, denial.Message)
	assert.Equal(t, int64(1), f.countApplications(t))

	_, err = f.svc.ResumeURL(ctx, other, app.ID)
	requireDenial(t, err, access.FallbackSeekerDashboard)
	_, err = f.svc.ResumeURL(ctx, owner, app.ID)
	requireDenial(t, err, access.FallbackSeekerDashboard)

	url, err := f.svc.ResumeURL(ctx, seeker, app.ID)
	require.NoError(t, err)
	assert.Contains(t, url, app.ResumeKey)
	assert.Contains(t, url, "sam-resume.pdf")

	apps, err := f.svc.SeekerApplications(ctx, seeker)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Go", apps[0].Job.Title)

	_, err = f.svc.ApplicationForDelete(ctx, seeker, app.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteApplication(ctx, seeker, app.ID))
	assert.Zero(t, f.countApplications(t))
	require.Len(t, f.purge.batches, 1)
	assert.Equal(t, []string{app.ResumeKey}, f.purge.batches[0])

	err = f.svc.DeleteApplication(ctx, seeker, app.ID)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.NotErrorIs(t, err, ErrJobNotFound)
}

func TestJobApplicationsAndDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "acme", database.RoleEmployer)
	rival := f.register(t, "globex", database.RoleEmployer)
	seeker := f.register(t, "sam", database.RoleSeeker)
	job := f.postJob(t, owner, "Go")
	f.postJob(t, owner, "Rust")

	_, err := f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
	require.NoError(t, err)

	_, apps, err := f.svc.JobApplications(ctx, owner, job.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "sam", apps[0].Applicant.Username)

	_, _, err = f.svc.JobApplications(ctx, seeker, job.ID)
	requireDenial(t, err, access.FallbackEmployerDashboard)
	_, _, err = f.svc.JobApplications(ctx, rival, job.ID)
	requireDenial(t, err, access.FallbackEmployerDashboard)

	summaries, err := f.svc.EmployerJobs(ctx, owner)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(1), summaries[0].ApplicationCount)
	assert.Equal(t, int64(0), summaries[1].ApplicationCount)

	_, err = f.svc.EmployerJobs(ctx, seeker)
	requireDenial(t, err, access.FallbackJobList)
}

func TestSetApplicationStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "acme", database.RoleEmployer)
	rival := f.register(t, "globex", database.RoleEmployer)
	seeker := f.register(t, "sam", database.RoleSeeker)
	job := f.postJob(t, owner, "Go")

	app, err := f.svc.Apply(ctx, seeker, job.ID, ApplyInput{Resume: upload("cv.pdf", pdfBytes)})
	require.NoError(t, err)

	_, err = f.svc.SetApplicationStatus(ctx, rival, app.ID, database.StatusReview)
	requireDenial(t, err, access.FallbackEmployerDashboard)
	_, err = f.svc.SetApplicationStatus(ctx, seeker, app.ID, database.StatusReview)
	requireDenial(t, err, access.FallbackEmployerDashboard)

	_, err = f.svc.SetApplicationStatus(ctx, owner, app.ID, database.StatusAccepted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	updated, err := f.svc.SetApplicationStatus(ctx, owner, app.ID, database.StatusReview)
	require.NoError(t, err)
	assert.Equal(t, database.StatusReview, updated.Status)

	updated, err = f.svc.SetApplicationStatus(ctx, owner, app.ID, database.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, database.StatusAccepted, updated.Status)

	_, err = f.svc.SetApplicationStatus(ctx, owner, app.ID, database.StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var stored database.Application
	require.NoError(t, f.db.First(&stored, app.ID).Error)
	assert.Equal(t, database.StatusAccepted, stored.Status)
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrAccountNotFound,
		ErrJobNotFound,
		ErrApplicationNotFound,
		ErrNoResume,
		ErrInvalidCredentials,
		ErrInvalidTransition,
		ErrAlreadyApplied,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
	assert.Equal(t, errcode.Of(ErrJobNotFound), errcode.Of(ErrApplicationNotFound))
}
