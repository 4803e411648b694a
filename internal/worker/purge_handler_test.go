package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"jobportal/internal/database"
	"jobportal/internal/database/dbtest"
	"jobportal/internal/tasks"
)

type fakeDeleter struct {
	deleted []string
	failOn  string
}

func (f *fakeDeleter) DeleteObject(_ context.Context, key string) error {
	if key == f.failOn {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func TestResumePurgeDeletesOrphans(t *testing.T) {
	db := dbtest.Open(t)
	deleter := &fakeDeleter{}
	handler := NewResumePurgeHandler(db, deleter, nil)

	task, err := tasks.NewResumePurgeTask([]string{"resumes/1/a.pdf", "", "resumes/1/b.pdf"}, "cid")
	require.NoError(t, err)

	require.NoError(t, handler.ProcessTask(context.Background(), task))
	assert.Equal(t, []string{"resumes/1/a.pdf", "resumes/1/b.pdf"}, deleter.deleted)
}

func TestResumePurgeKeepsReferencedKeys(t *testing.T) {
	db := dbtest.Open(t)

	employer := database.Account{Username: "acme", PasswordHash: "x", Role: database.RoleEmployer}
	seeker := database.Account{Username: "sam", PasswordHash: "x", Role: database.RoleSeeker}
	require.NoError(t, db.Create(&employer).Error)
	require.NoError(t, db.Create(&seeker).Error)
	job := database.Job{Title: "Go", Company: "Acme", Location: "Remote", JobType: database.JobTypeRemote,
		Deadline: datatypes.Date(time.Now().AddDate(0, 1, 0)), CreatedByID: employer.ID}
	require.NoError(t, db.Create(&job).Error)
	require.NoError(t, db.Create(&database.Application{JobID: job.ID, ApplicantID: seeker.ID,
		ResumeKey: "resumes/2/live.pdf", Status: database.StatusApplied, AppliedAt: time.Now()}).Error)

	deleter := &fakeDeleter{}
	handler := NewResumePurgeHandler(db, deleter, nil)

	task, err := tasks.NewResumePurgeTask([]string{"resumes/2/live.pdf", "resumes/2/gone.pdf"}, "cid")
	require.NoError(t, err)

	require.NoError(t, handler.ProcessTask(context.Background(), task))
	assert.Equal(t, []string{"resumes/2/gone.pdf"}, deleter.deleted)
}

func TestResumePurgeReportsStorageFailure(t *testing.T) {
	db := dbtest.Open(t)
	deleter := &fakeDeleter{failOn: "resumes/1/a.pdf"}
	handler := NewResumePurgeHandler(db, deleter, nil)

	task, err := tasks.NewResumePurgeTask([]string{"resumes/1/a.pdf", "resumes/1/b.pdf"}, "cid")
	require.NoError(t, err)

	err = handler.ProcessTask(context.Background(), task)
	assert.Error(t, err)
	assert.Equal(t, []string{"resumes/1/b.pdf"}, deleter.deleted)
}

func TestResumePurgeSkipsRetryOnBadPayload(t *testing.T) {
	handler := NewResumePurgeHandler(dbtest.Open(t), &fakeDeleter{}, nil)

	err := handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeResumePurge, []byte("not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
