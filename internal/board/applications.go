package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"jobportal/internal/access"
	"jobportal/internal/database"
	"jobportal/internal/metrics"
)

// ApplyInput is the apply form.
type ApplyInput struct {
	CoverNote string  `form:"cover_note" validate:"max=5000"`
	Resume    *Upload `form:"-" validate:"-"`
}

// CheckApply loads the job and reports whether actor may apply to it:
// ErrJobNotFound, a *access.Denial for employers or ErrAlreadyApplied.
// The job is returned alongside a denial or duplicate so the apply page can still render.
func (s *Service) CheckApply(ctx context.Context, actor *database.Account, jobID uint) (*database.Job, error) {
	return s.checkApply(s.db.WithContext(ctx), actor, jobID)
}

func (s *Service) checkApply(db *gorm.DB, actor *database.Account, jobID uint) (*database.Job, error) {
	job, err := s.loadJob(db, jobID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(access.ApplyToJob, actor, access.Target{Job: job}); err != nil {
		return job, err
	}

	var existing int64
	if err := db.Model(&database.Application{}).
		Where("job_id = ? AND applicant_id = ?", job.ID, actor.ID).
		Count(&existing).Error; err != nil {
		return job, fmt.Errorf("check existing application: %w", err)
	}
	if existing > 0 {
		return job, ErrAlreadyApplied
	}
	return job, nil
}

// Apply records actor's application to a job with an uploaded resume.
// A concurrent duplicate that slips past the pre-check is caught by the
// unique index, reported as ErrAlreadyApplied and its upload removed.
func (s *Service) Apply(ctx context.Context, actor *database.Account, jobID uint, in ApplyInput) (*database.Application, error) {
	job, err := s.CheckApply(ctx, actor, jobID)
	if err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			metrics.ApplicationsTotal.WithLabelValues(metrics.ApplyDuplicate).Inc()
		}
		return nil, err
	}

	in.CoverNote = strings.TrimSpace(in.CoverNote)
	if err := s.check(in); err != nil {
		return nil, err
	}

	stored, err := s.storeResume(ctx, "resume", actor.ID, "", in.Resume)
	if err != nil {
		var fe FieldErrors
		if errors.As(err, &fe) {
			metrics.ApplicationsTotal.WithLabelValues(metrics.ApplyRejected).Inc()
		}
		return nil, err
	}

	app := &database.Application{
		JobID:       job.ID,
		ApplicantID: actor.ID,
		ResumeKey:   stored.key,
		CoverNote:   in.CoverNote,
		Status:      database.StatusApplied,
		AppliedAt:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		s.discard(ctx, stored.key)
		if database.IsDuplicateKey(err) {
			metrics.ApplicationsTotal.WithLabelValues(metrics.ApplyDuplicate).Inc()
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	metrics.ApplicationsTotal.WithLabelValues(metrics.ApplyAccepted).Inc()
	s.log(ctx).Info("application submitted",
		slog.Uint64("application_id", uint64(app.ID)),
		slog.Uint64("job_id", uint64(job.ID)),
		slog.Uint64("account_id", uint64(actor.ID)),
	)
	app.Job = *job
	return app, nil
}

// SeekerApplications lists the actor's applications with their jobs, newest first.
func (s *Service) SeekerApplications(ctx context.Context, actor *database.Account) ([]database.Application, error) {
	if err := access.Authorize(access.SeekerDashboard, actor, access.Target{}); err != nil {
		return nil, err
	}
	var apps []database.Application
	if err := s.db.WithContext(ctx).Preload("Job").
		Where("applicant_id = ?", actor.ID).
		Order("applied_at DESC, id DESC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *Service) loadApplication(db *gorm.DB, id uint) (*database.Application, error) {
	var app database.Application
	err := db.Preload("Job").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	return &app, nil
}

func (s *Service) authorizedApplication(db *gorm.DB, action access.Action, actor *database.Account, id uint) (*database.Application, error) {
	app, err := s.loadApplication(db, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(action, actor, access.Target{Application: app}); err != nil {
		return nil, err
	}
	return app, nil
}

// ApplicationForDelete loads an application the actor may withdraw.
func (s *Service) ApplicationForDelete(ctx context.Context, actor *database.Account, id uint) (*database.Application, error) {
	return s.authorizedApplication(s.db.WithContext(ctx), access.DeleteApplication, actor, id)
}

// DeleteApplication withdraws an application and schedules its resume for purging.
func (s *Service) DeleteApplication(ctx context.Context, actor *database.Account, id uint) error {
	var key string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := s.authorizedApplication(tx, access.DeleteApplication, actor, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&database.Application{}, app.ID).Error; err != nil {
			return fmt.Errorf("delete application: %w", err)
		}
		key = app.ResumeKey
		return nil
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("application withdrawn", slog.Uint64("application_id", uint64(id)))
	s.purgeLater(ctx, []string{key})
	return nil
}

// ResumeURL returns a short lived download link for an application's resume.
func (s *Service) ResumeURL(ctx context.Context, actor *database.Account, id uint) (string, error) {
	app, err := s.authorizedApplication(s.db.WithContext(ctx), access.ViewResume, actor, id)
	if err != nil {
		return "", err
	}
	url, err := s.storage.GeneratePresignedURL(ctx, app.ResumeKey, s.resumeURLTTL, downloadName(actor.Username, app.ResumeKey))
	if err != nil {
		return "", fmt.Errorf("presign resume: %w", err)
	}
	return url, nil
}

// SetApplicationStatus moves an application along applied -> review -> rejected|accepted.
// Only the creator of the job may do so.
func (s *Service) SetApplicationStatus(ctx context.Context, actor *database.Account, id uint, next database.ApplicationStatus) (*database.Application, error) {
	var app *database.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		app, err = s.authorizedApplication(tx, access.SetApplicationStatus, actor, id)
		if err != nil {
			return err
		}
		if !app.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		res := tx.Model(&database.Application{}).
			Where("id = ? AND status = ?", app.ID, app.Status).
			Update("status", next)
		if res.Error != nil {
			return fmt.Errorf("update status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		app.Status = next
		return nil
	})
	if err != nil {
		return app, err
	}

	s.log(ctx).Info("application status changed",
		slog.Uint64("application_id", uint64(app.ID)),
		slog.String("status", string(next)),
	)
	return app, nil
}
