package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobportal/internal/access"
	"jobportal/internal/database"
	"jobportal/internal/metrics"
)

const dateLayout = "2006-01-02"

// JobFilter narrows the job list. Empty fields do not filter.
type JobFilter struct {
	Query   string `form:"q"`
	JobType string `form:"job_type"`
}

// JobInput is the post/edit job form.
type JobInput struct {
	Title       string `form:"title" validate:"required,max=200"`
	Company     string `form:"company" validate:"required,max=150"`
	Location    string `form:"location" validate:"required,max=120"`
	JobType     string `form:"job_type" validate:"required,jobtype"`
	Description string `form:"description" validate:"required"`
	Deadline    string `form:"deadline" validate:"required,datetime=2006-01-02"`
}

// JobInputFrom fills a form from an existing job.
func JobInputFrom(job *database.Job) JobInput {
	return JobInput{
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		JobType:     string(job.JobType),
		Description: job.Description,
		Deadline:    time.Time(job.Deadline).Format(dateLayout),
	}
}

func (in *JobInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.JobType = strings.TrimSpace(in.JobType)
	in.Description = strings.TrimSpace(in.Description)
	in.Deadline = strings.TrimSpace(in.Deadline)
}

func (in JobInput) apply(job *database.Job) error {
	deadline, err := time.Parse(dateLayout, in.Deadline)
	if err != nil {
		return FieldErrors{"deadline": "Enter a valid date."}
	}
	job.Title = in.Title
	job.Company = in.Company
	job.Location = in.Location
	job.JobType = database.JobType(in.JobType)
	job.Description = in.Description
	job.Deadline = datatypes.Date(deadline)
	return nil
}

// JobSummary is a job with its application count, as shown on the employer dashboard.
type JobSummary struct {
	database.Job
	ApplicationCount int64
}

// escapeLike makes s match literally inside a LIKE pattern using '!' as escape.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// ListJobs returns every job matching filter in insertion order.
func (s *Service) ListJobs(ctx context.Context, actor *database.Account, filter JobFilter) ([]database.Job, error) {
	if err := access.Authorize(access.ViewJobList, actor, access.Target{}); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&database.Job{})
	if term := strings.TrimSpace(filter.Query); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		q = q.Where(
			"LOWER(title) LIKE LOWER(?) ESCAPE '!' OR LOWER(company) LIKE LOWER(?) ESCAPE '!' OR "+
				"LOWER(location) LIKE LOWER(?) ESCAPE '!' OR LOWER(description) LIKE LOWER(?) ESCAPE '!'",
			pattern, pattern, pattern, pattern,
		)
	}
	if jobType := strings.TrimSpace(filter.JobType); jobType != "" {
		q = q.Where("job_type = ?", jobType)
	}

	var jobs []database.Job
	if err := q.Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// GetJob loads a job. Anyone may view a job.
func (s *Service) GetJob(ctx context.Context, id uint) (*database.Job, error) {
	return s.loadJob(s.db.WithContext(ctx), id)
}

func (s *Service) loadJob(db *gorm.DB, id uint) (*database.Job, error) {
	var job database.Job
	err := db.First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	return &job, nil
}

// CanPostJob reports whether actor may open the post job form.
func (s *Service) CanPostJob(actor *database.Account) error {
	return access.Authorize(access.PostJob, actor, access.Target{})
}

// PostJob creates a job owned by actor.
func (s *Service) PostJob(ctx context.Context, actor *database.Account, in JobInput) (*database.Job, error) {
	if err := s.CanPostJob(actor); err != nil {
		return nil, err
	}
	in.normalize()
	if err := s.check(in); err != nil {
		return nil, err
	}

	job := &database.Job{CreatedByID: actor.ID}
	if err := in.apply(job); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	metrics.JobsPostedTotal.Inc()
	s.log(ctx).Info("job posted", slog.Uint64("job_id", uint64(job.ID)), slog.Uint64("account_id", uint64(actor.ID)))
	return job, nil
}

// JobForEdit loads a job the actor may edit.
func (s *Service) JobForEdit(ctx context.Context, actor *database.Account, id uint) (*database.Job, error) {
	return s.ownedJob(s.db.WithContext(ctx), access.EditJob, actor, id)
}

// UpdateJob rewrites the editable fields of a job. The creator never changes.
func (s *Service) UpdateJob(ctx context.Context, actor *database.Account, id uint, in JobInput) (*database.Job, error) {
	job, err := s.JobForEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := s.check(in); err != nil {
		return nil, err
	}
	if err := in.apply(job); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(job).
		Select("title", "company", "location", "job_type", "description", "deadline").
		Updates(job).Error
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// JobForDelete loads a job the actor may delete.
func (s *Service) JobForDelete(ctx context.Context, actor *database.Account, id uint) (*database.Job, error) {
	return s.ownedJob(s.db.WithContext(ctx), access.DeleteJob, actor, id)
}

// DeleteJob removes a job and its applications, then schedules their resumes for purging.
func (s *Service) DeleteJob(ctx context.Context, actor *database.Account, id uint) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, err := s.ownedJob(tx, access.DeleteJob, actor, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&database.Application{}).Where("job_id = ?", job.ID).Pluck("resume_key", &keys).Error; err != nil {
			return fmt.Errorf("collect resumes: %w", err)
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&database.Application{}).Error; err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		if err := tx.Delete(job).Error; err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.JobsDeletedTotal.Inc()
	s.log(ctx).Info("job deleted",
		slog.Uint64("job_id", uint64(id)),
		slog.Int("applications_removed", len(keys)),
	)
	s.purgeLater(ctx, keys)
	return nil
}

func (s *Service) ownedJob(db *gorm.DB, action access.Action, actor *database.Account, id uint) (*database.Job, error) {
	job, err := s.loadJob(db, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(action, actor, access.Target{Job: job}); err != nil {
		return nil, err
	}
	return job, nil
}

// EmployerJobs lists the actor's own jobs with their application counts.
func (s *Service) EmployerJobs(ctx context.Context, actor *database.Account) ([]JobSummary, error) {
	if err := access.Authorize(access.EmployerDashboard, actor, access.Target{}); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var jobs []database.Job
	if err := db.Where("created_by_id = ?", actor.ID).Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list employer jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ID
	}
	var counts []struct {
		JobID uint
		Total int64
	}
	if err := db.Model(&database.Application{}).
		Select("job_id, COUNT(*) AS total").
		Where("job_id IN ?", ids).
		Group("job_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	byJob := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byJob[c.JobID] = c.Total
	}

	out := make([]JobSummary, len(jobs))
	for i, job := range jobs {
		out[i] = JobSummary{Job: job, ApplicationCount: byJob[job.ID]}
	}
	return out, nil
}

// JobApplications lists the applications to a job the actor created.
func (s *Service) JobApplications(ctx context.Context, actor *database.Account, jobID uint) (*database.Job, []database.Application, error) {
	db := s.db.WithContext(ctx)
	job, err := s.ownedJob(db, access.ViewJobApplicants, actor, jobID)
	if err != nil {
		return nil, nil, err
	}

	var apps []database.Application
	if err := db.Preload("Applicant").Where("job_id = ?", job.ID).Order("id ASC").Find(&apps).Error; err != nil {
		return nil, nil, fmt.Errorf("list applications: %w", err)
	}
	return job, apps, nil
}
