// Package board implements the job board: accounts and their profiles, the
// job catalog and the application ledger. Every operation that acts on behalf
// of an account runs the access rules first and returns *access.Denial when
// the actor may not proceed.
package board

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"jobportal/internal/errcode"
	"jobportal/internal/logging"
)

var (
	ErrAccountNotFound     = errcode.New(errcode.NotFound, "account not found")
	ErrJobNotFound         = errcode.New(errcode.NotFound, "job not found")
	ErrApplicationNotFound = errcode.New(errcode.NotFound, "application not found")
	ErrInvalidCredentials  = errcode.New(errcode.Validation, "Please enter a correct username and password.")
	ErrAlreadyApplied      = errcode.New(errcode.Duplicate, "You have already applied for this job.")
	ErrInvalidTransition   = errcode.New(errcode.Validation, "That status change is not allowed.")
	ErrNoResume            = errcode.New(errcode.NotFound, "no resume on file")
)

// ResumeStorage keeps resume files.
type ResumeStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration, downloadName string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// Scanner rejects malicious uploads.
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) error
}

// PurgeQueue schedules removal of resume objects no row refers to any more.
type PurgeQueue interface {
	EnqueueResumePurge(ctx context.Context, keys []string, correlationID string) error
}

// Options configures a Service. Scanner and Purge may be nil.
type Options struct {
	Storage        ResumeStorage
	Scanner        Scanner
	Purge          PurgeQueue
	Logger         *slog.Logger
	ResumeURLTTL   time.Duration
	MaxResumeBytes int64
}

// Service is the job board.
type Service struct {
	db             *gorm.DB
	storage        ResumeStorage
	scanner        Scanner
	purge          PurgeQueue
	logger         *slog.Logger
	validate       *validator.Validate
	resumeURLTTL   time.Duration
	maxResumeBytes int64
	now            func() time.Time
}

const (
	defaultResumeURLTTL   = 5 * time.Minute
	defaultMaxResumeBytes = 5 << 20
)

func NewService(db *gorm.DB, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ResumeURLTTL <= 0 {
		opts.ResumeURLTTL = defaultResumeURLTTL
	}
	if opts.MaxResumeBytes <= 0 {
		opts.MaxResumeBytes = defaultMaxResumeBytes
	}
	return &Service{
		db:             db,
		storage:        opts.Storage,
		scanner:        opts.Scanner,
		purge:          opts.Purge,
		logger:         opts.Logger,
		validate:       newValidator(),
		resumeURLTTL:   opts.ResumeURLTTL,
		maxResumeBytes: opts.MaxResumeBytes,
		now:            time.Now,
	}
}

// MaxResumeBytes is the upload limit applied to resumes.
func (s *Service) MaxResumeBytes() int64 {
	return s.maxResumeBytes
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// purgeLater hands keys to the purge queue. Failures leave orphaned objects
// behind and are only logged; the row deletion has already committed.
func (s *Service) purgeLater(ctx context.Context, keys []string) {
	if s.purge == nil || len(keys) == 0 {
		return
	}
	if err := s.purge.EnqueueResumePurge(ctx, keys, logging.CorrelationID(ctx)); err != nil {
		s.log(ctx).Error("enqueue resume purge failed",
			slog.Int("object_count", len(keys)),
			slog.Any("error", err),
		)
	}
}
