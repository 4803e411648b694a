package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"jobportal/internal/database"
	"jobportal/internal/tasks"
)

// ObjectDeleter removes stored objects.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, objectKey string) error
}

// ResumePurgeHandler consumes resume purge tasks.
type ResumePurgeHandler struct {
	db      *gorm.DB
	storage ObjectDeleter
	logger  *slog.Logger
}

func NewResumePurgeHandler(db *gorm.DB, storage ObjectDeleter, logger *slog.Logger) *ResumePurgeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumePurgeHandler{db: db, storage: storage, logger: logger}
}

// ProcessTask implements asynq.Handler. Keys still referenced by an
// application or a seeker profile are left alone; a failed delete makes
// asynq retry the whole task, which is safe because deletes are idempotent.
func (h *ResumePurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseResumePurgePayload(t)
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("object_count", len(payload.ObjectKeys)),
	)

	live, err := h.referencedKeys(ctx, payload.ObjectKeys)
	if err != nil {
		log.Error("lookup referenced resumes failed", slog.Any("error", err))
		return err
	}

	var errs []error
	purged := 0
	for _, key := range payload.ObjectKeys {
		if key == "" {
			continue
		}
		if _, ok := live[key]; ok {
			log.Warn("resume still referenced, skipping", slog.String("object_key", key))
			continue
		}
		if err := h.storage.DeleteObject(ctx, key); err != nil {
			log.Error("delete resume failed", slog.String("object_key", key), slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		purged++
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Info("resumes purged", slog.Int("purged", purged))
	return nil
}

func (h *ResumePurgeHandler) referencedKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	live := make(map[string]struct{})
	if len(keys) == 0 {
		return live, nil
	}

	var fromApplications []string
	if err := h.db.WithContext(ctx).Model(&database.Application{}).
		Where("resume_key IN ?", keys).
		Pluck("resume_key", &fromApplications).Error; err != nil {
		return nil, err
	}
	var fromProfiles []string
	if err := h.db.WithContext(ctx).Model(&database.SeekerProfile{}).
		Where("resume_key IN ?", keys).
		Pluck("resume_key", &fromProfiles).Error; err != nil {
		return nil, err
	}

	for _, key := range fromApplications {
		live[key] = struct{}{}
	}
	for _, key := range fromProfiles {
		live[key] = struct{}{}
	}
	return live, nil
}
