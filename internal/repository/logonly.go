package repository

import (
	"context"
	"fmt"
	"log/slog"

	"capturadatos/internal/domain"
)

// LogOnly is the record store used when no table is configured: submissions
// are logged and nothing is kept.
type LogOnly struct {
	Log *slog.Logger
}

func (l LogOnly) SaveRecord(ctx context.Context, rec domain.SubmittedRecord) (bool, error) {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "record store not configured, submission not persisted",
		"recordId", rec.ID,
		"submittedAt", rec.SubmittedAt,
	)
	return false, nil
}

func (LogOnly) GetRecord(_ context.Context, id string) (domain.SubmittedRecord, error) {
	return domain.SubmittedRecord{}, fmt.Errorf("repository: %q: %w", id, domain.ErrRecordNotFound)
}
