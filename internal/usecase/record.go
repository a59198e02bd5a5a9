package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"capturadatos/internal/domain"
	"capturadatos/internal/validation"
)

// RecordStore saves submitted capture records. SaveRecord reports whether the
// record was durably persisted; a log-only store returns false.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec domain.SubmittedRecord) (bool, error)
	GetRecord(ctx context.Context, id string) (domain.SubmittedRecord, error)
}

type RecordService struct {
	store RecordStore
	log   *slog.Logger
}

func NewRecordService(store RecordStore, log *slog.Logger) (*RecordService, error) {
	if store == nil {
		return nil, errors.New("usecase: record store must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &RecordService{store: store, log: log}, nil
}

// Submit validates a capture record, assigns ids and hands it to the store.
func (s *RecordService) Submit(ctx context.Context, rec domain.CaptureRecord) (domain.SubmittedRecord, error) {
	rec.Normalize()
	if fields, err := validation.Struct(rec); err != nil {
		return domain.SubmittedRecord{}, newValidationError("invalid_record", fields, err)
	}
	assignItemIDs(&rec)

	submitted := domain.SubmittedRecord{
		ID:          newUUID(),
		SubmittedAt: now().UTC(),
		Record:      rec,
	}

	persisted, err := s.store.SaveRecord(ctx, submitted)
	if err != nil {
		return domain.SubmittedRecord{}, newError(ErrorInternal, "record_save_error", err)
	}
	submitted.Persisted = persisted

	s.log.InfoContext(ctx, "capture record submitted",
		"recordId", submitted.ID,
		"company", rec.CompanyName,
		"contacts", len(rec.Contacts),
		"equipments", len(rec.Equipments),
		"software", len(rec.Software),
		"websites", len(rec.Websites),
		"persisted", persisted,
	)
	return submitted, nil
}

func (s *RecordService) Get(ctx context.Context, id string) (domain.SubmittedRecord, error) {
	id = strings.TrimSpace(id)
	if err := uuid.Validate(id); err != nil {
		return domain.SubmittedRecord{}, newValidationError("invalid_record_id", map[string]string{"id": "must be a valid UUID"}, err)
	}
	rec, err := s.store.GetRecord(ctx, id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.SubmittedRecord{}, newError(ErrorNotFound, "record_not_found", err)
	}
	if err != nil {
		return domain.SubmittedRecord{}, newError(ErrorInternal, "record_read_error", err)
	}
	return rec, nil
}

func assignItemIDs(rec *domain.CaptureRecord) {
	for i := range rec.Contacts {
		rec.Contacts[i].ID = idOrNew(rec.Contacts[i].ID)
	}
	for i := range rec.Equipments {
		rec.Equipments[i].ID = idOrNew(rec.Equipments[i].ID)
	}
	for i := range rec.Software {
		rec.Software[i].ID = idOrNew(rec.Software[i].ID)
	}
	for i := range rec.Websites {
		rec.Websites[i].ID = idOrNew(rec.Websites[i].ID)
	}
}

func idOrNew(id string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return newUUID()
}

var newUUID = func() string {
	return uuid.NewString()
}

var now = time.Now
