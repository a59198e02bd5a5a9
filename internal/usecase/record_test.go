package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"capturadatos/internal/domain"
)

type mockStore struct {
	persisted bool
	saveErr   error
	saved     []domain.SubmittedRecord
	getOut    domain.SubmittedRecord
	getErr    error
	getID     string
}

func (m *mockStore) SaveRecord(_ context.Context, rec domain.SubmittedRecord) (bool, error) {
	m.saved = append(m.saved, rec)
	return m.persisted, m.saveErr
}

func (m *mockStore) GetRecord(_ context.Context, id string) (domain.SubmittedRecord, error) {
	m.getID = id
	return m.getOut, m.getErr
}

func fixedIDs(t *testing.T) {
	t.Helper()
	n := 0
	prevUUID, prevNow := newUUID, now
	newUUID = func() string {
		n++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	}
	now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.FixedZone("CEST", 2*60*60)) }
	t.Cleanup(func() { newUUID, now = prevUUID, prevNow })
}

func validRecord() domain.CaptureRecord {
	return domain.CaptureRecord{
		CompanyName: "Famysalud",
		Name:        "Lucía Pérez",
		JobTitle:    "Recepción",
		Contacts:    []domain.Phone{{Number: "+34 600 000 000", HasWhatsapp: true}},
		Equipments:  []domain.Equipment{{ID: "eq-1", Name: "Portátil", Serial: "SN-123"}},
		Software:    []domain.Software{{Name: "Office", HasLicense: true, LicenseSerial: "XXXX"}},
		Websites: []domain.Website{{
			URL:      "https://portal.example.com",
			Email:    "lucia@example.com",
			Password: "Ax9!kQzz",
		}},
	}
}

func newTestRecordService(t *testing.T, store RecordStore) (*RecordService, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	svc, err := NewRecordService(store, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	return svc, &buf
}

func TestNewRecordService_ValidatesDependencies(t *testing.T) {
	_, err := NewRecordService(nil, nil)
	require.Error(t, err)

	svc, err := NewRecordService(&mockStore{}, nil)
	require.NoError(t, err)
	require.NotNil(t, svc.log)
}

func TestSubmit_HappyPath(t *testing.T) {
	fixedIDs(t)
	store := &mockStore{persisted: true}
	svc, logs := newTestRecordService(t, store)

	out, err := svc.Submit(context.Background(), validRecord())
	require.NoError(t, err)
	require.True(t, out.Persisted)
	require.Equal(t, time.Date(2026, 10, 17, 7, 30, 0, 0, time.UTC), out.SubmittedAt)
	require.Len(t, store.saved, 1)
	require.Equal(t, out.ID, store.saved[0].ID)

	rec := out.Record
	require.Equal(t, domain.PhoneTypePersonal, rec.Contacts[0].Type)
	require.NotEmpty(t, rec.Contacts[0].ID)
	require.Equal(t, "eq-1", rec.Equipments[0].ID)
	require.NotEmpty(t, rec.Software[0].ID)
	require.NotEmpty(t, rec.Websites[0].ID)

	require.Contains(t, logs.String(), "capture record submitted")
	require.Contains(t, logs.String(), "websites=1")
	require.NotContains(t, logs.String(), "Ax9!kQzz")
}

func TestSubmit_EmptyListsDefault(t *testing.T) {
	svc, _ := newTestRecordService(t, &mockStore{})
	out, err := svc.Submit(context.Background(), domain.CaptureRecord{CompanyName: "Famysalud", Name: "Ana", JobTitle: "TI"})
	require.NoError(t, err)
	require.False(t, out.Persisted)
	require.NotNil(t, out.Record.Contacts)
	require.NotNil(t, out.Record.Websites)
	require.Empty(t, out.Record.Equipments)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	store := &mockStore{}
	svc, _ := newTestRecordService(t, store)

	rec := validRecord()
	rec.CompanyName = ""
	rec.Websites[0].Email = "not-an-email"
	rec.Equipments[0].Serial = ""

	_, err := svc.Submit(context.Background(), rec)
	ucErr := expectError(t, err, ErrorValidation, "invalid_record")
	require.Equal(t, "is required", ucErr.Fields["companyName"])
	require.Equal(t, "must be a valid email", ucErr.Fields["websites[0].email"])
	require.Equal(t, "is required", ucErr.Fields["equipments[0].serial"])
	require.Empty(t, store.saved)
}

func TestSubmit_StoreError(t *testing.T) {
	svc, _ := newTestRecordService(t, &mockStore{saveErr: errors.New("dynamodb down")})
	_, err := svc.Submit(context.Background(), validRecord())
	expectError(t, err, ErrorInternal, "record_save_error")
}

func TestGet(t *testing.T) {
	id := "6f1c2a4e-3b7d-4c8e-9f0a-1b2c3d4e5f60"
	store := &mockStore{getOut: domain.SubmittedRecord{ID: id, Persisted: true}}
	svc, _ := newTestRecordService(t, store)

	out, err := svc.Get(context.Background(), " "+id+" ")
	require.NoError(t, err)
	require.Equal(t, id, out.ID)
	require.Equal(t, id, store.getID)
}

func TestGet_Errors(t *testing.T) {
	id := "6f1c2a4e-3b7d-4c8e-9f0a-1b2c3d4e5f60"

	svc, _ := newTestRecordService(t, &mockStore{})
	_, err := svc.Get(context.Background(), "not-a-uuid")
	expectError(t, err, ErrorValidation, "invalid_record_id")

	svc, _ = newTestRecordService(t, &mockStore{getErr: fmt.Errorf("repository: %w", domain.ErrRecordNotFound)})
	_, err = svc.Get(context.Background(), id)
	expectError(t, err, ErrorNotFound, "record_not_found")

	svc, _ = newTestRecordService(t, &mockStore{getErr: errors.New("throttled")})
	_, err = svc.Get(context.Background(), id)
	expectError(t, err, ErrorInternal, "record_read_error")
}
