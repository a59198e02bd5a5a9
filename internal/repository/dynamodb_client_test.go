package repository

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"capturadatos/internal/domain"
)

type fakeDynamo struct {
	getOut       *dynamodb.GetItemOutput
	getErr       error
	putErr       error
	lastGetInput *dynamodb.GetItemInput
	lastPutInput *dynamodb.PutItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGetInput = in
	return f.getOut, f.getErr
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPutInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func mustNewClient(t *testing.T, db *fakeDynamo) *Client {
	t.Helper()
	c, err := New(db, "test-table")
	require.NoError(t, err)
	return c
}

func sampleRecord() domain.SubmittedRecord {
	return domain.SubmittedRecord{
		ID:          "rec-1",
		SubmittedAt: time.Date(2026, 10, 17, 7, 30, 0, 0, time.UTC),
		Record: domain.CaptureRecord{
			CompanyName: "Famysalud",
			Name:        "Lucía Pérez",
			JobTitle:    "Recepción",
			Contacts:    []domain.Phone{{ID: "c-1", Number: "600000000", Type: domain.PhoneTypeCompany}},
			Equipments:  []domain.Equipment{},
			Software:    []domain.Software{},
			Websites: []domain.Website{{
				ID: "w-1", URL: "https://portal.example.com", Email: "lucia@example.com", Password: "Ax9!kQzz", Has2FA: true,
			}},
		},
	}
}

func sAttr(t *testing.T, item map[string]types.AttributeValue, key string) string {
	t.Helper()
	v, err := strAttr(item, key)
	require.NoError(t, err)
	return v
}

func TestNew_Validates(t *testing.T) {
	_, err := New(nil, "table")
	require.Error(t, err)

	_, err = New(&fakeDynamo{}, " ")
	require.Error(t, err)
}

func TestSaveRecord_HappyPath(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)

	persisted, err := c.SaveRecord(context.Background(), sampleRecord())
	require.NoError(t, err)
	require.True(t, persisted)

	in := db.lastPutInput
	require.NotNil(t, in)
	require.Equal(t, "test-table", *in.TableName)
	require.Equal(t, "attribute_not_exists(PK) AND attribute_not_exists(SK)", *in.ConditionExpression)
	require.Equal(t, "RECORD#rec-1", sAttr(t, in.Item, "PK"))
	require.Equal(t, skMeta, sAttr(t, in.Item, "SK"))
	require.Equal(t, "Famysalud", sAttr(t, in.Item, "companyName"))
	require.Equal(t, "2026-10-17T07:30:00Z", sAttr(t, in.Item, "submittedAt"))
	require.Contains(t, sAttr(t, in.Item, "payload"), `"has2fa":true`)
}

func TestSaveRecord_Errors(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{})
	rec := sampleRecord()
	rec.ID = ""
	_, err := c.SaveRecord(context.Background(), rec)
	require.Error(t, err)
	require.Contains(t, err.Error(), "record id is required")

	c = mustNewClient(t, &fakeDynamo{putErr: errors.New("conditional check failed")})
	persisted, err := c.SaveRecord(context.Background(), sampleRecord())
	require.Error(t, err)
	require.False(t, persisted)
	require.Contains(t, err.Error(), "conditional check failed")
}

func TestGetRecord_RoundTrip(t *testing.T) {
	item, err := recordItem(sampleRecord())
	require.NoError(t, err)

	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}}
	c := mustNewClient(t, db)

	got, err := c.GetRecord(context.Background(), "rec-1")
	require.NoError(t, err)
	want := sampleRecord()
	want.Persisted = true
	require.Equal(t, want, got)

	require.True(t, *db.lastGetInput.ConsistentRead)
	pk := db.lastGetInput.Key["PK"].(*types.AttributeValueMemberS)
	require.Equal(t, "RECORD#rec-1", pk.Value)
}

func TestGetRecord_NotFound(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{}})
	_, err := c.GetRecord(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestGetRecord_Errors(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getErr: errors.New("throttled")})
	_, err := c.GetRecord(context.Background(), "rec-1")
	require.ErrorContains(t, err, "throttled")

	item, err := recordItem(sampleRecord())
	require.NoError(t, err)
	item["payload"] = &types.AttributeValueMemberS{Value: "{broken"}
	c = mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}})
	_, err = c.GetRecord(context.Background(), "rec-1")
	require.ErrorContains(t, err, "payload")

	delete(item, "recordId")
	_, err = c.GetRecord(context.Background(), "rec-1")
	require.ErrorContains(t, err, "missing attribute")
}

func TestStrAttr_WrongType(t *testing.T) {
	_, err := strAttr(map[string]types.AttributeValue{"k": &types.AttributeValueMemberN{Value: "1"}}, "k")
	require.ErrorContains(t, err, "not a string")
}

func TestLogOnly(t *testing.T) {
	var buf bytes.Buffer
	store := LogOnly{Log: slog.New(slog.NewTextHandler(&buf, nil))}

	persisted, err := store.SaveRecord(context.Background(), sampleRecord())
	require.NoError(t, err)
	require.False(t, persisted)
	require.Contains(t, buf.String(), "recordId=rec-1")
	require.NotContains(t, buf.String(), "Ax9!kQzz")

	_, err = store.GetRecord(context.Background(), "rec-1")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}
