package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"capturadatos/internal/domain"
)

const (
	pkPrefixRecord = "RECORD#"
	skMeta         = "META#"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client stores capture records in a DynamoDB table keyed by PK/SK.
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

func recordPK(id string) string {
	return pkPrefixRecord + id
}

// SaveRecord writes the record once; an existing item with the same id is
// never overwritten.
func (c *Client) SaveRecord(ctx context.Context, rec domain.SubmittedRecord) (bool, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return false, errors.New("repository: SaveRecord: record id is required")
	}
	item, err := recordItem(rec)
	if err != nil {
		return false, fmt.Errorf("repository: SaveRecord: %w", err)
	}

	_, err = c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return false, fmt.Errorf("repository: SaveRecord: %w", err)
	}
	return true, nil
}

// GetRecord reads a record back by id.
func (c *Client) GetRecord(ctx context.Context, id string) (domain.SubmittedRecord, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: recordPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.SubmittedRecord{}, fmt.Errorf("repository: GetRecord get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.SubmittedRecord{}, fmt.Errorf("repository: GetRecord %q: %w", id, domain.ErrRecordNotFound)
	}

	rec, err := itemToRecord(out.Item)
	if err != nil {
		return domain.SubmittedRecord{}, fmt.Errorf("repository: GetRecord unmarshal: %w", err)
	}
	return rec, nil
}

// recordItem keeps a few top-level attributes for console browsing and the
// full record as a JSON payload.
func recordItem(rec domain.SubmittedRecord) (map[string]types.AttributeValue, error) {
	payload, err := json.Marshal(rec.Record)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return map[string]types.AttributeValue{
		"PK":          &types.AttributeValueMemberS{Value: recordPK(rec.ID)},
		"SK":          &types.AttributeValueMemberS{Value: skMeta},
		"recordId":    &types.AttributeValueMemberS{Value: rec.ID},
		"companyName": &types.AttributeValueMemberS{Value: rec.Record.CompanyName},
		"name":        &types.AttributeValueMemberS{Value: rec.Record.Name},
		"jobTitle":    &types.AttributeValueMemberS{Value: rec.Record.JobTitle},
		"submittedAt": &types.AttributeValueMemberS{Value: rec.SubmittedAt.UTC().Format(time.RFC3339Nano)},
		"payload":     &types.AttributeValueMemberS{Value: string(payload)},
	}, nil
}

func itemToRecord(item map[string]types.AttributeValue) (domain.SubmittedRecord, error) {
	id, err := strAttr(item, "recordId")
	if err != nil {
		return domain.SubmittedRecord{}, err
	}
	submittedAt, err := strAttr(item, "submittedAt")
	if err != nil {
		return domain.SubmittedRecord{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return domain.SubmittedRecord{}, fmt.Errorf("repository: parse attribute %q: %w", "submittedAt", err)
	}
	payload, err := strAttr(item, "payload")
	if err != nil {
		return domain.SubmittedRecord{}, err
	}
	var rec domain.CaptureRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return domain.SubmittedRecord{}, fmt.Errorf("repository: decode attribute %q: %w", "payload", err)
	}
	rec.Normalize()

	return domain.SubmittedRecord{
		ID:          id,
		SubmittedAt: ts,
		Persisted:   true,
		Record:      rec,
	}, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
