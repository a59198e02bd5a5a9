package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"capturadatos/internal/domain"
)

const correlationHeader = "X-Correlation-Id"

type PasswordSuggester interface {
	SuggestPassword(ctx context.Context, req domain.PasswordRequest) (domain.PasswordResponse, error)
}

type RecordIntake interface {
	Submit(ctx context.Context, rec domain.CaptureRecord) (domain.SubmittedRecord, error)
	Get(ctx context.Context, id string) (domain.SubmittedRecord, error)
}

// Handler serves the password and record endpoints. Handle is the Lambda
// entrypoint for API Gateway proxy events; NewRouter exposes the same
// endpoints over net/http.
type Handler struct {
	passwords PasswordSuggester
	records   RecordIntake
	log       *slog.Logger
}

func NewHandler(passwords PasswordSuggester, records RecordIntake, log *slog.Logger) (*Handler, error) {
	if passwords == nil {
		return nil, errors.New("handler: password suggester must not be nil")
	}
	if records == nil {
		return nil, errors.New("handler: record intake must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{passwords: passwords, records: records, log: log}, nil
}

func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(event.Headers)
	log := h.log.With("correlationId", corrID)

	path := "/" + strings.Trim(event.Path, "/")
	var res result
	switch {
	case path == "/passwords/suggest":
		if event.HTTPMethod != http.MethodPost {
			res = methodNotAllowed()
			break
		}
		res = withBody(event, func(body []byte) result { return h.suggestPassword(ctx, log, body) })
	case path == "/records":
		if event.HTTPMethod != http.MethodPost {
			res = methodNotAllowed()
			break
		}
		res = withBody(event, func(body []byte) result { return h.submitRecord(ctx, log, body) })
	case strings.HasPrefix(path, "/records/"):
		if event.HTTPMethod != http.MethodGet {
			res = methodNotAllowed()
			break
		}
		id := event.PathParameters["id"]
		if id == "" {
			id = strings.TrimPrefix(path, "/records/")
		}
		res = h.getRecord(ctx, log, id)
	default:
		res = routeNotFound()
	}

	body, err := json.Marshal(res.body)
	if err != nil {
		log.ErrorContext(ctx, "encode response", "err", err)
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: res.status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
		Body: string(body),
	}, nil
}

func eventBody(event events.APIGatewayProxyRequest) ([]byte, error) {
	if event.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(event.Body)
	}
	return []byte(event.Body), nil
}

func withBody(event events.APIGatewayProxyRequest, fn func([]byte) result) result {
	body, err := eventBody(event)
	if err != nil {
		return invalidBody()
	}
	return fn(body)
}

// correlationID returns the caller's correlation id, matching the header name
// case-insensitively, or a new uuid.
func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return uuid.NewString()
}
