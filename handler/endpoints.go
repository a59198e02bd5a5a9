package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"capturadatos/internal/domain"
	"capturadatos/internal/usecase"
)

const (
	codeInvalidInput     = "INVALID_INPUT"
	codeRouteNotFound    = "NOT_FOUND"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeRateLimited      = "RATE_LIMITED"
	codeBodyTooLarge     = "BODY_TOO_LARGE"
)

// passwordRequestBody uses pointers so absent fields take their defaults
// while explicit values, including zero, are validated as sent.
type passwordRequestBody struct {
	Length         *int  `json:"length"`
	IncludeNumbers *bool `json:"includeNumbers"`
	IncludeSymbols *bool `json:"includeSymbols"`
}

// UnmarshalJSON rejects explicit nulls, which would otherwise read as absent.
func (b *passwordRequestBody) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("handler: request body must be a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for name, raw := range fields {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("handler: %s must not be null", name)
		}
	}
	type plain passwordRequestBody
	return json.Unmarshal(data, (*plain)(b))
}

func (b passwordRequestBody) toDomain() domain.PasswordRequest {
	req := domain.DefaultPasswordRequest()
	if b.Length != nil {
		req.Length = *b.Length
	}
	if b.IncludeNumbers != nil {
		req.IncludeNumbers = *b.IncludeNumbers
	}
	if b.IncludeSymbols != nil {
		req.IncludeSymbols = *b.IncludeSymbols
	}
	return req
}

type passwordResponse struct {
	Password string `json:"password"`
}

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// result is a transport-neutral response.
type result struct {
	status int
	body   any
}

func (h *Handler) suggestPassword(ctx context.Context, log *slog.Logger, body []byte) result {
	var in passwordRequestBody
	if err := decodeBody(body, &in); err != nil {
		return invalidBody()
	}
	out, err := h.passwords.SuggestPassword(ctx, in.toDomain())
	if err != nil {
		return errorResult(ctx, log, err)
	}
	return result{status: http.StatusOK, body: passwordResponse{Password: out.Password}}
}

func (h *Handler) submitRecord(ctx context.Context, log *slog.Logger, body []byte) result {
	var in domain.CaptureRecord
	if err := decodeBody(body, &in); err != nil {
		return invalidBody()
	}
	out, err := h.records.Submit(ctx, in)
	if err != nil {
		return errorResult(ctx, log, err)
	}
	return result{status: http.StatusCreated, body: out}
}

func (h *Handler) getRecord(ctx context.Context, log *slog.Logger, id string) result {
	out, err := h.records.Get(ctx, id)
	if err != nil {
		return errorResult(ctx, log, err)
	}
	return result{status: http.StatusOK, body: out}
}

// decodeBody decodes exactly one JSON value followed only by whitespace. An
// empty body decodes as {}.
func decodeBody(body []byte, v any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("handler: unexpected data after JSON body")
	}
	return nil
}

func errorResult(ctx context.Context, log *slog.Logger, err error) result {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		log.ErrorContext(ctx, "unexpected use case error", "err", err)
		return result{status: http.StatusInternalServerError, body: errorResponse{
			Error:   string(usecase.ErrorInternal),
			Message: "internal error",
		}}
	}

	attrs := []any{"code", ucErr.Code, "reason", ucErr.Reason}
	switch ucErr.Code {
	case usecase.ErrorValidation:
		log.InfoContext(ctx, "request rejected", attrs...)
		return result{status: http.StatusBadRequest, body: errorResponse{
			Error:   string(ucErr.Code),
			Message: "invalid input",
			Fields:  ucErr.Fields,
		}}
	case usecase.ErrorNotFound:
		log.InfoContext(ctx, "request rejected", attrs...)
		return result{status: http.StatusNotFound, body: errorResponse{
			Error:   string(ucErr.Code),
			Message: "record not found",
		}}
	case usecase.ErrorGeneration:
		log.ErrorContext(ctx, "password generation failed", append(attrs, "err", ucErr.Err)...)
		return result{status: http.StatusBadGateway, body: errorResponse{
			Error:   string(ucErr.Code),
			Message: "password generation failed, please try again",
		}}
	default:
		log.ErrorContext(ctx, "request failed", append(attrs, "err", ucErr.Err)...)
		return result{status: http.StatusInternalServerError, body: errorResponse{
			Error:   string(usecase.ErrorInternal),
			Message: "internal error",
		}}
	}
}

func invalidBody() result {
	return result{status: http.StatusBadRequest, body: errorResponse{Error: codeInvalidInput, Message: "invalid request body"}}
}

func routeNotFound() result {
	return result{status: http.StatusNotFound, body: errorResponse{Error: codeRouteNotFound, Message: "route not found"}}
}

func methodNotAllowed() result {
	return result{status: http.StatusMethodNotAllowed, body: errorResponse{Error: codeMethodNotAllowed, Message: "method not allowed"}}
}
