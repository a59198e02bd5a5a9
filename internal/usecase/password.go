package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"capturadatos/internal/domain"
	"capturadatos/internal/validation"
)

type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Generator is the generative-text backend: it answers messages with content
// that should conform to schema.
type Generator interface {
	Generate(ctx context.Context, model string, messages []domain.ChatMessage, schema domain.OutputSchema) (string, error)
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// PasswordService turns a password policy into one suggested password by
// delegating to a Generator. It does not verify the suggestion against the
// policy.
type PasswordService struct {
	params     ParamGetter
	generator  Generator
	modelParam string

	cacheMu     sync.RWMutex
	cacheLoaded bool
	model       string
}

// NewPasswordService reads the model id from the parameter named modelParam.
func NewPasswordService(p ParamGetter, g Generator, modelParam string) (*PasswordService, error) {
	if p == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	if g == nil {
		return nil, errors.New("usecase: generator must not be nil")
	}
	modelParam = strings.TrimSpace(modelParam)
	if modelParam == "" {
		return nil, errors.New("usecase: model parameter name must not be empty")
	}
	return &PasswordService{
		params:     p,
		generator:  g,
		modelParam: modelParam,
	}, nil
}

// SuggestPassword validates req, then calls the generator exactly once.
// Invalid input never reaches the generator.
func (s *PasswordService) SuggestPassword(ctx context.Context, req domain.PasswordRequest) (domain.PasswordResponse, error) {
	if fields, err := validation.Struct(req); err != nil {
		return domain.PasswordResponse{}, newValidationError("invalid_password_policy", fields, err)
	}

	model, err := s.ensureModel(ctx)
	if err != nil {
		return domain.PasswordResponse{}, newError(ErrorInternal, "ssm_load_error", err)
	}

	raw, err := s.generator.Generate(ctx, model, buildPasswordMessages(req), passwordOutputSchema)
	if err != nil {
		if status, ok := upstreamStatusCode(err); ok && status == http.StatusTooManyRequests {
			return domain.PasswordResponse{}, newError(ErrorGeneration, "openai_rate_limited", err)
		}
		return domain.PasswordResponse{}, newError(ErrorGeneration, "openai_error", err)
	}

	out, err := parsePasswordResponse(raw)
	if err != nil {
		return domain.PasswordResponse{}, newError(ErrorGeneration, "openai_malformed_response", err)
	}
	return out, nil
}

// ensureModel loads the model name once. A failed load is not cached, so the
// next request tries again.
func (s *PasswordService) ensureModel(ctx context.Context) (string, error) {
	s.cacheMu.RLock()
	if s.cacheLoaded {
		model := s.model
		s.cacheMu.RUnlock()
		return model, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheLoaded {
		return s.model, nil
	}

	model, err := s.params.GetParameter(ctx, s.modelParam)
	if err != nil {
		return "", fmt.Errorf("usecase: load openai model: %w", err)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return "", errors.New("usecase: openai model parameter is empty")
	}

	s.model = model
	s.cacheLoaded = true
	return model, nil
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}
