package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"capturadatos/internal/domain"
)

var passwordOutputSchema = domain.OutputSchema{
	Name: "password_suggestion",
	Schema: json.RawMessage(`{
		"type":"object",
		"additionalProperties":false,
		"properties":{
			"password":{"type":"string","description":"The generated password."}
		},
		"required":["password"]
	}`),
}

func buildPasswordMessages(req domain.PasswordRequest) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: "system", Content: passwordOutputContract()},
		{Role: "user", Content: buildPasswordPrompt(req)},
	}
}

func buildPasswordPrompt(req domain.PasswordRequest) string {
	return strings.Join([]string{
		"You are a password generator AI. Generate a strong and unique password based on the following criteria:",
		"",
		fmt.Sprintf("Length: %d", req.Length),
		fmt.Sprintf("Include numbers: %t", req.IncludeNumbers),
		fmt.Sprintf("Include symbols: %t", req.IncludeSymbols),
		"",
		"Ensure the password is complex and difficult to guess.",
	}, "\n")
}

func passwordOutputContract() string {
	return "Return JSON only with the key password (string) holding exactly one generated password. " +
		"Do not add explanations or any other keys."
}

// parsePasswordResponse decodes exactly one JSON object. The password is
// returned as sent; only a blank value is rejected.
func parsePasswordResponse(raw string) (domain.PasswordResponse, error) {
	var out domain.PasswordResponse
	dec := json.NewDecoder(bytes.NewBufferString(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return domain.PasswordResponse{}, fmt.Errorf("usecase: decode password response: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return domain.PasswordResponse{}, errors.New("usecase: decode password response: multiple JSON values")
		}
		return domain.PasswordResponse{}, fmt.Errorf("usecase: decode password response trailing data: %w", err)
	}
	if strings.TrimSpace(out.Password) == "" {
		return domain.PasswordResponse{}, errors.New("usecase: password response missing password")
	}
	return out, nil
}
