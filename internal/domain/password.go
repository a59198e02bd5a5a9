package domain

// Password length bounds. The validate tag on PasswordRequest.Length must
// stay in sync with MinPasswordLength and MaxPasswordLength.
const (
	DefaultPasswordLength = 16
	MinPasswordLength     = 8
	MaxPasswordLength     = 128
)

// PasswordRequest is the password policy sent to the suggestion service.
type PasswordRequest struct {
	Length         int  `json:"length" validate:"min=8,max=128"`
	IncludeNumbers bool `json:"includeNumbers"`
	IncludeSymbols bool `json:"includeSymbols"`
}

// PasswordResponse carries one suggested password. Its composition is not
// checked against the request policy.
type PasswordResponse struct {
	Password string `json:"password"`
}

// DefaultPasswordRequest returns the policy used when a caller sends no fields.
func DefaultPasswordRequest() PasswordRequest {
	return PasswordRequest{
		Length:         DefaultPasswordLength,
		IncludeNumbers: true,
		IncludeSymbols: true,
	}
}
