package domain

import (
	"errors"
	"time"
)

const (
	PhoneTypePersonal = "personal"
	PhoneTypeCompany  = "empresa"
)

// CaptureRecord is one submitted capture form.
type CaptureRecord struct {
	CompanyName string      `json:"companyName" validate:"required"`
	Name        string      `json:"name" validate:"min=2"`
	JobTitle    string      `json:"jobTitle" validate:"min=2"`
	Contacts    []Phone     `json:"contacts" validate:"dive"`
	Equipments  []Equipment `json:"equipments" validate:"dive"`
	Software    []Software  `json:"software" validate:"dive"`
	Websites    []Website   `json:"websites" validate:"dive"`
}

type Phone struct {
	ID           string `json:"id,omitempty"`
	Number       string `json:"number" validate:"required"`
	Type         string `json:"type" validate:"oneof=personal empresa"`
	HasWhatsapp  bool   `json:"hasWhatsapp"`
	Observations string `json:"observations,omitempty"`
}

type Equipment struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name" validate:"required"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	Serial        string `json:"serial" validate:"required"`
	HasLicense    bool   `json:"hasLicense"`
	LicenseSerial string `json:"licenseSerial,omitempty"`
	Observations  string `json:"observations,omitempty"`
}

type Software struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name" validate:"required"`
	HasLicense    bool   `json:"hasLicense"`
	LicenseSerial string `json:"licenseSerial,omitempty"`
	Observations  string `json:"observations,omitempty"`
}

type Website struct {
	ID            string `json:"id,omitempty"`
	URL           string `json:"url" validate:"required,url"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	Has2FA        bool   `json:"has2fa"`
	RecoveryEmail string `json:"recoveryEmail,omitempty" validate:"omitempty,email"`
	Observations  string `json:"observations,omitempty"`
}

// SubmittedRecord is a capture record after intake.
type SubmittedRecord struct {
	ID          string        `json:"id"`
	SubmittedAt time.Time     `json:"submittedAt"`
	Persisted   bool          `json:"persisted"`
	Record      CaptureRecord `json:"record"`
}

// Normalize fills list and enum defaults left empty by the client.
func (r *CaptureRecord) Normalize() {
	if r.Contacts == nil {
		r.Contacts = []Phone{}
	}
	if r.Equipments == nil {
		r.Equipments = []Equipment{}
	}
	if r.Software == nil {
		r.Software = []Software{}
	}
	if r.Websites == nil {
		r.Websites = []Website{}
	}
	for i := range r.Contacts {
		if r.Contacts[i].Type == "" {
			r.Contacts[i].Type = PhoneTypePersonal
		}
	}
}

// ErrRecordNotFound is returned by record stores for unknown ids.
var ErrRecordNotFound = errors.New("record not found")
