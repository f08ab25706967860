package dto

import (
	"time"

	"regform/src/core/domain"
	"regform/src/core/usecase"
)

// SetFieldRequest is the payload for PUT /v1/forms/:form_id/fields/:field.
// Value is a string for text fields and a boolean for checkboxes.
type SetFieldRequest struct {
	Value any `json:"value"`
}

// FormResponse is a snapshot of one form session.
type FormResponse struct {
	ID        string            `json:"id"`
	State     domain.FormState  `json:"state"`
	Errors    map[string]string `json:"errors"`
	Validated bool              `json:"validated"`
	Flag      string            `json:"flag,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// FromSession converts a domain session.
func (FormResponse) FromSession(s *domain.FormSession) FormResponse {
	return FormResponse{
		ID:        s.ID.String(),
		State:     s.State,
		Errors:    ErrorsFromDomain(s.Errors),
		Validated: s.Validated,
		Flag:      s.FlagReference,
		UpdatedAt: s.UpdatedAt,
	}
}

// ValidationResponse is returned by POST /v1/forms/:form_id/validate.
type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// FromResult converts a validation result.
func (ValidationResponse) FromResult(r *usecase.ValidationResult) ValidationResponse {
	return ValidationResponse{
		Valid:  r.Valid,
		Errors: ErrorsFromDomain(r.Errors),
	}
}

// SubmitResponse is returned by a successful submit.
type SubmitResponse struct {
	Submitted bool         `json:"submitted"`
	Form      FormResponse `json:"form"`
}

// CountryResponse is one entry of GET /v1/countries.
type CountryResponse struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// CountriesFromDomain converts the directory, keeping provider order.
func CountriesFromDomain(records []domain.CountryRecord) []CountryResponse {
	out := make([]CountryResponse, 0, len(records))
	for _, r := range records {
		out = append(out, CountryResponse{Name: r.Name, Flag: r.FlagReference})
	}
	return out
}

// ErrorsFromDomain turns an ErrorMap into a JSON object keyed by field name.
func ErrorsFromDomain(m domain.ErrorMap) map[string]string {
	out := make(map[string]string, len(m))
	for f, msg := range m {
		out[string(f)] = msg
	}
	return out
}
