package domain

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field names a single input of the registration form.
// The string value is the wire name used by every front-end.
type Field string

const (
	FieldFirstName        Field = "firstName"
	FieldLastName         Field = "lastName"
	FieldEmail            Field = "email"
	FieldPassword         Field = "password"
	FieldConfirmPassword  Field = "confirmPassword"
	FieldAge              Field = "age"
	FieldBirthDate        Field = "birthDate"
	FieldCountry          Field = "country"
	FieldGender           Field = "gender"
	FieldMarketingConsent Field = "marketingConsent"
	FieldTermsConsent     Field = "termsConsent"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPassword,
	FieldConfirmPassword,
	FieldAge,
	FieldBirthDate,
	FieldCountry,
	FieldGender,
	FieldMarketingConsent,
	FieldTermsConsent,
}

// ParseField resolves a wire name into a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", NewValidationError(name, "unknown form field")
}

// IsCheckbox reports whether the field carries a boolean value.
func (f Field) IsCheckbox() bool {
	return f == FieldMarketingConsent || f == FieldTermsConsent
}

// Gender is the optional gender selection. The zero value means unset.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts "male", "female" or the empty string.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(s); g {
	case GenderUnset, GenderMale, GenderFemale:
		return g, nil
	default:
		return "", NewValidationError(string(FieldGender), "gender must be male, female or empty")
	}
}

// BirthDateLayout is the calendar date format accepted for birthDate.
const BirthDateLayout = "2006-01-02"

// FormState is the full set of current field values.
// Values are replaced as a whole; use With to derive an updated copy.
type FormState struct {
	FirstName        string `json:"firstName" validate:"required,min=2"`
	LastName         string `json:"lastName" validate:"required,min=2"`
	Email            string `json:"email" validate:"required,email_address"`
	Password         string `json:"password" validate:"required,password_strength"`
	ConfirmPassword  string `json:"confirmPassword" validate:"eqfield=Password"`
	Age              string `json:"age" validate:"required,adult_age"`
	BirthDate        string `json:"birthDate"` // checked against Age at struct level
	Country          string `json:"country" validate:"required"`
	Gender           Gender `json:"gender"`
	MarketingConsent bool   `json:"marketingConsent"`
	TermsConsent     bool   `json:"termsConsent" validate:"required"`
}

// NewFormState returns a state with every field at its default.
func NewFormState() FormState {
	return FormState{}
}

// With returns a copy of s with a single field replaced. Checkbox fields
// take a bool (or a string strconv.ParseBool understands, or "on"); every
// other field takes a string. s itself is never modified.
func (s FormState) With(field Field, value any) (FormState, error) {
	next := s
	if field.IsCheckbox() {
		checked, err := checkboxValue(field, value)
		if err != nil {
			return s, err
		}
		switch field {
		case FieldMarketingConsent:
			next.MarketingConsent = checked
		case FieldTermsConsent:
			next.TermsConsent = checked
		}
		return next, nil
	}

	text, ok := value.(string)
	if !ok {
		return s, NewValidationError(string(field), "value must be text")
	}

	switch field {
	case FieldFirstName:
		next.FirstName = text
	case FieldLastName:
		next.LastName = text
	case FieldEmail:
		next.Email = text
	case FieldPassword:
		next.Password = text
	case FieldConfirmPassword:
		next.ConfirmPassword = text
	case FieldAge:
		next.Age = text
	case FieldBirthDate:
		next.BirthDate = text
	case FieldCountry:
		next.Country = text
	case FieldGender:
		g, err := ParseGender(text)
		if err != nil {
			return s, err
		}
		next.Gender = g
	default:
		return s, NewValidationError(string(field), "unknown form field")
	}
	return next, nil
}

// Value returns the current value of a field: string for text fields,
// bool for checkboxes.
func (s FormState) Value(field Field) any {
	switch field {
	case FieldFirstName:
		return s.FirstName
	case FieldLastName:
		return s.LastName
	case FieldEmail:
		return s.Email
	case FieldPassword:
		return s.Password
	case FieldConfirmPassword:
		return s.ConfirmPassword
	case FieldAge:
		return s.Age
	case FieldBirthDate:
		return s.BirthDate
	case FieldCountry:
		return s.Country
	case FieldGender:
		return string(s.Gender)
	case FieldMarketingConsent:
		return s.MarketingConsent
	case FieldTermsConsent:
		return s.TermsConsent
	}
	return nil
}

// BirthDateValue parses BirthDate using BirthDateLayout.
func (s FormState) BirthDateValue() (time.Time, error) {
	return time.Parse(BirthDateLayout, s.BirthDate)
}

// LogValue implements slog.LogValuer. Passwords are never written to logs.
func (s FormState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String(string(FieldFirstName), s.FirstName),
		slog.String(string(FieldLastName), s.LastName),
		slog.String(string(FieldEmail), s.Email),
		slog.String(string(FieldPassword), redact(s.Password)),
		slog.String(string(FieldConfirmPassword), redact(s.ConfirmPassword)),
		slog.String(string(FieldAge), s.Age),
		slog.String(string(FieldBirthDate), s.BirthDate),
		slog.String(string(FieldCountry), s.Country),
		slog.String(string(FieldGender), string(s.Gender)),
		slog.Bool(string(FieldMarketingConsent), s.MarketingConsent),
		slog.Bool(string(FieldTermsConsent), s.TermsConsent),
	)
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}

func checkboxValue(field Field, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if strings.EqualFold(v, "on") {
			return true, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, NewValidationError(string(field), fmt.Sprintf("invalid checkbox value %q", v))
		}
		return b, nil
	default:
		return false, NewValidationError(string(field), "value must be a boolean")
	}
}

// ErrorMap maps a failing field to its message. A missing key means the
// field passed validation.
type ErrorMap map[Field]string

// Valid reports whether no field failed.
func (m ErrorMap) Valid() bool {
	return len(m) == 0
}

// Get returns the message for a field, or "" when the field is valid.
func (m ErrorMap) Get(field Field) string {
	return m[field]
}

// Has reports whether the field failed.
func (m ErrorMap) Has(field Field) bool {
	_, ok := m[field]
	return ok
}

// CountryRecord is a single directory entry.
type CountryRecord struct {
	Name          string `json:"name"`
	FlagReference string `json:"flag"`
}

// FormSession is one user's form in progress.
type FormSession struct {
	ID            uuid.UUID `json:"id"`
	State         FormState `json:"state"`
	Errors        ErrorMap  `json:"errors"`
	FlagReference string    `json:"flag,omitempty"`
	// Validated is set once a validation pass has run, so that an empty
	// Errors map can be told apart from "not validated yet".
	Validated bool      `json:"validated"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFormSession creates a session with default field values.
func NewFormSession(now time.Time) *FormSession {
	return &FormSession{
		ID:        uuid.New(),
		State:     NewFormState(),
		Errors:    ErrorMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the session.
func (s *FormSession) Clone() *FormSession {
	if s == nil {
		return nil
	}
	out := *s
	out.Errors = make(ErrorMap, len(s.Errors))
	for k, v := range s.Errors {
		out.Errors[k] = v
	}
	return &out
}
