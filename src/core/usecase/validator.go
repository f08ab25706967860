package usecase

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"regform/src/core/domain"
)

// Custom validator tags used on domain.FormState.
const (
	tagEmailAddress     = "email_address"
	tagPasswordStrength = "password_strength"
	tagAdultAge         = "adult_age"
	tagBirthYearAge     = "birth_year_matches_age"
)

var (
	// emailPattern treats as whitespace what browsers do for \s: ASCII spaces,
	// vertical tab, Unicode space separators, line/paragraph separators and BOM.
	emailPattern = regexp.MustCompile(
		`^[^@\s\x{000B}\p{Zs}\x{2028}\x{2029}\x{FEFF}]+@[^@\s\x{000B}\p{Zs}\x{2028}\x{2029}\x{FEFF}]+\.[^@\s\x{000B}\p{Zs}\x{2028}\x{2029}\x{FEFF}]+$`,
	)
	specialRunPattern = regexp.MustCompile(
		fmt.Sprintf(`[%s]{%d}`, regexp.QuoteMeta(domain.PasswordSpecials), domain.PasswordSpecialRun),
	)
)

// Validator applies the registration rule set to a FormState.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator builds a Validator. now supplies the current year for the
// birth date check; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	v := &Validator{
		validate: validator.New(),
		now:      now,
	}

	// Report fields under their wire names so they map onto domain.Field.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v.validate, tagEmailAddress, func(fl validator.FieldLevel) bool {
		return validEmail(fl.Field().String())
	})
	mustRegister(v.validate, tagPasswordStrength, func(fl validator.FieldLevel) bool {
		return validPassword(fl.Field().String())
	})
	mustRegister(v.validate, tagAdultAge, func(fl validator.FieldLevel) bool {
		return validAge(fl.Field().String())
	})
	v.validate.RegisterStructValidation(v.birthYearMatchesAge, domain.FormState{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate recomputes the full error map for state. Every rule runs
// independently; a field appears at most once with its fixed message.
func (v *Validator) Validate(state domain.FormState) domain.ErrorMap {
	errs := domain.ErrorMap{}

	err := v.validate.Struct(state)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Struct only fails this way for non-struct input.
		panic(fmt.Sprintf("validate form state: %v", err))
	}

	for _, fe := range fieldErrs {
		field := domain.Field(fe.Field())
		if errs.Has(field) {
			continue
		}
		errs[field] = domain.Messages[field]
	}
	return errs
}

func (v *Validator) birthYearMatchesAge(sl validator.StructLevel) {
	state, ok := sl.Current().Interface().(domain.FormState)
	if !ok {
		return
	}
	if !birthYearMatchesAge(state, v.now()) {
		sl.ReportError(state.BirthDate, string(domain.FieldBirthDate), "BirthDate", tagBirthYearAge, "")
	}
}

func validEmail(s string) bool {
	return s != "" && emailPattern.MatchString(s)
}

// validPassword requires MinPasswordLength characters on a single line,
// MinPasswordDigits ASCII digits anywhere, and PasswordSpecialRun special
// characters next to each other.
func validPassword(s string) bool {
	if s == "" || strings.ContainsAny(s, "\n\r\u2028\u2029") {
		return false
	}
	if utf8.RuneCountInString(s) < domain.MinPasswordLength {
		return false
	}

	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < domain.MinPasswordDigits {
		return false
	}

	return specialRunPattern.MatchString(s)
}

// parseAge reads age as a decimal number, so "30" and "30.0" are the same
// age. Surrounding spaces are ignored.
func parseAge(s string) (float64, bool) {
	age, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(age) || math.IsInf(age, 0) {
		return 0, false
	}
	return age, true
}

func validAge(s string) bool {
	age, ok := parseAge(s)
	if !ok {
		return false
	}
	return age >= domain.MinAge && age <= domain.MaxAge
}

// birthYearMatchesAge compares calendar years only; month and day are ignored.
func birthYearMatchesAge(state domain.FormState, now time.Time) bool {
	born, err := state.BirthDateValue()
	if err != nil {
		return false
	}
	age, ok := parseAge(state.Age)
	if !ok {
		return false
	}
	// Fractional ages count as their whole years.
	return now.Year()-born.Year() == int(math.Trunc(age))
}
