package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"regform/src/core/domain"
	"regform/src/core/usecase"
)

var labels = map[domain.Field]string{
	domain.FieldFirstName:        "First name",
	domain.FieldLastName:         "Last name",
	domain.FieldEmail:            "Email",
	domain.FieldPassword:         "Password",
	domain.FieldConfirmPassword:  "Confirm password",
	domain.FieldAge:              "Age",
	domain.FieldBirthDate:        "Birth date",
	domain.FieldCountry:          "Country",
	domain.FieldGender:           "Gender",
	domain.FieldMarketingConsent: "Send me news and offers",
	domain.FieldTermsConsent:     "I accept the terms",
}

var genderOptions = []struct {
	label string
	value domain.Gender
}{
	{"Prefer not to say", domain.GenderUnset},
	{"Male", domain.GenderMale},
	{"Female", domain.GenderFemale},
}

// Runner drives one registration through the terminal.
type Runner struct {
	driver PromptDriver
	engine *usecase.FormEngine
	log    *slog.Logger
	now    func() time.Time
}

func NewRunner(driver PromptDriver, engine *usecase.FormEngine, log *slog.Logger) *Runner {
	return &Runner{
		driver: driver,
		engine: engine,
		log:    log,
		now:    time.Now,
	}
}

// Run prompts every field, then submits. While the form is invalid it
// prints the errors and asks again for the failing fields only. It returns
// the submitted state, or ErrAborted when the user gives up.
func (r *Runner) Run(ctx context.Context) (domain.FormState, error) {
	sess := domain.NewFormSession(r.now())
	pending := domain.Fields

	for attempt := 1; ; attempt++ {
		for _, field := range pending {
			if err := r.ask(ctx, sess, field); err != nil {
				return domain.FormState{}, err
			}
		}

		ok, err := r.engine.Submit(ctx, sess)
		if err != nil {
			return domain.FormState{}, fmt.Errorf("submit: %w", err)
		}
		if ok {
			if err := r.driver.Info(ctx, "Registration submitted."); err != nil {
				return domain.FormState{}, err
			}
			return sess.State, nil
		}

		r.log.Debug("form rejected", "attempt", attempt, "errors", len(sess.Errors))
		pending = failing(sess.Errors)
		for _, field := range pending {
			if !sess.Errors.Has(field) {
				continue
			}
			if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", labels[field], sess.Errors.Get(field))); err != nil {
				return domain.FormState{}, err
			}
		}
	}
}

// failing lists the fields to ask again, in form order. A rejected
// password also asks for its confirmation.
func failing(errs domain.ErrorMap) []domain.Field {
	var out []domain.Field
	for _, f := range domain.Fields {
		switch {
		case errs.Has(f):
			out = append(out, f)
		case f == domain.FieldConfirmPassword && errs.Has(domain.FieldPassword):
			out = append(out, f)
		}
	}
	return out
}

func (r *Runner) ask(ctx context.Context, sess *domain.FormSession, field domain.Field) error {
	value, err := r.prompt(ctx, sess, field)
	if err != nil {
		return err
	}
	if err := r.engine.SetField(sess, string(field), value); err != nil {
		return err
	}
	if field == domain.FieldCountry && sess.FlagReference != "" {
		return r.driver.Info(ctx, "Flag: "+sess.FlagReference)
	}
	return nil
}

func (r *Runner) prompt(ctx context.Context, sess *domain.FormSession, field domain.Field) (any, error) {
	label := labels[field]
	current, _ := sess.State.Value(field).(string)

	switch field {
	case domain.FieldPassword, domain.FieldConfirmPassword:
		return anyOf(r.driver.Password(ctx, InputConfig{
			Message: label,
			Help:    domain.Messages[domain.FieldPassword],
		}))

	case domain.FieldAge:
		return anyOf(r.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: domain.Messages[field]}))

	case domain.FieldBirthDate:
		return anyOf(r.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: "YYYY-MM-DD"}))

	case domain.FieldCountry:
		return r.promptCountry(ctx, label, current)

	case domain.FieldGender:
		options := make([]string, len(genderOptions))
		def := 0
		for i, o := range genderOptions {
			options[i] = o.label
			if o.value == sess.State.Gender {
				def = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: def})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(genderOptions) {
			return nil, fmt.Errorf("gender choice %d out of range", idx)
		}
		return string(genderOptions[idx].value), nil

	case domain.FieldMarketingConsent, domain.FieldTermsConsent:
		checked, _ := sess.State.Value(field).(bool)
		return anyOf(r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked}))

	default:
		return anyOf(r.driver.Input(ctx, InputConfig{Message: label, Default: current}))
	}
}

// promptCountry offers the loaded directory as a list. Before the load
// completes, or when it failed, the country is typed in.
func (r *Runner) promptCountry(ctx context.Context, label, current string) (any, error) {
	names := r.engine.Directory().Names()
	if len(names) == 0 {
		return anyOf(r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current,
			Help:    "Country list unavailable, type the name",
		}))
	}

	def := -1
	for i, n := range names {
		if n == current {
			def = i
			break
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      names,
		DefaultIndex: def,
		PageSize:     15,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(names) {
		return nil, fmt.Errorf("country choice %d out of range", idx)
	}
	return names[idx], nil
}

func anyOf[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
