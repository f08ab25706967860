package cli

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regform/src/core/domain"
	"regform/src/core/usecase"
	"regform/src/infra/logger"
)

// stubDriver answers prompts from per-message queues and records the
// order in which prompts were shown.
type stubDriver struct {
	answers map[string][]any
	asked   []string
	info    []string
	// abortAt, when set, makes the prompt with that message fail.
	abortAt string
}

func (s *stubDriver) next(msg string) (any, error) {
	s.asked = append(s.asked, msg)
	if msg == s.abortAt {
		return nil, ErrAborted
	}
	queue := s.answers[msg]
	if len(queue) == 0 {
		return nil, fmt.Errorf("no answer scripted for %q", msg)
	}
	s.answers[msg] = queue[1:]
	return queue[0], nil
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	v, err := s.next(cfg.Message)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	return s.Input(context.Background(), cfg)
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	v, err := s.next(cfg.Message)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	v, err := s.next(cfg.Message)
	if err != nil {
		return -1, err
	}
	return v.(int), nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

type recordingSink struct {
	mu      sync.Mutex
	emitted []domain.FormState
}

func (r *recordingSink) Emit(_ context.Context, state domain.FormState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitted = append(r.emitted, state)
	return nil
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newRunner(t *testing.T, d PromptDriver, countries []domain.CountryRecord) (*Runner, *recordingSink) {
	t.Helper()
	dir := usecase.NewDirectory()
	dir.Replace(countries)
	sink := &recordingSink{}
	engine := usecase.NewFormEngine(dir, usecase.NewValidator(func() time.Time { return fixedNow }), sink, nil, logger.Discard())
	return NewRunner(d, engine, logger.Discard()), sink
}

var sampleCountries = []domain.CountryRecord{
	{Name: "Poland", FlagReference: "https://flagcdn.com/pl.svg"},
	{Name: "Japan", FlagReference: "https://flagcdn.com/jp.svg"},
}

func validAnswers() map[string][]any {
	return map[string][]any{
		"First name":              {"Ann"},
		"Last name":               {"Kowalska"},
		"Email":                   {"ann@example.com"},
		"Password":                {"ab12!!!cd"},
		"Confirm password":        {"ab12!!!cd"},
		"Age":                     {"30"},
		"Birth date":              {"1996-05-01"},
		"Country":                 {1},
		"Gender":                  {2},
		"Send me news and offers": {false},
		"I accept the terms":      {true},
	}
}

func TestRunner_SubmitsValidForm(t *testing.T) {
	d := &stubDriver{answers: validAnswers()}
	r, sink := newRunner(t, d, sampleCountries)

	state, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Japan", state.Country)
	assert.Equal(t, domain.GenderFemale, state.Gender)
	require.Len(t, sink.emitted, 1)
	assert.Equal(t, state, sink.emitted[0])
	assert.Len(t, d.asked, len(domain.Fields))
	assert.Equal(t, []string{"Flag: https://flagcdn.com/jp.svg", "Registration submitted."}, d.info)
}

func TestRunner_ReasksFailingFieldsOnly(t *testing.T) {
	answers := validAnswers()
	answers["First name"] = []any{"A", "Ann"}
	answers["Password"] = []any{"short", "ab12!!!cd"}
	answers["Confirm password"] = []any{"short", "ab12!!!cd"}
	d := &stubDriver{answers: answers}
	r, sink := newRunner(t, d, sampleCountries)

	state, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", state.FirstName)
	require.Len(t, sink.emitted, 1)

	second := d.asked[len(domain.Fields):]
	assert.Equal(t, []string{"First name", "Password", "Confirm password"}, second)
	assert.Contains(t, d.info, "First name: "+domain.Messages[domain.FieldFirstName])
	assert.Contains(t, d.info, "Password: "+domain.Messages[domain.FieldPassword])
}

func TestRunner_FreeTextCountryWithoutDirectory(t *testing.T) {
	answers := validAnswers()
	answers["Country"] = []any{"Atlantis"}
	d := &stubDriver{answers: answers}
	r, sink := newRunner(t, d, nil)

	state, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Atlantis", state.Country)
	assert.Len(t, sink.emitted, 1)
	assert.NotContains(t, d.info[0], "Flag:", "no flag without a directory match")
}

func TestRunner_Abort(t *testing.T) {
	d := &stubDriver{answers: validAnswers(), abortAt: "Email"}
	r, sink := newRunner(t, d, sampleCountries)

	_, err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, sink.emitted)
	assert.Equal(t, []string{"First name", "Last name", "Email"}, d.asked)
}
