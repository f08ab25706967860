package usecase

import (
	"context"
	"sync"

	"regform/src/core/domain"
)

type stubProvider struct {
	records []domain.CountryRecord
	err     error
	// block, when set, holds FetchCountries until it is closed or ctx ends.
	block chan struct{}
}

func (p *stubProvider) FetchCountries(ctx context.Context) ([]domain.CountryRecord, error) {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}

type recordingSink struct {
	mu      sync.Mutex
	emitted []domain.FormState
	err     error
}

func (s *recordingSink) Emit(_ context.Context, state domain.FormState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.emitted = append(s.emitted, state)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.emitted)
}

type countingMetrics struct {
	mu          sync.Mutex
	valid       int
	invalid     int
	submissions map[string]int
	loadErrors  int
	loadedSize  int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{submissions: map[string]int{}}
}

func (m *countingMetrics) ObserveValidation(valid bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if valid {
		m.valid++
	} else {
		m.invalid++
	}
}

func (m *countingMetrics) ObserveSubmission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[outcome]++
}

func (m *countingMetrics) ObserveDirectoryLoad(err error, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.loadErrors++
		return
	}
	m.loadedSize = size
}

var sampleCountries = []domain.CountryRecord{
	{Name: "Poland", FlagReference: "https://flagcdn.com/pl.svg"},
	{Name: "Japan", FlagReference: "https://flagcdn.com/jp.svg"},
}
