// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"github.com/google/uuid"

	"regform/src/core/domain"
)

// CountryProvider reads the country directory from an external source.
type CountryProvider interface {
	// FetchCountries returns the directory in provider order. Any transport
	// or decoding failure is returned as an error; callers decide how to
	// recover.
	FetchCountries(ctx context.Context) ([]domain.CountryRecord, error)
}

// SubmissionSink receives a form that passed validation.
type SubmissionSink interface {
	Emit(ctx context.Context, state domain.FormState) error
}

// SessionRepository keeps form sessions for the HTTP front-end.
type SessionRepository interface {
	Create(ctx context.Context, sess *domain.FormSession) error
	Get(ctx context.Context, id uuid.UUID) (*domain.FormSession, error)

	// Update runs fn on a copy of the session and stores the copy only if
	// fn returns nil. Updates to one session never overlap.
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.FormSession) error) (*domain.FormSession, error)

	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// FormMetrics records form and directory outcomes. Implementations must be
// safe for concurrent use.
type FormMetrics interface {
	ObserveValidation(valid bool)
	ObserveSubmission(outcome string)
	ObserveDirectoryLoad(err error, size int)
}
