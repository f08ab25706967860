package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"regform/src/core/domain"
	"regform/src/core/ports"
)

// SessionService runs form sessions for the HTTP front-end.
// Every mutation goes through SessionRepository.Update, so operations on
// one session are applied in arrival order and never overlap.
type SessionService struct {
	repo   ports.SessionRepository
	engine *FormEngine
	log    *slog.Logger
	now    func() time.Time
}

func NewSessionService(repo ports.SessionRepository, engine *FormEngine, log *slog.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		engine: engine,
		log:    log,
		now:    time.Now,
	}
}

// ValidationResult is the outcome of a validation pass.
type ValidationResult struct {
	Valid  bool
	Errors domain.ErrorMap
}

// SubmitResult is the outcome of a submit attempt.
type SubmitResult struct {
	Submitted bool
	Session   *domain.FormSession
}

// Start creates a form with default values.
func (s *SessionService) Start(ctx context.Context) (*domain.FormSession, error) {
	sess := domain.NewFormSession(s.now())
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	s.log.Debug("form session started", "form_id", sess.ID)
	return sess.Clone(), nil
}

// Get returns a snapshot of the session.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*domain.FormSession, error) {
	return s.repo.Get(ctx, id)
}

// SetField updates a single field.
func (s *SessionService) SetField(ctx context.Context, id uuid.UUID, name string, value any) (*domain.FormSession, error) {
	return s.repo.Update(ctx, id, func(sess *domain.FormSession) error {
		return s.engine.SetField(sess, name, value)
	})
}

// Validate recomputes the session's error map.
func (s *SessionService) Validate(ctx context.Context, id uuid.UUID) (*ValidationResult, error) {
	var res ValidationResult
	_, err := s.repo.Update(ctx, id, func(sess *domain.FormSession) error {
		res.Valid = s.engine.Validate(sess)
		res.Errors = sess.Errors
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Submit validates and, when valid, emits the form. A sink failure is
// returned as an error and the refreshed error map is still stored.
func (s *SessionService) Submit(ctx context.Context, id uuid.UUID) (*SubmitResult, error) {
	var (
		submitted bool
		emitErr   error
	)
	sess, err := s.repo.Update(ctx, id, func(sess *domain.FormSession) error {
		submitted, emitErr = s.engine.Submit(ctx, sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if emitErr != nil {
		return nil, emitErr
	}
	if submitted {
		s.log.Info("form submitted", "form_id", id)
	}
	return &SubmitResult{Submitted: submitted, Session: sess}, nil
}

// Discard drops the session.
func (s *SessionService) Discard(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Countries returns the directory as currently loaded, possibly empty.
func (s *SessionService) Countries() []domain.CountryRecord {
	return s.engine.Directory().Records()
}
