package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"regform/src/core/domain"
	"regform/src/core/ports"
)

// Submission outcomes reported to metrics.
const (
	SubmissionAccepted = "accepted"
	SubmissionRejected = "rejected"
	SubmissionFailed   = "failed"
)

// FormEngine applies field updates, validation and submission to a
// FormSession. The directory is injected, never read from ambient state.
// The engine holds no per-form state; callers serialize calls per session.
type FormEngine struct {
	directory *Directory
	validator *Validator
	sink      ports.SubmissionSink
	metrics   ports.FormMetrics
	log       *slog.Logger
	now       func() time.Time
}

// NewFormEngine wires an engine. metrics may be nil.
func NewFormEngine(
	directory *Directory,
	validator *Validator,
	sink ports.SubmissionSink,
	metrics ports.FormMetrics,
	log *slog.Logger,
) *FormEngine {
	return &FormEngine{
		directory: directory,
		validator: validator,
		sink:      sink,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Directory returns the directory the engine resolves countries against.
func (e *FormEngine) Directory() *Directory {
	return e.directory
}

// SetField replaces one field of the session's state. Selecting a country
// also resolves its flag from the directory; an unknown name clears it.
// On error the session is left exactly as it was.
func (e *FormEngine) SetField(sess *domain.FormSession, name string, value any) error {
	field, err := domain.ParseField(name)
	if err != nil {
		return err
	}

	next, err := sess.State.With(field, value)
	if err != nil {
		return err
	}

	flag := sess.FlagReference
	if field == domain.FieldCountry {
		flag = ""
		if rec, ok := e.directory.Lookup(next.Country); ok {
			flag = rec.FlagReference
		}
	}

	sess.State = next
	sess.FlagReference = flag
	sess.UpdatedAt = e.now()
	return nil
}

// Validate recomputes the session's error map, replacing the previous one,
// and reports whether the form is valid.
func (e *FormEngine) Validate(sess *domain.FormSession) bool {
	errs := e.validator.Validate(sess.State)
	sess.Errors = errs
	sess.Validated = true

	valid := errs.Valid()
	if e.metrics != nil {
		e.metrics.ObserveValidation(valid)
	}
	return valid
}

// Submit validates the session and, when it is valid, emits the state to the
// sink. An invalid form produces no side effect beyond the stored error map.
// The state itself is never modified.
func (e *FormEngine) Submit(ctx context.Context, sess *domain.FormSession) (bool, error) {
	if !e.Validate(sess) {
		e.observeSubmission(SubmissionRejected)
		e.log.Debug("submission refused", "form_id", sess.ID, "errors", len(sess.Errors))
		return false, nil
	}

	if err := e.sink.Emit(ctx, sess.State); err != nil {
		e.observeSubmission(SubmissionFailed)
		return false, fmt.Errorf("emit submission: %w", err)
	}

	e.observeSubmission(SubmissionAccepted)
	return true, nil
}

func (e *FormEngine) observeSubmission(outcome string) {
	if e.metrics != nil {
		e.metrics.ObserveSubmission(outcome)
	}
}
