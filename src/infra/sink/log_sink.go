// Package sink holds the destinations for submitted forms.
package sink

import (
	"context"
	"log/slog"

	"regform/src/core/domain"
	"regform/src/core/ports"
)

var _ ports.SubmissionSink = (*LogSink)(nil)

// LogSink writes each accepted form to the log. Passwords are redacted by
// domain.FormState's LogValue.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(ctx context.Context, state domain.FormState) error {
	s.log.InfoContext(ctx, "registration submitted", "form", state)
	return nil
}
