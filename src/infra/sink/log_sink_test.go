package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regform/src/core/domain"
)

func TestLogSink_Emit(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	state := domain.FormState{
		FirstName:    "Ann",
		Email:        "ann@example.com",
		Password:     "ab12!!!cd",
		Country:      "Poland",
		TermsConsent: true,
	}
	require.NoError(t, s.Emit(context.Background(), state))

	var entry struct {
		Msg  string         `json:"msg"`
		Form map[string]any `json:"form"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registration submitted", entry.Msg)
	assert.Equal(t, "Ann", entry.Form["firstName"])
	assert.Equal(t, "Poland", entry.Form["country"])
	assert.Equal(t, true, entry.Form["termsConsent"])
	assert.Equal(t, "[REDACTED]", entry.Form["password"])
	assert.NotContains(t, buf.String(), "ab12!!!cd")
}
