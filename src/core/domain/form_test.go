package domain

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormStateDefaults(t *testing.T) {
	s := NewFormState()
	for _, f := range Fields {
		switch v := s.Value(f).(type) {
		case string:
			assert.Empty(t, v, f)
		case bool:
			assert.False(t, v, f)
		default:
			t.Fatalf("field %s has unexpected value type %T", f, v)
		}
	}
}

func TestFormStateWith(t *testing.T) {
	t.Run("text field replaces one value", func(t *testing.T) {
		s := NewFormState()
		next, err := s.With(FieldFirstName, "Ann")
		require.NoError(t, err)
		assert.Equal(t, "Ann", next.FirstName)
		assert.Empty(t, s.FirstName, "receiver must not change")
	})

	t.Run("checkbox accepts bool and html on", func(t *testing.T) {
		s := NewFormState()
		next, err := s.With(FieldTermsConsent, true)
		require.NoError(t, err)
		assert.True(t, next.TermsConsent)

		next, err = next.With(FieldMarketingConsent, "on")
		require.NoError(t, err)
		assert.True(t, next.MarketingConsent)
		assert.Equal(t, true, next.Value(FieldMarketingConsent))

		next, err = next.With(FieldMarketingConsent, "false")
		require.NoError(t, err)
		assert.False(t, next.MarketingConsent)
	})

	t.Run("wrong kind is rejected without change", func(t *testing.T) {
		s := NewFormState()
		_, err := s.With(FieldEmail, true)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		_, err = s.With(FieldTermsConsent, "maybe")
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("gender is an enumeration", func(t *testing.T) {
		s := NewFormState()
		next, err := s.With(FieldGender, "female")
		require.NoError(t, err)
		assert.Equal(t, GenderFemale, next.Gender)

		_, err = s.With(FieldGender, "other")
		require.Error(t, err)
	})
}

func TestParseField(t *testing.T) {
	f, err := ParseField("confirmPassword")
	require.NoError(t, err)
	assert.Equal(t, FieldConfirmPassword, f)

	_, err = ParseField("marketing")
	require.Error(t, err)
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "marketing", de.Field)
}

func TestFormStateLogValueRedactsPasswords(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s := FormState{Email: "a@b.com", Password: "ab12!!!cd", ConfirmPassword: "ab12!!!cd"}

	log.Info("submitted", "form", s)

	out := buf.String()
	assert.Contains(t, out, "a@b.com")
	assert.NotContains(t, out, "ab12!!!cd")
	assert.Contains(t, out, "[REDACTED]")
}

func TestFormSessionClone(t *testing.T) {
	sess := NewFormSession(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	sess.Errors[FieldEmail] = Messages[FieldEmail]

	clone := sess.Clone()
	clone.Errors[FieldAge] = Messages[FieldAge]

	assert.Equal(t, sess.ID, clone.ID)
	assert.False(t, sess.Errors.Has(FieldAge))
	assert.True(t, clone.Errors.Has(FieldEmail))
}

func TestDirectoryLoadError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(NewDirectoryLoadError(cause))

	assert.True(t, IsDirectoryLoadError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
