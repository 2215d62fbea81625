package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("should format without an underlying error", func(t *testing.T) {
		err := NewAppError(TypeGit, "algo salió mal", nil)

		assert.Equal(t, "GIT: algo salió mal", err.Error())
	})

	t.Run("should format with the underlying error", func(t *testing.T) {
		cause := errors.New("exit status 128")
		err := NewAppError(TypeGit, "algo salió mal", cause)

		assert.Equal(t, "GIT: algo salió mal (exit status 128)", err.Error())
	})

	t.Run("should include stderr context in the message", func(t *testing.T) {
		err := NewAppError(TypeGit, "git falló", nil).WithContext("stderr", "fatal: not a git repository")

		assert.Contains(t, err.Error(), "fatal: not a git repository")
	})
}

func TestAppErrorUnwrap(t *testing.T) {
	t.Run("should expose the cause through errors.Is", func(t *testing.T) {
		cause := errors.New("boom")
		err := ErrTunnelDaemonDown.WithError(cause)

		assert.ErrorIs(t, err, cause)
	})

	t.Run("should match the sentinel after WithError", func(t *testing.T) {
		err := ErrTunnelDaemonDown.WithError(errors.New("connection refused"))

		assert.ErrorIs(t, err, ErrTunnelDaemonDown)
		assert.NotErrorIs(t, err, ErrTunnelTokenInvalid)
	})

	t.Run("should survive fmt.Errorf wrapping", func(t *testing.T) {
		err := fmt.Errorf("context: %w", ErrAPIKeyMissing)

		assert.ErrorIs(t, err, ErrAPIKeyMissing)

		var appErr *AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, TypeConfiguration, appErr.Type)
	})
}

func TestBuilders(t *testing.T) {
	t.Run("WithError should not mutate the sentinel", func(t *testing.T) {
		derived := ErrRetriesExhausted.WithError(errors.New("502 Bad Gateway"))

		assert.Nil(t, ErrRetriesExhausted.Err)
		assert.NotNil(t, derived.Err)
		assert.Equal(t, ErrRetriesExhausted.Suggestion, derived.Suggestion)
	})

	t.Run("WithContext should copy the context map", func(t *testing.T) {
		base := NewAppError(TypeAPI, "request failed", nil).WithContext("status", 500)
		derived := base.WithContext("url", "/api/v1/auth")

		assert.Len(t, base.Context, 1)
		assert.Len(t, derived.Context, 2)
	})

	t.Run("WithSuggestion should replace the suggestion", func(t *testing.T) {
		err := NewAppError(TypeInternal, "panic", nil).WithSuggestion("report this bug")

		assert.Equal(t, "report this bug", err.Suggestion)
	})
}
