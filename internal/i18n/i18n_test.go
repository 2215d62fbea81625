package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslations(t *testing.T) {
	t.Run("should load embedded defaults without a locales dir", func(t *testing.T) {
		trans, err := NewTranslations("en", "")

		require.NoError(t, err)
		assert.NotEmpty(t, trans.GetMessage("app_usage", 0, nil))
	})
}

func TestGetMessage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("should interpolate template data", func(t *testing.T) {
		msg := trans.GetMessage("tunnel_created", 0, map[string]interface{}{
			"URL": "https://abc.ngrok.app",
		})

		assert.Contains(t, msg, "https://abc.ngrok.app")
	})

	t.Run("should pluralize by count", func(t *testing.T) {
		one := trans.GetMessage("suite_failed_tests", 1, map[string]interface{}{"Count": 1})
		many := trans.GetMessage("suite_failed_tests", 3, map[string]interface{}{"Count": 3})

		assert.Equal(t, "1 generated test failed", one)
		assert.Equal(t, "3 generated tests failed", many)
	})

	t.Run("should flag missing message ids", func(t *testing.T) {
		msg := trans.GetMessage("does_not_exist", 0, nil)

		assert.Contains(t, msg, "Translation missing")
	})
}

func TestSetLanguage(t *testing.T) {
	t.Run("should reject unsupported languages", func(t *testing.T) {
		trans, err := NewTranslations("en", "")
		require.NoError(t, err)

		assert.Error(t, trans.SetLanguage("fr"))
	})

	t.Run("should accept a registered language", func(t *testing.T) {
		trans, err := NewTranslations("en", "")
		require.NoError(t, err)

		assert.NoError(t, trans.SetLanguage("en"))
	})
}
