package status

import (
	"context"
	"testing"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/Tomas-vilte/MateTest/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestStatusAction(t *testing.T) {
	t.Run("should fail fast without an API key", func(t *testing.T) {
		original := cli.OsExiter
		cli.OsExiter = func(int) {}
		t.Cleanup(func() { cli.OsExiter = original })

		trans, err := i18n.NewTranslations("en", "")
		require.NoError(t, err)

		client := new(services.MockSuiteClient)
		factory := NewStatusCommandFactory(client)
		cfg := &config.Config{BaseURL: "https://api.matetest.dev"}

		cmd := factory.CreateCommand(trans, cfg)
		runErr := cmd.Run(context.Background(), []string{"status", "suite-123"})

		exitErr, ok := runErr.(cli.ExitCoder)
		require.True(t, ok)
		assert.Equal(t, 1, exitErr.ExitCode())
		client.AssertNotCalled(t, "GetSuite", mock.Anything, mock.Anything)
	})
}
