package test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return trans
}

// stubExiter evita que los errores con exit code maten el proceso de test
func stubExiter(t *testing.T) {
	t.Helper()
	original := cli.OsExiter
	cli.OsExiter = func(int) {}
	t.Cleanup(func() { cli.OsExiter = original })
}

func TestCreateAction(t *testing.T) {
	t.Run("should fail before building any client when the API key is missing", func(t *testing.T) {
		stubExiter(t)
		infraCalled := false
		infra := func(repoPath, baseURL, apiKey string) (ports.ChangeCollector, ports.ContextBuilder, ports.SuiteClient, ports.ArtifactWriter) {
			infraCalled = true
			return nil, nil, nil, nil
		}
		factory := NewTestCommandFactory(infra, nil, nil, "/repo")
		cfg := &config.Config{BaseURL: "https://api.matetest.dev", OutputDir: "matetest-artifacts"}

		cmd := factory.CreateCommand(newTranslations(t), cfg)
		err := cmd.Run(context.Background(), []string{"test"})

		exitErr, ok := err.(cli.ExitCoder)
		require.True(t, ok)
		assert.Equal(t, 1, exitErr.ExitCode())
		assert.False(t, infraCalled)
	})

	t.Run("should accept the key from the --api-key flag", func(t *testing.T) {
		var receivedKey string
		infra := func(repoPath, baseURL, apiKey string) (ports.ChangeCollector, ports.ContextBuilder, ports.SuiteClient, ports.ArtifactWriter) {
			receivedKey = apiKey
			// abortar acá con un panic controlado evita armar toda la corrida;
			// el pipeline real queda cubierto por los tests del servicio
			panic("stop after infra")
		}
		factory := NewTestCommandFactory(infra, nil, nil, "/repo")
		cfg := &config.Config{BaseURL: "https://api.matetest.dev", OutputDir: "matetest-artifacts"}

		cmd := factory.CreateCommand(newTranslations(t), cfg)
		func() {
			defer func() { _ = recover() }()
			_ = cmd.Run(context.Background(), []string{"test", "--api-key", "flag-key"})
		}()

		assert.Equal(t, "flag-key", receivedKey)
	})

	t.Run("should reject a --repo path that does not exist", func(t *testing.T) {
		stubExiter(t)
		infraCalled := false
		infra := func(repoPath, baseURL, apiKey string) (ports.ChangeCollector, ports.ContextBuilder, ports.SuiteClient, ports.ArtifactWriter) {
			infraCalled = true
			return nil, nil, nil, nil
		}
		factory := NewTestCommandFactory(infra, nil, nil, "/repo")
		cfg := &config.Config{APIKey: "key", BaseURL: "https://api.matetest.dev", OutputDir: "matetest-artifacts"}

		cmd := factory.CreateCommand(newTranslations(t), cfg)
		missing := filepath.Join(t.TempDir(), "no-existe")
		err := cmd.Run(context.Background(), []string{"test", "--repo", missing})

		exitErr, ok := err.(cli.ExitCoder)
		require.True(t, ok)
		assert.Equal(t, 1, exitErr.ExitCode())
		assert.False(t, infraCalled)
	})
}

func TestCreateFlags(t *testing.T) {
	t.Run("should expose the override flags with the server wait default", func(t *testing.T) {
		factory := NewTestCommandFactory(nil, nil, nil, "/repo")
		cfg := &config.Config{BaseURL: "https://api.matetest.dev", OutputDir: "matetest-artifacts"}

		flags := factory.createFlags(cfg, newTranslations(t))

		names := map[string]cli.Flag{}
		for _, flag := range flags {
			names[flag.Names()[0]] = flag
		}
		for _, expected := range []string{"commit", "base", "head", "pr", "url", "repo", "api-key", "base-url", "wait", "no-artifacts", "output"} {
			assert.Contains(t, names, expected)
		}

		waitFlag, ok := names["wait"].(*cli.IntFlag)
		require.True(t, ok)
		assert.Equal(t, int64(defaultServerWaitSeconds), waitFlag.Value)
	})
}

func TestReport(t *testing.T) {
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	factory := &TestCommandFactory{}

	t.Run("should exit 1 when the run itself failed", func(t *testing.T) {
		result := &models.RunResult{Success: false, Error: "Not a valid git repository"}

		err := factory.report(result, time.Second, trans)

		exitErr, ok := err.(cli.ExitCoder)
		require.True(t, ok)
		assert.Equal(t, 1, exitErr.ExitCode())
		assert.Contains(t, err.Error(), "Not a valid git repository")
	})

	t.Run("should exit 1 when generated tests failed even though the run succeeded", func(t *testing.T) {
		result := &models.RunResult{Success: true, SuiteUUID: "suite-123", TestsFailed: 2}

		err := factory.report(result, time.Second, trans)

		exitErr, ok := err.(cli.ExitCoder)
		require.True(t, ok)
		assert.Equal(t, 1, exitErr.ExitCode())
		assert.Contains(t, err.Error(), "2 generated tests failed")
	})

	t.Run("should return nil on a clean completed run", func(t *testing.T) {
		result := &models.RunResult{Success: true, SuiteUUID: "suite-123"}

		assert.NoError(t, factory.report(result, time.Second, trans))
	})

	t.Run("should return nil when there was nothing to test", func(t *testing.T) {
		result := &models.RunResult{Success: true}

		assert.NoError(t, factory.report(result, time.Second, trans))
	})
}
