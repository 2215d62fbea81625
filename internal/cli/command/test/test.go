package test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	apperrors "github.com/Tomas-vilte/MateTest/internal/errors"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/tunnel"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/vcs/github"
	"github.com/Tomas-vilte/MateTest/internal/regex"
	"github.com/Tomas-vilte/MateTest/internal/services"
	"github.com/Tomas-vilte/MateTest/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultServerWaitSeconds = 30

// Infrastructure construye las dependencias que dependen del repo y de las
// credenciales, así los flags --repo, --base-url y --api-key pueden
// sobreescribir lo que vino del archivo de configuración.
type Infrastructure func(repoPath, baseURL, apiKey string) (ports.ChangeCollector, ports.ContextBuilder, ports.SuiteClient, ports.ArtifactWriter)

// TestCommandFactory arma el comando principal: detecta cambios, crea la
// suite remota y espera el resultado.
type TestCommandFactory struct {
	infra    Infrastructure
	prober   ports.ServerProber
	tunnels  *tunnel.Manager
	repoPath string
}

func NewTestCommandFactory(infra Infrastructure, prober ports.ServerProber, tunnels *tunnel.Manager, repoPath string) *TestCommandFactory {
	return &TestCommandFactory{
		infra:    infra,
		prober:   prober,
		tunnels:  tunnels,
		repoPath: repoPath,
	}
}

func (f *TestCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:        "test",
		Aliases:     []string{"t"},
		Usage:       t.GetMessage("test_command_usage", 0, nil),
		Description: t.GetMessage("test_command_description", 0, nil),
		Flags:       f.createFlags(cfg, t),
		Action:      f.createAction(cfg, t),
	}
}

func (f *TestCommandFactory) createFlags(cfg *config.Config, t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "commit",
			Aliases: []string{"c"},
			Usage:   t.GetMessage("test_commit_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  "base",
			Usage: t.GetMessage("test_base_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  "head",
			Usage: t.GetMessage("test_head_flag_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "pr",
			Usage: t.GetMessage("test_pr_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   t.GetMessage("test_url_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   t.GetMessage("test_repo_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: t.GetMessage("test_api_key_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: t.GetMessage("test_base_url_flag_usage", 0, nil),
		},
		&cli.IntFlag{
			Name:  "wait",
			Value: defaultServerWaitSeconds,
			Usage: t.GetMessage("test_wait_flag_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "no-artifacts",
			Usage: t.GetMessage("test_no_artifacts_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   cfg.OutputDir,
			Usage:   t.GetMessage("test_output_flag_usage", 0, nil),
		},
	}
}

func (f *TestCommandFactory) createAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		repoPath := f.repoPath
		if override := command.String("repo"); override != "" {
			info, err := os.Stat(override)
			if err != nil || !info.IsDir() {
				ui.HandleAppError(apperrors.ErrRepoPathInvalid.WithContext("path", override), t)
				return cli.Exit("", 1)
			}
			repoPath = override
		}

		// la API key se valida antes de tocar la red
		apiKey := cfg.APIKey
		if override := command.String("api-key"); override != "" {
			apiKey = override
		}
		if apiKey == "" {
			ui.HandleAppError(apperrors.ErrAPIKeyMissing, t)
			return cli.Exit("", 1)
		}

		baseURL := cfg.BaseURL
		if override := command.String("base-url"); override != "" {
			baseURL = override
		}

		collector, builder, client, writer := f.infra(repoPath, baseURL, apiKey)

		serverWait := time.Duration(command.Int("wait")) * time.Second
		environment, err := f.resolveEnvironment(ctx, command.String("url"), serverWait, cfg, t)
		if err != nil {
			ui.StopActiveSpinner()
			ui.HandleAppError(err, t)
			return cli.Exit("", 1)
		}

		submissionType, extra := f.resolvePRContext(ctx, collector, command.Bool("pr"), cfg)

		opts := services.Options{
			RepoPath:         repoPath,
			CommitHash:       command.String("commit"),
			BaseRef:          command.String("base"),
			HeadRef:          command.String("head"),
			SubmissionType:   submissionType,
			DescriptionExtra: extra,
			Environment:      environment,
			SaveArtifacts:    cfg.SaveArtifacts && !command.Bool("no-artifacts"),
			OutputDir:        command.String("output"),
			PollInterval:     time.Duration(cfg.PollIntervalSeconds) * time.Second,
			Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
		}

		spin := ui.NewSmartSpinner(t.GetMessage("analyzing_changes", 0, nil))
		spin.Start()
		opts.OnProgress = func(suite *models.TestSuite) {
			spin.UpdateMessage(fmt.Sprintf("%s (%s)", t.GetMessage("waiting_suite", 0, nil), suite.RunStatus))
		}

		service := services.NewSuiteService(collector, builder, client, writer, opts)
		start := time.Now()
		result := service.RunCommitTests(ctx)
		spin.Stop()

		return f.report(result, time.Since(start), t)
	}
}

// resolveEnvironment arma el entorno del runner remoto a partir de --url.
// Las URLs localhost esperan al servidor local y se exponen por túnel.
func (f *TestCommandFactory) resolveEnvironment(ctx context.Context, rawURL string, serverWait time.Duration, cfg *config.Config, t *i18n.Translations) (*models.TunnelEnvironment, error) {
	if rawURL == "" {
		return nil, nil
	}

	if regex.LocalhostURL.MatchString(rawURL) {
		if port, err := extractLocalhostPort(rawURL); err == nil {
			ui.PrintInfo(t.GetMessage("waiting_local_server", 0, map[string]interface{}{"Port": port}))
			if !f.prober.WaitForServer(ctx, port, serverWait) {
				ui.PrintWarning(t.GetMessage("local_server_timeout", 0, nil))
			} else {
				ui.PrintSuccess(os.Stdout, t.GetMessage("local_server_ready", 0, nil))
			}
		}
	}

	processed, err := f.tunnels.ProcessURL(ctx, rawURL, cfg.TunnelConfig.AuthToken, "")
	if err != nil {
		return nil, err
	}

	environment := &models.TunnelEnvironment{
		URL:  processed.URL,
		Type: "public",
	}
	if processed.IsLocalhost {
		environment.Type = "tunnel"
		environment.Metadata = map[string]string{"tunnelId": processed.TunnelID}
		ui.PrintInfo(t.GetMessage("tunnel_created", 0, map[string]interface{}{"URL": processed.URL}))
	}
	return environment, nil
}

// resolvePRContext marca la submission como pull_request y anexa título y
// cuerpo del PR abierto de la rama actual. Sin token o sin PR abierto, la
// corrida sigue como una submission normal.
func (f *TestCommandFactory) resolvePRContext(ctx context.Context, collector ports.ChangeCollector, prMode bool, cfg *config.Config) (string, string) {
	if !prMode {
		return "", ""
	}

	provider, err := github.NewPRContextProvider(collector.RepoName(ctx), cfg.GitHubToken)
	if err != nil {
		ui.PrintWarning(err.Error())
		return "pull_request", ""
	}

	pr, err := provider.ForBranch(ctx, collector.CurrentBranch(ctx))
	if err != nil || pr == nil {
		return "pull_request", ""
	}

	extra := fmt.Sprintf("PR #%d: %s", pr.Number, pr.Title)
	if pr.Body != "" {
		extra += "\n" + pr.Body
	}
	return "pull_request", extra
}

func (f *TestCommandFactory) report(result *models.RunResult, elapsed time.Duration, t *i18n.Translations) error {
	if !result.Success {
		return cli.Exit(ui.Error.Sprint(result.Error), 1)
	}

	if result.SuiteUUID == "" {
		ui.PrintInfo(t.GetMessage("no_changes_detected", 0, nil))
		return nil
	}

	ui.PrintDuration(t.GetMessage("suite_completed", 0, nil), elapsed)
	ui.PrintKeyValue("Suite", result.SuiteUUID)

	if len(result.TestFiles) > 0 {
		fmt.Println(t.GetMessage("artifacts_saved", len(result.TestFiles), map[string]interface{}{
			"Count": len(result.TestFiles),
			"Dir":   filepath.Dir(filepath.Dir(result.TestFiles[0])),
		}))
	}

	if result.TestsFailed > 0 {
		msg := t.GetMessage("suite_failed_tests", result.TestsFailed, map[string]interface{}{
			"Count": result.TestsFailed,
		})
		return cli.Exit(ui.Error.Sprint(msg), 1)
	}
	return nil
}

func extractLocalhostPort(rawURL string) (int, error) {
	matches := regex.LocalhostPort.FindStringSubmatch(rawURL)
	if len(matches) < 2 {
		return 0, fmt.Errorf("no port in %q", rawURL)
	}
	return strconv.Atoi(matches[1])
}
