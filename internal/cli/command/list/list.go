package list

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	apperrors "github.com/Tomas-vilte/MateTest/internal/errors"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/Tomas-vilte/MateTest/internal/ui"
	"github.com/urfave/cli/v3"
)

// ListCommandFactory arma el comando que lista las suites del repo
type ListCommandFactory struct {
	client    ports.SuiteClient
	collector ports.ChangeCollector
}

func NewListCommandFactory(client ports.SuiteClient, collector ports.ChangeCollector) *ListCommandFactory {
	return &ListCommandFactory{client: client, collector: collector}
}

func (f *ListCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:        "list",
		Aliases:     []string{"ls"},
		Usage:       t.GetMessage("list_command_usage", 0, nil),
		Description: t.GetMessage("list_command_description", 0, nil),
		Action:      f.createAction(cfg, t),
	}
}

func (f *ListCommandFactory) createAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		if cfg.APIKey == "" {
			ui.HandleAppError(apperrors.ErrAPIKeyMissing, t)
			return cli.Exit("", 1)
		}

		repoName := f.collector.RepoName(ctx)

		suites, err := f.client.ListSuites(ctx, repoName)
		if err != nil {
			return err
		}

		if len(suites) == 0 {
			ui.PrintInfo(t.GetMessage("list_no_suites", 0, nil))
			return nil
		}

		ui.PrintSectionBanner(repoName)
		for _, suite := range suites {
			status := string(suite.RunStatus)
			line := fmt.Sprintf("%-36s  %-10s  %s", suite.UUID, status, suite.Branch)
			if suite.CreatedAt != "" {
				line += ui.Dim.Sprintf("  (%s)", suite.CreatedAt)
			}
			fmt.Println(line)
		}
		return nil
	}
}
