package status

import (
	"context"
	"fmt"
	"os"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	apperrors "github.com/Tomas-vilte/MateTest/internal/errors"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/Tomas-vilte/MateTest/internal/ui"
	"github.com/urfave/cli/v3"
)

// StatusCommandFactory arma el comando que muestra el estado de una suite
type StatusCommandFactory struct {
	client ports.SuiteClient
}

func NewStatusCommandFactory(client ports.SuiteClient) *StatusCommandFactory {
	return &StatusCommandFactory{client: client}
}

func (f *StatusCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:        "status",
		Aliases:     []string{"st"},
		Usage:       t.GetMessage("status_command_usage", 0, nil),
		Description: t.GetMessage("status_command_description", 0, nil),
		ArgsUsage:   "<suite-uuid>",
		Action:      f.createAction(cfg, t),
	}
}

func (f *StatusCommandFactory) createAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		if cfg.APIKey == "" {
			ui.HandleAppError(apperrors.ErrAPIKeyMissing, t)
			return cli.Exit("", 1)
		}

		uuid := command.Args().First()
		if uuid == "" {
			return fmt.Errorf("usage: matetest status <suite-uuid>")
		}

		suite, err := f.client.GetSuite(ctx, uuid)
		if err != nil {
			return err
		}
		if suite == nil {
			msg := t.GetMessage("status_suite_not_found", 0, map[string]interface{}{"UUID": uuid})
			return cli.Exit(ui.Error.Sprint(msg), 1)
		}

		printSuite(suite)
		return nil
	}
}

func printSuite(suite *models.TestSuite) {
	ui.PrintSectionBanner("Test suite " + suite.UUID)
	ui.PrintKeyValue("Status", string(suite.RunStatus))
	ui.PrintKeyValue("Tests", fmt.Sprintf("%d", len(suite.Tests)))
	fmt.Fprintln(os.Stdout)

	for _, test := range suite.Tests {
		outcome := string(models.OutcomePending)
		if test.CurRun != nil {
			outcome = string(test.CurRun.Outcome)
		}
		ui.PrintTestOutcome(test.Name, outcome)
	}
}
