package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetAPIKeyCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-api-key",
		Usage:     t.GetMessage("config_set_api_key_usage", 0, nil),
		ArgsUsage: "<api-key>",
		Action: func(ctx context.Context, command *cli.Command) error {
			key := strings.TrimSpace(command.Args().First())
			if key == "" {
				return fmt.Errorf("%s", t.GetMessage("config_api_key_empty", 0, nil))
			}

			cfg.APIKey = key
			return saveAndConfirm(cfg, t)
		},
	}
}
