package config

import (
	"context"
	"strings"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetOutputCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-output",
		Usage:     t.GetMessage("config_set_output_usage", 0, nil),
		ArgsUsage: "<dir>",
		Action: func(ctx context.Context, command *cli.Command) error {
			if dir := strings.TrimSpace(command.Args().First()); dir != "" {
				cfg.OutputDir = dir
			}
			return saveAndConfirm(cfg, t)
		},
	}
}
