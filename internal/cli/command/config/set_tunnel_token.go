package config

import (
	"context"
	"strings"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetTunnelTokenCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-tunnel-token",
		Usage:     t.GetMessage("config_set_tunnel_token_usage", 0, nil),
		ArgsUsage: "<token>",
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg.TunnelConfig.AuthToken = strings.TrimSpace(command.Args().First())
			return saveAndConfirm(cfg, t)
		},
	}
}
