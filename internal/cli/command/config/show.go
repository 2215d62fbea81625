package config

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/Tomas-vilte/MateTest/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			ui.PrintSectionBanner(t.GetMessage("current_config", 0, nil))
			ui.PrintKeyValue("Language", cfg.Language)
			ui.PrintKeyValue("Base URL", cfg.BaseURL)
			ui.PrintKeyValue("API key", maskSecret(cfg.APIKey))
			ui.PrintKeyValue("Output dir", cfg.OutputDir)
			ui.PrintKeyValue("Save artifacts", fmt.Sprintf("%t", cfg.SaveArtifacts))
			ui.PrintKeyValue("Poll interval", fmt.Sprintf("%ds", cfg.PollIntervalSeconds))
			ui.PrintKeyValue("Timeout", fmt.Sprintf("%ds", cfg.TimeoutSeconds))
			ui.PrintKeyValue("Tunnel token", maskSecret(cfg.TunnelConfig.AuthToken))
			if cfg.TunnelConfig.Domain != "" {
				ui.PrintKeyValue("Tunnel domain", cfg.TunnelConfig.Domain)
			}
			return nil
		},
	}
}

func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
