package config

import (
	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/Tomas-vilte/MateTest/internal/ui"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct{}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   t.GetMessage("config_command_usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t, cfg),
			c.newSetAPIKeyCommand(t, cfg),
			c.newSetLangCommand(t, cfg),
			c.newSetTunnelTokenCommand(t, cfg),
			c.newSetOutputCommand(t, cfg),
		},
	}
}

func saveAndConfirm(cfg *config.Config, t *i18n.Translations) error {
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	ui.PrintInfo(t.GetMessage("config_saved", 0, nil))
	return nil
}
