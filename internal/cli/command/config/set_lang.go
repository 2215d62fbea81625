package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetLangCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-lang",
		Usage:     t.GetMessage("config_set_lang_usage", 0, nil),
		ArgsUsage: "<lang>",
		Action: func(ctx context.Context, command *cli.Command) error {
			lang := strings.ToLower(strings.TrimSpace(command.Args().First()))
			if lang != "en" && lang != "es" {
				msg := t.GetMessage("config_invalid_lang", 0, map[string]interface{}{"Lang": lang})
				return fmt.Errorf("%s", msg)
			}

			cfg.Language = lang
			return saveAndConfirm(cfg, t)
		},
	}
}
