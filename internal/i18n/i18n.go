package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations carga el bundle de mensajes. localesDir puede estar vacío,
// en ese caso solo se usan los mensajes embebidos por defecto.
func NewTranslations(defaultLang, localesDir string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	if localesDir == "" {
		localesDir = "locales"
	}

	files, err := filepath.Glob(filepath.Join(localesDir, "active.*.toml"))
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[app_usage]
	other = "Generate and run UI tests for your local changes"

	[app_description]
	other = "MateTest analyzes your git changes, sends them to the suite API and waits for the generated tests to run"

	[test_command_usage]
	other = "Analyze changes and run a test suite for them"

	[test_command_description]
	other = "Detects working or commit changes, submits them to the suite API and polls until the suite completes"

	[status_command_usage]
	other = "Show the status of a test suite"

	[list_command_usage]
	other = "List recent test suites for this repository"

	[config_command_usage]
	other = "Manage MateTest configuration"

	[analyzing_changes]
	other = "Analyzing changes..."

	[no_changes_detected]
	other = "No relevant changes detected, nothing to test"

	[submitting_suite]
	other = "Submitting changes to the suite API..."

	[waiting_suite]
	other = "Waiting for the test suite to complete..."

	[suite_completed]
	other = "Test suite completed"

	[suite_failed_tests]
	one = "{{.Count}} generated test failed"
	other = "{{.Count}} generated tests failed"

	[artifacts_saved]
	one = "{{.Count}} artifact saved under {{.Dir}}"
	other = "{{.Count}} artifacts saved under {{.Dir}}"

	[changed_files_count]
	one = "{{.Count}} file changed"
	other = "{{.Count}} files changed"

	[config_saved]
	other = "Configuration saved"

	[current_config]
	other = "Current configuration"

	[waiting_local_server]
	other = "Waiting for the local server on port {{.Port}}..."

	[local_server_ready]
	other = "Local server is ready"

	[local_server_timeout]
	other = "Local server did not respond in time"

	[tunnel_created]
	other = "Tunnel created: {{.URL}}"

	[update.available]
	other = "Update available: {{.Current}} -> {{.Latest}}"

	[update.command]
	other = "Run: {{.Command}}"

	[factory_already_registered]
	other = "factory '{{.FactoryName}}' is already registered"

	[ui_error.try_suggestion]
	other = "💡 Try: "

	[test_commit_flag_usage]
	other = "Test the changes of a specific commit instead of the working tree"

	[test_base_flag_usage]
	other = "Base ref when testing a commit range"

	[test_head_flag_usage]
	other = "Head ref when testing a commit range"

	[test_pr_flag_usage]
	other = "Enrich the suite description with the open PR for the current branch"

	[test_url_flag_usage]
	other = "URL where the app under test runs; localhost URLs get tunneled"

	[test_no_artifacts_flag_usage]
	other = "Do not download generated test artifacts"

	[test_output_flag_usage]
	other = "Directory (relative to the repo) where artifacts are saved"

	[test_wait_flag_usage]
	other = "Seconds to wait for the local server before tunneling"

	[test_repo_flag_usage]
	other = "Path to the repository to test (defaults to the current directory)"

	[test_api_key_flag_usage]
	other = "API key for this run, overriding the configured one"

	[test_base_url_flag_usage]
	other = "Base URL of the suite API, overriding the configured one"

	[status_command_description]
	other = "Fetches a test suite by uuid and prints its current state"

	[status_suite_not_found]
	other = "Test suite {{.UUID}} was not found"

	[list_command_description]
	other = "Lists the most recent test suites submitted for this repository"

	[list_no_suites]
	other = "No test suites found for this repository"

	[config_show_usage]
	other = "Show the current configuration"

	[config_set_api_key_usage]
	other = "Set the API key used to authenticate against the suite API"

	[config_set_lang_usage]
	other = "Set the CLI language (en, es)"

	[config_set_tunnel_token_usage]
	other = "Set the tunnel provider auth token"

	[config_set_output_usage]
	other = "Set the default artifacts output directory"

	[config_api_key_empty]
	other = "the API key cannot be empty"

	[config_invalid_lang]
	other = "unsupported language '{{.Lang}}', valid values: en, es"
	`
