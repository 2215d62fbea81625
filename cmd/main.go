package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	configcmd "github.com/Tomas-vilte/MateTest/internal/cli/command/config"
	"github.com/Tomas-vilte/MateTest/internal/cli/command/list"
	"github.com/Tomas-vilte/MateTest/internal/cli/command/status"
	"github.com/Tomas-vilte/MateTest/internal/cli/command/test"
	"github.com/Tomas-vilte/MateTest/internal/cli/registry"
	cfg "github.com/Tomas-vilte/MateTest/internal/config"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/analyzer"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/api"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/artifacts"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/git"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/server"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/tunnel"
	"github.com/Tomas-vilte/MateTest/internal/logger"
	"github.com/Tomas-vilte/MateTest/internal/services"
	"github.com/Tomas-vilte/MateTest/internal/version"
	"github.com/urfave/cli/v3"
)

const ngrokAgentURL = "http://127.0.0.1:4040"

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Error iniciando la cli: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func initializeApp() (*cli.Command, error) {
	logger.Initialize(os.Getenv("MATETEST_DEBUG") != "", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("no se pudo obtener el directorio del usuario: %w", err)
	}

	cfgApp, err := cfg.LoadConfig(homeDir)
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, "")
	if err != nil {
		return nil, fmt.Errorf("error al cargar las traducciones: %w", err)
	}

	repoPath, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("no se pudo obtener el directorio actual: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	collector := git.NewChangeCollector(repoPath)
	apiClient := api.NewClient(cfgApp.BaseURL, cfgApp.APIKey, httpClient)
	prober := server.NewProber()
	tunnels := tunnel.NewManager(tunnel.NewNgrokProvider(ngrokAgentURL, httpClient), cfgApp.TunnelConfig.Domain)

	// el comando test reconstruye sus dependencias cuando los flags
	// sobreescriben repo, base URL o API key
	infra := func(repoPath, baseURL, apiKey string) (ports.ChangeCollector, ports.ContextBuilder, ports.SuiteClient, ports.ArtifactWriter) {
		client := api.NewClient(baseURL, apiKey, httpClient)
		return git.NewChangeCollector(repoPath), analyzer.NewContextBuilder(repoPath), client, artifacts.NewWriter(client)
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	testFactory := test.NewTestCommandFactory(infra, prober, tunnels, repoPath)
	if err := registerCommand.Register("test", testFactory); err != nil {
		return nil, err
	}
	if err := registerCommand.Register("status", status.NewStatusCommandFactory(apiClient)); err != nil {
		return nil, err
	}
	if err := registerCommand.Register("list", list.NewListCommandFactory(apiClient, collector)); err != nil {
		return nil, err
	}
	if err := registerCommand.Register("config", configcmd.NewConfigCommandFactory()); err != nil {
		return nil, err
	}

	go func() {
		checker := services.NewVersionUpdater(version.FullVersion(), translations)
		checker.CheckForUpdates(context.Background())
	}()

	return &cli.Command{
		Name:                  "matetest",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.Version,
		Description:           translations.GetMessage("app_description", 0, nil),
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
	}, nil
}
