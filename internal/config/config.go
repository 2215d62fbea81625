package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type (
	Config struct {
		APIKey   string `json:"api_key"`
		BaseURL  string `json:"base_url"`
		Language string `json:"language"`
		PathFile string `json:"path_file"`

		OutputDir     string `json:"output_dir"`
		SaveArtifacts bool   `json:"save_artifacts"`

		PollIntervalSeconds int `json:"poll_interval_seconds,omitempty"`
		TimeoutSeconds      int `json:"timeout_seconds,omitempty"`

		TunnelConfig TunnelConfig `json:"tunnel_config"`
		GitHubToken  string       `json:"github_token,omitempty"`
	}

	TunnelConfig struct {
		AuthToken string `json:"auth_token,omitempty"`
		Domain    string `json:"domain,omitempty"`
	}
)

const (
	defaultLang         = "en"
	defaultBaseURL      = "https://api.matetest.dev"
	defaultOutputDir    = "matetest-artifacts"
	defaultPollInterval = 5
	defaultTimeout      = 600
)

func LoadConfig(path string) (*Config, error) {
	var configPath string

	if filepath.Ext(path) == ".json" {
		configPath = path
	} else {
		configDir := filepath.Join(path, ".matetest")
		configPath = filepath.Join(configDir, "config.json")

		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return nil, fmt.Errorf("error al crear el directorio de configuración: %w", err)
			}
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error al leer el archivo de configuración: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error al decodificar el archivo JSON: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("la configuración cargada no es válida: %w", err)
	}

	return &config, nil
}

func createDefaultConfig(path string) (*Config, error) {
	config := &Config{
		Language:            defaultLang,
		BaseURL:             defaultBaseURL,
		OutputDir:           defaultOutputDir,
		SaveArtifacts:       true,
		PollIntervalSeconds: defaultPollInterval,
		TimeoutSeconds:      defaultTimeout,
		PathFile:            path,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error al crear el directorio de configuración: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error al codificar la configuración por defecto: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("error al guardar la configuración por defecto: %w", err)
	}

	return config, nil
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("la configuración a guardar no es válida: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("la ruta del archivo de configuración no está definida")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error al codificar la configuración: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0644); err != nil {
		return fmt.Errorf("error al guardar la configuración: %w", err)
	}

	return nil
}

func applyDefaults(config *Config) {
	if config.Language == "" {
		config.Language = defaultLang
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.OutputDir == "" {
		config.OutputDir = defaultOutputDir
	}
	if config.PollIntervalSeconds <= 0 {
		config.PollIntervalSeconds = defaultPollInterval
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = defaultTimeout
	}
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		return errors.New("Language no puede estar vacío")
	}
	if config.BaseURL == "" {
		return errors.New("BaseURL no puede estar vacío")
	}
	if config.PollIntervalSeconds <= 0 {
		return errors.New("PollIntervalSeconds debe ser mayor que 0")
	}
	if config.TimeoutSeconds <= 0 {
		return errors.New("TimeoutSeconds debe ser mayor que 0")
	}
	return nil
}
