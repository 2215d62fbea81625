package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tomas-vilte/MateTest/internal/i18n"
	"github.com/fatih/color"
	"github.com/google/go-github/v80/github"
	"golang.org/x/mod/semver"
)

// VersionUpdater avisa cuando hay una versión nueva publicada en GitHub.
// El resultado se cachea 24 horas para no golpear la API en cada corrida.
type VersionUpdater struct {
	currentVersion string
	trans          *i18n.Translations
}

type UpdateCache struct {
	LastCheck   time.Time `json:"last_check"`
	LatestKnown string    `json:"latest_known"`
}

func NewVersionUpdater(version string, trans *i18n.Translations) *VersionUpdater {
	return &VersionUpdater{
		currentVersion: version,
		trans:          trans,
	}
}

func (v *VersionUpdater) CheckForUpdates(ctx context.Context) {
	if os.Getenv("MATETEST_DISABLE_UPDATE_CHECK") != "" {
		return
	}

	cache, err := v.loadCache()
	if err == nil && time.Since(cache.LastCheck) < 24*time.Hour {
		if cache.LatestKnown != "" && v.isUpdateAvailable(cache.LatestKnown) {
			v.printUpdateNotification(cache.LatestKnown)
		}
		return
	}

	client := github.NewClient(nil)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	release, _, err := client.Repositories.GetLatestRelease(ctx, "Tomas-vilte", "MateTest")
	if err != nil {
		return
	}

	latestVersion := release.GetTagName()

	_ = v.saveCache(UpdateCache{
		LastCheck:   time.Now(),
		LatestKnown: latestVersion,
	})

	if v.isUpdateAvailable(latestVersion) {
		v.printUpdateNotification(latestVersion)
	}
}

func (v *VersionUpdater) isUpdateAvailable(latest string) bool {
	current := v.currentVersion
	if !strings.HasPrefix(current, "v") {
		current = "v" + current
	}
	if !strings.HasPrefix(latest, "v") {
		latest = "v" + latest
	}

	if !semver.IsValid(current) || !semver.IsValid(latest) {
		return current != latest
	}

	return semver.Compare(latest, current) > 0
}

func (v *VersionUpdater) printUpdateNotification(latest string) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()

	msgAvailable := v.trans.GetMessage("update.available", 0, map[string]interface{}{
		"Current": v.currentVersion,
		"Latest":  green(latest),
	})
	msgCommand := v.trans.GetMessage("update.command", 0, map[string]interface{}{
		"Command": green("go install github.com/Tomas-vilte/MateTest@latest"),
	})

	fmt.Printf("\n%s\n%s\n\n", yellow(msgAvailable), msgCommand)
}

func (v *VersionUpdater) getCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(homeDir, ".config", "matetest")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", err
	}
	return cacheDir, nil
}

func (v *VersionUpdater) loadCache() (UpdateCache, error) {
	cacheDir, err := v.getCacheDir()
	if err != nil {
		return UpdateCache{}, err
	}

	cachePath := filepath.Join(cacheDir, "last_update_check.json")
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return UpdateCache{}, err
	}

	var cache UpdateCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return UpdateCache{}, err
	}

	return cache, nil
}

func (v *VersionUpdater) saveCache(cache UpdateCache) error {
	cacheDir, err := v.getCacheDir()
	if err != nil {
		return err
	}

	cachePath := filepath.Join(cacheDir, "last_update_check.json")
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cachePath, data, 0644)
}
