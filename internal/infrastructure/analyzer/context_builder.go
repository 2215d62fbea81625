package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	gitinfra "github.com/Tomas-vilte/MateTest/internal/infrastructure/git"
	"github.com/Tomas-vilte/MateTest/internal/logger"
	appregex "github.com/Tomas-vilte/MateTest/internal/regex"
)

var _ ports.ContextBuilder = (*ContextBuilder)(nil)

// maxAnalyzedFileBytes limita el tamaño de archivo que entra al análisis
// profundo. Los archivos más grandes quedan igual en la lista de cambios.
const maxAnalyzedFileBytes = 100 * 1024

// ContextBuilder arma la descripción en lenguaje natural y los agregados
// estructurados de un ChangeSet. El escaneo de imports/exports/rutas es
// heurístico por regex, best-effort: no hay parser real.
type ContextBuilder struct {
	repoPath string
}

func NewContextBuilder(repoPath string) *ContextBuilder {
	return &ContextBuilder{repoPath: repoPath}
}

// Build es determinístico: mismo ChangeSet y mismos contenidos producen la
// misma descripción y los mismos agregados.
func (b *ContextBuilder) Build(ctx context.Context, changeSet models.ChangeSet, scope ports.ChangeScope) models.ChangeContext {
	paths := make([]string, 0, len(changeSet.Changes))
	for _, change := range changeSet.Changes {
		paths = append(paths, change.FilePath)
	}

	fileTypes := gitinfra.AnalyzeFileTypes(paths)

	files := make([]models.FileContext, 0, len(changeSet.Changes))
	for _, change := range changeSet.Changes {
		if change.Status == models.StatusDeleted {
			continue
		}
		files = append(files, b.analyzeFile(ctx, change.FilePath))
	}

	focusAreas := deriveFocusAreas(files)

	return models.ChangeContext{
		Description: buildDescription(scope, changeSet.BranchInfo.Branch, len(changeSet.Changes), fileTypes, focusAreas),
		TotalFiles:  len(changeSet.Changes),
		FileTypes:   fileTypes,
		FocusAreas:  focusAreas,
		Files:       files,
	}
}

// analyzeFile escanea un archivo con heurísticas de texto. Si el archivo no
// se puede leer o supera el límite de tamaño, queda solo con ruta y lenguaje.
func (b *ContextBuilder) analyzeFile(ctx context.Context, path string) models.FileContext {
	fileContext := models.FileContext{
		FilePath: path,
		Language: gitinfra.ClassifyFileType(path),
		Purpose:  detectPurpose(path),
	}

	fullPath := filepath.Join(b.repoPath, path)
	info, err := os.Stat(fullPath)
	if err != nil || info.Size() > maxAnalyzedFileBytes {
		if err == nil {
			logger.Debug(ctx, "archivo excluido del análisis profundo por tamaño", "path", path, "bytes", info.Size())
		}
		return fileContext
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return fileContext
	}

	text := string(content)
	fileContext.Imports = collectMatches(text, appregex.ImportStatement, appregex.RequireCall)
	fileContext.Exports = collectMatches(text, appregex.ExportStatement)
	fileContext.Routes = collectMatches(text, appregex.RoutePath)

	return fileContext
}

func collectMatches(text string, patterns ...*regexp.Regexp) []string {
	var results []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if len(match) > 1 && !seen[match[1]] {
				seen[match[1]] = true
				results = append(results, match[1])
			}
		}
	}
	return results
}

// detectPurpose clasifica el rol de un archivo por su ruta
func detectPurpose(path string) string {
	lower := strings.ToLower(filepath.ToSlash(path))

	switch {
	case appregex.RoutingKeywords.MatchString(lower):
		return "routing"
	case appregex.AuthKeywords.MatchString(lower):
		return "auth"
	case appregex.APIKeywords.MatchString(lower):
		return "service"
	case strings.Contains(lower, "component") || strings.HasSuffix(lower, ".tsx") || strings.HasSuffix(lower, ".jsx"):
		return "component"
	case strings.Contains(lower, "util") || strings.Contains(lower, "helper"):
		return "utility"
	case strings.Contains(lower, "config"):
		return "config"
	default:
		return "other"
	}
}

// focusAreasByPurpose mapea propósitos detectados a sugerencias de foco
var focusAreasByPurpose = map[string]string{
	"auth":    "Authentication and authorization",
	"routing": "Navigation and routing",
	"service": "API integration and data fetching",
	"config":  "Application configuration behavior",
}

func deriveFocusAreas(files []models.FileContext) []string {
	seen := make(map[string]bool)
	var areas []string

	for _, file := range files {
		if area, ok := focusAreasByPurpose[file.Purpose]; ok && !seen[area] {
			seen[area] = true
			areas = append(areas, area)
		}
		if appregex.FormKeywords.MatchString(file.FilePath) && !seen["Form input and validation"] {
			seen["Form input and validation"] = true
			areas = append(areas, "Form input and validation")
		}
	}

	sort.Strings(areas)
	return areas
}

// buildDescription arma la descripción legible de la submission
func buildDescription(scope ports.ChangeScope, branch string, totalFiles int, fileTypes map[string]int, focusAreas []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Testing %s on branch %q: %d changed file", scope, branch, totalFiles))
	if totalFiles != 1 {
		sb.WriteString("s")
	}

	if dominant := dominantFileType(fileTypes); dominant != "" {
		sb.WriteString(fmt.Sprintf(", mostly %s", dominant))
	}
	sb.WriteString(".")

	if len(focusAreas) > 0 {
		sb.WriteString(" Suggested focus areas: ")
		sb.WriteString(strings.Join(focusAreas, ", "))
		sb.WriteString(".")
	}

	return sb.String()
}

// dominantFileType elige el tipo con más archivos; empata alfabéticamente
// para que el resultado sea estable.
func dominantFileType(fileTypes map[string]int) string {
	best := ""
	bestCount := 0

	names := make([]string, 0, len(fileTypes))
	for name := range fileTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if fileTypes[name] > bestCount {
			best = name
			bestCount = fileTypes[name]
		}
	}
	return best
}
