package git

import (
	"path/filepath"
	"strings"
)

// ignoredDirs son directorios cuyos archivos nunca se incluyen en un ChangeSet
var ignoredDirs = []string{
	"node_modules",
	"dist",
	"build",
	"out",
	"coverage",
	"vendor",
	".git",
	".next",
	".cache",
	".idea",
	".vscode",
}

// nonUIFilenames son archivos que no afectan el comportamiento testeable de la
// aplicación: lockfiles, configs de linters/formatters, CI, documentación.
var nonUIFilenames = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"composer.lock",
	"gemfile.lock",
	"cargo.lock",
	"go.sum",
	".gitignore",
	".gitattributes",
	".npmrc",
	".nvmrc",
	".editorconfig",
	".prettierrc",
	".prettierignore",
	".eslintrc",
	".eslintignore",
	".stylelintrc",
	".babelrc",
	"babel.config.js",
	"jest.config.js",
	"jest.setup.js",
	"karma.conf.js",
	"renovate.json",
	"dependabot.yml",
	"makefile",
	"dockerfile",
	".dockerignore",
	"license",
	"changelog.md",
	"contributing.md",
	"code_of_conduct.md",
}

var nonUIPrefixes = []string{
	"readme",
	"license",
	".eslintrc.",
	".prettierrc.",
	".stylelintrc.",
}

// ShouldIgnoreFile decide si un archivo queda fuera del ChangeSet: rutas bajo
// directorios ignorados o archivos sin relevancia de UI.
func ShouldIgnoreFile(path string) bool {
	normalized := filepath.ToSlash(path)

	for _, dir := range ignoredDirs {
		if normalized == dir || strings.HasPrefix(normalized, dir+"/") || strings.Contains(normalized, "/"+dir+"/") {
			return true
		}
	}

	return !IsUIRelevantFile(normalized)
}

// IsUIRelevantFile retorna false para artefactos no funcionales (lockfiles,
// configs de tooling, pipelines de CI, documentación plana). La documentación
// de componentes adyacente al código (*.stories.md) sí es relevante.
func IsUIRelevantFile(path string) bool {
	normalized := filepath.ToSlash(path)
	base := strings.ToLower(filepath.Base(normalized))

	// pipelines de CI
	if strings.HasPrefix(normalized, ".github/") ||
		strings.HasPrefix(normalized, ".gitlab/") ||
		strings.HasPrefix(normalized, ".circleci/") ||
		base == ".gitlab-ci.yml" || base == ".travis.yml" || base == "azure-pipelines.yml" ||
		base == "jenkinsfile" {
		return false
	}

	// excepción: documentación de componentes junto al código
	if strings.HasSuffix(base, ".stories.md") || strings.HasSuffix(base, ".stories.mdx") {
		return true
	}

	for _, name := range nonUIFilenames {
		if base == name {
			return false
		}
	}

	for _, prefix := range nonUIPrefixes {
		if strings.HasPrefix(base, prefix) {
			return false
		}
	}

	// documentación plana en la raíz de docs
	if strings.HasSuffix(base, ".md") {
		dir := filepath.ToSlash(filepath.Dir(normalized))
		if dir == "docs" || strings.HasPrefix(dir, "docs/") {
			return false
		}
	}

	return true
}

// fileTypesByExtension mapea extensiones a categorías. La extensión tiene
// prioridad sobre la heurística por nombre: webpack.config.js cuenta como
// JavaScript, no como Configuration.
var fileTypesByExtension = map[string]string{
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".mjs":   "JavaScript",
	".cjs":   "JavaScript",
	".css":   "Stylesheets",
	".scss":  "Stylesheets",
	".sass":  "Stylesheets",
	".less":  "Stylesheets",
	".html":  "HTML",
	".htm":   "HTML",
	".json":  "Configuration",
	".yml":   "Configuration",
	".yaml":  "Configuration",
	".toml":  "Configuration",
	".ini":   "Configuration",
	".env":   "Configuration",
	".md":    "Documentation",
	".mdx":   "Documentation",
	".txt":   "Documentation",
	".py":    "Python",
	".java":  "Java",
}

// AnalyzeFileTypes cuenta archivos por categoría semántica
func AnalyzeFileTypes(paths []string) map[string]int {
	types := make(map[string]int)
	for _, path := range paths {
		types[ClassifyFileType(path)]++
	}
	return types
}

// ClassifyFileType mapea un archivo a su categoría
func ClassifyFileType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if category, ok := fileTypesByExtension[ext]; ok {
		return category
	}

	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, "config"), strings.HasPrefix(base, "."):
		return "Configuration"
	case strings.HasPrefix(base, "readme"), strings.HasPrefix(base, "changelog"):
		return "Documentation"
	default:
		return "Other"
	}
}
