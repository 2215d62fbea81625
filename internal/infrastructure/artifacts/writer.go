package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/Tomas-vilte/MateTest/internal/logger"
	"github.com/Tomas-vilte/MateTest/internal/regex"
)

var _ ports.ArtifactWriter = (*Writer)(nil)

// Writer baja los artefactos de una suite completada y los escribe bajo
// <outputDir>/<TestName>/. Las fallas por artefacto se loguean y se saltean:
// nunca tiran abajo la corrida.
type Writer struct {
	client ports.SuiteClient
}

func NewWriter(client ports.SuiteClient) *Writer {
	return &Writer{client: client}
}

// SaveSuiteArtifacts retorna las rutas escritas con éxito; una suite sin
// tests o sin artefactos retorna la lista vacía.
func (w *Writer) SaveSuiteArtifacts(ctx context.Context, suite *models.TestSuite, outputDir string) []string {
	saved := []string{}
	if suite == nil {
		return saved
	}

	for _, test := range suite.Tests {
		if test.CurRun == nil {
			continue
		}

		name := SanitizeTestName(test.Name, test.UUID)
		testDir := filepath.Join(outputDir, name)

		kinds := []struct {
			url string
			ext string
		}{
			{test.CurRun.RunScript, "spec.js"},
			{test.CurRun.RunGif, "gif"},
			{test.CurRun.RunJSON, "json"},
		}

		for _, kind := range kinds {
			if kind.url == "" {
				continue
			}

			path, err := w.saveArtifact(ctx, kind.url, testDir, name+"."+kind.ext)
			if err != nil {
				logger.Warn(ctx, "no se pudo descargar el artefacto", "test", name, "url", kind.url, "error", err)
				continue
			}
			saved = append(saved, path)
		}
	}

	return saved
}

func (w *Writer) saveArtifact(ctx context.Context, url, dir, filename string) (string, error) {
	data, err := w.client.Download(ctx, url)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// SanitizeTestName convierte el nombre de un test en un nombre de directorio
// seguro. Sin nombre cae a un prefijo fijo del uuid del test.
func SanitizeTestName(name, testUUID string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		fallback := testUUID
		if len(fallback) > 8 {
			fallback = fallback[:8]
		}
		return "test-" + fallback
	}

	sanitized := regex.UnsafePathChars.ReplaceAllString(trimmed, "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		return SanitizeTestName("", testUUID)
	}
	return sanitized
}
