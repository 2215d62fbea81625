package ports

import (
	"context"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
)

// ArtifactWriter descarga y persiste los artefactos de una suite completada.
// Retorna las rutas escritas con éxito; las fallas individuales se loguean
// y se saltean.
type ArtifactWriter interface {
	SaveSuiteArtifacts(ctx context.Context, suite *models.TestSuite, outputDir string) []string
}
