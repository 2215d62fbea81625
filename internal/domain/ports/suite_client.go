package ports

import (
	"context"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
)

// SuiteClient habla con la API remota de generación de tests
type SuiteClient interface {
	Authenticate(ctx context.Context) (*models.AuthResult, error)
	CreateSuite(ctx context.Context, submission models.SuiteSubmission) (*models.CreateSuiteResult, error)
	// GetSuite retorna (nil, nil) cuando la suite no existe; un error de red
	// se reintenta internamente y solo llega acá agotados los reintentos.
	GetSuite(ctx context.Context, uuid string) (*models.TestSuite, error)
	ListSuites(ctx context.Context, repoName string) ([]models.SuiteSummary, error)
	Download(ctx context.Context, url string) ([]byte, error)
}
