package ports

import (
	"context"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
)

// ChangeCollector produce ChangeSets a partir de un repositorio git local.
// Ningún método de colección retorna error: cualquier falla degrada a un
// ChangeSet vacío o parcial.
type ChangeCollector interface {
	IsRepository(ctx context.Context) bool
	CollectWorkingChanges(ctx context.Context) models.ChangeSet
	CollectCommit(ctx context.Context, commitHash string) models.ChangeSet
	CollectRange(ctx context.Context, baseRef, headRef string) models.ChangeSet
	RepoName(ctx context.Context) string
	CurrentBranch(ctx context.Context) string
}
