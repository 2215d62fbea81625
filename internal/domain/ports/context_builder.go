package ports

import (
	"context"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
)

// ChangeScope indica de dónde salieron los cambios analizados
type ChangeScope string

const (
	ScopeWorking ChangeScope = "working changes"
	ScopeCommit  ChangeScope = "commit"
	ScopeRange   ChangeScope = "range"
)

// ContextBuilder arma la descripción y los agregados para la submission
type ContextBuilder interface {
	Build(ctx context.Context, changeSet models.ChangeSet, scope ChangeScope) models.ChangeContext
}
