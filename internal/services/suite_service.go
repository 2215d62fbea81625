package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/Tomas-vilte/MateTest/internal/logger"
)

// Options configura una corrida del orquestador. Se pasa explícitamente por
// el constructor: no hay flags globales de proceso.
type Options struct {
	RepoPath string
	// RepoName fuerza el nombre del repo; vacío lo resuelve el collector
	RepoName string

	// CommitHash activa el modo commit (tiene prioridad sobre working tree)
	CommitHash string
	// BaseRef/HeadRef activan el modo rango
	BaseRef string
	HeadRef string

	// SubmissionType "pull_request" omite los working changes del payload
	SubmissionType string
	// DescriptionExtra se anexa a la descripción generada (ej: título del PR)
	DescriptionExtra string

	Environment *models.TunnelEnvironment

	SaveArtifacts bool
	OutputDir     string

	PollInterval time.Duration
	Timeout      time.Duration

	// OnProgress recibe cada snapshot de la suite durante el polling,
	// incluidos los intermedios. Puede ser nil.
	OnProgress func(suite *models.TestSuite)
}

// SuiteService orquesta el ciclo completo: validar repo, autenticar, detectar
// cambios, crear la suite, pollear hasta terminar y bajar los artefactos.
type SuiteService struct {
	collector ports.ChangeCollector
	builder   ports.ContextBuilder
	client    ports.SuiteClient
	artifacts ports.ArtifactWriter
	opts      Options
}

func NewSuiteService(collector ports.ChangeCollector, builder ports.ContextBuilder, client ports.SuiteClient, artifacts ports.ArtifactWriter, opts Options) *SuiteService {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 600 * time.Second
	}
	return &SuiteService{
		collector: collector,
		builder:   builder,
		client:    client,
		artifacts: artifacts,
		opts:      opts,
	}
}

// RunCommitTests ejecuta la corrida completa. Nunca retorna error ni
// panickea: toda falla termina en un RunResult con Success=false. Success
// indica que el pipeline terminó; TestsFailed es una señal independiente y
// no se mezclan.
func (s *SuiteService) RunCommitTests(ctx context.Context) (result *models.RunResult) {
	result = &models.RunResult{TestFiles: []string{}}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Sprintf("%v", r)
		}
	}()

	// Validating
	if !s.collector.IsRepository(ctx) {
		result.Error = "Not a valid git repository"
		return result
	}

	// Authenticating
	auth, err := s.client.Authenticate(ctx)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if auth == nil || !auth.Success {
		reason := "unknown"
		if auth != nil && auth.Error != "" {
			reason = auth.Error
		}
		result.Error = "Authentication failed: " + reason
		return result
	}

	// DetectingChanges
	changeSet, scope := s.detectChanges(ctx)
	if len(changeSet.Changes) == 0 {
		// sin cambios relevantes no se crea suite: éxito terminal sin costo
		logger.Info(ctx, "no hay cambios relevantes, no se crea la suite")
		result.Success = true
		return result
	}

	// Submitting
	created, err := s.submit(ctx, changeSet, scope)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if created == nil || !created.Success || created.TestSuiteUUID == "" {
		serverError := "undefined"
		if created != nil && created.Error != "" {
			serverError = created.Error
		}
		result.Error = "Failed to create test suite: " + serverError
		return result
	}
	result.SuiteUUID = created.TestSuiteUUID

	// Polling
	suite, ok := s.pollUntilComplete(ctx, created.TestSuiteUUID)
	if !ok {
		result.Error = "Test suite timed out or failed to complete"
		return result
	}

	// CollectingArtifacts
	if s.opts.SaveArtifacts && s.artifacts != nil {
		outputDir := filepath.Join(s.opts.RepoPath, s.opts.OutputDir)
		result.TestFiles = s.artifacts.SaveSuiteArtifacts(ctx, suite, outputDir)
	}

	// Reporting
	result.Success = true
	result.TestsFailed = suite.FailedTests()
	return result
}

// detectChanges elige el modo de colección: commit si hay un identificador de
// CI, rango si hay refs, working tree en el resto de los casos.
func (s *SuiteService) detectChanges(ctx context.Context) (models.ChangeSet, ports.ChangeScope) {
	switch {
	case s.opts.CommitHash != "":
		return s.collector.CollectCommit(ctx, s.opts.CommitHash), ports.ScopeCommit
	case s.opts.BaseRef != "" && s.opts.HeadRef != "":
		return s.collector.CollectRange(ctx, s.opts.BaseRef, s.opts.HeadRef), ports.ScopeRange
	default:
		return s.collector.CollectWorkingChanges(ctx), ports.ScopeWorking
	}
}

func (s *SuiteService) submit(ctx context.Context, changeSet models.ChangeSet, scope ports.ChangeScope) (*models.CreateSuiteResult, error) {
	changeContext := s.builder.Build(ctx, changeSet, scope)

	description := changeContext.Description
	if s.opts.DescriptionExtra != "" {
		description += "\n\n" + s.opts.DescriptionExtra
	}

	repoName := s.opts.RepoName
	if repoName == "" {
		repoName = s.collector.RepoName(ctx)
	}

	submission := models.SuiteSubmission{
		RepoName:    repoName,
		RepoPath:    s.opts.RepoPath,
		Branch:      changeSet.BranchInfo.Branch,
		CommitHash:  changeSet.BranchInfo.CommitHash,
		Type:        s.opts.SubmissionType,
		Description: description,
		Environment: s.opts.Environment,
	}

	// exactamente una de dos: working changes presentes o type pull_request;
	// las submissions de PR dejan que el servidor resuelva los cambios
	if s.opts.SubmissionType != "pull_request" {
		submission.WorkingChanges = changeSet.Changes
	}

	return s.client.CreateSuite(ctx, submission)
}

// pollUntilComplete consulta el estado a intervalo fijo hasta que la suite
// complete o se agote el presupuesto wall-clock. Las fallas de poll
// individuales no abortan el loop; solo una suite inexistente corta antes.
func (s *SuiteService) pollUntilComplete(ctx context.Context, uuid string) (*models.TestSuite, bool) {
	deadline := time.Now().Add(s.opts.Timeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}

		callTimeout := s.opts.PollInterval * 2
		if callTimeout > remaining {
			callTimeout = remaining
		}
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		suite, err := s.client.GetSuite(callCtx, uuid)
		cancel()

		switch {
		case err != nil:
			logger.Warn(ctx, "falló el poll de la suite, se reintenta", "uuid", uuid, "error", err)
		case suite == nil:
			// el servidor ya no conoce la suite: no tiene sentido seguir
			return nil, false
		default:
			if s.opts.OnProgress != nil {
				s.opts.OnProgress(suite)
			}
			if suite.RunStatus == models.RunStatusCompleted {
				return suite, true
			}
		}

		select {
		case <-time.After(s.opts.PollInterval):
		case <-ctx.Done():
			return nil, false
		}
	}
}
