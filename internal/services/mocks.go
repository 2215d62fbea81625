package services

import (
	"context"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

type (
	MockChangeCollector struct {
		mock.Mock
	}

	MockContextBuilder struct {
		mock.Mock
	}

	MockSuiteClient struct {
		mock.Mock
	}

	MockArtifactWriter struct {
		mock.Mock
	}
)

func (m *MockChangeCollector) IsRepository(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockChangeCollector) CollectWorkingChanges(ctx context.Context) models.ChangeSet {
	args := m.Called(ctx)
	return args.Get(0).(models.ChangeSet)
}

func (m *MockChangeCollector) CollectCommit(ctx context.Context, commitHash string) models.ChangeSet {
	args := m.Called(ctx, commitHash)
	return args.Get(0).(models.ChangeSet)
}

func (m *MockChangeCollector) CollectRange(ctx context.Context, baseRef, headRef string) models.ChangeSet {
	args := m.Called(ctx, baseRef, headRef)
	return args.Get(0).(models.ChangeSet)
}

func (m *MockChangeCollector) RepoName(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockChangeCollector) CurrentBranch(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockContextBuilder) Build(ctx context.Context, changeSet models.ChangeSet, scope ports.ChangeScope) models.ChangeContext {
	args := m.Called(ctx, changeSet, scope)
	return args.Get(0).(models.ChangeContext)
}

func (m *MockSuiteClient) Authenticate(ctx context.Context) (*models.AuthResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResult), args.Error(1)
}

func (m *MockSuiteClient) CreateSuite(ctx context.Context, submission models.SuiteSubmission) (*models.CreateSuiteResult, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateSuiteResult), args.Error(1)
}

func (m *MockSuiteClient) GetSuite(ctx context.Context, uuid string) (*models.TestSuite, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestSuite), args.Error(1)
}

func (m *MockSuiteClient) ListSuites(ctx context.Context, repoName string) ([]models.SuiteSummary, error) {
	args := m.Called(ctx, repoName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SuiteSummary), args.Error(1)
}

func (m *MockSuiteClient) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockArtifactWriter) SaveSuiteArtifacts(ctx context.Context, suite *models.TestSuite, outputDir string) []string {
	args := m.Called(ctx, suite, outputDir)
	return args.Get(0).([]string)
}
