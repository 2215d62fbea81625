package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDownloader sirve artefactos desde un mapa en memoria
type fakeDownloader struct {
	files map[string][]byte
}

func (f *fakeDownloader) Authenticate(ctx context.Context) (*models.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDownloader) CreateSuite(ctx context.Context, submission models.SuiteSubmission) (*models.CreateSuiteResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDownloader) GetSuite(ctx context.Context, uuid string) (*models.TestSuite, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDownloader) ListSuites(ctx context.Context, repoName string) ([]models.SuiteSummary, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	data, ok := f.files[url]
	if !ok {
		return nil, errors.New("artifact not found")
	}
	return data, nil
}

func TestSaveSuiteArtifacts(t *testing.T) {
	t.Run("should save every available artifact under the test directory", func(t *testing.T) {
		outputDir := t.TempDir()
		downloader := &fakeDownloader{files: map[string][]byte{
			"https://cdn/spec":  []byte("describe('login')"),
			"https://cdn/gif":   []byte("GIF89a"),
			"https://cdn/trace": []byte("{}"),
		}}
		writer := NewWriter(downloader)

		suite := &models.TestSuite{
			UUID: "abc",
			Tests: []models.TestRecord{
				{
					UUID: "t1",
					Name: "Login flow works",
					CurRun: &models.TestRun{
						Outcome:   models.OutcomePass,
						RunScript: "https://cdn/spec",
						RunGif:    "https://cdn/gif",
						RunJSON:   "https://cdn/trace",
					},
				},
			},
		}

		saved := writer.SaveSuiteArtifacts(context.Background(), suite, outputDir)

		require.Len(t, saved, 3)
		testDir := filepath.Join(outputDir, "Login_flow_works")
		assert.FileExists(t, filepath.Join(testDir, "Login_flow_works.spec.js"))
		assert.FileExists(t, filepath.Join(testDir, "Login_flow_works.gif"))
		assert.FileExists(t, filepath.Join(testDir, "Login_flow_works.json"))

		content, err := os.ReadFile(filepath.Join(testDir, "Login_flow_works.spec.js"))
		require.NoError(t, err)
		assert.Equal(t, "describe('login')", string(content))
	})

	t.Run("should skip failed downloads without aborting the rest", func(t *testing.T) {
		outputDir := t.TempDir()
		downloader := &fakeDownloader{files: map[string][]byte{
			"https://cdn/gif": []byte("GIF89a"),
		}}
		writer := NewWriter(downloader)

		suite := &models.TestSuite{
			Tests: []models.TestRecord{
				{
					UUID: "t1",
					Name: "Checkout",
					CurRun: &models.TestRun{
						RunScript: "https://cdn/missing",
						RunGif:    "https://cdn/gif",
					},
				},
			},
		}

		saved := writer.SaveSuiteArtifacts(context.Background(), suite, outputDir)

		require.Len(t, saved, 1)
		assert.FileExists(t, filepath.Join(outputDir, "Checkout", "Checkout.gif"))
	})

	t.Run("should skip tests without a current run", func(t *testing.T) {
		writer := NewWriter(&fakeDownloader{})

		suite := &models.TestSuite{
			Tests: []models.TestRecord{{UUID: "t1", Name: "pending test"}},
		}

		saved := writer.SaveSuiteArtifacts(context.Background(), suite, t.TempDir())

		assert.Empty(t, saved)
	})

	t.Run("should return an empty list for a nil suite", func(t *testing.T) {
		writer := NewWriter(&fakeDownloader{})

		saved := writer.SaveSuiteArtifacts(context.Background(), nil, t.TempDir())

		assert.NotNil(t, saved)
		assert.Empty(t, saved)
	})
}

func TestSanitizeTestName(t *testing.T) {
	t.Run("should replace unsafe characters", func(t *testing.T) {
		assert.Equal(t, "Login_flow_works", SanitizeTestName("Login flow works", "uuid"))
		assert.Equal(t, "user_can_log_in", SanitizeTestName("user/can\\log:in", "uuid"))
	})

	t.Run("should keep safe characters", func(t *testing.T) {
		assert.Equal(t, "test-1.2_ok", SanitizeTestName("test-1.2_ok", "uuid"))
	})

	t.Run("should fall back to a uuid prefix for empty names", func(t *testing.T) {
		assert.Equal(t, "test-12345678", SanitizeTestName("", "123456789abc"))
		assert.Equal(t, "test-12345678", SanitizeTestName("   ", "123456789abc"))
	})

	t.Run("should fall back when nothing survives sanitization", func(t *testing.T) {
		assert.Equal(t, "test-12345678", SanitizeTestName("///", "123456789abc"))
	})

	t.Run("should use the whole uuid when it is short", func(t *testing.T) {
		assert.Equal(t, "test-ab", SanitizeTestName("", "ab"))
	})
}
