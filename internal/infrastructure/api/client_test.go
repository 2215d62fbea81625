package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	apperrors "github.com/Tomas-vilte/MateTest/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastPolicy evita dormir medio segundo por reintento en los tests
func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Jitter:     0,
	}
}

func newTestClient(baseURL string) *Client {
	client := NewClient(baseURL, "test-key", nil)
	client.policy = fastPolicy()
	return client
}

func TestClientRetries(t *testing.T) {
	t.Run("should retry transient 5xx and succeed", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"success": true, "user": "tomas"}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		result, err := client.Authenticate(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "tomas", result.User)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("should retry 429 responses", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte(`{"success": true}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		result, err := client.Authenticate(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("should not retry client errors", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.Authenticate(context.Background())

		assert.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("should give up after exhausting retries", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.Authenticate(context.Background())

		assert.ErrorIs(t, err, apperrors.ErrRetriesExhausted)
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	})

	t.Run("should send the bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"success": true}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.Authenticate(context.Background())

		require.NoError(t, err)
	})
}

func TestGetSuite(t *testing.T) {
	t.Run("should return nil nil when the suite does not exist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		suite, err := client.GetSuite(context.Background(), "missing-uuid")

		assert.NoError(t, err)
		assert.Nil(t, suite)
	})

	t.Run("should decode a suite snapshot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"uuid": "abc-123",
				"runStatus": "completed",
				"tests": [
					{"uuid": "t1", "name": "login works", "curRun": {"status": "done", "outcome": "pass"}},
					{"uuid": "t2", "name": "logout works", "curRun": {"status": "done", "outcome": "fail"}}
				]
			}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		suite, err := client.GetSuite(context.Background(), "abc-123")

		require.NoError(t, err)
		require.NotNil(t, suite)
		assert.Equal(t, models.RunStatusCompleted, suite.RunStatus)
		assert.Len(t, suite.Tests, 2)
		assert.Equal(t, 1, suite.FailedTests())
	})
}

func TestCreateSuite(t *testing.T) {
	t.Run("should post the submission and decode the result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"success": true, "testSuiteUuid": "new-uuid"}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		result, err := client.CreateSuite(context.Background(), models.SuiteSubmission{
			RepoName: "acme/frontend",
			Branch:   "main",
		})

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "new-uuid", result.TestSuiteUUID)
	})
}

func TestInflightDedup(t *testing.T) {
	t.Run("should collapse identical concurrent requests into one call", func(t *testing.T) {
		var calls int32
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			<-release
			_, _ = w.Write([]byte(`{"uuid": "abc", "runStatus": "running", "tests": []}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		var wg sync.WaitGroup
		const concurrency = 5
		results := make([]*models.TestSuite, concurrency)
		for i := 0; i < concurrency; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				suite, err := client.GetSuite(context.Background(), "abc")
				assert.NoError(t, err)
				results[idx] = suite
			}(i)
		}

		// dar tiempo a que todos los goroutines se cuelguen del mismo vuelo
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		for _, suite := range results {
			require.NotNil(t, suite)
			assert.Equal(t, "abc", suite.UUID)
		}
	})

	t.Run("should not share flights across different fingerprints", func(t *testing.T) {
		assert.NotEqual(t,
			Fingerprint(http.MethodGet, "http://api/suites/a", nil),
			Fingerprint(http.MethodGet, "http://api/suites/b", nil),
		)
		assert.NotEqual(t,
			Fingerprint(http.MethodGet, "http://api/suites/a", nil),
			Fingerprint(http.MethodPost, "http://api/suites/a", nil),
		)
	})
}

func TestRetryPolicyDelay(t *testing.T) {
	t.Run("should grow exponentially up to the cap", func(t *testing.T) {
		policy := RetryPolicy{
			MaxRetries: 6,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   10 * time.Second,
			Jitter:     0,
		}

		assert.Equal(t, 500*time.Millisecond, policy.Delay(0))
		assert.Equal(t, time.Second, policy.Delay(1))
		assert.Equal(t, 8*time.Second, policy.Delay(4))
		assert.Equal(t, 10*time.Second, policy.Delay(5))
		assert.Equal(t, 10*time.Second, policy.Delay(20))
	})

	t.Run("should keep jittered delays within the band", func(t *testing.T) {
		policy := DefaultRetryPolicy()

		for i := 0; i < 100; i++ {
			delay := policy.Delay(0)
			assert.GreaterOrEqual(t, delay, 425*time.Millisecond)
			assert.LessOrEqual(t, delay, 575*time.Millisecond)
		}
	})
}

func TestRetryableStatus(t *testing.T) {
	assert.True(t, retryableStatus(500))
	assert.True(t, retryableStatus(503))
	assert.True(t, retryableStatus(429))
	assert.False(t, retryableStatus(400))
	assert.False(t, retryableStatus(401))
	assert.False(t, retryableStatus(404))
	assert.False(t, retryableStatus(200))
}
