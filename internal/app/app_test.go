package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ardidini12/XBHL/internal/config"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
)

const testSeed = `
leagues:
  - id: league-1
    name: XBHL
    seasons:
      - id: season-1
        name: Season 1
        start_date: "2026-01-01"
        clubs: [club-1]
clubs:
  - id: club-1
    name: Wolves
    ea_id: "1001"
`

func memoryConfig(t *testing.T) config.Config {
	t.Helper()

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(testSeed), 0o600))

	return config.Config{
		HTTPAddr:                ":0",
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
		StorageDriver:           config.StorageMemory,
		SeedFile:                seedPath,
		CacheEnabled:            true,
		CacheTTL:                time.Minute,
		CORSAllowedOrigins:      []string{"*"},
		EABaseURL:               "http://127.0.0.1:1",
		EATimeout:               time.Second,
		EARequestsPerMinute:     60,
		EACircuitFailureCount:   1,
		EACircuitOpenTimeout:    time.Second,
		EACircuitHalfOpenMaxReq: 1,
		SchedulerLocation:       time.UTC,
		SchedulerWorkerPoolSize: 1,
	}
}

func TestNewWiresMemoryStorage(t *testing.T) {
	cfg := memoryConfig(t)
	application, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, application.StartScheduler(context.Background()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/seasons/season-1/scheduler", nil)
	application.Server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/clubs/club-1/matches", nil)
	application.Server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, application.Shutdown(ctx))
}

func TestNewRejectsBadSeedAndDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)

	cfg = memoryConfig(t)
	cfg.StorageDriver = "sqlite"
	_, err = New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)

	cfg = memoryConfig(t)
	cfg.HTTPAddr = ""
	_, err = New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
