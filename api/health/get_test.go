package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
	"github.com/killallgit/herotrend/internal/cache"
	"github.com/killallgit/herotrend/internal/database"
	"github.com/killallgit/herotrend/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLedger(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "ledger.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func cachePipeline(t *testing.T, dir string) *pipeline.Pipeline {
	t.Helper()
	store, err := cache.NewFilesystemStorage(dir)
	require.NoError(t, err)
	return pipeline.New(cache.NewGate(store), nil, nil, nil, pipeline.Options{})
}

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupDeps      func(t *testing.T) *types.Dependencies
		expectedCode   int
		expectedStatus string
		expectedLedger string
		expectedCache  string
	}{
		{
			name: "healthy",
			setupDeps: func(t *testing.T) *types.Dependencies {
				return &types.Dependencies{
					DB:       openLedger(t),
					Pipeline: cachePipeline(t, t.TempDir()),
					Version:  "1.2.3",
				}
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "ok",
			expectedLedger: types.ComponentHealthy,
			expectedCache:  types.ComponentHealthy,
		},
		{
			name: "nothing configured",
			setupDeps: func(t *testing.T) *types.Dependencies {
				return &types.Dependencies{}
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "ok",
			expectedLedger: types.ComponentNotConfigured,
			expectedCache:  types.ComponentNotConfigured,
		},
		{
			name: "closed ledger",
			setupDeps: func(t *testing.T) *types.Dependencies {
				db, err := database.Initialize(filepath.Join(t.TempDir(), "ledger.db"), false)
				require.NoError(t, err)
				require.NoError(t, db.Close())
				return &types.Dependencies{DB: db}
			},
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "degraded",
			expectedLedger: types.ComponentUnhealthy,
			expectedCache:  types.ComponentNotConfigured,
		},
		{
			name: "cache directory removed",
			setupDeps: func(t *testing.T) *types.Dependencies {
				dir := filepath.Join(t.TempDir(), "cache")
				p := cachePipeline(t, dir)
				require.NoError(t, os.RemoveAll(dir))
				return &types.Dependencies{Pipeline: p}
			},
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "degraded",
			expectedLedger: types.ComponentNotConfigured,
			expectedCache:  types.ComponentUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			RegisterRoutes(router, tt.setupDeps(t))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.expectedCode, w.Code)

			var response types.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedStatus, response.Status)
			assert.NotEmpty(t, response.Timestamp)
			assert.Equal(t, tt.expectedLedger, response.Ledger.Status)
			assert.Equal(t, tt.expectedCache, response.Cache.Status)
		})
	}
}
