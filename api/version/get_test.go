package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
	"github.com/killallgit/herotrend/internal/cache"
	"github.com/killallgit/herotrend/internal/loudness"
	"github.com/killallgit/herotrend/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store, err := cache.NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	aligned := pipeline.New(cache.NewGate(store), nil, nil, nil, pipeline.Options{
		Version: "v2",
		Window:  loudness.WindowAligned,
	})

	tests := []struct {
		name     string
		deps     *types.Dependencies
		expected types.VersionResponse
	}{
		{
			name:     "no dependencies",
			deps:     nil,
			expected: types.VersionResponse{Name: "herotrend", Version: "dev", Status: "running"},
		},
		{
			name:     "build version only",
			deps:     &types.Dependencies{Version: "1.2.3"},
			expected: types.VersionResponse{Name: "herotrend", Version: "1.2.3", Status: "running"},
		},
		{
			name: "versioned aligned pipeline",
			deps: &types.Dependencies{Version: "1.2.3", Pipeline: aligned},
			expected: types.VersionResponse{
				Name:         "herotrend",
				Version:      "1.2.3",
				Status:       "running",
				CacheVersion: "v2-aligned",
				Window:       "aligned",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			RegisterRoutes(router, tt.deps)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, w.Code)

			var response types.VersionResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expected, response)
		})
	}
}
