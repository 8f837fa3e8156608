package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	when := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, when, when))
}

func TestIsTemp(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".abc.data.123.tmp", true},
		{".abc.456.wav", true},
		{".abc.mp4.789.part", true},
		{"abc.mp4.part", true},
		{"abc.mp4", false},
		{"abc.hero.json", false},
		{"abc.info.json", false},
		{".gitkeep", false},
		{".DS_Store", false},
		{".tmp", false},
		{".old.wav", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTemp(tt.name))
		})
	}
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".abc.data.1.tmp"), 2*time.Hour)
	touch(t, filepath.Join(dir, "abc.mp4.part"), 2*time.Hour)
	touch(t, filepath.Join(dir, ".abc.2.wav"), time.Minute)
	touch(t, filepath.Join(dir, "abc.wav"), 48*time.Hour)
	touch(t, filepath.Join(dir, ".gitkeep"), 48*time.Hour)
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".nested"), 0755))

	removed, err := NewService(dir, time.Hour, time.Minute).Sweep()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, ".abc.data.1.tmp"),
		filepath.Join(dir, "abc.mp4.part"),
	}, removed)

	assert.FileExists(t, filepath.Join(dir, ".abc.2.wav"), "recent temp files may still be in use")
	assert.FileExists(t, filepath.Join(dir, "abc.wav"))
	assert.FileExists(t, filepath.Join(dir, ".gitkeep"))
	assert.DirExists(t, filepath.Join(dir, ".nested"))
}

func TestSweepMissingDirectory(t *testing.T) {
	removed, err := NewService(filepath.Join(t.TempDir(), "missing"), time.Hour, time.Minute).Sweep()
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestStartStop(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, ".abc.hero.1.tmp")
	touch(t, stale, 2*time.Hour)

	s := NewService(dir, time.Hour, time.Hour)
	s.Start(context.Background())
	s.Stop()

	assert.NoFileExists(t, stale, "Start sweeps once before waiting")
	s.Stop()
}
