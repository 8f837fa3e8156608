package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/killallgit/herotrend/internal/audio"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// testEnv points every writable location at a temporary directory
type testEnv struct {
	cacheDir string
	dbPath   string
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		cacheDir: filepath.Join(dir, "cache"),
		dbPath:   filepath.Join(dir, "data", "ledger.db"),
	}
	t.Setenv("HEROTREND_STORAGE_CACHE_DIR", env.cacheDir)
	t.Setenv("HEROTREND_DATABASE_PATH", env.dbPath)
	t.Setenv("HEROTREND_LOGGING_OUTPUT", "stderr")
	t.Setenv("HEROTREND_LOGGING_LEVEL", "error")
	t.Setenv("HEROTREND_LOGGING_DIR", filepath.Join(dir, "logs"))
	t.Setenv("HEROTREND_PIPELINE_VERSION", "")
	return env
}

// installFakeTools writes shell stand-ins for yt-dlp, ffmpeg and ffprobe. The
// fake ffmpeg copies a WAV fixture of eight samples at 2 Hz to its output.
func installFakeTools(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.wav")
	require.NoError(t, audio.WriteWAV(fixture, &audio.RawAudio{
		SampleRate: 2,
		Channels:   1,
		Samples:    []int{10, 1, 7, 3, 9, 2, 8, 4},
	}))

	ytdl := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
out=$(printf '%s' "$out" | sed 's/%(ext)s/mp4/')
printf 'media' > "$out"
`
	ffmpeg := fmt.Sprintf(`#!/bin/sh
for last; do :; done
cp %q "$last"
`, fixture)
	ffprobe := `#!/bin/sh
echo '{"format":{"format_name":"wav","duration":"4.0"},"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"2","channels":1}]}'
`

	for name, body := range map[string]string{"yt-dlp": ytdl, "ffmpeg": ffmpeg, "ffprobe": ffprobe} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0755))
	}

	t.Setenv("HEROTREND_FETCH_YTDL_PATH", filepath.Join(dir, "yt-dlp"))
	t.Setenv("HEROTREND_PROCESSING_FFMPEG_PATH", filepath.Join(dir, "ffmpeg"))
	t.Setenv("HEROTREND_PROCESSING_FFPROBE_PATH", filepath.Join(dir, "ffprobe"))
}

// resetFlags restores every flag of cmd and its children to its default
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// execute runs the root command with args and returns stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	resetFlags(root)
	serverHost, serverPort = "", 0

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(bytes.NewReader(nil))
	root.SetArgs(args)
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetErr(nil)
		root.SetIn(nil)
	})

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
