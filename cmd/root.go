package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/herotrend/pkg/config"
	apperrors "github.com/killallgit/herotrend/pkg/errors"
	"github.com/killallgit/herotrend/pkg/logger"
	"github.com/killallgit/herotrend/pkg/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// appConfig is populated by loadConfig before any command that needs it runs
var appConfig *config.Config

// rootCmd analyzes one source when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "herotrend <id|url>",
	Short: "Compute the loudness hero series of a remote video",
	Long: `herotrend downloads a video, extracts loudness-normalized audio and turns it
into a per-second momentum series bounded to [-3, 3].

Every stage writes its artifact to the cache directory and is skipped on later
runs when the artifact already exists:

  <id>.mp4        downloaded media
  <id>.wav        normalized audio
  <id>.data       per-second loudness (MessagePack)
  <id>.hero       hero series (MessagePack)
  <id>.hero.json  hero series (JSON)

The argument is either a bare id or a watch URL carrying it in the "v" query
parameter. Ids equal to a subcommand name must be passed as a URL.

Example:
  herotrend dQw4w9WgXcQ
  herotrend "https://www.youtube.com/watch?v=dQw4w9WgXcQ"`,
	Args:              exactlyOneSource,
	PersistentPreRunE: loadConfig,
	RunE:              runAnalyze,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = zap.L().Sync()
		os.Exit(apperrors.ExitCode(err))
	}
	_ = zap.L().Sync()
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Add persistent flags for logging configuration
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")

	rootCmd.Flags().Bool("progress", false, "print loudness progress milestones to stderr")
}

func exactlyOneSource(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one argument (source id or URL), got %d\nUsage: %s", len(args), cmd.UseLine())
	}
	return nil
}

// loadConfig initializes configuration and logging for commands that need them
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	if err := config.Init(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to initialize config")
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to load config")
	}

	if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
		cfg.Logging.Level = flag.Value.String()
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		cfg.Logging.Format = "json"
	}

	if _, err := logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		Dir:        cfg.Logging.Dir,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	}); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to initialize logging")
	}

	appConfig = cfg
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	sourceID, err := source.ParseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(appConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		a.progress = func(percent int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "loudness: %d%%\n", percent)
		}
	}

	out, err := a.Pipeline().Run(cmd.Context(), sourceID)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Files:")
	for _, path := range out.Paths() {
		fmt.Fprintln(w, path)
	}
	return nil
}
