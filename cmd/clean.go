package cmd

import (
	"fmt"

	"github.com/killallgit/herotrend/internal/cache"
	"github.com/killallgit/herotrend/internal/services/cleanup"
	"github.com/killallgit/herotrend/pkg/source"
	"github.com/spf13/cobra"
)

// cleanCmd removes cached artifacts
var cleanCmd = &cobra.Command{
	Use:   "clean [id|url]",
	Short: "Remove stale temporary files and cached artifacts",
	Long: `Remove temporary files left behind by interrupted runs. Files younger than
storage.temp_max_age are kept since a running stage may still own them.

With an id the derived artifacts of that source (loudness and hero series) are
removed as well, so the next run recomputes them from the cached audio. --all
also removes the downloaded media and the extracted audio.

Example:
  herotrend clean
  herotrend clean dQw4w9WgXcQ
  herotrend clean dQw4w9WgXcQ --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("all", false, "also remove the media and audio of the source")
}

func runClean(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	out := cmd.OutOrStdout()

	sourceID := ""
	if len(args) == 1 {
		id, err := source.ParseID(args[0])
		if err != nil {
			return err
		}
		sourceID = id
	}

	removed, err := cleanup.NewService(appConfig.Storage.CacheDir, appConfig.Storage.TempMaxAge, appConfig.Storage.CleanupInterval).Sweep()
	if err != nil {
		return err
	}
	for _, path := range removed {
		fmt.Fprintln(out, path)
	}

	if sourceID == "" {
		fmt.Fprintf(out, "Removed %d temporary file(s)\n", len(removed))
		return nil
	}

	a, err := newApp(appConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()

	kinds := []cache.Kind{cache.KindLoudness, cache.KindHero, cache.KindHeroJSON}
	if all {
		kinds = cache.Kinds()
	}

	p := a.Pipeline()
	key := p.Key(sourceID)
	if err := p.Gate().Invalidate(cmd.Context(), key, kinds...); err != nil {
		return err
	}
	for _, kind := range kinds {
		fmt.Fprintln(out, p.Gate().Path(key, kind))
	}
	fmt.Fprintf(out, "Removed %d temporary file(s) and %d artifact kind(s) of %s\n", len(removed), len(kinds), sourceID)
	return nil
}
