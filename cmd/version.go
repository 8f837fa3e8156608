package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/killallgit/herotrend/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the herotrend version, the commit and time it was built from and the
Go runtime it runs on. Binaries installed with "go install" report the module
version and VCS revision recorded by the toolchain.`,
	Args: cobra.NoArgs,
	Run:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
}

// buildVersion fills unset ldflags values from the embedded build info
func buildVersion() (version, commit, built string) {
	version, commit, built = Version, GitCommit, BuildTime

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch {
		case setting.Key == "vcs.revision" && commit == "unknown":
			commit = setting.Value
		case setting.Key == "vcs.time" && built == "unknown":
			built = setting.Value
		}
	}
	return
}

func runVersion(cmd *cobra.Command, args []string) {
	version, commit, built := buildVersion()
	out := cmd.OutOrStdout()

	if short, _ := cmd.Flags().GetBool("short"); short {
		fmt.Fprintln(out, version)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "herotrend\t%s\n", version)
	fmt.Fprintf(w, "commit\t%s\n", commit)
	fmt.Fprintf(w, "built\t%s\n", built)
	fmt.Fprintf(w, "go\t%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	w.Flush()
}
