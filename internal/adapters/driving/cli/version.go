package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the acqscope version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if versionShort {
			cmd.Println(version)
			return nil
		}
		cmd.Printf("acqscope %s\n", version)
		cmd.Printf("  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if rev, dirty := vcsRevision(readBuildInfo); rev != "" {
			if dirty {
				rev += " (modified)"
			}
			cmd.Printf("  commit: %s\n", rev)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version string")
	rootCmd.AddCommand(versionCmd)
}

var readBuildInfo = debug.ReadBuildInfo

// vcsRevision returns the abbreviated commit the binary was built from.
func vcsRevision(read func() (*debug.BuildInfo, bool)) (string, bool) {
	info, ok := read()
	if !ok {
		return "", false
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return rev, dirty
}
