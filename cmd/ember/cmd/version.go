package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/ember/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("ember v"+version.Platform))
		fmt.Fprintln(out, renderKeyValue("  Parser", version.Parser))
		fmt.Fprintln(out, renderKeyValue("  Engine", version.Engine))
		fmt.Fprintln(out, renderKeyValue("  Service", version.Service))
		fmt.Fprintln(out, renderKeyValue("  Git Commit", version.Commit))
		fmt.Fprintln(out, renderKeyValue("  Build Date", version.BuildDate))
		fmt.Fprintln(out, renderKeyValue("  Go Version", runtime.Version()))
		fmt.Fprintln(out, renderKeyValue("  OS/Arch", runtime.GOOS+"/"+runtime.GOARCH))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
