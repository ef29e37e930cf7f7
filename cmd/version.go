package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/builtin"
	"github.com/YangQing-Lin/springtint/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, version.String())
		if d := version.GetBuildDate(); d != "" && d != "unknown" {
			fmt.Fprintf(w, "构建日期: %s\n", d)
		}
		if names, err := builtin.Names(); err == nil {
			fmt.Fprintf(w, "内置模板: %s\n", strings.Join(names, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
