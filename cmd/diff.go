package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/material"
)

var diffCmd = &cobra.Command{
	Use:   "diff <kind>",
	Short: "比较已安装文件与暂存文件",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.coord.Diff(kind)
		if err != nil {
			return stageError(kind, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), material.FormatDiffForCLI(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
