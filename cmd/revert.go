package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/i18n"
)

var revertCmd = &cobra.Command{
	Use:     "revert <kind>",
	Aliases: []string{"delete", "rm"},
	Short:   "删除暂存文件并重置状态",
	Args:    cobra.ExactArgs(1),
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

		if err := a.coord.DeleteColor(cmd.Context(), kind); err != nil {
			return stageError(kind, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ ")+i18n.T("revert.done", kind))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revertCmd)
}
