package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
	"github.com/YangQing-Lin/springtint/internal/i18n"
)

var restoreList bool

var restoreCmd = &cobra.Command{
	Use:   "restore [kind]",
	Short: "用首次应用前保存的原始文件覆盖系统文件",
	Long: `每个系统文件第一次被覆盖前都会保存一份原始副本。
restore 将这些副本写回系统位置；暂存文件保持不变。`,
	Args: func(cmd *cobra.Command, args []string) error {
		if restoreList {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreList {
			return listOriginals(cmd)
		}
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		w := cmd.OutOrStdout()
		report, err := a.coord.Restore(cmd.Context(), kind)
		if report != nil {
			for _, f := range report.Failed() {
				fmt.Fprintln(w, color.RedString("✗ ")+i18n.T("apply.file_failed", f.Basename, errs.Stage(f.Err), f.Err))
			}
		}
		if err != nil {
			return stageError(kind, err)
		}
		fmt.Fprintln(w, color.GreenString("✓ ")+i18n.T("restore.done", kind, len(report.Applied()), len(report.Results)))
		return nil
	},
}

func listOriginals(cmd *cobra.Command) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	kinds, err := a.originals.Kinds(catalog.Default())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, k := range kinds {
		entry, err := catalog.Default().Lookup(k)
		if err != nil {
			continue
		}
		held, err := a.originals.List(entry)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", color.CyanString(k.String()))
		for _, o := range held {
			fmt.Fprintf(w, "  %-36s %6d B\n", entry.FileName(o.Basename), o.Size)
		}
	}
	return nil
}

func init() {
	restoreCmd.Flags().BoolVarP(&restoreList, "list", "l", false, "列出已保存原始文件的类型")
	rootCmd.AddCommand(restoreCmd)
}
