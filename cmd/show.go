package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/i18n"
	"github.com/YangQing-Lin/springtint/internal/preset"
)

var showCmd = &cobra.Command{
	Use:   "show <kind>",
	Short: "显示材质类型的详细信息",
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

		entry, err := a.coord.Entry(kind)
		if err != nil {
			return err
		}
		rec, err := a.coord.State(kind)
		if err != nil {
			return err
		}
		tint := a.coord.GetColor(kind)

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s\n", color.CyanString(kind.String()))
		fmt.Fprintf(w, "  %s %s\n", i18n.T("show.state"), stateLabel(rec.State))
		fmt.Fprintf(w, "  %s %s  α=%.2f\n", i18n.T("show.color"), preset.FormatColor(tint.Red, tint.Green, tint.Blue), tint.Alpha)
		fmt.Fprintf(w, "  %s %d\n", i18n.T("show.blur"), a.coord.GetBlur(kind))
		fmt.Fprintf(w, "  %s %.1f\n", i18n.T("show.mix"), kind.MixFactor())
		if rec.OperationID != "" {
			fmt.Fprintf(w, "  %s %s\n", i18n.T("show.operation"), rec.OperationID)
		}
		if !rec.StagedAt.IsZero() {
			fmt.Fprintf(w, "  %s %s\n", i18n.T("show.staged_at"), rec.StagedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if rec.AppliedAt != nil {
			fmt.Fprintf(w, "  %s %s\n", i18n.T("show.applied_at"), rec.AppliedAt.Local().Format("2006-01-02 15:04:05"))
		}

		fmt.Fprintln(w, "  "+i18n.T("show.files"))
		for i, b := range entry.Files {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Fprintf(w, "   %s %s\n", marker, filepath.ToSlash(entry.SystemPath(b)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
