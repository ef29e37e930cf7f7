package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/history"
	"github.com/YangQing-Lin/springtint/internal/i18n"
)

var (
	historyKind  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查看操作历史",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := ""
		if historyKind != "" {
			k, err := parseKind(historyKind)
			if err != nil {
				return err
			}
			kind = k.String()
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if a.history == nil {
			return errors.New("历史记录未启用（config set history true）")
		}

		entries, err := a.history.Recent(cmd.Context(), kind, historyLimit)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, i18n.T("history.empty"))
			return nil
		}
		for _, e := range entries {
			printHistoryEntry(w, e)
		}
		return nil
	},
}

func printHistoryEntry(w io.Writer, e history.Entry) {
	outcome := color.GreenString(e.Outcome)
	if e.Outcome != history.OutcomeOK {
		outcome = color.RedString(e.Outcome)
	}
	target := e.Kind
	if e.Basename != "" {
		target += "/" + e.Basename
	}
	line := fmt.Sprintf("%s  %-6s %-32s %s", e.At.Local().Format("2006-01-02 15:04:05"), e.Action, target, outcome)
	if e.Stage != "" {
		line += " [" + e.Stage + "]"
	}
	if e.Detail != "" {
		line += " " + color.HiBlackString(e.Detail)
	}
	fmt.Fprintln(w, line)
}

func init() {
	historyCmd.Flags().StringVarP(&historyKind, "kind", "k", "", "只显示指定类型")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "显示条数")
	rootCmd.AddCommand(historyCmd)
}
