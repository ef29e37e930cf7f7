package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
	"github.com/YangQing-Lin/springtint/internal/i18n"
	"github.com/YangQing-Lin/springtint/internal/material"
	"github.com/YangQing-Lin/springtint/internal/preset"
)

var (
	createColor string
	createAlpha float64
	createBlur  int
	createApply bool
)

var createCmd = &cobra.Command{
	Use:   "create <kind>",
	Short: "生成并暂存替换文件",
	Long: `为指定类型的每个系统文件生成大小完全一致的替换文件并暂存。
任何一个文件失败时不会暂存任何文件。`,
	Example: `  springtint create folder --color "#ff0000" --alpha 0.5 --blur 20
  springtint create dock --color 3366cc --apply`,
	Args: cobra.ExactArgs(1),
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

		r, g, b, err := preset.ParseColor(createColor)
		if err != nil {
			return fmt.Errorf("%s: %w", i18n.T("error.invalid_color"), err)
		}
		if createAlpha < 0 || createAlpha > 1 {
			return fmt.Errorf("%s", i18n.T("error.invalid_alpha"))
		}
		if createBlur < 0 {
			return fmt.Errorf("%s", i18n.T("error.invalid_blur"))
		}

		tint := material.Tint{Red: r, Green: g, Blue: b, Alpha: createAlpha}
		return createAndMaybeApply(cmd.Context(), cmd.OutOrStdout(), a, kind, tint, material.Blur(createBlur), createApply)
	},
}

func createAndMaybeApply(ctx context.Context, w io.Writer, a *app, kind catalog.Kind, tint material.Tint, blur material.Blur, apply bool) error {
	rec, err := a.coord.CreateColor(ctx, kind, tint, blur)
	if err != nil {
		return stageError(kind, err)
	}
	fmt.Fprintln(w, color.GreenString("✓ ")+i18n.T("create.staged", kind, len(rec.Files), rec.OperationID))

	if !apply {
		return nil
	}
	return applyKind(ctx, w, a, kind)
}

func applyKind(ctx context.Context, w io.Writer, a *app, kind catalog.Kind) error {
	report, err := a.coord.ApplyColor(ctx, kind)
	if report != nil {
		for _, f := range report.Failed() {
			fmt.Fprintln(w, color.RedString("✗ ")+i18n.T("apply.file_failed", f.Basename, errs.Stage(f.Err), f.Err))
		}
	}
	if err != nil {
		return stageError(kind, err)
	}
	fmt.Fprintln(w, color.GreenString("✓ ")+i18n.T("apply.applied", kind, len(report.Applied()), len(report.Results)))
	return nil
}

func init() {
	createCmd.Flags().StringVarP(&createColor, "color", "c", "#808080", "颜色 (#RRGGBB)")
	createCmd.Flags().Float64VarP(&createAlpha, "alpha", "a", 1, "透明度 (0-1)")
	createCmd.Flags().IntVarP(&createBlur, "blur", "b", int(material.DefaultBlur), "模糊半径")
	createCmd.Flags().BoolVar(&createApply, "apply", false, "暂存后立即应用")
	rootCmd.AddCommand(createCmd)
}
