package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/i18n"
	"github.com/YangQing-Lin/springtint/internal/preset"
	"github.com/YangQing-Lin/springtint/internal/staging"
)

var (
	presetAll   bool
	presetApply bool
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "导入或导出颜色预设",
}

var presetExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "导出当前颜色设置为 YAML",
	Long: `导出各类型当前的颜色、透明度和模糊半径。
默认只导出已暂存或已应用的类型；不指定文件时输出到标准输出。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		doc := preset.Document{Version: preset.Version}
		for _, k := range a.coord.Kinds() {
			rec, err := a.coord.State(k)
			if err != nil {
				return err
			}
			if rec.State == staging.Unset && !presetAll {
				continue
			}
			doc.Presets = append(doc.Presets, preset.FromTint(k, a.coord.GetColor(k), a.coord.GetBlur(k)))
		}

		var buf bytes.Buffer
		if err := preset.Encode(&buf, doc); err != nil {
			return err
		}
		if len(args) == 0 {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(args[0], buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("写入预设文件失败: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ ")+i18n.T("preset.exported", len(doc.Presets), args[0]))
		return nil
	},
}

var presetImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "从 YAML 文件暂存颜色设置",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("读取预设文件失败: %w", err)
		}
		doc, err := preset.Decode(f)
		f.Close()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		w := cmd.OutOrStdout()
		for _, p := range doc.Presets {
			kind, tint, blur, err := p.Resolve()
			if err != nil {
				return err
			}
			if err := createAndMaybeApply(cmd.Context(), w, a, kind, tint, blur, presetApply); err != nil {
				return err
			}
		}
		fmt.Fprintln(w, i18n.T("preset.imported", len(doc.Presets)))
		return nil
	},
}

func init() {
	presetExportCmd.Flags().BoolVar(&presetAll, "all", false, "包含未暂存的类型（使用默认值）")
	presetImportCmd.Flags().BoolVar(&presetApply, "apply", false, "暂存后立即应用")
	presetCmd.AddCommand(presetExportCmd, presetImportCmd)
	rootCmd.AddCommand(presetCmd)
}
