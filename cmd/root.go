package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/YangQing-Lin/springtint/internal/tui"
)

var (
	homeDir    string
	systemRoot string
	language   string
)

// tuiRunner 和 interactive 可在测试中替换
var (
	tuiRunner   = tui.Run
	interactive = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
)

var rootCmd = &cobra.Command{
	Use:   "springtint",
	Short: "SpringBoard 材质颜色定制工具",
	Long: `springtint 为 SpringBoard 的材质配方（dock、文件夹、通知等）生成
与原文件大小完全一致的替换文件，并通过特权覆盖写入系统位置。

使用方法：
  springtint                      在终端中启动交互界面
  springtint kinds                列出所有材质类型
  springtint create <kind> ...    生成并暂存替换文件
  springtint apply <kind>         覆盖系统文件
  springtint revert <kind>        删除暂存文件`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		// 非终端环境下退化为列表输出
		if !interactive() {
			return listKinds(cmd.OutOrStdout(), a)
		}
		if err := tuiRunner(cmd.Context(), a.coord); err != nil {
			return fmt.Errorf("运行 TUI 失败: %w", err)
		}
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	if err := ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ExecuteContext 使用 ctx 执行根命令
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "数据目录（默认 ~/.springtint 或 $SPRINGTINT_HOME）")
	rootCmd.PersistentFlags().StringVar(&systemRoot, "system-root", "", "系统文件根目录，覆盖配置中的 system_root")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "界面语言 (en|zh)")

	// 自定义帮助模板
	rootCmd.SetHelpTemplate(`{{.Long}}

{{if .HasAvailableSubCommands}}可用命令:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}

{{if .HasAvailableLocalFlags}}选项:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

使用 "{{.CommandPath}} [command] --help" 获取更多关于命令的信息。
`)
}
