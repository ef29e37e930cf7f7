package cmd

import (
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <kind>",
	Short: "将暂存文件覆盖到系统位置",
	Long: `逐个覆盖系统文件；单个文件失败只会跳过该文件。
代表文件（列表中的第一个）成功后类型即为已应用。`,
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
		return applyKind(cmd.Context(), cmd.OutOrStdout(), a, kind)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
