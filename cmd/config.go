package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/springtint/internal/config"
	"github.com/YangQing-Lin/springtint/internal/i18n"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "查看或修改配置",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前配置",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := getManager()
		if err != nil {
			return err
		}
		data, err := toml.Marshal(manager.Config())
		if err != nil {
			return fmt.Errorf("序列化配置失败: %w", err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "# %s\n", manager.GetConfigPath())
		_, err = w.Write(data)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "设置配置项",
	Long:  "可用配置项: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := getManager()
		if err != nil {
			return err
		}
		if err := manager.Set(args[0], args[1]); err != nil {
			return err
		}
		i18n.Init(manager.Config().Language)
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ ")+i18n.T("config.updated", args[0], args[1]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
