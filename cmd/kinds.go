package cmd

import (
	"github.com/spf13/cobra"
)

var kindsCmd = &cobra.Command{
	Use:     "kinds",
	Aliases: []string{"ls", "list"},
	Short:   "列出所有材质类型及其状态",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return listKinds(cmd.OutOrStdout(), a)
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
