package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "rigal",
		Short:         "Static photo gallery generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default rigal.toml)")

	rootCmd.AddCommand(newNewCommand())
	rootCmd.AddCommand(newBuildCommand(&configFlag))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
