package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rigal/internal/config"
)

func newNewCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a sample rigal.toml in the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateSample(config.DefaultFileName, force); err != nil {
				if !force {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", config.DefaultFileName)
			fmt.Fprintln(out, "Point input at your photos and put templates/index.html under the theme directory, then run 'rigal build'.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	return cmd
}
