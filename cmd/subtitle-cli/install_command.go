package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subtitlebatch/internal/adapters/playwright"
)

func newInstallBrowserCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "install-browser",
		Short: "Install the playwright driver and Chromium used by extract",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := playwright.Install(verbose); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Chromium is installed")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show installer output")
	return cmd
}
