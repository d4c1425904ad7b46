package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tecmides",
		Short:         "Association rule mining over ARFF datasets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (or TECMIDES_CONFIG)")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newMineCommand(&configPath))
	return root
}
