package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
