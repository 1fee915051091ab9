package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pairsel"
)

func (cli *CLI) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Check a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pairsel.LoadConfig(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d pairs, %d matches, %d vetoes)\n",
				args[0], len(cfg.Pairs), len(cfg.Matches), len(cfg.Vetoes))
			return nil
		},
	}
}
