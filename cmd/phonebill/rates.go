package main

import (
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/strategy"
	"github.com/leecohen23/Phone-compamy-software/internal/interfaces/report"
	"github.com/spf13/cobra"
)

func newRatesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the contracts on offer and the effective rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			tag, err := root.language()
			if err != nil {
				return err
			}
			renderer, err := report.NewRenderer(tag)
			if err != nil {
				return err
			}
			registry, err := strategy.NewRegistryWithDefaults(cfg.Rates)
			if err != nil {
				return err
			}
			return renderer.WriteRates(cmd.OutOrStdout(), registry.List(), registry.Rates())
		},
	}
}
