package main

import (
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/config"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

type rootOptions struct {
	configPath string
	lang       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "phonebill",
		Short: "Bill phone lines under month-to-month, term and prepaid contracts",
		Long: `phonebill replays a call log against each customer's phone lines and
prints the monthly statements. Rates, storage and call dedupe are read from
config.toml and PHONEBILL_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: ./config.toml)")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "en-CA", "Language used to format amounts")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newRatesCmd(opts))
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.LoadFile(o.configPath)
}

func (o *rootOptions) language() (language.Tag, error) {
	return language.Parse(o.lang)
}
