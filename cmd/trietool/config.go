package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, show or change the wordtrie config file",
	}
	cmd.PersistentFlags().StringVar(&path, "config", "", "Config file (default: user config dir).")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values, replacing any existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.RebuildConfigFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", config.GetActiveConfigPath(written))
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, active, err := config.LoadConfigWithPriority(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", config.GetActiveConfigPath(active))
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}

	var (
		maxLimit, minPrefix, maxPrefix int
		enableFilter                   bool
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change server limits in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, active, err := config.LoadConfigWithPriority(path)
			if err != nil {
				return err
			}
			if active == "" {
				return errors.New("no writable config file")
			}

			f := cmd.Flags()
			var ml, minp, maxp *int
			var ef *bool
			if f.Changed("max-limit") {
				ml = &maxLimit
			}
			if f.Changed("min-prefix") {
				minp = &minPrefix
			}
			if f.Changed("max-prefix") {
				maxp = &maxPrefix
			}
			if f.Changed("filter") {
				ef = &enableFilter
			}
			if err := cfg.Update(active, ml, minp, maxp, ef); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", config.GetActiveConfigPath(active))
			return nil
		},
	}
	setCmd.Flags().IntVar(&maxLimit, "max-limit", 0, "Largest number of suggestions a request may ask for.")
	setCmd.Flags().IntVar(&minPrefix, "min-prefix", 0, "Shortest accepted prefix, in characters.")
	setCmd.Flags().IntVar(&maxPrefix, "max-prefix", 0, "Longest accepted prefix, in characters.")
	setCmd.Flags().BoolVar(&enableFilter, "filter", true, "Reject numeric, symbolic and repetitive prefixes.")

	cmd.AddCommand(initCmd, showCmd, setCmd)
	return cmd
}
