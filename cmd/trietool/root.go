package main

import (
	"io"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	separator   string
	noNormalize bool
	noFold      bool
	debug       bool
}

func (f *rootFlags) loadOptions() dictionary.LoadOptions {
	return dictionary.LoadOptions{
		Separator: config.DictConfig{Separator: f.separator}.SeparatorRune(),
		Normalize: !f.noNormalize,
		FoldCase:  !f.noFold,
	}
}

// loadCorpora reads every path into a fresh trie.
func (f *rootFlags) loadCorpora(paths []string) (*trie.Trie, []dictionary.FileStats, error) {
	t := trie.New()
	opts := f.loadOptions()
	stats := make([]dictionary.FileStats, 0, len(paths))
	for _, path := range paths {
		s, err := dictionary.LoadFile(path, t, opts)
		if err != nil {
			return nil, nil, err
		}
		stats = append(stats, s)
	}
	return t, stats, nil
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "trietool",
		Short:         "wordtrie corpus tool",
		Long:          `trietool queries, inspects and merges word frequency corpora offline`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.debug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.separator, "sep", "tab", `Field separator: "tab", "space" or a single character.`)
	pf.BoolVar(&flags.noNormalize, "no-normalize", false, "Do not compose terms to NFC while loading.")
	pf.BoolVar(&flags.noFold, "no-fold", false, "Keep the case of terms while loading.")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "Enable debug logging.")

	rootCmd.AddCommand(
		newQueryCmd(flags),
		newStatsCmd(flags),
		newMergeCmd(flags),
		newConfigCmd(),
	)
	return rootCmd
}

// newTable returns a borderless left aligned table writing to w.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

var errArgs = errors.New("invalid arguments")
