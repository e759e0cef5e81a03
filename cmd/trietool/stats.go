package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <corpus>...",
		Short: "Summarise corpus files and the trie they build",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, files, err := flags.loadCorpora(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := newTable(out, "File", "Format", "Size", "Lines", "Inserted", "Skipped", "Elapsed")
			for _, f := range files {
				table.Append([]string{
					f.Path,
					f.Format.String(),
					units.HumanSize(float64(f.Bytes)),
					strconv.Itoa(f.Lines),
					strconv.Itoa(f.Inserted),
					strconv.Itoa(f.Skipped),
					f.Elapsed.Round(time.Microsecond).String(),
				})
			}
			table.Render()

			fmt.Fprintf(out, "terms: %s  nodes: %s  max frequency: %s\n",
				humanize.Comma(int64(t.TermCount())),
				humanize.Comma(int64(t.NodeCount())),
				humanize.Comma(int64(t.MaxFrequency())))
			return nil
		},
	}
}
