package main

import (
	"fmt"
	"strconv"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newQueryCmd(flags *rootFlags) *cobra.Command {
	var (
		k       int
		noPrune bool
	)

	cmd := &cobra.Command{
		Use:   "query <corpus> <prefix>",
		Short: "Print the top ranked completions of a prefix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := flags.loadCorpora(args[:1])
			if err != nil {
				return err
			}

			opts := flags.loadOptions()
			prefix := utils.NormalizeTerm(args[1], opts.Normalize, opts.FoldCase)
			results, exact := t.FindAllChildTerms(prefix, k, !noPrune)

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "no completions for %q\n", prefix)
				return nil
			}

			table := newTable(out, "Rank", "Term", "Frequency")
			for i, r := range results {
				table.Append([]string{
					strconv.Itoa(i + 1),
					r.Term,
					humanize.Comma(int64(r.Frequency)),
				})
			}
			table.Render()
			if exact > 0 {
				fmt.Fprintf(out, "%q itself: %s\n", prefix, humanize.Comma(int64(exact)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "top", "k", 10, "Number of completions; 0 lists every match.")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "Visit every node instead of pruning by rank.")
	return cmd
}
