package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/cockroachdb/errors"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

func newMergeCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge -o <output> <corpus>...",
		Short: "Merge corpora, summing the counts of repeated terms",
		Long: `merge loads every corpus into one trie and writes every term back out.
The output is compressed according to its extension (.gz, .zst).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.Wrap(errArgs, "--output is required")
			}
			t, _, err := flags.loadCorpora(args)
			if err != nil {
				return err
			}

			sep := string(flags.loadOptions().Separator)
			terms := 0
			err = utils.WriteFileAtomic(output, func(w io.Writer) error {
				zw, err := dictionary.NewWriter(w, dictionary.FormatForPath(output))
				if err != nil {
					return err
				}
				// Walk rather than Dump: a freshly loaded trie is clean and
				// Dump would write nothing.
				err = t.Walk("", func(term string, freq uint64) error {
					terms++
					_, err := io.WriteString(zw, term+sep+strconv.FormatUint(freq, 10)+"\n")
					return err
				})
				if err != nil {
					zw.Close()
					return err
				}
				return zw.Close()
			})
			if err != nil {
				return errors.Wrapf(err, "writing %s", output)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "merged %d files into %s: %d terms, %s\n",
				len(args), output, terms, units.HumanSize(float64(utils.FileSize(output))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write the merged corpus to.")
	return cmd
}
