package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/corpus-merge/internal/casename"
)

var winnowCmd = &cobra.Command{
	Use:   "winnow NAME_A NAME_B",
	Short: "Print the significant words two case names share",
	Long:  "Reduces both case names to their significant words and prints the words they share, one per line. Prints nothing when the names are unrelated.",
	Args:  cobra.ExactArgs(2),
	RunE:  runWinnow,
}

var winnowStopwords []string

func init() {
	winnowCmd.Flags().StringSliceVar(&winnowStopwords, "stopword", nil, "Extra words to ignore (repeatable)")

	rootCmd.AddCommand(winnowCmd)
}

func runWinnow(cmd *cobra.Command, args []string) error {
	w := casename.NewDefaultWinnower()
	if len(winnowStopwords) > 0 {
		w = casename.NewWinnower(append(casename.DefaultStopwords(), winnowStopwords...))
	}

	shared := w.Overlap(args[0], args[1])
	if len(shared) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(shared, "\n"))
	return err
}
