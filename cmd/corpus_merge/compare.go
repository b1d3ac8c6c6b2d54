package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/corpus-merge/internal/similarity"
)

var compareCmd = &cobra.Command{
	Use:   "compare FILE_A FILE_B",
	Short: "Score the similarity of two opinion texts",
	Long:  "Prints the 0-100 similarity score of two opinion texts. Markup is reduced to its opinion content before comparing.",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	b, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	score := similarity.Score(string(a), string(b))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), score)
	return err
}
