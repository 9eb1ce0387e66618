package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sentencesCmd = &cobra.Command{
	Use:   "sentences [flags] FILE",
	Short: "Split an annotated file into sentences",
	Args:  cobra.ExactArgs(1),
	RunE:  runSentences,
}

func init() {
	sentencesCmd.Flags().Bool("plain", false, "print sentences of the markup-free text")
}

func runSentences(cmd *cobra.Command, args []string) error {
	_, _, annotator, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = annotator.Close() }()

	f, err := readInput(args[0])
	if err != nil {
		return err
	}

	doc, err := annotator.Annotate(cmd.Context(), f.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Path, err)
	}

	sentences := doc.Sentences
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		sentences, err = annotator.Split(cmd.Context(), doc.Text)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for i, s := range sentences {
		fmt.Fprintf(out, "%4d  %s\n", i, s)
	}
	return nil
}
