package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sacr/internal/corpus"
	"github.com/jamesainslie/go-sacr/internal/export"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] FILE",
	Short: "Parse an annotated file and print its mentions",
	Long: `Parse reads a SACR file ("-" for stdin), resolves nested annotations
into mentions and derives their attributes. Output is a table unless
--output selects an export encoding.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringP("output", "o", "table", "output format (table|jsonl|msgpack|proto)")
	parseCmd.Flags().String("shape", string(export.Rows), "record shape for export formats (kb|rows)")
	parseCmd.Flags().Bool("text", false, "print the plain text before the table")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")

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

	out := cmd.OutOrStdout()
	if format == "table" {
		if showText, _ := cmd.Flags().GetBool("text"); showText {
			fmt.Fprintf(out, "%s\n\n", doc.Text)
		}
		return mentionTable(doc.Mentions).render(out)
	}

	ef, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	shapeName, _ := cmd.Flags().GetString("shape")
	shape, err := export.ParseShape(shapeName)
	if err != nil {
		return err
	}

	w, err := export.NewWriter(ef, out)
	if err != nil {
		return err
	}
	if err := export.WriteDocument(w, shape, f.ID, doc); err != nil {
		return err
	}
	return w.Flush()
}

// readInput loads a corpus file, or standard input for "-".
func readInput(path string) (*corpus.File, error) {
	if path != "-" {
		return corpus.LoadFile(path)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	header, body, err := corpus.ParseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	return &corpus.File{
		ID:     "stdin",
		Path:   "<stdin>",
		Header: header,
		Body:   body,
	}, nil
}
