package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sacr/internal/export"
)

const pageSize = 500

var exportCmd = &cobra.Command{
	Use:   "export [flags]",
	Short: "Write stored documents as jsonl, msgpack or proto records",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("format", string(export.JSONL), "output format (jsonl|msgpack|proto)")
	exportCmd.Flags().String("shape", string(export.KB), "record shape (kb|rows)")
	exportCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	shapeName, _ := cmd.Flags().GetString("shape")
	shape, err := export.ParseShape(shapeName)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var out io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	w, err := export.NewWriter(format, out)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	count := 0
	for offset := 0; ; offset += pageSize {
		records, err := st.ListDocuments(ctx, pageSize, offset)
		if err != nil {
			return err
		}
		for _, rec := range records {
			stored, err := st.GetDocument(ctx, rec.ID)
			if err != nil {
				return err
			}
			if err := export.WriteDocument(w, shape, rec.ID, stored.Document); err != nil {
				return err
			}
			count++
		}
		if len(records) < pageSize {
			break
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported %d documents\n", count)
	return nil
}
