package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sacr/schema"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		records, err := st.ListDocuments(cmd.Context(), limit, offset)
		if err != nil {
			return err
		}

		t := &table{header: []string{"ID", "NAME", "TITLE", "MENTIONS", "CREATED"}}
		for _, r := range records {
			t.add(r.ID, r.Name, r.Title, fmt.Sprint(r.Mentions), r.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return t.render(cmd.OutOrStdout())
	},
}

var showCmd = &cobra.Command{
	Use:   "show [flags] ID",
	Short: "Show a stored document's mentions and chains",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		stored, err := st.GetDocument(ctx, args[0])
		if err != nil {
			return err
		}
		doc := stored.Document

		if label, _ := cmd.Flags().GetString("label"); label != "" {
			doc.Mentions, err = st.MentionsByLabel(ctx, stored.ID, label)
			if err != nil {
				return err
			}
		}

		bold := color.New(color.Bold)
		fmt.Fprintf(out, "%s %s\n", bold.Sprint(stored.Name), stored.Title)
		fmt.Fprintf(out, "%s\n\n", doc.Text)
		if err := mentionTable(doc.Mentions).render(out); err != nil {
			return err
		}

		var chains []string
		for _, c := range schema.Clusters(doc.Mentions) {
			if len(c) < 2 {
				continue
			}
			texts := make([]string, len(c))
			for i, idx := range c {
				texts[i] = doc.Mentions[idx].Text
			}
			chains = append(chains, strings.Join(texts, " -> "))
		}
		if len(chains) > 0 {
			fmt.Fprintf(out, "\n%s\n", bold.Sprint("chains"))
			for _, c := range chains {
				fmt.Fprintf(out, "  %s\n", c)
			}
		}
		return nil
	},
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Count stored mentions per class",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		counts, err := st.Classes(cmd.Context())
		if err != nil {
			return err
		}

		t := &table{header: []string{"CLASS", "MENTIONS"}}
		for _, c := range counts {
			t.add(c.Class, fmt.Sprint(c.Count))
		}
		t.paint = func(row, col int, cell string) string {
			if col != 0 {
				return cell
			}
			return classColor(counts[row].Class).Sprint(cell)
		}
		return t.render(cmd.OutOrStdout())
	},
}

func init() {
	lsCmd.Flags().Int("limit", 50, "maximum documents to list")
	lsCmd.Flags().Int("offset", 0, "documents to skip")
	showCmd.Flags().String("label", "", "only show mentions carrying this label")
}
