package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	sacr "github.com/jamesainslie/go-sacr"
)

const maxCellWidth = 40

func configureColor(cmd *cobra.Command) {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
}

// classColor picks a color by class family.
func classColor(class string) *color.Color {
	switch class {
	case sacr.ClassPerson:
		return color.New(color.FgGreen)
	case sacr.ClassOrganisation:
		return color.New(color.FgMagenta)
	case sacr.ClassPlace:
		return color.New(color.FgBlue)
	}
	if strings.Contains(class, "named-entity") {
		return color.New(color.FgCyan)
	}
	if strings.Contains(class, "pronoun") {
		return color.New(color.FgYellow)
	}
	return color.New(color.Reset)
}

// fit truncates s to width display columns and pads it to exactly width.
func fit(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

// table writes rows as aligned columns. Cells are measured in display
// columns so wide characters line up. paint, if set, colors a cell after
// padding.
type table struct {
	header []string
	rows   [][]string
	paint  func(row, col int, cell string) string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			w := min(runewidth.StringWidth(cell), maxCellWidth)
			if w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *table) render(w io.Writer) error {
	widths := t.widths()
	bold := color.New(color.Bold)

	line := make([]string, len(t.header))
	for i, h := range t.header {
		line[i] = bold.Sprint(fit(h, widths[i]))
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(line, "  "), " ")); err != nil {
		return err
	}

	for r, row := range t.rows {
		for i, cell := range row {
			cell = fit(cell, widths[i])
			if t.paint != nil {
				cell = t.paint(r, i, cell)
			}
			line[i] = cell
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(line, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}

func mentionTable(mentions []sacr.Mention) *table {
	t := &table{header: []string{"ID", "LABELS", "CLASS", "TEXT", "OFFSET", "SENT", "FLAGS"}}
	for _, m := range mentions {
		t.add(
			fmt.Sprint(m.ID),
			strings.Join(m.Labels, ","),
			m.Class,
			m.Text,
			fmt.Sprintf("%d-%d", m.Offset.Start, m.Offset.End),
			fmt.Sprint(m.Sent),
			flags(m.Attributes),
		)
	}
	t.paint = func(row, col int, cell string) string {
		if col != 2 {
			return cell
		}
		return classColor(mentions[row].Class).Sprint(cell)
	}
	return t
}

func flags(a sacr.Attributes) string {
	var f []string
	for _, x := range []struct {
		set  bool
		name string
	}{
		{a.Pronoun, "pron"},
		{a.Proper, "propn"},
		{a.Per, "per"},
		{a.Org, "org"},
		{a.Loc, "loc"},
		{a.NER, "ner"},
	} {
		if x.set {
			f = append(f, x.name)
		}
	}
	return strings.Join(f, ",")
}
