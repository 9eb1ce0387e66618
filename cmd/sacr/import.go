package main

import (
	"fmt"
	"sync"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sacr/internal/corpus"
	"github.com/jamesainslie/go-sacr/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import [flags] DIR",
	Short: "Annotate every file in DIR and store the results",
	Long: `Import loads the .sacr and .txt files in DIR, annotates them in
parallel and saves documents and mentions to the database. Nothing is
stored if any file fails to parse.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Bool("progress", true, "show a progress bar")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, logger, annotator, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = annotator.Close() }()

	files, err := corpus.LoadCorpus(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no corpus files in %s", args[0])
	}
	logger.Debug("loaded corpus", "dir", args[0], "files", len(files))

	var tick func(*corpus.File)
	if show, _ := cmd.Flags().GetBool("progress"); show {
		uiprogress.Start()
		bar := uiprogress.AddBar(len(files))
		bar.AppendCompleted()
		bar.PrependElapsed()

		var (
			mu   sync.Mutex
			last string
		)
		bar.AppendFunc(func(*uiprogress.Bar) string {
			mu.Lock()
			defer mu.Unlock()
			return last
		})
		tick = func(f *corpus.File) {
			mu.Lock()
			last = f.ID
			mu.Unlock()
			bar.Incr()
		}
	}

	results, err := corpus.Process(cmd.Context(), files, annotator, cfg.Jobs, tick)
	if tick != nil {
		uiprogress.Stop()
	}
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	for _, r := range results {
		rec, err := st.SaveDocument(cmd.Context(), r.File.ID, r.File.Header.Title(), r.Document)
		if err != nil {
			return fmt.Errorf("saving %s: %w", r.File.ID, err)
		}
		logger.Debug("stored document", "id", rec.ID, "name", rec.Name, "mentions", rec.Mentions)
	}

	s := corpus.Summarize(results)
	fmt.Fprintf(cmd.OutOrStdout(),
		"imported %d documents into %s: %d mentions, %d chains (mean %.1f), %.0f%% pronouns, %.0f%% named\n",
		s.Documents, cfg.Database, s.Mentions, s.Chains, s.MeanChain, 100*s.PronounRate, 100*s.NamedRate)
	return nil
}
