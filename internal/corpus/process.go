package corpus

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	sacr "github.com/jamesainslie/go-sacr"
)

// Annotator is the part of *sacr.Annotator that Process needs.
type Annotator interface {
	Annotate(ctx context.Context, raw string) (*sacr.Document, error)
}

// Result pairs a corpus file with its annotation.
type Result struct {
	File     *File
	Document *sacr.Document
}

// Process annotates files with at most jobs concurrent workers. Results are
// returned in the order of files. The first error cancels the remaining work.
// If progress is non-nil it is called once per finished file, possibly from
// several goroutines.
func Process(ctx context.Context, files []*File, a Annotator, jobs int, progress func(*File)) ([]Result, error) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := a.Annotate(ctx, f.Body)
			if err != nil {
				return fmt.Errorf("annotating %s: %w", f.ID, err)
			}
			results[i] = Result{File: f, Document: doc}
			if progress != nil {
				progress(f)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
