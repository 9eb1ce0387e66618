package corpus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	sacr "github.com/jamesainslie/go-sacr"
)

type failingAnnotator struct{ fail string }

func (f failingAnnotator) Annotate(ctx context.Context, raw string) (*sacr.Document, error) {
	if raw == f.fail {
		return nil, errors.New("boom")
	}
	return &sacr.Document{Raw: raw}, nil
}

func TestProcess(t *testing.T) {
	files := []*File{
		{ID: "a", Body: `{M1:jenis="named-entity person" Budi} pergi.`},
		{ID: "b", Body: `{M1:jenis="pronoun" Dia} pulang.`},
		{ID: "c", Body: "Tanpa anotasi."},
	}

	var done atomic.Int32
	results, err := Process(context.Background(), files, sacr.New(), 2, func(*File) { done.Add(1) })
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.File != files[i] {
			t.Errorf("result %d: file %q, want %q", i, r.File.ID, files[i].ID)
		}
	}
	if got := len(results[0].Document.Mentions); got != 1 {
		t.Errorf("first document: %d mentions, want 1", got)
	}
	if !results[1].Document.Mentions[0].Pronoun {
		t.Error("second document: expected pronoun mention")
	}
	if got := done.Load(); got != 3 {
		t.Errorf("progress called %d times, want 3", got)
	}
}

func TestProcess_ParseError(t *testing.T) {
	files := []*File{
		{ID: "ok", Body: "Baik."},
		{ID: "bad", Body: "tutup } tanpa buka"},
	}

	_, err := Process(context.Background(), files, sacr.New(), 1, nil)
	var perr *sacr.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *sacr.ParseError, got: %v", err)
	}
	if !errors.Is(err, sacr.ErrUnexpectedClose) {
		t.Errorf("expected ErrUnexpectedClose, got: %v", err)
	}
}

func TestProcess_AnnotatorError(t *testing.T) {
	files := []*File{{ID: "x", Body: "x"}, {ID: "y", Body: "y"}}

	if _, err := Process(context.Background(), files, failingAnnotator{fail: "y"}, 0, nil); err == nil {
		t.Error("expected error")
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Process(ctx, []*File{{ID: "a", Body: "a"}}, failingAnnotator{}, 1, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Document: &sacr.Document{Mentions: []sacr.Mention{
			{ID: 1, Labels: []string{"M1"}, Attributes: sacr.Attributes{NER: true, Per: true}},
			{ID: 2, Labels: []string{"M1"}, Depth: 1, Attributes: sacr.Attributes{Pronoun: true}},
			{ID: 3, Labels: []string{"M2"}},
		}}},
		{Document: &sacr.Document{}},
	}

	s := Summarize(results)
	want := Stats{
		Documents:   2,
		Mentions:    3,
		Chains:      1,
		Pronouns:    1,
		Named:       1,
		Nested:      1,
		PronounRate: 1.0 / 3,
		NamedRate:   1.0 / 3,
		MeanChain:   2,
	}
	if s != want {
		t.Errorf("Summarize() = %+v, want %+v", s, want)
	}
}
