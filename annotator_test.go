package sacr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type stubSplitter struct {
	sentences []string
	err       error
	closed    bool
}

func (s *stubSplitter) Split(context.Context, string) ([]string, error) {
	return s.sentences, s.err
}

func (s *stubSplitter) Close() error {
	s.closed = true
	return nil
}

func TestAnnotator_Annotate(t *testing.T) {
	raw := `{M1:jenis="named-entity person" Budi} pergi ke pasar. ` +
		`Di sana {M2:jenis="" dia} bertemu {M3:jenis="named-entity person" Ani}.`

	ann := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer func() { _ = ann.Close() }()

	doc, err := ann.Annotate(context.Background(), raw)
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}

	if want := "Budi pergi ke pasar. Di sana dia bertemu Ani."; doc.Text != want {
		t.Errorf("Text = %q, want %q", doc.Text, want)
	}
	if doc.Raw != raw {
		t.Error("Raw not preserved")
	}
	if len(doc.Sentences) != 2 {
		t.Fatalf("got %d sentences, want 2: %q", len(doc.Sentences), doc.Sentences)
	}
	if len(doc.Mentions) != 3 {
		t.Fatalf("got %d mentions, want 3", len(doc.Mentions))
	}

	budi, dia, ani := doc.Mentions[0], doc.Mentions[1], doc.Mentions[2]
	if !budi.Per || !budi.NER || budi.Pronoun {
		t.Errorf("Budi attributes = %+v", budi.Attributes)
	}
	if !dia.Pronoun || dia.NER {
		t.Errorf("dia attributes = %+v", dia.Attributes)
	}
	if ani.Cluster != 2 {
		t.Errorf("Ani cluster = %d, want 2", ani.Cluster)
	}
}

func TestAnnotator_SentWithMarkupLabels(t *testing.T) {
	ann := New()
	defer func() { _ = ann.Close() }()

	doc, err := ann.Annotate(context.Background(), sampleDocument)
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}
	if len(doc.Mentions) == 0 {
		t.Fatal("expected mentions")
	}
	for _, m := range doc.Mentions {
		if m.Sent != 0 {
			t.Errorf("mention %d %v: Sent = %d, want 0", m.ID, m.Labels, m.Sent)
		}
	}

	// The same labels resolve once a sentence carries the "M"-prefixed marker.
	split := &stubSplitter{sentences: []string{"awal", "MM1 MM2"}}
	doc, err = New(WithSplitter(split)).Annotate(context.Background(),
		`{M1:jenis="" {M2:jenis="" x}}`)
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}
	if got := doc.Mentions[0].Sent; got != 1 {
		t.Errorf("Sent = %d, want 1", got)
	}
}

func TestAnnotator_ParseErrorIsFatal(t *testing.T) {
	split := &stubSplitter{}
	ann := New(WithSplitter(split))

	doc, err := ann.Annotate(context.Background(), `{M1:jenis="x" teks`)
	if !errors.Is(err, ErrUnclosedSpan) {
		t.Fatalf("Annotate() error = %v, want ErrUnclosedSpan", err)
	}
	if doc != nil {
		t.Error("expected no document on parse error")
	}
}

func TestAnnotator_SplitterError(t *testing.T) {
	boom := errors.New("boom")
	ann := New(WithSplitter(&stubSplitter{err: boom}))

	if _, err := ann.Annotate(context.Background(), "teks"); !errors.Is(err, boom) {
		t.Errorf("Annotate() error = %v, want %v", err, boom)
	}
}

func TestAnnotator_UsesSplitterAndTagger(t *testing.T) {
	split := &stubSplitter{sentences: []string{"lain", "ada MA di sini"}}
	ann := New(WithSplitter(split), WithTagger(fixedTagger{"Ani": "PROPN"}))

	doc, err := ann.Annotate(context.Background(), `{A:jenis="named-entity person" Ani}`)
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}
	m := doc.Mentions[0]
	if m.Sent != 1 {
		t.Errorf("Sent = %d, want 1", m.Sent)
	}
	if !m.Proper {
		t.Error("expected Proper from tagger")
	}

	if err := ann.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !split.closed {
		t.Error("expected Close to close the splitter")
	}
}

func TestAnnotator_Split(t *testing.T) {
	ann := New()
	got, err := ann.Split(context.Background(), "Budi pergi. Ani pulang.")
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(got) != 2 || got[0] != "Budi pergi." || got[1] != "Ani pulang." {
		t.Errorf("Split() = %q", got)
	}
}
