package corpus

import (
	"github.com/jamesainslie/go-sacr/schema"
)

// Stats summarizes the mentions of one or more documents.
type Stats struct {
	Documents int
	Mentions  int
	Chains    int // clusters with two or more mentions
	Pronouns  int
	Named     int
	Nested    int // mentions opened inside another span

	PronounRate float64
	NamedRate   float64
	MeanChain   float64 // mean mentions per chain
}

// Summarize computes statistics over results.
func Summarize(results []Result) Stats {
	var s Stats
	var chained int

	for _, r := range results {
		s.Documents++
		for _, m := range r.Document.Mentions {
			s.Mentions++
			if m.Pronoun {
				s.Pronouns++
			}
			if m.NER {
				s.Named++
			}
			if m.Depth > 0 {
				s.Nested++
			}
		}
		for _, c := range schema.Clusters(r.Document.Mentions) {
			if len(c) > 1 {
				s.Chains++
				chained += len(c)
			}
		}
	}

	if s.Mentions > 0 {
		s.PronounRate = float64(s.Pronouns) / float64(s.Mentions)
		s.NamedRate = float64(s.Named) / float64(s.Mentions)
	}
	if s.Chains > 0 {
		s.MeanChain = float64(chained) / float64(s.Chains)
	}

	return s
}
