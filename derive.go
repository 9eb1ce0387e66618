package sacr

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Classes recognised by the attribute flags.
const (
	ClassPerson       = "named-entity person"
	ClassOrganisation = "named-entity organisation"
	ClassPlace        = "named-entity place"

	namedEntity = "named-entity"
)

// TagProperNoun is the part-of-speech tag that marks a proper noun.
const TagProperNoun = "PROPN"

// labelMarker prefixes a label when searching sentences for it.
const labelMarker = "M"

// Indonesian personal pronouns.
var pronouns = map[string]struct{}{
	"aku": {}, "saya": {}, "daku": {}, "hamba": {},
	"kamu": {}, "engkau": {}, "kau": {}, "dikau": {}, "anda": {}, "kalian": {},
	"dia": {}, "ia": {}, "beliau": {},
	"kami": {}, "kita": {}, "mereka": {},
}

// Possessive and object clitics annotated as standalone mentions.
var clitics = map[string]struct{}{
	"ku": {}, "mu": {}, "nya": {},
}

// POSTagger assigns a universal part-of-speech tag to a mention's text.
type POSTagger interface {
	Tag(text string) string
}

// noTagger is used when no tagger is configured; it never reports a tag.
type noTagger struct{}

func (noTagger) Tag(string) string { return "" }

// Derive returns a copy of mentions with Attributes filled in. sentences are
// the document's sentences as produced by a splitter over the annotated text.
// A nil tagger leaves Proper false.
//
// Sent is the first sentence containing "M"+label for every label of the
// mention. Labels keep their markup spelling, so a mention written
// {M1:...} is only found in a sentence containing "MM1". Ordinary markup
// never contains such a marker and Annotate reports Sent 0 for it.
func Derive(mentions []Mention, sentences []string, tagger POSTagger) []Mention {
	if tagger == nil {
		tagger = noTagger{}
	}
	lower := cases.Lower(language.Indonesian)

	out := make([]Mention, len(mentions))
	for i, m := range mentions {
		m.Labels = append([]string(nil), m.Labels...)
		m.Attributes = Attributes{
			Pronoun: isPronoun(lower.String(m.Text)),
			Proper:  tagger.Tag(m.Text) == TagProperNoun,
			Sent:    sentenceOf(m.Labels, sentences),
			Cluster: i,
			Per:     m.Class == ClassPerson,
			Org:     m.Class == ClassOrganisation,
			Loc:     m.Class == ClassPlace,
			NER:     strings.Contains(m.Class, namedEntity),
		}
		out[i] = m
	}
	return out
}

func isPronoun(text string) bool {
	if _, ok := pronouns[text]; ok {
		return true
	}
	_, ok := clitics[text]
	return ok
}

// sentenceOf returns the first sentence containing a marker for every label,
// or 0 when there is none.
func sentenceOf(labels []string, sentences []string) int {
	if len(labels) == 0 {
		return 0
	}
	for i, s := range sentences {
		if containsAll(s, labels) {
			return i
		}
	}
	return 0
}

func containsAll(sentence string, labels []string) bool {
	for _, l := range labels {
		if !strings.Contains(sentence, labelMarker+l) {
			return false
		}
	}
	return true
}
