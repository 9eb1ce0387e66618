package sacr

// Offset is a half-open [Start, End) range of character (code point)
// positions in a document's plain text.
type Offset struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of characters covered by the offset.
func (o Offset) Len() int {
	return o.End - o.Start
}

// Mention is one closed annotation span that was not folded into a parent.
type Mention struct {
	// ID is assigned sequentially from 1 in closing order.
	ID     int      `json:"id"`
	Labels []string `json:"labels"`
	Class  string   `json:"class"`
	Text   string   `json:"text"`
	Offset Offset   `json:"offset"`

	// Depth is the number of spans that enclosed this one when it opened.
	Depth int `json:"depth"`

	Attributes
}

// Attributes are the per-mention classifications filled in by Derive.
type Attributes struct {
	Pronoun bool `json:"pronoun"`
	Proper  bool `json:"proper"`

	// Sent is the index of the first sentence carrying markers for all labels.
	Sent int `json:"sent"`

	// Cluster is the mention's position in derivation order. It is not a
	// coreference grouping; see the schema package for that.
	Cluster int `json:"cluster"`

	Per bool `json:"per"`
	Org bool `json:"org"`
	Loc bool `json:"loc"`
	NER bool `json:"ner"`
}

// frame is one open span on the parse stack.
type frame struct {
	labels []string
	class  string
	text   []byte
	start  int
	depth  int
}

// absorb folds a closed child span into f. The child's text has already
// been appended by the caller, so only class and labels move here.
func (f *frame) absorb(child *frame) {
	if f.class == "" {
		f.class = child.class
	}
	f.labels = append(f.labels, child.labels...)
}

func (f *frame) mention(id, end int) Mention {
	return Mention{
		ID:     id,
		Labels: f.labels,
		Class:  f.class,
		Text:   string(f.text),
		Offset: Offset{Start: f.start, End: end},
		Depth:  f.depth,
	}
}
