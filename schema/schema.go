// Package schema projects annotated documents into dataset records: a
// knowledge-base view with entities and coreference chains, and a flat
// per-mention table.
package schema

import (
	"strconv"

	sacr "github.com/jamesainslie/go-sacr"
)

// KBExample is one document in knowledge-base form.
type KBExample struct {
	ID           string        `json:"id"`
	DocumentID   string        `json:"document_id"`
	Passages     []Passage     `json:"passages"`
	Entities     []Entity      `json:"entities"`
	Coreferences []Coreference `json:"coreferences"`
}

// Passage is a span of document text.
type Passage struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Text    []string `json:"text"`
	Offsets [][2]int `json:"offsets"`
}

// Entity is one mention.
type Entity struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Text    []string `json:"text"`
	Offsets [][2]int `json:"offsets"`
}

// Coreference groups entity IDs that refer to the same referent.
type Coreference struct {
	ID        string   `json:"id"`
	EntityIDs []string `json:"entity_ids"`
}

// Row is one mention in flat table form.
type Row struct {
	DocumentID string   `json:"document_id"`
	ID         int      `json:"id"`
	Labels     []string `json:"labels"`
	Class      string   `json:"class"`
	Text       string   `json:"text"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Depth      int      `json:"depth"`
	Pronoun    bool     `json:"pronoun"`
	Proper     bool     `json:"proper"`
	Sent       int      `json:"sent"`
	Cluster    int      `json:"cluster"`
	Per        bool     `json:"per"`
	Org        bool     `json:"org"`
	Loc        bool     `json:"loc"`
	NER        bool     `json:"ner"`
}

// KB builds the knowledge-base view of doc. Entity IDs are "<id>_<n>" where
// n is the mention's ID; the passage is "<id>_0". Coreference chains are
// emitted only for clusters of two or more mentions.
func KB(id string, doc *sacr.Document) KBExample {
	ex := KBExample{
		ID:         id,
		DocumentID: id,
		Passages: []Passage{{
			ID:      id + "_0",
			Type:    "text",
			Text:    []string{doc.Text},
			Offsets: [][2]int{{0, len([]rune(doc.Text))}},
		}},
		Entities:     make([]Entity, 0, len(doc.Mentions)),
		Coreferences: []Coreference{},
	}

	for _, m := range doc.Mentions {
		ex.Entities = append(ex.Entities, Entity{
			ID:      entityID(id, m.ID),
			Type:    m.Class,
			Text:    []string{m.Text},
			Offsets: [][2]int{{m.Offset.Start, m.Offset.End}},
		})
	}

	for _, cluster := range Clusters(doc.Mentions) {
		if len(cluster) < 2 {
			continue
		}
		ids := make([]string, len(cluster))
		for i, idx := range cluster {
			ids[i] = entityID(id, doc.Mentions[idx].ID)
		}
		ex.Coreferences = append(ex.Coreferences, Coreference{
			ID:        id + "_coref_" + strconv.Itoa(len(ex.Coreferences)+1),
			EntityIDs: ids,
		})
	}

	return ex
}

// Rows flattens doc into one row per mention.
func Rows(id string, doc *sacr.Document) []Row {
	rows := make([]Row, len(doc.Mentions))
	for i, m := range doc.Mentions {
		rows[i] = Row{
			DocumentID: id,
			ID:         m.ID,
			Labels:     append([]string(nil), m.Labels...),
			Class:      m.Class,
			Text:       m.Text,
			Start:      m.Offset.Start,
			End:        m.Offset.End,
			Depth:      m.Depth,
			Pronoun:    m.Pronoun,
			Proper:     m.Proper,
			Sent:       m.Sent,
			Cluster:    m.Cluster,
			Per:        m.Per,
			Org:        m.Org,
			Loc:        m.Loc,
			NER:        m.NER,
		}
	}
	return rows
}

func entityID(doc string, mention int) string {
	return doc + "_" + strconv.Itoa(mention)
}
