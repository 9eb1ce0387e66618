// Package sacr parses documents annotated in the SACR bracket format into
// coreference mentions.
//
// A SACR document marks each mention inline:
//
//	{M1:jenis="named-entity person" Budi} pergi ke {M2:jenis="named-entity place" Bandung}.
//
// Spans may nest. A span with an empty class, or nested directly inside one,
// carries no semantic content of its own and is folded into its parent.
//
// # Quick Start
//
//	ann := sacr.New()
//	defer ann.Close()
//
//	doc, err := ann.Annotate(ctx, raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range doc.Mentions {
//	    fmt.Println(m.ID, m.Labels, m.Class, m.Text, m.Offset)
//	}
//
// Parse and Derive can be used directly when sentences come from elsewhere.
//
// # Thread Safety
//
// Parse, PlainText and Derive keep no state between calls. An Annotator is
// safe for concurrent use when its splitter and tagger are; the splitters in
// package segment are.
package sacr
