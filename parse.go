package sacr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse scans one SACR-annotated document and returns its mentions in
// closing order.
//
// A span whose class is empty, or whose parent's class is empty, is merged
// into the parent instead of being emitted: the parent keeps its class if it
// has one and inherits the child's labels. Any syntax error aborts the parse.
func Parse(text string) ([]Mention, error) {
	res, err := parse(text)
	if err != nil {
		return nil, err
	}
	return res.mentions, nil
}

// PlainText returns text with all markup removed. Mention offsets index
// into this string by character.
func PlainText(text string) (string, error) {
	res, err := parse(text)
	if err != nil {
		return "", err
	}
	return res.plain, nil
}

type parseResult struct {
	mentions []Mention
	plain    string
}

func parse(text string) (parseResult, error) {
	tokens := splitTokens(text)

	var (
		stack    []*frame
		mentions []Mention
		plain    strings.Builder
		offset   int
		nextID   = 1
	)

	fail := func(i int, err error) (parseResult, error) {
		return parseResult{}, &ParseError{Token: i, Offset: offset, Err: err}
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok {
		case openMarker:
			f, err := openFrame(tokens[i+1:], offset, len(stack))
			if err != nil {
				return fail(i, err)
			}
			stack = append(stack, f)
			plain.Write(f.text)
			offset += utf8.RuneCount(f.text)
			i += openLen

		case closeMarker:
			if len(stack) == 0 {
				return fail(i, ErrUnexpectedClose)
			}
			child := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.text = append(parent.text, child.text...)
				if parent.class == "" || child.class == "" {
					parent.absorb(child)
					continue
				}
			}

			mentions = append(mentions, child.mention(nextID, offset))
			nextID++

		default:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.text = append(top.text, tok...)
			}
			plain.WriteString(tok)
			offset += utf8.RuneCountInString(tok)
		}
	}

	if len(stack) > 0 {
		return fail(len(tokens), fmt.Errorf("%w: %d open", ErrUnclosedSpan, len(stack)))
	}

	return parseResult{mentions: mentions, plain: plain.String()}, nil
}

// openLen is the number of tokens after `{` that belong to the open marker:
// label, `:`, property, `=`, and the class value.
const openLen = 5

// openFrame builds a frame from the tokens following an open marker.
func openFrame(rest []string, offset, depth int) (*frame, error) {
	if len(rest) < openLen {
		return nil, fmt.Errorf("%w: truncated", ErrMalformedOpen)
	}
	if rest[1] != labelSep || rest[3] != valueSep {
		return nil, fmt.Errorf("%w: %q", ErrMalformedOpen, strings.Join(rest[:openLen], ""))
	}

	m := classValue.FindStringSubmatch(rest[4])
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedClass, rest[4])
	}

	return &frame{
		labels: []string{rest[0]},
		class:  m[1],
		text:   []byte(m[2]),
		start:  offset,
		depth:  depth,
	}, nil
}
