package sacr

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Mention
	}{
		{
			name:  "single mention",
			input: `{M1:jenis="noun phrase other" judul novel} dari tahun 1990.`,
			want: []Mention{
				{ID: 1, Labels: []string{"M1"}, Class: "noun phrase other", Text: "judul novel", Offset: Offset{0, 11}},
			},
		},
		{
			name:  "empty-class wrapper merges with inner mention",
			input: `{M1:jenis="" {M2:jenis="named-entity person" Budi}}`,
			want: []Mention{
				{ID: 1, Labels: []string{"M1", "M2"}, Class: "named-entity person", Text: "Budi", Offset: Offset{0, 4}},
			},
		},
		{
			name:  "nested classes both emitted",
			input: `{M1:jenis="named-entity organisation" Universitas {M2:jenis="named-entity place" Indonesia}} di {M3:jenis="named-entity place" Depok}.`,
			want: []Mention{
				{ID: 1, Labels: []string{"M2"}, Class: "named-entity place", Text: "Indonesia", Offset: Offset{12, 21}, Depth: 1},
				{ID: 2, Labels: []string{"M1"}, Class: "named-entity organisation", Text: "Universitas Indonesia", Offset: Offset{0, 21}},
				{ID: 3, Labels: []string{"M3"}, Class: "named-entity place", Text: "Depok", Offset: Offset{25, 30}},
			},
		},
		{
			name:  "empty-class child keeps parent class",
			input: `{M1:jenis="named-entity person" Budi {M2:jenis="" (ketua)}}`,
			want: []Mention{
				{ID: 1, Labels: []string{"M1", "M2"}, Class: "named-entity person", Text: "Budi (ketua)", Offset: Offset{0, 12}},
			},
		},
		{
			name:  "top-level empty class is emitted",
			input: `Ada {M7:jenis="" sesuatu} di sini.`,
			want: []Mention{
				{ID: 1, Labels: []string{"M7"}, Class: "", Text: "sesuatu", Offset: Offset{4, 11}},
			},
		},
		{
			name:  "delimiters inside span text",
			input: `{M1:jenis="waktu" pukul 10:30} tadi a=b`,
			want: []Mention{
				{ID: 1, Labels: []string{"M1"}, Class: "waktu", Text: "pukul 10:30", Offset: Offset{0, 11}},
			},
		},
		{
			name:  "offsets count characters",
			input: `Kota {M1:jenis="named-entity place" Bogotá} indah`,
			want: []Mention{
				{ID: 1, Labels: []string{"M1"}, Class: "named-entity place", Text: "Bogotá", Offset: Offset{5, 11}},
			},
		},
		{
			name:  "no markup",
			input: "Tidak ada anotasi.",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() got %d mentions, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if !equalMention(got[i], tt.want[i]) {
					t.Errorf("mention[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"close without open", "teks } lagi", ErrUnexpectedClose},
		{"unclosed span", `{M1:jenis="x" teks`, ErrUnclosedSpan},
		{"unclosed nested span", `{M1:jenis="x" {M2:jenis="y" teks}`, ErrUnclosedSpan},
		{"missing label separator", `{M1 jenis="x" teks}`, ErrMalformedOpen},
		{"truncated open", "teks {", ErrMalformedOpen},
		{"unquoted class", `{M1:jenis=x teks}`, ErrMalformedClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.want)
			}
			if got != nil {
				t.Errorf("Parse() returned partial result %+v", got)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("abc } def")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Token != 1 || pe.Offset != 4 {
		t.Errorf("ParseError at token %d offset %d, want token 1 offset 4", pe.Token, pe.Offset)
	}
}

const sampleDocument = `{M1:jenis="named-entity person" Joko Widodo} lahir di {M2:jenis="named-entity place" Surakarta}. ` +
	`{M3:jenis="" {M1:jenis="" Ia}} kemudian menjadi wali kota {M4:jenis="noun phrase other" kota {M2:jenis="" itu}}. ` +
	`{M5:jenis="named-entity organisation" Partai {M6:jenis="noun phrase other" Demokrasi}} mendukung{M1:jenis="" nya}.`

func TestParse_OffsetsRoundTrip(t *testing.T) {
	plain, err := PlainText(sampleDocument)
	if err != nil {
		t.Fatalf("PlainText() error = %v", err)
	}
	mentions, err := Parse(sampleDocument)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(mentions) == 0 {
		t.Fatal("expected mentions")
	}

	runes := []rune(plain)
	for _, m := range mentions {
		if got := string(runes[m.Offset.Start:m.Offset.End]); got != m.Text {
			t.Errorf("mention %d: plain[%d:%d] = %q, text = %q", m.ID, m.Offset.Start, m.Offset.End, got, m.Text)
		}
	}
}

func TestParse_IDsIncreaseFromOne(t *testing.T) {
	mentions, err := Parse(sampleDocument)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for i, m := range mentions {
		if m.ID != i+1 {
			t.Errorf("mention[%d].ID = %d, want %d", i, m.ID, i+1)
		}
	}
}

func TestParse_EmptyClassNeverNested(t *testing.T) {
	mentions, err := Parse(sampleDocument)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for _, m := range mentions {
		if m.Class == "" && m.Depth > 0 {
			t.Errorf("empty-class mention %d emitted at depth %d", m.ID, m.Depth)
		}
	}
}

func TestParse_SampleDocument(t *testing.T) {
	mentions, err := Parse(sampleDocument)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []struct {
		labels []string
		class  string
		text   string
	}{
		{[]string{"M1"}, "named-entity person", "Joko Widodo"},
		{[]string{"M2"}, "named-entity place", "Surakarta"},
		{[]string{"M3", "M1"}, "", "Ia"},
		{[]string{"M4", "M2"}, "noun phrase other", "kota itu"},
		{[]string{"M6"}, "noun phrase other", "Demokrasi"},
		{[]string{"M5"}, "named-entity organisation", "Partai Demokrasi"},
		{[]string{"M1"}, "", "nya"},
	}
	if len(mentions) != len(want) {
		t.Fatalf("got %d mentions, want %d: %+v", len(mentions), len(want), mentions)
	}
	for i, w := range want {
		m := mentions[i]
		if !slices.Equal(m.Labels, w.labels) || m.Class != w.class || m.Text != w.text {
			t.Errorf("mention[%d] = %v %q %q, want %v %q %q", i, m.Labels, m.Class, m.Text, w.labels, w.class, w.text)
		}
	}
}

func TestPlainText(t *testing.T) {
	got, err := PlainText(`{M1:jenis="named-entity person" Budi} dan {M2:jenis="" {M3:jenis="x" Ani}}.`)
	if err != nil {
		t.Fatalf("PlainText() error = %v", err)
	}
	if want := "Budi dan Ani."; got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}

	if _, err := PlainText("}"); !errors.Is(err, ErrUnexpectedClose) {
		t.Errorf("PlainText() error = %v, want ErrUnexpectedClose", err)
	}
}

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{""}},
		{"abc", []string{"abc"}},
		{`{M1:p="x" a}`, []string{"", "{", "M1", ":", "p", "=", `"x" a`, "}", ""}},
		{"}}", []string{"", "}", "", "}", ""}},
	}

	for _, tt := range tests {
		if got := splitTokens(tt.input); !slices.Equal(got, tt.want) {
			t.Errorf("splitTokens(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func equalMention(a, b Mention) bool {
	return a.ID == b.ID &&
		slices.Equal(a.Labels, b.Labels) &&
		a.Class == b.Class &&
		a.Text == b.Text &&
		a.Offset == b.Offset &&
		a.Depth == b.Depth &&
		a.Attributes == b.Attributes
}
