package markup

import (
	"strings"
	"testing"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty input", "", ""},
		{"only whitespace", "  \n\n \n", ""},
		{"plain text", "Just a sentence.", "<p>Just a sentence.</p>"},
		{"bold and italic", "**a** *b*", "<p><strong>a</strong> <em>b</em></p>"},
		{"bold is not eaten by italics", "**bold**", "<p><strong>bold</strong></p>"},
		{"italic around bold", "*a **b** c*", "<p><em>a <strong>b</strong> c</em></p>"},
		{"italic inside bold", "**a *b* c**", "<p><strong>a <em>b</em> c</strong></p>"},
		{"unmatched bold marker", "price ** tax", "<p>price ** tax</p>"},
		{"unmatched italic marker", "2 * 3", "<p>2 * 3</p>"},
		{"empty bold stays literal", "****", "<p>****</p>"},
		{"h1", "# Title", "<h1>Title</h1>"},
		{"h2", "## Title", "<h2>Title</h2>"},
		{"h3", "### Title", "<h3>Title</h3>"},
		{"four hashes are text", "#### Title", "<p>#### Title</p>"},
		{"hash without space is text", "#hashtag", "<p>#hashtag</p>"},
		{"bullet item", "- item", "<p><li>• item</li></p>"},
		{"ordered item keeps no number", "1. first", "<p><li>first</li></p>"},
		{"multi digit ordered item", "12. twelfth", "<p><li>twelfth</li></p>"},
		{"single newline", "line one\nline two", "<p>line one<br>line two</p>"},
		{"blank line splits", "one\n\ntwo", "<p>one</p><p>two</p>"},
		{"many blank lines split once", "one\n\n\n\ntwo", "<p>one</p><p>two</p>"},
		{"crlf line endings", "one\r\n\r\ntwo", "<p>one</p><p>two</p>"},
		{"heading splits segment", "# Head\nbody", "<h1>Head</h1><p>body</p>"},
		{"heading with bold", "## A **big** deal", "<h2>A <strong>big</strong> deal</h2>"},
		{"markup characters are escaped", "a <b> & c", "<p>a &lt;b&gt; &amp; c</p>"},
		{"indented heading is text", " # not", "<p> # not</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.input)
			if got != tt.expected {
				t.Errorf("Transform(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTransformLeavesNoTokens(t *testing.T) {
	input := "# Breaking\n\n**Bold** and *italic* text.\n\n- one\n- two\n\n1. first\n2. second"
	got := Transform(input)

	for _, token := range []string{"**", "# ", "- ", "1. "} {
		if strings.Contains(got, token) {
			t.Errorf("output still contains %q: %s", token, got)
		}
	}
}

func TestParagraphs(t *testing.T) {
	input := "# Breaking\n\nFirst paragraph text.\n\nSecond paragraph text."
	paragraphs := Paragraphs(input)

	if len(paragraphs) != 3 {
		t.Fatalf("Expected 3 blocks, got %d: %+v", len(paragraphs), paragraphs)
	}

	if !paragraphs[0].Heading || paragraphs[0].HTML != "<h1>Breaking</h1>" {
		t.Errorf("Expected heading block first, got %+v", paragraphs[0])
	}

	for i, p := range paragraphs[1:] {
		if p.Heading {
			t.Errorf("Block %d should not be a heading", i+1)
		}
		if !strings.HasPrefix(p.HTML, "<p>") || !strings.HasSuffix(p.HTML, "</p>") {
			t.Errorf("Block %d should be wrapped in <p>, got %s", i+1, p.HTML)
		}
	}
}

func TestParseLineKinds(t *testing.T) {
	segments := Parse("# h\n- b\n3. o\ntext")
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}

	kinds := []LineKind{LineHeading, LineBullet, LineOrdered, LineText}
	for i, line := range segments[0] {
		if line.Kind != kinds[i] {
			t.Errorf("Line %d: expected kind %d, got %d", i, kinds[i], line.Kind)
		}
	}

	if segments[0][0].Level != 1 {
		t.Errorf("Expected heading level 1, got %d", segments[0][0].Level)
	}
}
