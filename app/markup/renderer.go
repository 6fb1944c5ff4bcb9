package markup

import (
	"strconv"
	"strings"
)

const bullet = "• "

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Transform converts an article body into HTML. Empty input yields an empty
// string.
func Transform(body string) string {
	var b strings.Builder
	for _, p := range Paragraphs(body) {
		b.WriteString(p.HTML)
	}
	return b.String()
}

// Paragraphs returns the rendered blocks of body in document order.
func Paragraphs(body string) []Paragraph {
	return Render(Parse(body))
}

// Render turns parsed segments into paragraphs. Heading lines are split out
// of their segment; the remaining consecutive lines are joined with <br> and
// wrapped in <p>.
func Render(segments []Segment) []Paragraph {
	var paragraphs []Paragraph

	for _, segment := range segments {
		var lines []string

		flush := func() {
			if len(lines) == 0 {
				return
			}
			content := strings.Join(lines, "<br>")
			lines = nil
			if isBlank(content) {
				return
			}
			paragraphs = append(paragraphs, Paragraph{HTML: "<p>" + content + "</p>"})
		}

		for _, line := range segment {
			if line.Kind == LineHeading {
				flush()
				paragraphs = append(paragraphs, Paragraph{HTML: renderHeading(line), Heading: true})
				continue
			}
			lines = append(lines, renderLine(line))
		}
		flush()
	}

	return paragraphs
}

func renderHeading(line Line) string {
	tag := "h" + strconv.Itoa(line.Level)
	return "<" + tag + ">" + renderInline(line.Inline) + "</" + tag + ">"
}

func renderLine(line Line) string {
	switch line.Kind {
	case LineBullet:
		return "<li>" + bullet + renderInline(line.Inline) + "</li>"
	case LineOrdered:
		return "<li>" + renderInline(line.Inline) + "</li>"
	default:
		return renderInline(line.Inline)
	}
}

func renderInline(nodes []Node) string {
	var b strings.Builder
	writeInline(&b, nodes)
	return b.String()
}

func writeInline(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n.Kind {
		case NodeText:
			b.WriteString(textEscaper.Replace(n.Text))
		case NodeLiteral:
			b.WriteString(n.Text)
		case NodeStrong:
			b.WriteString("<strong>")
			writeInline(b, n.Children)
			b.WriteString("</strong>")
		case NodeEmphasis:
			b.WriteString("<em>")
			writeInline(b, n.Children)
			b.WriteString("</em>")
		}
	}
}

func isBlank(content string) bool {
	return strings.TrimSpace(strings.ReplaceAll(content, "<br>", "")) == ""
}
