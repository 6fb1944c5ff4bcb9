package markup

import (
	"strings"
)

// Parse splits body into blank-line separated segments and tokenizes every
// line. Lines containing only whitespace count as blank.
func Parse(body string) []Segment {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	var segments []Segment
	var current Segment

	for _, raw := range strings.Split(body, "\n") {
		if strings.TrimSpace(raw) == "" {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, parseLine(raw))
	}

	if len(current) > 0 {
		segments = append(segments, current)
	}

	return segments
}

func parseLine(raw string) Line {
	for level := 1; level <= 3; level++ {
		prefix := strings.Repeat("#", level) + " "
		if strings.HasPrefix(raw, prefix) {
			return Line{Kind: LineHeading, Level: level, Inline: parseInline(raw[len(prefix):])}
		}
	}

	if strings.HasPrefix(raw, "- ") {
		return Line{Kind: LineBullet, Inline: parseInline(raw[2:])}
	}

	if n := orderedPrefixLen(raw); n > 0 {
		return Line{Kind: LineOrdered, Inline: parseInline(raw[n:])}
	}

	return Line{Kind: LineText, Inline: parseInline(raw)}
}

// orderedPrefixLen returns the length of a leading "<digits>. " marker or 0.
func orderedPrefixLen(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || !strings.HasPrefix(s[i:], ". ") {
		return 0
	}
	return i + 2
}

func parseInline(s string) []Node {
	return emphasize(strongSpans(s))
}

// strongSpans pairs "**" markers left to right. The content between a pair
// must be non-empty. A marker without a partner becomes a literal node so the
// emphasis pass never sees its asterisks.
func strongSpans(s string) []Node {
	var nodes []Node

	for len(s) > 0 {
		open := strings.Index(s, "**")
		if open < 0 {
			nodes = appendText(nodes, s)
			break
		}

		closing := -1
		if len(s) > open+3 {
			if i := strings.Index(s[open+3:], "**"); i >= 0 {
				closing = open + 3 + i
			}
		}

		nodes = appendText(nodes, s[:open])

		if closing < 0 {
			nodes = append(nodes, Node{Kind: NodeLiteral, Text: "**"})
			s = s[open+2:]
			continue
		}

		inner := []Node{{Kind: NodeText, Text: s[open+2 : closing]}}
		nodes = append(nodes, Node{Kind: NodeStrong, Children: emphasize(inner)})
		s = s[closing+2:]
	}

	return nodes
}

type atom struct {
	star bool
	node Node
}

// emphasize pairs single "*" markers found in the text nodes of one level.
// Strong and literal nodes are opaque: a pair may enclose them but never
// starts or ends inside them.
func emphasize(nodes []Node) []Node {
	var atoms []atom
	for _, n := range nodes {
		if n.Kind != NodeText {
			atoms = append(atoms, atom{node: n})
			continue
		}

		text := n.Text
		for {
			i := strings.IndexByte(text, '*')
			if i < 0 {
				if text != "" {
					atoms = append(atoms, atom{node: Node{Kind: NodeText, Text: text}})
				}
				break
			}
			if i > 0 {
				atoms = append(atoms, atom{node: Node{Kind: NodeText, Text: text[:i]}})
			}
			atoms = append(atoms, atom{star: true})
			text = text[i+1:]
		}
	}

	var out []Node
	for i := 0; i < len(atoms); i++ {
		if !atoms[i].star {
			out = appendNode(out, atoms[i].node)
			continue
		}

		closing := -1
		for j := i + 1; j < len(atoms); j++ {
			if atoms[j].star {
				closing = j
				break
			}
		}

		if closing < 0 || closing == i+1 {
			out = appendText(out, "*")
			continue
		}

		var children []Node
		for _, a := range atoms[i+1 : closing] {
			children = appendNode(children, a.node)
		}
		out = append(out, Node{Kind: NodeEmphasis, Children: children})
		i = closing
	}

	return out
}

func appendText(nodes []Node, text string) []Node {
	if text == "" {
		return nodes
	}
	return appendNode(nodes, Node{Kind: NodeText, Text: text})
}

// appendNode merges adjacent text nodes.
func appendNode(nodes []Node, n Node) []Node {
	if n.Kind == NodeText && len(nodes) > 0 && nodes[len(nodes)-1].Kind == NodeText {
		nodes[len(nodes)-1].Text += n.Text
		return nodes
	}
	return append(nodes, n)
}
