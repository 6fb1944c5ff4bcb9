package markup

type NodeKind int

const (
	NodeText NodeKind = iota
	NodeLiteral
	NodeStrong
	NodeEmphasis
)

// Node is an inline element of a single line.
// Literal nodes carry unmatched markers and are emitted verbatim.
type Node struct {
	Kind     NodeKind
	Text     string
	Children []Node
}

type LineKind int

const (
	LineText LineKind = iota
	LineHeading
	LineBullet
	LineOrdered
)

type Line struct {
	Kind   LineKind
	Level  int // 1-3 for headings
	Inline []Node
}

// Segment is a run of non-blank lines delimited by blank lines.
type Segment []Line

// Paragraph is one rendered block of an article body. Headings are
// standalone blocks and do not count as text paragraphs for ad placement.
type Paragraph struct {
	HTML    string
	Heading bool
}
