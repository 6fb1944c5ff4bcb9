package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ToMarkup converts extracted article HTML into the markup dialect: headings,
// paragraphs, bullet and numbered items, bold and italic spans. Anything else
// is reduced to its text.
func ToMarkup(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted HTML: %w", err)
	}

	var blocks []string
	walkBlocks(doc.Find("body"), &blocks)

	return strings.Join(blocks, "\n\n"), nil
}

func walkBlocks(s *goquery.Selection, blocks *[]string) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		switch name := goquery.NodeName(child); name {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(name[1] - '0')
			if level > 3 {
				level = 3
			}
			if text := singleLine(inline(child)); text != "" {
				*blocks = append(*blocks, strings.Repeat("#", level)+" "+text)
			}
		case "p":
			if text := normalize(inline(child)); text != "" {
				*blocks = append(*blocks, text)
			}
		case "ul", "ol":
			if list := listBlock(child, name == "ol"); list != "" {
				*blocks = append(*blocks, list)
			}
		case "#text":
			if text := normalize(child.Text()); text != "" {
				*blocks = append(*blocks, text)
			}
		case "script", "style", "noscript", "img", "figure", "picture", "svg", "iframe", "#comment":
		default:
			walkBlocks(child, blocks)
		}
	})
}

func listBlock(list *goquery.Selection, ordered bool) string {
	var items []string
	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		text := singleLine(inline(li))
		if text == "" {
			return
		}
		if ordered {
			items = append(items, strconv.Itoa(len(items)+1)+". "+text)
		} else {
			items = append(items, "- "+text)
		}
	})
	return strings.Join(items, "\n")
}

func inline(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			b.WriteString(child.Text())
		case "br":
			b.WriteString("\n")
		case "strong", "b":
			if text := strings.TrimSpace(inline(child)); text != "" {
				b.WriteString("**" + text + "**")
			}
		case "em", "i":
			if text := strings.TrimSpace(inline(child)); text != "" {
				b.WriteString("*" + text + "*")
			}
		case "script", "style", "img", "#comment":
		case "ul", "ol":
			// Nested lists flatten into the parent item.
			b.WriteString(" " + inline(child))
		default:
			b.WriteString(inline(child))
		}
	})
	return b.String()
}

// normalize collapses whitespace inside each line and drops empty lines.
func normalize(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			lines = append(lines, collapsed)
		}
	}
	return strings.Join(lines, "\n")
}

func singleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
