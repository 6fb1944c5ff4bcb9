package news

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// Slugify turns a headline into a URL slug. Accented letters are folded to
// their base letter before anything outside [a-z0-9 -] is dropped, so
// "Eleições em São Paulo" becomes "eleicoes-em-sao-paulo".
func Slugify(title string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, title)
	if err != nil {
		folded = title
	}

	slug := strings.ToLower(strings.TrimSpace(folded))
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(strings.TrimSpace(slug), "-")

	return slug
}

// Validate normalises the editable fields and fills in the slug and
// category defaults.
func (a *Article) Validate() error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}

	if a.Category == "" {
		a.Category = CategoryPrincipal
	}
	category, err := ParseCategory(string(a.Category))
	if err != nil {
		return err
	}
	a.Category = category

	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Slug == "" {
		return fmt.Errorf("title must contain at least one letter or digit")
	}

	return nil
}
