package news

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryPrincipal  Category = "principal"
	CategoryBrasil     Category = "brasil"
	CategoryMundo      Category = "mundo"
	CategoryPolitica   Category = "politica"
	CategoryEconomia   Category = "economia"
	CategorySeguranca  Category = "seguranca"
	CategoryEducacao   Category = "educacao"
	CategoryCiencia    Category = "ciencia"
	CategorySaude      Category = "saude"
	CategoryTecnologia Category = "tecnologia"
	CategoryUltimas    Category = "ultimas"
)

var Categories = []Category{
	CategoryPrincipal,
	CategoryBrasil,
	CategoryMundo,
	CategoryPolitica,
	CategoryEconomia,
	CategorySeguranca,
	CategoryEducacao,
	CategoryCiencia,
	CategorySaude,
	CategoryTecnologia,
	CategoryUltimas,
}

var displayNames = map[Category]string{
	CategoryPrincipal:  "Principal",
	CategoryBrasil:     "Brasil",
	CategoryMundo:      "Mundo",
	CategoryPolitica:   "Política",
	CategoryEconomia:   "Economia",
	CategorySeguranca:  "Segurança",
	CategoryEducacao:   "Educação",
	CategoryCiencia:    "Ciência",
	CategorySaude:      "Saúde",
	CategoryTecnologia: "Tecnologia",
	CategoryUltimas:    "Últimas",
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := displayNames[c]; !ok {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

// DisplayName falls back to the raw key for categories outside the catalog.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

type Article struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Summary        string    `json:"summary,omitempty"`
	Content        string    `json:"content,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	ImageCredits   string    `json:"image_credits,omitempty"`
	Category       Category  `json:"category"`
	Location       string    `json:"location"`
	Author         string    `json:"author,omitempty"`
	IsFeatured     bool      `json:"is_featured"`
	IsBreaking     bool      `json:"is_breaking"`
	IsEditorChoice bool      `json:"is_editor_choice"`
	Views          int       `json:"views"`
	PublishedAt    time.Time `json:"published_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Filter selects articles from the store. Nil flags and empty strings match
// everything; results are ordered newest first.
type Filter struct {
	Category     Category
	Location     string
	Featured     *bool
	Breaking     *bool
	EditorChoice *bool
	Query        string
	ExcludeID    string
	Limit        int
	Offset       int
}

// Rendered is an article ready for display.
type Rendered struct {
	Article
	CategoryName string `json:"category_name"`
	HTML         string `json:"html"`
}
