package news

import "sort"

// The helpers below work on a list already ordered newest first, as the
// store returns it. None of them mutate the input.

func Urgent(articles []Article) *Article {
	for i := range articles {
		if articles[i].IsBreaking {
			a := articles[i]
			return &a
		}
	}
	return nil
}

func Featured(articles []Article) []Article {
	return newest(filter(articles, func(a Article) bool { return a.IsFeatured }), 5)
}

func Latest(articles []Article, limit int) []Article {
	return head(articles, limit)
}

func ByCategory(articles []Article, category Category, limit int) []Article {
	return head(filter(articles, func(a Article) bool { return a.Category == category }), limit)
}

func ByLocation(articles []Article, location string, limit int) []Article {
	return head(filter(articles, func(a Article) bool { return a.Location == location }), limit)
}

func Popular(articles []Article, limit int) []Article {
	sorted := append([]Article(nil), articles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})
	return head(sorted, limit)
}

func EditorChoice(articles []Article, limit int) []Article {
	return newest(filter(articles, func(a Article) bool { return a.IsEditorChoice }), limit)
}

// TrendingCategories returns up to five categories ranked by summed views.
func TrendingCategories(articles []Article) []Category {
	totals := make(map[Category]int)
	var order []Category
	for _, a := range articles {
		if _, seen := totals[a.Category]; !seen {
			order = append(order, a.Category)
		}
		totals[a.Category] += a.Views
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})

	if len(order) > 5 {
		order = order[:5]
	}
	return order
}

func filter(articles []Article, keep func(Article) bool) []Article {
	var out []Article
	for _, a := range articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func newest(articles []Article, limit int) []Article {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return head(articles, limit)
}

func head(articles []Article, limit int) []Article {
	if limit >= 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
