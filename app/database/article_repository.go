package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/lysyi3m/impacto-diario/app/news"
)

var articleColumns = []string{
	"id", "title", "slug", "summary", "content", "image_url", "image_credits",
	"category", "location", "author", "is_featured", "is_breaking", "is_editor_choice",
	"views", "published_at", "created_at", "updated_at",
}

type ArticleStore struct {
	db  *DB
	now func() time.Time
}

var _ ArticleRepository = (*ArticleStore)(nil)

func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db, now: time.Now}
}

func scanArticle(row rowScanner) (*news.Article, error) {
	var a news.Article
	var category string
	var publishedAt, createdAt, updatedAt int64

	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Summary, &a.Content, &a.ImageURL, &a.ImageCredits,
		&category, &a.Location, &a.Author, &a.IsFeatured, &a.IsBreaking, &a.IsEditorChoice,
		&a.Views, &publishedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Category = news.Category(category)
	a.PublishedAt = fromMillis(publishedAt)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)

	return &a, nil
}

func (r *ArticleStore) getOne(ctx context.Context, where sq.Eq) (*news.Article, error) {
	query, args, err := qb.Select(articleColumns...).From("articles").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

func (r *ArticleStore) GetArticle(ctx context.Context, id string) (*news.Article, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *ArticleStore) GetArticleBySlug(ctx context.Context, slug string) (*news.Article, error) {
	return r.getOne(ctx, sq.Eq{"slug": slug})
}

func applyArticleFilter(b sq.SelectBuilder, filter news.Filter) sq.SelectBuilder {
	if filter.Category != "" {
		b = b.Where(sq.Eq{"category": string(filter.Category)})
	}
	if filter.Location != "" {
		b = b.Where(sq.Eq{"location": filter.Location})
	}
	if filter.Featured != nil {
		b = b.Where(sq.Eq{"is_featured": *filter.Featured})
	}
	if filter.Breaking != nil {
		b = b.Where(sq.Eq{"is_breaking": *filter.Breaking})
	}
	if filter.EditorChoice != nil {
		b = b.Where(sq.Eq{"is_editor_choice": *filter.EditorChoice})
	}
	if filter.ExcludeID != "" {
		b = b.Where(sq.NotEq{"id": filter.ExcludeID})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		b = b.Where(sq.Or{
			sq.Like{"title": pattern},
			sq.Like{"summary": pattern},
			sq.Like{"content": pattern},
		})
	}
	return b
}

func (r *ArticleStore) ListArticles(ctx context.Context, filter news.Filter) ([]news.Article, error) {
	b := applyArticleFilter(qb.Select(articleColumns...).From("articles"), filter).
		OrderBy("created_at DESC", "id DESC")

	switch {
	case filter.Limit > 0:
		b = b.Limit(uint64(filter.Limit))
	case filter.Offset > 0:
		// SQLite accepts OFFSET only together with LIMIT.
		b = b.Limit(math.MaxInt32)
	}
	if filter.Offset > 0 {
		b = b.Offset(uint64(filter.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []news.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *ArticleStore) CountArticles(ctx context.Context, filter news.Filter) (int, error) {
	query, args, err := applyArticleFilter(qb.Select("COUNT(*)").From("articles"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// CreateArticle assigns the id and timestamps before inserting.
func (r *ArticleStore) CreateArticle(ctx context.Context, article *news.Article) error {
	now := r.now().UTC()
	article.ID = uuid.NewString()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.PublishedAt.IsZero() {
		article.PublishedAt = now
	}

	query, args, err := qb.Insert("articles").Columns(articleColumns...).Values(
		article.ID, article.Title, article.Slug, article.Summary, article.Content,
		article.ImageURL, article.ImageCredits, string(article.Category), article.Location,
		article.Author, article.IsFeatured, article.IsBreaking, article.IsEditorChoice,
		article.Views, toMillis(article.PublishedAt), toMillis(article.CreatedAt), toMillis(article.UpdatedAt),
	).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create article: %w", translateError(err))
	}

	return nil
}

// UpdateArticle rewrites the editable fields. Views and created_at are kept.
func (r *ArticleStore) UpdateArticle(ctx context.Context, article *news.Article) error {
	article.UpdatedAt = r.now().UTC()

	query, args, err := qb.Update("articles").SetMap(map[string]any{
		"title":            article.Title,
		"slug":             article.Slug,
		"summary":          article.Summary,
		"content":          article.Content,
		"image_url":        article.ImageURL,
		"image_credits":    article.ImageCredits,
		"category":         string(article.Category),
		"location":         article.Location,
		"author":           article.Author,
		"is_featured":      article.IsFeatured,
		"is_breaking":      article.IsBreaking,
		"is_editor_choice": article.IsEditorChoice,
		"updated_at":       toMillis(article.UpdatedAt),
	}).Where(sq.Eq{"id": article.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", translateError(err))
	}

	return requireAffected(res)
}

// DeleteArticle removes the article together with its view log.
func (r *ArticleStore) DeleteArticle(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM news_views WHERE news_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete article views: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

func (r *ArticleStore) IncrementViews(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE articles SET views = views + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func translateError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return ErrDuplicate
	}
	return err
}
