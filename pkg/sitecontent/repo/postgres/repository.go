package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
)

// DBTX is an interface that allows us to use either a database connection
// pool or an open transaction. Begin is required because the ordering swap
// wraps its two writes in a transaction of its own.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository implements sitecontent.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) sitecontent.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) sitecontent.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Article operations

const articleColumns = `id, title, content, image_url, external_link, source_name,
	       published, published_date, created_at, updated_at`

func (r *Repository) CreateArticle(ctx context.Context, article *sitecontent.Article) error {
	query := `
		INSERT INTO articles (
			id, title, content, image_url, external_link, source_name,
			published, published_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		article.ID, article.Title, article.Content, article.ImageURL,
		article.ExternalLink, article.SourceName, article.Published,
		article.PublishedDate, article.CreatedAt, article.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create article", err)
	}

	return nil
}

func (r *Repository) GetArticle(ctx context.Context, id uuid.UUID) (*sitecontent.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	var article sitecontent.Article
	err := r.db.QueryRow(ctx, query, id).Scan(
		&article.ID, &article.Title, &article.Content, &article.ImageURL,
		&article.ExternalLink, &article.SourceName, &article.Published,
		&article.PublishedDate, &article.CreatedAt, &article.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sitecontent.ErrArticleNotFound
		}
		return nil, err
	}

	return &article, nil
}

func (r *Repository) UpdateArticle(ctx context.Context, article *sitecontent.Article) error {
	query := `
		UPDATE articles SET
			title = $2, content = $3, image_url = $4, external_link = $5,
			source_name = $6, published = $7, published_date = $8,
			updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		article.ID, article.Title, article.Content, article.ImageURL,
		article.ExternalLink, article.SourceName, article.Published,
		article.PublishedDate, article.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update article", err)
	}
	if tag.RowsAffected() == 0 {
		return sitecontent.ErrArticleNotFound
	}

	return nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete article", err)
	}
	if tag.RowsAffected() == 0 {
		return sitecontent.ErrArticleNotFound
	}
	return nil
}

func (r *Repository) ListArticles(ctx context.Context, filter sitecontent.ArticleFilter) ([]*sitecontent.Article, error) {
	where, args := articleWhere(filter)

	orderBy := "published_date DESC NULLS LAST, created_at DESC"
	if filter.SortBy == sitecontent.ArticleSortCreatedAtDesc {
		orderBy = "created_at DESC"
	}

	query := `SELECT ` + articleColumns + ` FROM articles` + where + ` ORDER BY ` + orderBy
	query, args = appendWindow(query, args, filter.Offset, filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list articles", err)
	}
	defer rows.Close()

	result := make([]*sitecontent.Article, 0)
	for rows.Next() {
		var article sitecontent.Article
		err := rows.Scan(
			&article.ID, &article.Title, &article.Content, &article.ImageURL,
			&article.ExternalLink, &article.SourceName, &article.Published,
			&article.PublishedDate, &article.CreatedAt, &article.UpdatedAt)
		if err != nil {
			return nil, r.handlePostgresError("list articles", err)
		}
		result = append(result, &article)
	}

	return result, rows.Err()
}

func (r *Repository) CountArticles(ctx context.Context, filter sitecontent.ArticleFilter) (int64, error) {
	where, args := articleWhere(filter)

	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`+where, args...).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count articles", err)
	}
	return count, nil
}

func articleWhere(filter sitecontent.ArticleFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	switch filter.Publish {
	case sitecontent.PublishedOnly:
		clauses = append(clauses, "published = TRUE")
	case sitecontent.DraftsOnly:
		clauses = append(clauses, "published = FALSE")
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(title ILIKE %s OR content ILIKE %s OR source_name ILIKE %s)", p, p, p))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		clauses = append(clauses, fmt.Sprintf("created_at > $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Testimonial operations

const testimonialColumns = `id, quote, source_name, source_role, logo_url, external_link,
	       published, published_date, display_order, created_at, updated_at`

// CreateTestimonial inserts the record, appending it to the end of the display
// sequence when it carries no order. The max+1 read is part of the insert
// statement itself, so concurrent creates cannot observe the same maximum.
func (r *Repository) CreateTestimonial(ctx context.Context, testimonial *sitecontent.Testimonial) error {
	query := `
		INSERT INTO testimonials (
			id, quote, source_name, source_role, logo_url, external_link,
			published, published_date, display_order, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			CASE WHEN $9 > 0 THEN $9
			     ELSE (SELECT COALESCE(MAX(display_order), 0) + 1 FROM testimonials) END,
			$10, $11)
		RETURNING display_order`

	err := r.db.QueryRow(ctx, query,
		testimonial.ID, testimonial.Quote, testimonial.SourceName,
		testimonial.SourceRole, testimonial.LogoURL, testimonial.ExternalLink,
		testimonial.Published, testimonial.PublishedDate, testimonial.DisplayOrder,
		testimonial.CreatedAt, testimonial.UpdatedAt).Scan(&testimonial.DisplayOrder)

	if err != nil {
		return r.handlePostgresError("create testimonial", err)
	}

	return nil
}

func (r *Repository) GetTestimonial(ctx context.Context, id uuid.UUID) (*sitecontent.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = $1`

	var testimonial sitecontent.Testimonial
	err := r.db.QueryRow(ctx, query, id).Scan(
		&testimonial.ID, &testimonial.Quote, &testimonial.SourceName,
		&testimonial.SourceRole, &testimonial.LogoURL, &testimonial.ExternalLink,
		&testimonial.Published, &testimonial.PublishedDate, &testimonial.DisplayOrder,
		&testimonial.CreatedAt, &testimonial.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sitecontent.ErrTestimonialNotFound
		}
		return nil, err
	}

	return &testimonial, nil
}

func (r *Repository) UpdateTestimonial(ctx context.Context, testimonial *sitecontent.Testimonial) error {
	query := `
		UPDATE testimonials SET
			quote = $2, source_name = $3, source_role = $4, logo_url = $5,
			external_link = $6, published = $7, published_date = $8,
			display_order = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		testimonial.ID, testimonial.Quote, testimonial.SourceName,
		testimonial.SourceRole, testimonial.LogoURL, testimonial.ExternalLink,
		testimonial.Published, testimonial.PublishedDate, testimonial.DisplayOrder,
		testimonial.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update testimonial", err)
	}
	if tag.RowsAffected() == 0 {
		return sitecontent.ErrTestimonialNotFound
	}

	return nil
}

func (r *Repository) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete testimonial", err)
	}
	if tag.RowsAffected() == 0 {
		return sitecontent.ErrTestimonialNotFound
	}
	return nil
}

func (r *Repository) ListTestimonials(ctx context.Context, filter sitecontent.TestimonialFilter) ([]*sitecontent.Testimonial, error) {
	where, args := testimonialWhere(filter)

	orderBy := "display_order ASC, created_at ASC"
	if filter.SortBy == sitecontent.TestimonialSortPublishedDateDesc {
		orderBy = "published_date DESC NULLS LAST, created_at DESC"
	}

	query := `SELECT ` + testimonialColumns + ` FROM testimonials` + where + ` ORDER BY ` + orderBy
	query, args = appendWindow(query, args, filter.Offset, filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list testimonials", err)
	}
	defer rows.Close()

	result := make([]*sitecontent.Testimonial, 0)
	for rows.Next() {
		var testimonial sitecontent.Testimonial
		err := rows.Scan(
			&testimonial.ID, &testimonial.Quote, &testimonial.SourceName,
			&testimonial.SourceRole, &testimonial.LogoURL, &testimonial.ExternalLink,
			&testimonial.Published, &testimonial.PublishedDate, &testimonial.DisplayOrder,
			&testimonial.CreatedAt, &testimonial.UpdatedAt)
		if err != nil {
			return nil, r.handlePostgresError("list testimonials", err)
		}
		result = append(result, &testimonial)
	}

	return result, rows.Err()
}

func (r *Repository) CountTestimonials(ctx context.Context, filter sitecontent.TestimonialFilter) (int64, error) {
	where, args := testimonialWhere(filter)

	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM testimonials`+where, args...).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count testimonials", err)
	}
	return count, nil
}

func testimonialWhere(filter sitecontent.TestimonialFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	switch filter.Publish {
	case sitecontent.PublishedOnly:
		clauses = append(clauses, "published = TRUE")
	case sitecontent.DraftsOnly:
		clauses = append(clauses, "published = FALSE")
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(quote ILIKE %s OR source_name ILIKE %s OR source_role ILIKE %s)", p, p, p))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// SwapTestimonialOrder exchanges the display orders of both records inside a
// single transaction. Both rows are locked before either write, so a crash
// between the writes rolls back to the pre-swap state. A record missing at
// commit time makes the swap a no-op.
func (r *Repository) SwapTestimonialOrder(ctx context.Context, a, b uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return r.handlePostgresError("swap testimonial order", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT id, display_order FROM testimonials WHERE id = $1 OR id = $2 FOR UPDATE`, a, b)
	if err != nil {
		return r.handlePostgresError("swap testimonial order", err)
	}

	orders := make(map[uuid.UUID]int, 2)
	for rows.Next() {
		var id uuid.UUID
		var order int
		if err := rows.Scan(&id, &order); err != nil {
			rows.Close()
			return r.handlePostgresError("swap testimonial order", err)
		}
		orders[id] = order
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return r.handlePostgresError("swap testimonial order", err)
	}

	if len(orders) < 2 {
		return nil
	}

	update := `UPDATE testimonials SET display_order = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, update, a, orders[b]); err != nil {
		return r.handlePostgresError("swap testimonial order", err)
	}
	if _, err := tx.Exec(ctx, update, b, orders[a]); err != nil {
		return r.handlePostgresError("swap testimonial order", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return r.handlePostgresError("swap testimonial order", err)
	}
	return nil
}

// ReorderTestimonials compacts display orders into a contiguous 1..N sequence
// with a single statement.
func (r *Repository) ReorderTestimonials(ctx context.Context) error {
	query := `
		WITH ranked AS (
			SELECT id, ROW_NUMBER() OVER (ORDER BY display_order, created_at, id) AS rn
			FROM testimonials
		)
		UPDATE testimonials t
		SET display_order = ranked.rn, updated_at = NOW()
		FROM ranked
		WHERE t.id = ranked.id AND t.display_order <> ranked.rn`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return r.handlePostgresError("reorder testimonials", err)
	}
	return nil
}

// Helpers

func appendWindow(query string, args []interface{}, offset, limit int) (string, []interface{}) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}
