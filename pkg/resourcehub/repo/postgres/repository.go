// Package postgres implements the post repository on PostgreSQL via
// pgx. Expected schema:
//
//	CREATE TABLE posts (
//	    id                UUID PRIMARY KEY,
//	    owner             TEXT NOT NULL,
//	    blurb             TEXT NOT NULL,
//	    link              TEXT NOT NULL,
//	    language          TEXT NOT NULL DEFAULT '',
//	    keywords          TEXT[] NOT NULL DEFAULT '{}',
//	    rating            INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
//	    attachment        TEXT NOT NULL DEFAULT '',
//	    attachment_shared BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at        TIMESTAMPTZ NOT NULL,
//	    updated_at        TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX posts_owner_idx ON posts (owner, created_at DESC);
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/resource-hub/pkg/resourcehub"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements resourcehub.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("post already exists")
		case "23514": // check_violation
			return fmt.Errorf("constraint %s violated", pgErr.ConstraintName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const postColumns = `id, owner, blurb, link, language, keywords, rating,
       attachment, attachment_shared, created_at, updated_at`

func (r *Repository) CreatePost(ctx context.Context, post *resourcehub.Post) error {
	query := `
		INSERT INTO posts (
			id, owner, blurb, link, language, keywords, rating,
			attachment, attachment_shared, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.Owner, post.Blurb, post.Link, post.Language,
		keywordsToText(post.Keywords), post.Rating,
		post.Attachment, post.AttachmentShared, post.CreatedAt, post.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create post", err)
	}

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*resourcehub.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, resourcehub.ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// UpdatePost replaces the mutable fields in a single guarded UPDATE: the
// owner predicate makes the ownership check and the write one atomic
// statement. The follow-up SELECT only classifies a zero-row result as
// absent versus owned by someone else.
func (r *Repository) UpdatePost(ctx context.Context, post *resourcehub.Post) error {
	query := `
		UPDATE posts SET
			blurb = $3, link = $4, language = $5, keywords = $6,
			rating = $7, attachment = $8, attachment_shared = $9,
			updated_at = $10
		WHERE id = $1 AND owner = $2`

	tag, err := r.db.Exec(ctx, query,
		post.ID, post.Owner, post.Blurb, post.Link, post.Language,
		keywordsToText(post.Keywords), post.Rating,
		post.Attachment, post.AttachmentShared, post.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update post", err)
	}

	if tag.RowsAffected() == 0 {
		return r.classifyMiss(ctx, post.ID)
	}

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID, owner string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return r.handlePostgresError("delete post", err)
	}

	if tag.RowsAffected() == 0 {
		return r.classifyMiss(ctx, id)
	}

	return nil
}

// classifyMiss distinguishes a not-found miss from an ownership miss
// after a guarded mutation affected zero rows.
func (r *Repository) classifyMiss(ctx context.Context, id uuid.UUID) error {
	var owner string
	err := r.db.QueryRow(ctx, `SELECT owner FROM posts WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return resourcehub.ErrPostNotFound
	}
	if err != nil {
		return r.handlePostgresError("classify miss", err)
	}
	return resourcehub.ErrForbidden
}

func (r *Repository) ListPostsByOwner(ctx context.Context, owner string) ([]*resourcehub.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts WHERE owner = $1
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, r.handlePostgresError("list posts by owner", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *Repository) ListAllPosts(ctx context.Context, limit, offset int) ([]*resourcehub.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC, id`

	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.Query(ctx, query+` LIMIT $1 OFFSET $2`, limit, offset)
	} else {
		rows, err = r.db.Query(ctx, query)
	}
	if err != nil {
		return nil, r.handlePostgresError("list all posts", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func scanPost(row pgx.Row) (*resourcehub.Post, error) {
	var (
		post     resourcehub.Post
		keywords []string
	)
	err := row.Scan(
		&post.ID, &post.Owner, &post.Blurb, &post.Link, &post.Language,
		&keywords, &post.Rating,
		&post.Attachment, &post.AttachmentShared, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.Keywords = keywordsFromText(keywords)
	return &post, nil
}

func collectPosts(rows pgx.Rows) ([]*resourcehub.Post, error) {
	posts := make([]*resourcehub.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func keywordsToText(keywords []resourcehub.Keyword) []string {
	result := make([]string, len(keywords))
	for i, k := range keywords {
		result[i] = string(k)
	}
	return result
}

func keywordsFromText(values []string) []resourcehub.Keyword {
	if len(values) == 0 {
		return nil
	}
	result := make([]resourcehub.Keyword, len(values))
	for i, v := range values {
		result[i] = resourcehub.Keyword(v)
	}
	return result
}
