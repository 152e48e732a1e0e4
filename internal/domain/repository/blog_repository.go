package repository

import (
	"context"
	"fmt"

	"counsel_hub/internal/common/query"
	"counsel_hub/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BlogQuerySchema lists the fields clients may filter, sort and select on.
var BlogQuerySchema = query.Schema{
	Fields: map[string]query.Field{
		"id":          {Column: "b.id", Kind: query.KindUUID},
		"title":       {Column: "b.title", Kind: query.KindString},
		"slug":        {Column: "b.slug", Kind: query.KindString},
		"content":     {Column: "b.content", Kind: query.KindString},
		"excerpt":     {Column: "b.excerpt", Kind: query.KindString},
		"image":       {Column: "b.image_url", Kind: query.KindString},
		"author":      {Column: "b.author_id", Kind: query.KindUUID},
		"tags":        {Column: "b.tags", Kind: query.KindStringArray},
		"isPublished": {Column: "b.is_published", Kind: query.KindBool},
		"createdAt":   {Column: "b.created_at", Kind: query.KindTimestamp},
		"updatedAt":   {Column: "b.updated_at", Kind: query.KindTimestamp},
	},
	DefaultSort: "-createdAt",
}

type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	FindByID(ctx context.Context, id string) (*model.Blog, error)
	List(ctx context.Context, opts *query.Options) ([]model.Blog, int, error)
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id string) error
}

type pgBlogRepository struct {
	db *pgxpool.Pool
}

func NewPgBlogRepository(db *pgxpool.Pool) BlogRepository {
	return &pgBlogRepository{db: db}
}

const blogColumns = `b.id, b.title, b.slug, b.content, b.excerpt, b.image_public_id, b.image_url,
	b.author_id, b.tags, b.is_published, b.created_at, b.updated_at`

func scanBlog(row pgx.Row) (*model.Blog, error) {
	var (
		b             model.Blog
		publicID, url *string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.Excerpt, &publicID, &url,
		&b.AuthorID, &b.Tags, &b.IsPublished, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if publicID != nil && url != nil {
		b.Image = &model.BlogImage{PublicID: *publicID, URL: *url}
	}
	return &b, nil
}

func imageColumns(img *model.BlogImage) (publicID, url *string) {
	if img == nil {
		return nil, nil
	}
	return &img.PublicID, &img.URL
}

func (r *pgBlogRepository) Create(ctx context.Context, b *model.Blog) error {
	publicID, url := imageColumns(b.Image)
	stmt := `INSERT INTO blogs (id, title, slug, content, excerpt, image_public_id, image_url, author_id, tags, is_published)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, stmt, b.ID, b.Title, b.Slug, b.Content, b.Excerpt, publicID, url,
		b.AuthorID, b.Tags, b.IsPublished).Scan(&b.CreatedAt, &b.UpdatedAt)
	return translate("pgBlogRepository.Create", err)
}

func (r *pgBlogRepository) FindByID(ctx context.Context, id string) (*model.Blog, error) {
	b, err := scanBlog(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs b WHERE b.id = $1`, id))
	if err != nil {
		return nil, translate("pgBlogRepository.FindByID", err)
	}
	return b, nil
}

func (r *pgBlogRepository) List(ctx context.Context, opts *query.Options) ([]model.Blog, int, error) {
	where, args := opts.Where(1)
	if where != "" {
		where = " WHERE " + where
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blogs b`+where, args...).Scan(&total); err != nil {
		return nil, 0, translate("pgBlogRepository.List count", err)
	}

	sql := fmt.Sprintf(`SELECT %s FROM blogs b%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		blogColumns, where, opts.OrderBy("b.id"), len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, sql, append(args, opts.Limit, opts.Offset())...)
	if err != nil {
		return nil, 0, translate("pgBlogRepository.List", err)
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, translate("pgBlogRepository.List scan", err)
		}
		blogs = append(blogs, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate("pgBlogRepository.List rows", err)
	}
	return blogs, total, nil
}

func (r *pgBlogRepository) Update(ctx context.Context, b *model.Blog) error {
	publicID, url := imageColumns(b.Image)
	stmt := `UPDATE blogs SET
	            title = $1, slug = $2, content = $3, excerpt = $4, image_public_id = $5, image_url = $6,
	            tags = $7, is_published = $8, updated_at = NOW()
	          WHERE id = $9
	          RETURNING updated_at`
	err := r.db.QueryRow(ctx, stmt, b.Title, b.Slug, b.Content, b.Excerpt, publicID, url,
		b.Tags, b.IsPublished, b.ID).Scan(&b.UpdatedAt)
	return translate("pgBlogRepository.Update", err)
}

func (r *pgBlogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return translate("pgBlogRepository.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("pgBlogRepository.Delete", pgx.ErrNoRows)
	}
	return nil
}
