package blogPostRepository

import (
	"BlogAPI/internal/api/blog_post"
	"BlogAPI/internal/entity"
	contextPkg "BlogAPI/pkg/context"
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type BlogPostDB struct {
	ID              int64          `db:"post_id"`
	Title           sql.NullString `db:"title"`
	Slug            sql.NullString `db:"slug"`
	CanonicalTag    sql.NullString `db:"canonical_tag"`
	MetaTitle       sql.NullString `db:"meta_title"`
	MetaDescription sql.NullString `db:"meta_description"`
	MetaKeywords    sql.NullString `db:"meta_keywords"`
	Content         sql.NullString `db:"content"`
	ImageURL        sql.NullString `db:"blogimage"`
	UploadDate      sql.NullString `db:"upload_date"`
}

func (r *blogPostsRepository) InsertBlogPost(ctx context.Context, post entity.BlogPost) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := fieldArgs(post.BlogPostFields)
	argsKV["upload_date"] = post.UploadDate
	argsKV["blogimage"] = nullable(post.ImageURL)

	query, args, err := sqlx.Named(queryInsertBlogPost, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for InsertBlogPost")
		return 0, err
	}
	query = r.q.Rebind(query)

	// lib/pq has no LastInsertId.
	if r.q.DriverName() == "postgres" {
		var id int64
		if err := r.q.QueryRowxContext(ctx, query+" RETURNING post_id", args...).Scan(&id); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Database error when inserting blog post")
			return 0, err
		}
		return id, nil
	}

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when inserting blog post")
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("InsertBlogPost last insert id err")
		return 0, err
	}

	return id, nil
}

func (r *blogPostsRepository) ListBlogPosts(ctx context.Context) ([]entity.BlogPost, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []BlogPostDB

	if err := r.q.SelectContext(ctx, &rows, queryListBlogPosts); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListBlogPosts execution err")
		return nil, err
	}

	posts := make([]entity.BlogPost, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, r.makeBlogPost(row))
	}

	return posts, nil
}

func (r *blogPostsRepository) GetBlogPostByID(ctx context.Context, id int64) (entity.BlogPost, error) {
	return r.getOne(ctx, "GetBlogPostByID", queryGetBlogPostByID, map[string]interface{}{
		"post_id": id,
	})
}

func (r *blogPostsRepository) GetBlogPostBySlug(ctx context.Context, slug string) (entity.BlogPost, error) {
	return r.getOne(ctx, "GetBlogPostBySlug", queryGetBlogPostBySlug, map[string]interface{}{
		"slug": slug,
	})
}

func (r *blogPostsRepository) getOne(ctx context.Context, op, namedQuery string, argsKV map[string]interface{}) (entity.BlogPost, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row BlogPostDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Errorf("%s named query preparation err", op)
		return entity.BlogPost{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"args":       argsKV,
			}).Warnf("%s no rows found", op)
			return entity.BlogPost{}, blogPosts.ErrBlogPostNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Errorf("%s execution err", op)
		return entity.BlogPost{}, err
	}

	return r.makeBlogPost(row), nil
}

func (r *blogPostsRepository) UpdateBlogPost(ctx context.Context, update entity.BlogPostUpdate) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := fieldArgs(update.Fields)
	argsKV["post_id"] = update.ID
	if update.ImageURL != nil {
		argsKV["blogimage"] = nullable(*update.ImageURL)
	}

	query, args, err := sqlx.Named(buildUpdateBlogPostQuery(update.ImageURL != nil), argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateBlogPost named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	return r.execAffected(ctx, "UpdateBlogPost", query, args)
}

func (r *blogPostsRepository) DeleteBlogPost(ctx context.Context, id int64) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"post_id": id,
	}

	query, args, err := sqlx.Named(queryDeleteBlogPost, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteBlogPost named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	return r.execAffected(ctx, "DeleteBlogPost", query, args)
}

// execAffected reports zero affected rows as a count, not an error.
func (r *blogPostsRepository) execAffected(ctx context.Context, op, query string, args []interface{}) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Errorf("%s execution err", op)
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Errorf("%s rows affected err", op)
		return 0, err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warnf("%s no rows affected", op)
	}

	return rowsAffected, nil
}

func (r *blogPostsRepository) makeBlogPost(row BlogPostDB) entity.BlogPost {
	return entity.BlogPost{
		ID: row.ID,
		BlogPostFields: entity.BlogPostFields{
			Title:           row.Title.String,
			Slug:            row.Slug.String,
			CanonicalTag:    row.CanonicalTag.String,
			MetaTitle:       row.MetaTitle.String,
			MetaDescription: row.MetaDescription.String,
			MetaKeywords:    row.MetaKeywords.String,
			Content:         row.Content.String,
		},
		UploadDate: row.UploadDate.String,
		ImageURL:   row.ImageURL.String,
	}
}

func fieldArgs(fields entity.BlogPostFields) map[string]interface{} {
	return map[string]interface{}{
		"title":            fields.Title,
		"slug":             fields.Slug,
		"canonical_tag":    fields.CanonicalTag,
		"meta_title":       fields.MetaTitle,
		"meta_description": fields.MetaDescription,
		"meta_keywords":    fields.MetaKeywords,
		"content":          fields.Content,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
