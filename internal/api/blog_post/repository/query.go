package blogPostRepository

import "strings"

const (
	queryInsertBlogPost = `
		INSERT INTO blog_posts (
			title,
			slug,
			canonical_tag,
			meta_title,
			meta_description,
			meta_keywords,
			content,
			upload_date,
			blogimage
		) VALUES (
			:title,
			:slug,
			:canonical_tag,
			:meta_title,
			:meta_description,
			:meta_keywords,
			:content,
			:upload_date,
			:blogimage
		)
	`

	queryListBlogPosts = `
		SELECT
			post_id,
			title,
			slug,
			canonical_tag,
			meta_title,
			meta_description,
			meta_keywords,
			content,
			blogimage,
			upload_date
		FROM blog_posts
	`

	queryGetBlogPostByID = `
		SELECT
			post_id,
			title,
			slug,
			canonical_tag,
			meta_title,
			meta_description,
			meta_keywords,
			content,
			blogimage,
			upload_date
		FROM blog_posts
		WHERE post_id = :post_id
	`

	queryGetBlogPostBySlug = `
		SELECT
			post_id,
			title,
			slug,
			canonical_tag,
			meta_title,
			meta_description,
			meta_keywords,
			content,
			blogimage,
			upload_date
		FROM blog_posts
		WHERE slug = :slug
		ORDER BY post_id DESC
		LIMIT 1
	`

	queryDeleteBlogPost = `
		DELETE FROM blog_posts
		WHERE post_id = :post_id
	`
)

// updatableColumns is the fixed SET order; upload_date and post_id never move.
var updatableColumns = []string{
	"title",
	"slug",
	"canonical_tag",
	"meta_title",
	"meta_description",
	"meta_keywords",
	"content",
}

const imageColumn = "blogimage"

func buildUpdateBlogPostQuery(withImage bool) string {
	columns := updatableColumns
	if withImage {
		columns = append(columns[:len(columns):len(columns)], imageColumn)
	}

	assignments := make([]string, 0, len(columns))
	for _, column := range columns {
		assignments = append(assignments, column+" = :"+column)
	}

	return "UPDATE blog_posts SET " + strings.Join(assignments, ", ") + " WHERE post_id = :post_id"
}
