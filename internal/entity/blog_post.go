package entity

// UploadDateLayout is the fixed ISO-8601 form stored in upload_date.
const UploadDateLayout = "2006-01-02T15:04:05.000Z"

type BlogPostFields struct {
	Title           string `db:"title"`
	Slug            string `db:"slug"`
	CanonicalTag    string `db:"canonical_tag"`
	MetaTitle       string `db:"meta_title"`
	MetaDescription string `db:"meta_description"`
	MetaKeywords    string `db:"meta_keywords"`
	Content         string `db:"content"`
}

type BlogPost struct {
	ID int64 `db:"post_id"`
	BlogPostFields
	UploadDate string `db:"upload_date"`
	ImageURL   string `db:"blogimage"`
}

// BlogPostUpdate replaces every scalar field. ImageURL is nil when the
// stored image must be left as is.
type BlogPostUpdate struct {
	ID       int64
	Fields   BlogPostFields
	ImageURL *string
}
