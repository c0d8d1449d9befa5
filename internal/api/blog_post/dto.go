package blogPosts

import "BlogAPI/internal/entity"

type BlogPostRequest struct {
	Title           string `json:"title" form:"title" validate:"max=255"`
	Slug            string `json:"slug" form:"slug" validate:"max=255"`
	CanonicalTag    string `json:"canonical_tag" form:"canonical_tag" validate:"max=255"`
	MetaTitle       string `json:"meta_title" form:"meta_title" validate:"max=255"`
	MetaDescription string `json:"meta_description" form:"meta_description" validate:"max=1000"`
	MetaKeywords    string `json:"meta_keywords" form:"meta_keywords" validate:"max=1000"`
	Content         string `json:"content" form:"content"`
}

func (r BlogPostRequest) Fields() entity.BlogPostFields {
	return entity.BlogPostFields{
		Title:           r.Title,
		Slug:            r.Slug,
		CanonicalTag:    r.CanonicalTag,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		MetaKeywords:    r.MetaKeywords,
		Content:         r.Content,
	}
}

// ImageUpload is a request-scoped temp file already written by the handler.
type ImageUpload struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
}

type BlogPostResponse struct {
	ID              int64  `json:"post_id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	CanonicalTag    string `json:"canonical_tag"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
	Content         string `json:"content"`
	ImageURL        string `json:"blogimage"`
	UploadDate      string `json:"upload_date"`
}

func NewBlogPostResponse(post entity.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:              post.ID,
		Title:           post.Title,
		Slug:            post.Slug,
		CanonicalTag:    post.CanonicalTag,
		MetaTitle:       post.MetaTitle,
		MetaDescription: post.MetaDescription,
		MetaKeywords:    post.MetaKeywords,
		Content:         post.Content,
		ImageURL:        post.ImageURL,
		UploadDate:      post.UploadDate,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RouteDescription struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

type ManifestResponse struct {
	APIVersion string             `json:"apiVersion"`
	Methods    []RouteDescription `json:"methods"`
}
