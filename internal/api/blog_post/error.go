package blogPosts

import (
	"BlogAPI/pkg/response"
	"net/http"
)

var (
	ErrBlogPostNotFound = response.NewError(http.StatusNotFound, "Blog post not found")
	ErrInvalidFileType  = response.NewError(http.StatusBadRequest, "Only JPEG, PNG, and GIF files are allowed!")
	ErrFileTooLarge     = response.NewError(http.StatusBadRequest, "Uploaded image is too large")
	ErrFailedToUpload   = response.NewError(http.StatusInternalServerError, "Error uploading image")
	ErrCreateBlogPost   = response.NewError(http.StatusInternalServerError, "Failed to insert blog post")
	ErrFetchBlogPost    = response.NewError(http.StatusInternalServerError, "Failed to fetch blog post")
	ErrUpdateBlogPost   = response.NewError(http.StatusInternalServerError, "Failed to update blog post")
	ErrDeleteBlogPost   = response.NewError(http.StatusInternalServerError, "Failed to delete blog post")
	ErrStoreTempFile    = response.NewError(http.StatusInternalServerError, "Failed to receive uploaded image")
)
