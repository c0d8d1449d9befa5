package blogPostHandler

import (
	"BlogAPI/internal/api/blog_post"
	"BlogAPI/pkg/response"
	"mime/multipart"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const imageField = "blogimage"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// receiveImage stores the optional image part in a temp file. The returned
// cleanup func is always safe to call.
func (h *BlogPostsHandler) receiveImage(ctx *fiber.Ctx, requestID string) (*blogPosts.ImageUpload, func(), error) {
	noop := func() {}

	fileHeader, err := ctx.FormFile(imageField)
	if err != nil || fileHeader == nil {
		return nil, noop, nil
	}

	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	if !allowedImageTypes[contentType] {
		h.log.WithFields(logrus.Fields{
			"request_id":   requestID,
			"filename":     fileHeader.Filename,
			"content_type": contentType,
		}).Warn("Rejected image with unsupported content type")
		return nil, noop, blogPosts.ErrInvalidFileType
	}

	if fileHeader.Size > h.cfg.UploadMaxBytes {
		h.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"filename":   fileHeader.Filename,
			"size":       fileHeader.Size,
			"max_size":   h.cfg.UploadMaxBytes,
		}).Warn("Rejected image exceeding size limit")
		return nil, noop, blogPosts.ErrFileTooLarge
	}

	path, err := h.saveTemp(ctx, fileHeader, contentType)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store uploaded image")
		return nil, noop, response.Wrap(blogPosts.ErrStoreTempFile, err)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"path":       path,
				"error":      err.Error(),
			}).Warn("Failed to remove temp image")
		}
	}

	return &blogPosts.ImageUpload{
		Path:        path,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
	}, cleanup, nil
}

func (h *BlogPostsHandler) saveTemp(ctx *fiber.Ctx, fileHeader *multipart.FileHeader, contentType string) (string, error) {
	ext := ""
	if mime := mimetype.Lookup(contentType); mime != nil {
		ext = mime.Extension()
	}

	tmp, err := os.CreateTemp(h.cfg.UploadTmpDir, "blogimage-*"+ext)
	if err != nil {
		return "", err
	}
	path := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	if err := ctx.SaveFile(fileHeader, path); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}
