package usecase

import (
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultExtension = "jpg"

// Common image content types mapped directly so the result does not
// depend on the platform's MIME database (image/jpeg would otherwise
// resolve to ".jfif" on some systems).
var imageContentTypes = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/bmp":     "bmp",
	"image/tiff":    "tif",
	"image/svg+xml": "svg",
}

// InferExtension decides the file extension for a fetched image. Sniffed
// content wins over the declared Content-Type header, which wins over the
// URL path suffix. Falls back to "jpg" when nothing yields a known type.
func InferExtension(data []byte, contentType, rawURL string) string {
	if mtype := mimetype.Detect(data); strings.HasPrefix(mtype.String(), "image/") {
		if ext := strings.TrimPrefix(mtype.Extension(), "."); ext != "" {
			return ext
		}
	}

	if contentType != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
		if ext, ok := imageContentTypes[mediaType]; ok {
			return ext
		}
		if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
			return strings.TrimPrefix(exts[0], ".")
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 6 {
			return strings.TrimPrefix(ext, ".")
		}
	}

	return defaultExtension
}
