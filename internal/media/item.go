package media

import (
	"fmt"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
	"github.com/gabriel-vasile/mimetype"
)

// Item is one entry of a gallery.
type Item struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	Name      string          `json:"name"`
	Type      enums.MediaType `json:"type"`
	IsPrimary bool            `json:"isPrimary"`
	Slot      string          `json:"slot"`
	BlobKey   string          `json:"blobKey,omitempty"`

	// pending marks an upload not yet committed to its record.
	pending bool
}

// Upload is a file offered to a slot.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

func (u Upload) size() int64 {
	if u.Size > 0 {
		return u.Size
	}
	return int64(len(u.Data))
}

var (
	imageExt = regexp.MustCompile(`(?i)\.(jpeg|jpg|png|gif|webp)$`)
	videoExt = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)$`)
	pdfExt   = regexp.MustCompile(`(?i)\.pdf$`)
)

// TypeFromURL infers the media type of an existing item from its extension.
func TypeFromURL(raw string) enums.MediaType {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	switch {
	case imageExt.MatchString(p):
		return enums.MediaTypeImage
	case videoExt.MatchString(p):
		return enums.MediaTypeVideo
	case pdfExt.MatchString(p):
		return enums.MediaTypePDF
	default:
		return enums.MediaTypeFile
	}
}

func typeFromContentType(contentType string) enums.MediaType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return enums.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return enums.MediaTypeVideo
	case contentType == "application/pdf":
		return enums.MediaTypePDF
	default:
		return enums.MediaTypeFile
	}
}

// NameFromURL is the last path segment of the item URL.
func NameFromURL(raw string) string {
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// detectContentType sniffs the upload bytes when present and falls back to
// the declared type.
func detectContentType(u Upload) string {
	if len(u.Data) > 0 {
		if ct, err := parseMediaType(mimetype.Detect(u.Data).String()); err == nil {
			return ct
		}
	}
	if ct, err := parseMediaType(u.ContentType); err == nil {
		return ct
	}
	if ext := path.Ext(u.Name); ext != "" {
		if ct, err := parseMediaType(mime.TypeByExtension(ext)); err == nil {
			return ct
		}
	}
	return "application/octet-stream"
}

func parseMediaType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	return strings.ToLower(mediaType), nil
}
