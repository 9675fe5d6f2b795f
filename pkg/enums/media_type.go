package enums

import "fmt"

// MediaType classifies a gallery item by what it renders as.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypePDF   MediaType = "pdf"
	MediaTypeFile  MediaType = "file"
)

var validMediaTypes = []MediaType{
	MediaTypeImage,
	MediaTypeVideo,
	MediaTypePDF,
	MediaTypeFile,
}

// String returns the literal string.
func (v MediaType) String() string {
	return string(v)
}

// IsValid reports whether the value is known.
func (v MediaType) IsValid() bool {
	for _, candidate := range validMediaTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseMediaType converts raw input into a MediaType.
func ParseMediaType(value string) (MediaType, error) {
	for _, candidate := range validMediaTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media type %q", value)
}

// CanBePrimary reports whether the type may be marked as the cover item.
func (v MediaType) CanBePrimary() bool {
	return v == MediaTypeImage || v == MediaTypeVideo
}
