package media

import (
	"fmt"
	"strings"
)

const (
	DefaultMaxFiles      = 5
	DefaultMaxFileSizeMB = 5
)

// Options configures one upload slot.
type Options struct {
	MaxFiles          int      `json:"maxFiles"`
	MaxFileSizeMB     int      `json:"maxFileSizeMb"`
	AllowMultiple     bool     `json:"allowMultiple"`
	AllowedTypes      []string `json:"allowedTypes"`
	ShowPrimaryOption bool     `json:"showPrimaryOption"`
}

func DefaultOptions() Options {
	return Options{
		MaxFiles:          DefaultMaxFiles,
		MaxFileSizeMB:     DefaultMaxFileSizeMB,
		AllowMultiple:     true,
		AllowedTypes:      []string{"image/*", "video/*", "application/pdf"},
		ShowPrimaryOption: true,
	}
}

func (o Options) maxBytes() int64 {
	return int64(o.MaxFileSizeMB) * 1024 * 1024
}

func (o Options) maxFiles() int {
	if !o.AllowMultiple {
		return 1
	}
	return o.MaxFiles
}

// accepts matches a content type against patterns such as image/* or
// application/pdf.
func (o Options) accepts(contentType string) bool {
	for _, pattern := range o.AllowedTypes {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if strings.HasPrefix(contentType, prefix+"/") {
				return true
			}
			continue
		}
		if pattern == contentType {
			return true
		}
	}
	return false
}

// Slot is a named upload area inside a gallery.
type Slot struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Options Options `json:"options"`
}

const (
	SlotImages    = "images"
	SlotVideo     = "video"
	SlotDocuments = "documents"
	SlotMapImage  = "image"
	SlotMapPDF    = "pdf"
)

// PropertySlots are the image gallery, single video tour and PDF documents of
// a property.
func PropertySlots() []Slot {
	images := DefaultOptions()
	images.AllowedTypes = []string{"image/*"}

	video := DefaultOptions()
	video.AllowedTypes = []string{"video/*"}
	video.AllowMultiple = false
	video.MaxFiles = 1

	docs := DefaultOptions()
	docs.AllowedTypes = []string{"application/pdf"}
	docs.ShowPrimaryOption = false

	return []Slot{
		{Name: SlotImages, Label: "Property Images", Options: images},
		{Name: SlotVideo, Label: "Video Tour", Options: video},
		{Name: SlotDocuments, Label: "Documents (PDFs)", Options: docs},
	}
}

// MapSlots hold one image and one PDF, neither with a primary flag.
func MapSlots() []Slot {
	single := func(types ...string) Options {
		o := DefaultOptions()
		o.MaxFiles = 1
		o.AllowMultiple = false
		o.ShowPrimaryOption = false
		o.AllowedTypes = types
		return o
	}
	return []Slot{
		{Name: SlotMapImage, Label: "Map Image (Max 1)", Options: single("image/*")},
		{Name: SlotMapPDF, Label: "Map PDF (Max 1)", Options: single("application/pdf")},
	}
}

func describeTypes(patterns []string) string {
	names := make([]string, 0, len(patterns))
	for _, p := range patterns {
		switch {
		case strings.HasPrefix(p, "image/"):
			names = append(names, "images")
		case strings.HasPrefix(p, "video/"):
			names = append(names, "videos")
		case p == "application/pdf":
			names = append(names, "PDFs")
		default:
			names = append(names, p)
		}
	}
	return humanReadableList(names)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
