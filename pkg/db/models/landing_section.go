package models

import "time"

// LandingSection is the saved configuration of one home page section.
// SelectedItems holds a JSON array of {id,label} pairs in display order.
type LandingSection struct {
	Key           string    `gorm:"column:key;primaryKey"`
	Position      int       `gorm:"column:position;not null;default:0"`
	IsVisible     bool      `gorm:"column:is_visible;not null"`
	Heading       string    `gorm:"column:heading;not null"`
	Subheading    string    `gorm:"column:subheading;not null;default:''"`
	SelectedItems string    `gorm:"column:selected_items;not null;default:'[]'"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LandingSection) TableName() string { return "landing_sections" }

// All lists every model owned by the schema, in creation order.
func All() []any {
	return []any{&Product{}, &PreferenceBlob{}, &LandingSection{}}
}
