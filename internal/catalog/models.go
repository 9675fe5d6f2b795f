package catalog

import (
	"github.com/angelmondragon/estatedesk-backend/internal/entities"
	"github.com/angelmondragon/estatedesk-backend/internal/media"
	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
)

// Property is a listing shown on the public site.
type Property struct {
	entities.Meta
	Title  string       `json:"title"`
	Type   string       `json:"type"`
	Price  string       `json:"price"`
	Status string       `json:"status"`
	Media  []media.Item `json:"media"`
}

func (p *Property) Field(name string) (any, bool) {
	switch name {
	case "title":
		return p.Title, true
	case "type":
		return p.Type, true
	case "price":
		return p.Price, true
	case "status":
		return p.Status, true
	case "media":
		return p.Media, true
	case "changed_at":
		return p.ChangedAt, true
	}
	return nil, false
}

// ListingFile is a tradeable plot file (allocation, affidavit, ...).
type ListingFile struct {
	entities.Meta
	Title  string `json:"title"`
	Type   string `json:"type"`
	Price  string `json:"price"`
	Status string `json:"status"`
	IsFile bool   `json:"is_file"`
}

func (f *ListingFile) Field(name string) (any, bool) {
	switch name {
	case "title":
		return f.Title, true
	case "type":
		return f.Type, true
	case "price":
		return f.Price, true
	case "status":
		return f.Status, true
	case "is_file":
		return f.IsFile, true
	case "changed_at":
		return f.ChangedAt, true
	}
	return nil, false
}

type Map struct {
	entities.Meta
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Type        string       `json:"type,omitempty"`
	Location    string       `json:"location,omitempty"`
	Size        string       `json:"size,omitempty"`
	Media       []media.Item `json:"media"`
}

func (m *Map) Field(name string) (any, bool) {
	switch name {
	case "title":
		return m.Title, true
	case "description":
		return m.Description, true
	case "status":
		return m.Status, true
	case "type":
		return m.Type, true
	case "location":
		return m.Location, true
	case "size":
		return m.Size, true
	case "media":
		return m.Media, true
	case "changed_at":
		return m.ChangedAt, true
	}
	return nil, false
}

// Query is an inquiry sent from the contact form or a property page.
type Query struct {
	entities.Meta
	PropertyTitle string `json:"propertyTitle"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message"`
	IsRead        bool   `json:"isRead"`
}

func (q *Query) Field(name string) (any, bool) {
	switch name {
	case "propertyTitle":
		return q.PropertyTitle, true
	case "name":
		return q.Name, true
	case "email":
		return q.Email, true
	case "phone":
		return q.Phone, true
	case "message":
		return q.Message, true
	case "isRead":
		return q.IsRead, true
	case "changed_at":
		return q.ChangedAt, true
	}
	return nil, false
}

// Highlighted marks unread queries.
func (q *Query) Highlighted() bool { return !q.IsRead }

type User struct {
	entities.Meta
	FullName string           `json:"fullName"`
	Role     string           `json:"role"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone"`
	Status   enums.UserStatus `json:"status"`
}

func (u *User) Field(name string) (any, bool) {
	switch name {
	case "fullName":
		return u.FullName, true
	case "role":
		return u.Role, true
	case "email":
		return u.Email, true
	case "phone":
		return u.Phone, true
	case "status":
		return string(u.Status), true
	case "changed_at":
		return u.ChangedAt, true
	}
	return nil, false
}

// Term is a taxonomy entry: category, city, phase or society.
type Term struct {
	entities.Meta
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (t *Term) Field(name string) (any, bool) {
	switch name {
	case "name":
		return t.Name, true
	case "status":
		return t.Status, true
	case "changed_at":
		return t.ChangedAt, true
	}
	return nil, false
}
