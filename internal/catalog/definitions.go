package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/estatedesk-backend/internal/crud"
	"github.com/angelmondragon/estatedesk-backend/internal/entities"
	"github.com/angelmondragon/estatedesk-backend/internal/media"
	"github.com/angelmondragon/estatedesk-backend/internal/table"
	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
)

const ActionCopyInvite = "copy-invite-link"

// Definition is everything a dashboard page needs to manage one entity.
type Definition struct {
	Slug       string
	RoutePath  string
	Title      string
	EntityName string
	ExportName string
	Columns    []table.Column
	Fields     []crud.Field
	Backend    crud.Backend
	Actions    []crud.Action
	OnRowClick crud.RowClickFunc
	MediaSlots []media.Slot
}

func changedColumn() table.Column {
	return table.Custom("changed_at", "Changed", table.RenderDateTime)
}

var (
	propertyFields = []crud.Field{
		{Name: "title", Label: "Title", Type: crud.FieldText, Required: true},
		{Name: "type", Label: "Type", Type: crud.FieldText},
		{Name: "price", Label: "Price", Type: crud.FieldText},
		{Name: "status", Label: "Status", Type: crud.FieldText},
	}
	fileFields = []crud.Field{
		{Name: "title", Label: "Title", Type: crud.FieldText, Required: true},
		{Name: "type", Label: "File Type", Type: crud.FieldText},
		{Name: "price", Label: "Price", Type: crud.FieldText},
		{Name: "status", Label: "Status", Type: crud.FieldText},
	}
	mapFields = []crud.Field{
		{Name: "title", Label: "Title", Type: crud.FieldText, Required: true},
		{Name: "description", Label: "Description", Type: crud.FieldTextarea},
		{Name: "status", Label: "Status", Type: crud.FieldText},
	}
	queryFields = []crud.Field{
		{Name: "propertyTitle", Label: "Property Title", Type: crud.FieldText, Required: true},
		{Name: "name", Label: "Name", Type: crud.FieldText, Required: true},
		{Name: "email", Label: "Email", Type: crud.FieldEmail, Required: true},
		{Name: "phone", Label: "Phone", Type: crud.FieldTel},
		{Name: "message", Label: "Message", Type: crud.FieldTextarea},
	}
	userFields = []crud.Field{
		{Name: "fullName", Label: "Full Name", Type: crud.FieldText, Required: true},
		{Name: "role", Label: "Role", Type: crud.FieldText, Required: true},
		{Name: "email", Label: "Email", Type: crud.FieldEmail, Required: true},
		{Name: "phone", Label: "Phone", Type: crud.FieldTel},
		{Name: "status", Label: "Status", Type: crud.FieldText},
	}
	termFields = []crud.Field{
		{Name: "name", Label: "Name", Type: crud.FieldText, Required: true},
		{Name: "status", Label: "Status", Type: crud.FieldText},
	}
)

var (
	propertyCodec = entities.Codec[Property]{
		Values: func(p Property) crud.Values {
			return crud.Values{"title": p.Title, "type": p.Type, "price": p.Price, "status": p.Status}
		},
		Apply: func(p *Property, v crud.Values) {
			p.Title, p.Type, p.Price, p.Status = v.Get("title"), v.Get("type"), v.Get("price"), v.Get("status")
		},
	}
	fileCodec = entities.Codec[ListingFile]{
		Values: func(f ListingFile) crud.Values {
			return crud.Values{"title": f.Title, "type": f.Type, "price": f.Price, "status": f.Status}
		},
		Apply: func(f *ListingFile, v crud.Values) {
			f.Title, f.Type, f.Price, f.Status = v.Get("title"), v.Get("type"), v.Get("price"), v.Get("status")
		},
	}
	mapCodec = entities.Codec[Map]{
		Values: func(m Map) crud.Values {
			return crud.Values{"title": m.Title, "description": m.Description, "status": m.Status}
		},
		Apply: func(m *Map, v crud.Values) {
			m.Title, m.Description, m.Status = v.Get("title"), v.Get("description"), v.Get("status")
		},
	}
	queryCodec = entities.Codec[Query]{
		Values: func(q Query) crud.Values {
			return crud.Values{"propertyTitle": q.PropertyTitle, "name": q.Name, "email": q.Email, "phone": q.Phone, "message": q.Message}
		},
		Apply: func(q *Query, v crud.Values) {
			q.PropertyTitle, q.Name, q.Email = v.Get("propertyTitle"), v.Get("name"), v.Get("email")
			q.Phone, q.Message = v.Get("phone"), v.Get("message")
		},
	}
	userCodec = entities.Codec[User]{
		Values: func(u User) crud.Values {
			return crud.Values{"fullName": u.FullName, "role": u.Role, "email": u.Email, "phone": u.Phone, "status": string(u.Status)}
		},
		Apply: func(u *User, v crud.Values) {
			u.FullName, u.Role, u.Email, u.Phone = v.Get("fullName"), v.Get("role"), v.Get("email"), v.Get("phone")
			if status, err := enums.ParseUserStatus(v.Get("status")); err == nil {
				u.Status = status
			}
		},
	}
	termCodec = entities.Codec[Term]{
		Values: func(t Term) crud.Values { return crud.Values{"name": t.Name, "status": t.Status} },
		Apply:  func(t *Term, v crud.Values) { t.Name, t.Status = v.Get("name"), v.Get("status") },
	}
)

func mustCollection[T any, PT entities.Row[T]](store *entities.Store[T, PT], codec entities.Codec[T]) crud.Backend {
	coll, err := entities.NewCollection(store, codec)
	if err != nil {
		panic(err)
	}
	return coll
}

func (c *Catalog) inviteAction() crud.Action {
	return crud.Action{
		ID:    ActionCopyInvite,
		Label: "Copy Invite Link",
		Visible: func(r table.Record) bool {
			status, _ := r.Field("status")
			return status == string(enums.UserStatusUnconfirmed)
		},
		Run: func(ctx context.Context, r table.Record) (crud.ActionResult, error) {
			email, _ := r.Field("email")
			addr := fmt.Sprint(email)
			link := c.InviteLink(addr)
			c.logg.Info(c.logg.WithField(ctx, "user_id", r.GetID()), "invite link generated")
			return crud.ActionResult{
				Notice:  crud.Success("Invite link copied for " + addr),
				Payload: map[string]string{"inviteLink": link},
			}, nil
		},
	}
}

func termDefinition(slug, title, entity, export string, store *TermStore) Definition {
	return Definition{
		Slug:       slug,
		RoutePath:  "/dashboard/" + slug,
		Title:      title,
		EntityName: entity,
		ExportName: export,
		Columns: []table.Column{
			table.Index(),
			table.Text("name", "Name"),
			table.Text("status", "Status"),
			changedColumn(),
		},
		Fields:  termFields,
		Backend: mustCollection(store, termCodec),
	}
}

// Definitions lists the managed entities in sidebar order.
func (c *Catalog) Definitions() []Definition {
	return []Definition{
		{
			Slug:       "properties",
			RoutePath:  "/dashboard/properties",
			Title:      "Manage Properties",
			EntityName: "Property",
			ExportName: "Properties",
			Columns: []table.Column{
				table.Index(),
				table.Text("title", "Title"),
				table.Text("type", "Type"),
				table.Number("price", "Price"),
				table.Text("status", "Status"),
				changedColumn(),
			},
			Fields:     propertyFields,
			Backend:    mustCollection(c.Properties, propertyCodec),
			MediaSlots: media.PropertySlots(),
		},
		{
			Slug:       "files",
			RoutePath:  "/dashboard/files",
			Title:      "Manage Files",
			EntityName: "File",
			ExportName: "Files",
			Columns: []table.Column{
				table.Index(),
				table.Text("title", "Title"),
				table.Text("type", "File Type"),
				table.Number("price", "Price"),
				table.Text("status", "Status"),
				changedColumn(),
			},
			Fields:  fileFields,
			Backend: mustCollection(c.Files, fileCodec),
		},
		{
			Slug:       "maps",
			RoutePath:  "/dashboard/maps",
			Title:      "Manage Maps",
			EntityName: "Map",
			ExportName: "Maps",
			Columns: []table.Column{
				table.Index(),
				table.Text("title", "Title"),
				table.Custom("description", "Description", table.RenderTruncate),
				table.Text("status", "Status"),
				changedColumn(),
			},
			Fields:     mapFields,
			Backend:    mustCollection(c.Maps, mapCodec),
			MediaSlots: media.MapSlots(),
		},
		{
			Slug:       "queries",
			RoutePath:  "/dashboard/queries",
			Title:      "Property Queries",
			EntityName: "Query",
			ExportName: "Queries",
			Columns: []table.Column{
				table.Index(),
				table.Text("propertyTitle", "Property Title"),
				table.Text("name", "Name"),
				table.Text("email", "Email"),
				table.Text("phone", "Phone"),
				table.Custom("message", "Message", table.RenderTruncate),
				changedColumn(),
			},
			Fields:  queryFields,
			Backend: mustCollection(c.Queries, queryCodec),
			OnRowClick: func(ctx context.Context, r table.Record) error {
				_, err := c.MarkAsRead(ctx, r.GetID())
				return err
			},
		},
		{
			Slug:       "users",
			RoutePath:  "/dashboard/users",
			Title:      "Manage Users",
			EntityName: "User",
			ExportName: "Users",
			Columns: []table.Column{
				table.Index(),
				table.Text("fullName", "Full Name"),
				table.Text("role", "Role"),
				table.Text("email", "Email"),
				table.Text("phone", "Phone"),
				table.Text("status", "Status"),
				changedColumn(),
			},
			Fields:  userFields,
			Backend: mustCollection(c.Users, userCodec),
			Actions: []crud.Action{c.inviteAction()},
		},
		termDefinition("categories", "Manage Categories", "Category", "Categories", c.Categories),
		termDefinition("cities", "Manage Cities", "City", "Cities", c.Cities),
		termDefinition("phases", "Manage Phases", "Phase", "Phases", c.Phases),
		termDefinition("societies", "Manage Societies", "Society", "Societies", c.Societies),
	}
}
