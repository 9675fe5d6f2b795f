package dashboard

import (
	"fmt"

	"github.com/angelmondragon/estatedesk-backend/internal/catalog"
	"github.com/angelmondragon/estatedesk-backend/internal/crud"
	"github.com/angelmondragon/estatedesk-backend/internal/preferences"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

// Page describes one admin table page.
type Page struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	EntityName string `json:"entityName"`
	RoutePath  string `json:"routePath"`
	PrefsKey   string `json:"prefsKey"`
	HasMedia   bool   `json:"hasMedia"`
}

// Dashboard owns one CRUD table per catalog entity, all sharing the same
// preference store.
type Dashboard struct {
	catalog *catalog.Catalog
	prefs   *preferences.Store
	logg    *logger.Logger
	pages   []Page
	tables  map[string]*crud.Table
}

func New(cat *catalog.Catalog, prefs *preferences.Store, logg *logger.Logger) (*Dashboard, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if prefs == nil {
		return nil, fmt.Errorf("preference store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	d := &Dashboard{catalog: cat, prefs: prefs, logg: logg, tables: map[string]*crud.Table{}}
	for _, def := range cat.Definitions() {
		key := preferences.KeyFor(def.RoutePath)
		tbl, err := crud.New(prefs, logg, crud.Options{
			Key:        key,
			Title:      def.Title,
			EntityName: def.EntityName,
			ExportName: def.ExportName,
			Columns:    def.Columns,
			Fields:     def.Fields,
			Backend:    def.Backend,
			Actions:    def.Actions,
			OnRowClick: def.OnRowClick,
		})
		if err != nil {
			return nil, fmt.Errorf("build %s table: %w", def.Slug, err)
		}
		d.tables[def.Slug] = tbl
		d.pages = append(d.pages, Page{
			Slug:       def.Slug,
			Title:      def.Title,
			EntityName: def.EntityName,
			RoutePath:  def.RoutePath,
			PrefsKey:   key,
			HasMedia:   len(def.MediaSlots) > 0,
		})
	}
	return d, nil
}

func (d *Dashboard) Pages() []Page {
	return append([]Page{}, d.pages...)
}

func (d *Dashboard) Catalog() *catalog.Catalog { return d.catalog }

func (d *Dashboard) Preferences() *preferences.Store { return d.prefs }

// Table returns the CRUD table for an entity slug.
func (d *Dashboard) Table(slug string) (*crud.Table, error) {
	tbl, ok := d.tables[slug]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("table %q not found", slug))
	}
	return tbl, nil
}
