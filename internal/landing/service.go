package landing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/angelmondragon/estatedesk-backend/internal/catalog"
	"github.com/angelmondragon/estatedesk-backend/internal/crud"
	"github.com/angelmondragon/estatedesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

const (
	SectionFeaturedProperties = "featuredProperties"
	SectionCategories         = "categories"
	SectionMaps               = "maps"
	SectionFiles              = "files"
	SectionPhases             = "phases"
	SectionSocieties          = "societies"
)

// Item is one entry picked for a section.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Section struct {
	Key           string `json:"key"`
	IsVisible     bool   `json:"isVisible"`
	Heading       string `json:"heading"`
	Subheading    string `json:"subheading"`
	SelectedItems []Item `json:"selectedItems"`
}

// Patch carries a partial section update. Nil fields are left alone.
type Patch struct {
	IsVisible  *bool   `json:"isVisible"`
	Heading    *string `json:"heading"`
	Subheading *string `json:"subheading"`
}

func defaultSections() []Section {
	return []Section{
		{Key: SectionFeaturedProperties, IsVisible: true, Heading: "Featured Properties", Subheading: "Discover our hand-picked selection of properties."},
		{Key: SectionCategories, IsVisible: true, Heading: "Property Categories", Subheading: "Explore properties by type."},
		{Key: SectionMaps, IsVisible: true, Heading: "Location Maps", Subheading: "Find properties in prime locations."},
		{Key: SectionFiles, IsVisible: false, Heading: "Available Files", Subheading: "Explore available property files."},
		{Key: SectionPhases, IsVisible: true, Heading: "Development Phases", Subheading: "Discover properties in various development phases."},
		{Key: SectionSocieties, IsVisible: true, Heading: "Housing Societies", Subheading: "Browse properties within top housing societies."},
	}
}

var demoSelections = map[string][]string{
	SectionFeaturedProperties: {"Luxury Villa", "Downtown Office Space"},
	SectionCategories:         {"Residential", "Commercial"},
	SectionMaps:               {"DHA Phase 8 Map"},
	SectionFiles:              {"DHA Phase 8 - 5 Marla Residential File"},
	SectionPhases:             {"Phase 8"},
	SectionSocieties:          {"DHA", "Bahria Town"},
}

type store interface {
	List(ctx context.Context) ([]models.LandingSection, error)
	SaveAll(ctx context.Context, rows []models.LandingSection) error
}

// Service edits the home page configuration and serves its public view.
type Service struct {
	repo store
	cat  *catalog.Catalog
	logg *logger.Logger

	mu       sync.RWMutex
	sections []Section
}

func NewService(repo store, cat *catalog.Catalog, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("landing repository required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{repo: repo, cat: cat, logg: logg, sections: defaultSections()}, nil
}

// Load replaces the working copy with the saved configuration. Sections
// that were never saved keep their defaults.
func (s *Service) Load(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load landing configuration")
	}

	saved := make(map[string]models.LandingSection, len(rows))
	for _, row := range rows {
		saved[row.Key] = row
	}

	sections := defaultSections()
	for i := range sections {
		row, ok := saved[sections[i].Key]
		if !ok {
			continue
		}
		var items []Item
		if err := json.Unmarshal([]byte(row.SelectedItems), &items); err != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"section": row.Key, "error": err.Error()}), "landing.load.bad_selection")
			items = nil
		}
		sections[i] = Section{
			Key:           row.Key,
			IsVisible:     row.IsVisible,
			Heading:       row.Heading,
			Subheading:    row.Subheading,
			SelectedItems: items,
		}
	}

	s.mu.Lock()
	s.sections = sections
	s.mu.Unlock()
	s.logg.Info(s.logg.WithField(ctx, "saved_sections", len(rows)), "landing.load")
	return nil
}

// Sections returns a copy of the working configuration.
func (s *Service) Sections() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSections(s.sections)
}

func (s *Service) Section(key string) (Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.indexOf(key)
	if err != nil {
		return Section{}, err
	}
	return cloneSections(s.sections[i : i+1])[0], nil
}

// Available lists the items a section can pick from.
func (s *Service) Available(key string) ([]Item, error) {
	switch key {
	case SectionFeaturedProperties:
		var out []Item
		for _, p := range s.cat.Properties.List() {
			out = append(out, Item{ID: p.ID, Label: p.Title})
		}
		return out, nil
	case SectionMaps:
		var out []Item
		for _, m := range s.cat.Maps.List() {
			out = append(out, Item{ID: m.ID, Label: m.Title})
		}
		return out, nil
	case SectionFiles:
		var out []Item
		for _, f := range s.cat.Files.List() {
			out = append(out, Item{ID: f.ID, Label: f.Title})
		}
		return out, nil
	case SectionCategories:
		return termItems(s.cat.Categories), nil
	case SectionPhases:
		return termItems(s.cat.Phases), nil
	case SectionSocieties:
		return termItems(s.cat.Societies), nil
	}
	return nil, unknownSection(key)
}

func termItems(store *catalog.TermStore) []Item {
	var out []Item
	for _, t := range store.List() {
		out = append(out, Item{ID: t.ID, Label: t.Name})
	}
	return out
}

func (s *Service) UpdateSection(ctx context.Context, key string, patch Patch) (Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.indexOf(key)
	if err != nil {
		return Section{}, err
	}
	sec := &s.sections[i]
	if patch.IsVisible != nil {
		sec.IsVisible = *patch.IsVisible
	}
	if patch.Heading != nil {
		sec.Heading = *patch.Heading
	}
	if patch.Subheading != nil {
		sec.Subheading = *patch.Subheading
	}
	s.logg.Debug(s.logg.WithField(ctx, "section", key), "landing.section.updated")
	return cloneSections(s.sections[i : i+1])[0], nil
}

// SelectItems sets the ordered selection of a section. Duplicate ids keep
// their first position.
func (s *Service) SelectItems(ctx context.Context, key string, ids []string) (Section, error) {
	available, err := s.Available(key)
	if err != nil {
		return Section{}, err
	}
	byID := make(map[string]Item, len(available))
	for _, item := range available {
		byID[item.ID] = item
	}

	seen := make(map[string]struct{}, len(ids))
	items := make([]Item, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		item, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		items = append(items, item)
	}
	if len(unknown) > 0 {
		return Section{}, pkgerrors.New(pkgerrors.CodeValidation, "selection contains unknown items").
			WithDetails(map[string]any{"section": key, "unknown": unknown})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.indexOf(key)
	if err != nil {
		return Section{}, err
	}
	s.sections[i].SelectedItems = items
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"section": key, "selected": len(items)}), "landing.section.selected")
	return cloneSections(s.sections[i : i+1])[0], nil
}

// Save persists the working configuration.
func (s *Service) Save(ctx context.Context) (*crud.Notice, error) {
	s.mu.RLock()
	rows := make([]models.LandingSection, 0, len(s.sections))
	for i, sec := range s.sections {
		items := sec.SelectedItems
		if items == nil {
			items = []Item{}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			s.mu.RUnlock()
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode landing selection")
		}
		rows = append(rows, models.LandingSection{
			Key:           sec.Key,
			Position:      i,
			IsVisible:     sec.IsVisible,
			Heading:       sec.Heading,
			Subheading:    sec.Subheading,
			SelectedItems: string(raw),
		})
	}
	s.mu.RUnlock()

	if err := s.repo.SaveAll(ctx, rows); err != nil {
		s.logg.Error(ctx, "landing.save.failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save landing configuration")
	}
	s.logg.Info(ctx, "landing.save")
	return crud.Success("Landing Page configuration saved!"), nil
}

// Reset restores the defaults in memory. Nothing is persisted until Save.
func (s *Service) Reset(ctx context.Context) *crud.Notice {
	s.mu.Lock()
	s.sections = defaultSections()
	s.mu.Unlock()
	s.logg.Info(ctx, "landing.reset")
	return crud.Info("Landing Page configuration reset to defaults.")
}

// SeedDemo selects the demo items by label. Labels missing from the
// catalog are skipped.
func (s *Service) SeedDemo(ctx context.Context) error {
	for _, def := range defaultSections() {
		available, err := s.Available(def.Key)
		if err != nil {
			return err
		}
		var ids []string
		for _, label := range demoSelections[def.Key] {
			for _, item := range available {
				if item.Label == label {
					ids = append(ids, item.ID)
					break
				}
			}
		}
		if _, err := s.SelectItems(ctx, def.Key, ids); err != nil {
			return err
		}
	}
	return nil
}

// Public returns the visible sections with selections resolved against the
// current catalog. Deleted items drop out and renamed items show their new
// label.
func (s *Service) Public() []Section {
	sections := s.Sections()
	out := make([]Section, 0, len(sections))
	for _, sec := range sections {
		if !sec.IsVisible {
			continue
		}
		available, err := s.Available(sec.Key)
		if err != nil {
			continue
		}
		labels := make(map[string]string, len(available))
		for _, item := range available {
			labels[item.ID] = item.Label
		}
		items := make([]Item, 0, len(sec.SelectedItems))
		for _, item := range sec.SelectedItems {
			label, ok := labels[item.ID]
			if !ok {
				continue
			}
			items = append(items, Item{ID: item.ID, Label: label})
		}
		sec.SelectedItems = items
		out = append(out, sec)
	}
	return out
}

func (s *Service) indexOf(key string) (int, error) {
	for i := range s.sections {
		if s.sections[i].Key == key {
			return i, nil
		}
	}
	return -1, unknownSection(key)
}

func unknownSection(key string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("landing section %q not found", key))
}

func cloneSections(in []Section) []Section {
	out := make([]Section, len(in))
	for i, sec := range in {
		out[i] = sec
		if sec.SelectedItems != nil {
			out[i].SelectedItems = append([]Item(nil), sec.SelectedItems...)
		}
	}
	return out
}
