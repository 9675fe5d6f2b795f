package dashboard

import (
	"context"
	"fmt"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/angelmondragon/estatedesk-backend/internal/catalog"
	"github.com/angelmondragon/estatedesk-backend/internal/entities"
	"github.com/angelmondragon/estatedesk-backend/internal/media"
	"github.com/angelmondragon/estatedesk-backend/internal/preferences"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(testLogger(), catalog.Options{})
	require.NoError(t, err)
	require.NoError(t, c.Seed())
	return c
}

func newDashboard(t *testing.T) *Dashboard {
	t.Helper()
	prefs, err := preferences.NewStore(preferences.NewMemoryBackend(), "table-preferences-storage", testLogger())
	require.NoError(t, err)
	prefs.Hydrate(context.Background())
	d, err := New(newCatalog(t), prefs, testLogger())
	require.NoError(t, err)
	return d
}

func TestPagesUseRouteKeys(t *testing.T) {
	d := newDashboard(t)
	pages := d.Pages()
	require.Len(t, pages, 9)
	assert.Equal(t, "/dashboard/properties-table-prefs", pages[0].PrefsKey)
	assert.True(t, pages[0].HasMedia)
	assert.False(t, pages[1].HasMedia)

	_, err := d.Table("queries")
	require.NoError(t, err)
	_, err = d.Table("nope")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestTablesShareOnePreferenceStore(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)
	users, _ := d.Table("users")
	require.NoError(t, users.Grid().SetColumnVisibility(ctx, "phone", false))
	cities, _ := d.Table("cities")
	require.NoError(t, cities.Grid().SetPageSize(ctx, 20))

	keys := d.Preferences().Keys()
	assert.Contains(t, keys, "/dashboard/users-table-prefs")
	assert.Contains(t, keys, "/dashboard/cities-table-prefs")
}

func TestOverview(t *testing.T) {
	d := newDashboard(t)
	o := d.Overview()
	assert.Equal(t, Counts{Properties: 2, Files: 2, Maps: 2, Queries: 19, UnreadQueries: 11}, o.Counts)

	require.NotEmpty(t, o.Chart)
	assert.Equal(t, "2025-09-01", o.Chart[0].Date)
	var nov30 ChartPoint
	for i, p := range o.Chart {
		if i > 0 {
			assert.Less(t, o.Chart[i-1].Date, p.Date)
		}
		if p.Date == "2025-11-30" {
			nov30 = p
		}
	}
	assert.Equal(t, ChartPoint{Date: "2025-11-30", TotalQueries: 4, UnreadQueries: 4}, nov30)
}

func TestQueryChartEmpty(t *testing.T) {
	assert.Empty(t, QueryChart(nil))
	day := time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC)
	chart := QueryChart([]catalog.Query{
		{Meta: entities.Meta{ChangedAt: day}, IsRead: true},
		{Meta: entities.Meta{ChangedAt: day.Add(30 * time.Minute)}},
	})
	assert.Equal(t, []ChartPoint{{Date: "2025-01-02", TotalQueries: 1}, {Date: "2025-01-03", TotalQueries: 1, UnreadQueries: 1}}, chart)
}

type memBlobs struct {
	seq     int
	deleted []string
}

func (m *memBlobs) Put(_ context.Context, name, _ string, _ []byte) (media.Blob, error) {
	m.seq++
	key := fmt.Sprintf("%d-%s", m.seq, name)
	return media.Blob{Key: key, URL: "/media/" + key}, nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func TestMediaServicePersistsIntoRecord(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	blobs := &memBlobs{}
	svc, err := NewMediaService(cat, blobs, testLogger())
	require.NoError(t, err)

	villa := cat.Properties.List()[0]
	res, view, err := svc.Upload(ctx, "properties", villa.ID, media.SlotImages, []media.Upload{
		{Name: "pool.jpg", ContentType: "image/jpeg", Size: 100},
	})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	require.Len(t, view, 3)
	assert.Len(t, view[0].Items, 2)

	stored, _ := cat.Properties.Get(villa.ID)
	require.Len(t, stored.Media, 4)
	assert.True(t, stored.ChangedAt.After(villa.ChangedAt))

	_, err = svc.TogglePrimary(ctx, "properties", villa.ID, res.Added[0].ID)
	require.NoError(t, err)
	stored, _ = cat.Properties.Get(villa.ID)
	var primary []string
	for _, item := range stored.Media {
		if item.IsPrimary {
			primary = append(primary, item.ID)
		}
	}
	assert.Equal(t, []string{res.Added[0].ID}, primary)

	_, err = svc.Remove(ctx, "properties", villa.ID, res.Added[0].ID)
	require.NoError(t, err)
	stored, _ = cat.Properties.Get(villa.ID)
	assert.Len(t, stored.Media, 3)
	assert.True(t, stored.Media[0].IsPrimary)
	assert.Equal(t, []string{res.Added[0].BlobKey}, blobs.deleted)
}

func TestMediaServiceMoveNoopKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	svc, err := NewMediaService(cat, &memBlobs{}, testLogger())
	require.NoError(t, err)

	office := cat.Properties.List()[1]
	_, err = svc.Move(ctx, "properties", office.ID, office.Media[0].ID, "unknown")
	require.NoError(t, err)
	stored, _ := cat.Properties.Get(office.ID)
	assert.Equal(t, office.ChangedAt, stored.ChangedAt)
}

func TestMediaServiceMaps(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	svc, err := NewMediaService(cat, &memBlobs{}, testLogger())
	require.NoError(t, err)

	m := cat.Maps.List()[0]
	_, _, err = svc.Upload(ctx, "maps", m.ID, media.SlotMapPDF, []media.Upload{{Name: "layout.pdf", Data: []byte("%PDF-1.5\n")}})
	require.NoError(t, err)
	stored, _ := cat.Maps.Get(m.ID)
	require.Len(t, stored.Media, 1)
	assert.False(t, stored.Media[0].IsPrimary)

	_, err = svc.View(ctx, "files", m.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.View(ctx, "maps", "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestMediaServiceFailedSaveReleasesUploads(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	disk, err := media.NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)
	svc, err := NewMediaService(cat, disk, testLogger())
	require.NoError(t, err)

	o := svc.owners["properties"]
	o.save = func(string, []media.Item) error { return errors.New("record gone") }
	svc.owners["properties"] = o

	villa := cat.Properties.List()[0]
	_, _, err = svc.Upload(ctx, "properties", villa.ID, media.SlotImages, []media.Upload{
		{Name: "pool.jpg", ContentType: "image/jpeg", Size: 100},
		{Name: "garden.jpg", ContentType: "image/jpeg", Size: 100},
	})
	require.EqualError(t, err, "record gone")

	entries, err := os.ReadDir(disk.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
	stored, _ := cat.Properties.Get(villa.ID)
	assert.Equal(t, villa.Media, stored.Media)
}
