package preferences

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/angelmondragon/estatedesk-backend/pkg/db/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	backend, err := NewFileBackend(path)
	require.NoError(t, err)

	payload, err := backend.Load(context.Background(), testStorageKey)
	require.NoError(t, err)
	require.Nil(t, payload)

	require.NoError(t, backend.Save(context.Background(), testStorageKey, []byte(`{"version":1}`)))
	payload, err = backend.Load(context.Background(), testStorageKey)
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1}`, string(payload))
}

func TestDBBackendUpserts(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.PreferenceBlob{}))

	backend, err := NewDBBackend(conn)
	require.NoError(t, err)
	ctx := context.Background()

	payload, err := backend.Load(ctx, testStorageKey)
	require.NoError(t, err)
	require.Nil(t, payload)

	require.NoError(t, backend.Save(ctx, testStorageKey, []byte(`{"a":1}`)))
	require.NoError(t, backend.Save(ctx, testStorageKey, []byte(`{"a":2}`)))

	payload, err = backend.Load(ctx, testStorageKey)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":2}`, string(payload))

	var count int64
	require.NoError(t, conn.Model(&models.PreferenceBlob{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

type stubRedis struct {
	data map[string]string
}

func (s *stubRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *stubRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.data[key] = fmt.Sprint(value)
	return nil
}

func (s *stubRedis) PreferencesKey(storageKey string) string {
	return "ed:preferences:" + storageKey
}

func TestRedisBackendRoundTrip(t *testing.T) {
	stub := &stubRedis{data: map[string]string{}}
	backend, err := NewRedisBackend(stub)
	require.NoError(t, err)
	ctx := context.Background()

	payload, err := backend.Load(ctx, testStorageKey)
	require.NoError(t, err)
	require.Nil(t, payload)

	require.NoError(t, backend.Save(ctx, testStorageKey, []byte(`{"b":true}`)))
	require.Contains(t, stub.data, "ed:preferences:table-preferences-storage")

	payload, err = backend.Load(ctx, testStorageKey)
	require.NoError(t, err)
	require.Equal(t, `{"b":true}`, string(payload))
}

func TestStoreOverDBBackend(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.PreferenceBlob{}))
	backend, err := NewDBBackend(conn)
	require.NoError(t, err)

	store := newHydratedStore(t, backend)
	require.NoError(t, store.Set(context.Background(), "k", FieldRowOrder, []string{"2", "1"}))

	reloaded := newHydratedStore(t, backend)
	prefs, err := reloaded.Get("k")
	require.NoError(t, err)
	require.Equal(t, []string{"2", "1"}, prefs.RowOrder)
}
