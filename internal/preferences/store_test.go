package preferences

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

const testStorageKey = "table-preferences-storage"

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newHydratedStore(t *testing.T, backend Backend) *Store {
	t.Helper()
	store, err := NewStore(backend, testStorageKey, testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Hydrate(context.Background())
	return store
}

type failingBackend struct {
	loadErr error
	saveErr error
	mu      sync.Mutex
	saves   int
}

func (f *failingBackend) Load(context.Context, string) ([]byte, error) { return nil, f.loadErr }

func (f *failingBackend) Save(context.Context, string, []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return f.saveErr
}

func TestNewStoreValidatesDeps(t *testing.T) {
	if _, err := NewStore(nil, testStorageKey, testLogger()); err == nil {
		t.Fatal("expected missing backend error")
	}
	if _, err := NewStore(NewMemoryBackend(), " ", testLogger()); err == nil {
		t.Fatal("expected missing storage key error")
	}
	if _, err := NewStore(NewMemoryBackend(), testStorageKey, nil); err == nil {
		t.Fatal("expected missing logger error")
	}
}

func TestGetBeforeHydrationFails(t *testing.T) {
	store, err := NewStore(NewMemoryBackend(), testStorageKey, testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.Hydrated() {
		t.Fatal("store should not start hydrated")
	}
	if _, err := store.Get("/admin/properties-table-prefs"); !IsNotHydrated(err) {
		t.Fatalf("expected not hydrated error, got %v", err)
	}
	if err := store.Set(context.Background(), "k", FieldPagination, Pagination{PageSize: 20}); !IsNotHydrated(err) {
		t.Fatalf("expected not hydrated error on set, got %v", err)
	}
}

func TestGetUnseenKeyReturnsDefaults(t *testing.T) {
	store := newHydratedStore(t, NewMemoryBackend())
	prefs, err := store.Get("/admin/maps-table-prefs")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if prefs.Pagination.PageIndex != 0 || prefs.Pagination.PageSize != 10 {
		t.Fatalf("unexpected default pagination %+v", prefs.Pagination)
	}
	if len(prefs.ColumnVisibility) != 0 || len(prefs.Sorting) != 0 || prefs.RowOrder != nil {
		t.Fatalf("unexpected defaults %+v", prefs)
	}
	if len(store.Keys()) != 0 {
		t.Fatalf("reading an unseen key must not create it")
	}
}

func TestSetMergesOneFieldAndPersists(t *testing.T) {
	backend := NewMemoryBackend()
	store := newHydratedStore(t, backend)
	ctx := context.Background()
	key := KeyFor("/admin/properties")

	if err := store.Set(ctx, key, FieldColumnVisibility, map[string]bool{"price": false}); err != nil {
		t.Fatalf("Set visibility: %v", err)
	}
	if err := store.Set(ctx, key, FieldPagination, Pagination{PageIndex: 1, PageSize: 20}); err != nil {
		t.Fatalf("Set pagination: %v", err)
	}

	prefs, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if prefs.IsColumnVisible("price") {
		t.Fatal("price should be hidden")
	}
	if !prefs.IsColumnVisible("title") {
		t.Fatal("columns absent from the map are visible")
	}
	if prefs.Pagination.PageSize != 20 || prefs.Pagination.PageIndex != 1 {
		t.Fatalf("unexpected pagination %+v", prefs.Pagination)
	}

	reloaded := newHydratedStore(t, backend)
	again, err := reloaded.Get(key)
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if again.IsColumnVisible("price") || again.Pagination.PageSize != 20 {
		t.Fatalf("persisted state not restored: %+v", again)
	}
}

func TestSetRejectsWrongValueType(t *testing.T) {
	store := newHydratedStore(t, NewMemoryBackend())
	err := store.Set(context.Background(), "k", FieldSorting, "title asc")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	err = store.Set(context.Background(), "k", FieldSorting, []SortRule{{ColumnID: "title", Direction: "up"}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected invalid direction to be rejected, got %v", err)
	}
}

func TestResetOnlyTouchesOneKey(t *testing.T) {
	store := newHydratedStore(t, NewMemoryBackend())
	ctx := context.Background()
	sorting := []SortRule{{ColumnID: "title", Direction: enums.SortDirectionAsc}}

	for _, key := range []string{"a-table-prefs", "b-table-prefs"} {
		if err := store.Set(ctx, key, FieldSorting, sorting); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if err := store.Reset(ctx, "a-table-prefs"); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	a, _ := store.Get("a-table-prefs")
	b, _ := store.Get("b-table-prefs")
	if len(a.Sorting) != 0 {
		t.Fatalf("expected reset sorting, got %+v", a.Sorting)
	}
	if len(b.Sorting) != 1 {
		t.Fatalf("other key must be untouched, got %+v", b.Sorting)
	}
}

func TestInitializeKeepsExistingRecord(t *testing.T) {
	store := newHydratedStore(t, NewMemoryBackend())
	ctx := context.Background()
	if err := store.Initialize(ctx, "k"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(store.Keys()) != 1 {
		t.Fatal("expected key to be created")
	}
	if err := store.Set(ctx, "k", FieldRowOrder, []string{"b", "a"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Initialize(ctx, "k"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	prefs, _ := store.Get("k")
	if len(prefs.RowOrder) != 2 {
		t.Fatalf("initialize must not overwrite, got %+v", prefs)
	}
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	backend := &failingBackend{saveErr: errors.New("quota exceeded")}
	store := newHydratedStore(t, backend)
	if err := store.Set(context.Background(), "k", FieldPagination, Pagination{PageSize: 30}); err != nil {
		t.Fatalf("save failures must not surface, got %v", err)
	}
	prefs, _ := store.Get("k")
	if prefs.Pagination.PageSize != 30 {
		t.Fatal("in-memory state should still change")
	}
	if backend.saves != 1 {
		t.Fatalf("expected one save attempt, got %d", backend.saves)
	}
}

func TestHydrateToleratesBadStorage(t *testing.T) {
	store := newHydratedStore(t, &failingBackend{loadErr: errors.New("disk gone")})
	if !store.Hydrated() {
		t.Fatal("load failure should still hydrate")
	}

	corrupt := NewMemoryBackend()
	_ = corrupt.Save(context.Background(), testStorageKey, []byte("{not json"))
	store = newHydratedStore(t, corrupt)
	if !store.Hydrated() || len(store.Keys()) != 0 {
		t.Fatal("corrupt blob should hydrate to an empty map")
	}
}

func TestWaitHydrated(t *testing.T) {
	store, err := NewStore(NewMemoryBackend(), testStorageKey, testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.WaitHydrated(ctx); err == nil {
		t.Fatal("expected cancelled wait to fail")
	}
	store.Hydrate(context.Background())
	store.Hydrate(context.Background())
	if err := store.WaitHydrated(context.Background()); err != nil {
		t.Fatalf("WaitHydrated: %v", err)
	}
}

func TestConcurrentSetsAreSerialized(t *testing.T) {
	store := newHydratedStore(t, NewMemoryBackend())
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(ctx, KeyFor("/admin/queries"), FieldPagination, Pagination{PageIndex: i, PageSize: 10})
		}(i)
	}
	wg.Wait()
	if len(store.Snapshot()) != 1 {
		t.Fatal("expected a single key")
	}
}
