package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

// ErrNotHydrated is returned by reads and writes issued before Hydrate completes.
var ErrNotHydrated = pkgerrors.New(pkgerrors.CodeStateConflict, "table preferences are still loading")

// LoadingMessage is shown by table views while hydration is pending.
const LoadingMessage = "Loading table preferences..."

const blobVersion = 1

// Backend persists the serialized preference map under a storage key.
// Load returns (nil, nil) when nothing has been stored yet.
type Backend interface {
	Load(ctx context.Context, storageKey string) ([]byte, error)
	Save(ctx context.Context, storageKey string, payload []byte) error
}

type blob struct {
	State struct {
		Preferences map[string]ViewPreferences `json:"preferences"`
	} `json:"state"`
	Version int `json:"version"`
}

// Store is the process-wide map of view key to ViewPreferences.
type Store struct {
	backend    Backend
	storageKey string
	logg       *logger.Logger

	mu       sync.RWMutex
	prefs    map[string]ViewPreferences
	hydrated bool
	ready    chan struct{}

	saveMu sync.Mutex
}

func NewStore(backend Backend, storageKey string, logg *logger.Logger) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("preferences backend required")
	}
	if strings.TrimSpace(storageKey) == "" {
		return nil, fmt.Errorf("storage key required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		backend:    backend,
		storageKey: storageKey,
		logg:       logg,
		prefs:      map[string]ViewPreferences{},
		ready:      make(chan struct{}),
	}, nil
}

// Hydrate loads the persisted blob once. Unreadable or corrupt payloads are
// logged and the store starts empty. Later calls are no-ops.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.RLock()
	done := s.hydrated
	s.mu.RUnlock()
	if done {
		return
	}

	ctx = s.logg.WithField(ctx, "storage_key", s.storageKey)
	loaded := map[string]ViewPreferences{}

	payload, err := s.backend.Load(ctx, s.storageKey)
	switch {
	case err != nil:
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "preferences.load_failed")
	case len(payload) > 0:
		var b blob
		if err := json.Unmarshal(payload, &b); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "preferences.corrupt_blob")
			break
		}
		for key, prefs := range b.State.Preferences {
			loaded[key] = prefs.normalize()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return
	}
	s.prefs = loaded
	s.hydrated = true
	close(s.ready)
	s.logg.Info(s.logg.WithField(ctx, "views", len(loaded)), "preferences.hydrated")
}

func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// WaitHydrated blocks until Hydrate completes or ctx is done.
func (s *Store) WaitHydrated(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns the preferences for key, or defaults when the key is unseen.
func (s *Store) Get(key string) (ViewPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hydrated {
		return ViewPreferences{}, ErrNotHydrated
	}
	if prefs, ok := s.prefs[key]; ok {
		return prefs.clone(), nil
	}
	return Defaults(), nil
}

// Initialize inserts defaults for an unseen key. Existing keys are untouched.
func (s *Store) Initialize(ctx context.Context, key string) error {
	return s.mutate(ctx, key, func(current ViewPreferences, exists bool) (ViewPreferences, bool, error) {
		if exists {
			return current, false, nil
		}
		return Defaults(), true, nil
	})
}

// Set merges one field into the key's record and persists the whole map.
func (s *Store) Set(ctx context.Context, key string, field Field, value any) error {
	return s.mutate(ctx, key, func(current ViewPreferences, _ bool) (ViewPreferences, bool, error) {
		next, err := apply(current, field, value)
		if err != nil {
			return current, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid preference value").
				WithDetails(map[string]string{string(field): err.Error()})
		}
		return next, true, nil
	})
}

// Reset restores the defaults for key only.
func (s *Store) Reset(ctx context.Context, key string) error {
	return s.mutate(ctx, key, func(ViewPreferences, bool) (ViewPreferences, bool, error) {
		return Defaults(), true, nil
	})
}

// Snapshot copies the full map.
func (s *Store) Snapshot() map[string]ViewPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ViewPreferences, len(s.prefs))
	for key, prefs := range s.prefs {
		out[key] = prefs.clone()
	}
	return out
}

func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.prefs))
	for key := range s.prefs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type mutation func(current ViewPreferences, exists bool) (ViewPreferences, bool, error)

// mutate applies fn under the write lock, then persists the resulting
// snapshot. saveMu is taken before the state lock is released so saves land
// in mutation order.
func (s *Store) mutate(ctx context.Context, key string, fn mutation) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "preference key required")
	}

	s.mu.Lock()
	if !s.hydrated {
		s.mu.Unlock()
		return ErrNotHydrated
	}
	current, exists := s.prefs[key]
	if !exists {
		current = Defaults()
	}
	next, changed, err := fn(current.clone(), exists)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.prefs[key] = next

	var b blob
	b.Version = blobVersion
	b.State.Preferences = s.prefs
	payload, err := json.Marshal(b)

	s.saveMu.Lock()
	s.mu.Unlock()
	defer s.saveMu.Unlock()

	ctx = s.logg.WithFields(ctx, map[string]any{"storage_key": s.storageKey, "view_key": key})
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "preferences.encode_failed")
		return nil
	}
	if err := s.backend.Save(ctx, s.storageKey, payload); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "preferences.save_failed")
	}
	return nil
}

// IsNotHydrated reports whether err came from a store that has not loaded yet.
func IsNotHydrated(err error) bool {
	return errors.Is(err, ErrNotHydrated)
}
