package entities

import (
	"fmt"
	"slices"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/google/uuid"
)

// Meta is embedded by every record held in a Store.
type Meta struct {
	ID        string    `json:"id"`
	ChangedAt time.Time `json:"changed_at"`
}

func (m *Meta) EntityMeta() *Meta { return m }

func (m Meta) GetID() string { return m.ID }

// Entity is satisfied by a pointer to a struct embedding Meta.
type Entity[T any] interface {
	*T
	EntityMeta() *Meta
}

// Recorder receives mutation counts and store sizes.
type Recorder interface {
	Mutation(entity, op string)
	Records(entity string, count int)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string, string) {}
func (nopRecorder) Records(string, int)     {}

type Options[T any] struct {
	Now      func() time.Time
	NewID    func() string
	OnAdd    func(item *T)
	Recorder Recorder
}

// Store is an owned, ordered collection of records of one type. It never holds
// two records with the same id.
type Store[T any, PT Entity[T]] struct {
	name     string
	now      func() time.Time
	newID    func() string
	onAdd    func(*T)
	recorder Recorder

	mu    sync.RWMutex
	items []T
}

func NewStore[T any, PT Entity[T]](name string, opts Options[T]) *Store[T, PT] {
	s := &Store[T, PT]{
		name:     name,
		now:      opts.Now,
		newID:    opts.NewID,
		onAdd:    opts.OnAdd,
		recorder: opts.Recorder,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	return s
}

func (s *Store[T, PT]) Name() string { return s.name }

func meta[T any, PT Entity[T]](item *T) *Meta {
	return PT(item).EntityMeta()
}

func (s *Store[T, PT]) indexOf(id string) int {
	for i := range s.items {
		if meta[T, PT](&s.items[i]).ID == id {
			return i
		}
	}
	return -1
}

func (s *Store[T, PT]) notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s %s not found", s.name, id))
}

// Seed replaces the contents. Records without an id get one; duplicate ids
// are rejected and leave the store unchanged.
func (s *Store[T, PT]) Seed(items ...T) error {
	next := slices.Clone(items)
	seen := make(map[string]bool, len(next))
	for i := range next {
		m := meta[T, PT](&next[i])
		if m.ID == "" {
			m.ID = s.newID()
		}
		if seen[m.ID] {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("duplicate %s id %s in seed", s.name, m.ID))
		}
		seen[m.ID] = true
	}
	s.mu.Lock()
	s.items = next
	count := len(s.items)
	s.mu.Unlock()
	s.recorder.Records(s.name, count)
	return nil
}

// List returns a copy of the records in insertion order.
func (s *Store[T, PT]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store[T, PT]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	var zero T
	return zero, s.notFound(id)
}

// Add appends a record stamped with the current time. An empty id is filled
// from the id generator.
func (s *Store[T, PT]) Add(item T) (T, error) {
	m := meta[T, PT](&item)
	if m.ID == "" {
		m.ID = s.newID()
	}
	m.ChangedAt = s.now()
	if s.onAdd != nil {
		s.onAdd(&item)
		m = meta[T, PT](&item)
	}

	s.mu.Lock()
	if s.indexOf(m.ID) >= 0 {
		s.mu.Unlock()
		var zero T
		return zero, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s %s already exists", s.name, m.ID))
	}
	s.items = append(s.items, item)
	count := len(s.items)
	s.mu.Unlock()

	s.recorder.Mutation(s.name, "add")
	s.recorder.Records(s.name, count)
	return item, nil
}

// Edit replaces the record with the same id and refreshes its timestamp.
func (s *Store[T, PT]) Edit(item T) (T, error) {
	m := meta[T, PT](&item)
	m.ChangedAt = s.now()

	s.mu.Lock()
	i := s.indexOf(m.ID)
	if i < 0 {
		s.mu.Unlock()
		var zero T
		return zero, s.notFound(m.ID)
	}
	s.items[i] = item
	s.mu.Unlock()

	s.recorder.Mutation(s.name, "edit")
	return item, nil
}

// Mutate changes a record in place without touching its timestamp. The id
// cannot be changed through fn.
func (s *Store[T, PT]) Mutate(id string, fn func(item *T)) (T, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		var zero T
		return zero, s.notFound(id)
	}
	fn(&s.items[i])
	meta[T, PT](&s.items[i]).ID = id
	item := s.items[i]
	s.mu.Unlock()

	s.recorder.Mutation(s.name, "mutate")
	return item, nil
}

// Update applies fn to the stored record and refreshes its timestamp in one
// critical section. fn must not call back into the store.
func (s *Store[T, PT]) Update(id string, fn func(item *T)) (T, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		var zero T
		return zero, s.notFound(id)
	}
	fn(&s.items[i])
	m := meta[T, PT](&s.items[i])
	m.ID = id
	m.ChangedAt = s.now()
	item := s.items[i]
	s.mu.Unlock()

	s.recorder.Mutation(s.name, "edit")
	return item, nil
}

func (s *Store[T, PT]) Delete(id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return s.notFound(id)
	}
	s.items = slices.Delete(s.items, i, i+1)
	count := len(s.items)
	s.mu.Unlock()

	s.recorder.Mutation(s.name, "delete")
	s.recorder.Records(s.name, count)
	return nil
}

// DeleteMany removes every record whose id is listed and reports how many
// were removed. Unknown ids are ignored.
func (s *Store[T, PT]) DeleteMany(ids []string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(item T) bool {
		_, ok := drop[meta[T, PT](&item).ID]
		return ok
	})
	removed := before - len(s.items)
	count := len(s.items)
	s.mu.Unlock()

	if removed > 0 {
		s.recorder.Mutation(s.name, "bulk_delete")
		s.recorder.Records(s.name, count)
	}
	return removed
}

func (s *Store[T, PT]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T, PT]) CountWhere(pred func(T) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.items {
		if pred(item) {
			n++
		}
	}
	return n
}
