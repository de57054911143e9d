package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sevenoy/GeminiMeds/models"
)

// memoryLocalStore is the in-memory Local Store Adapter. Both collections
// share one lock, which makes ReplaceAll and the cascade delete atomic.
type memoryLocalStore struct {
	mu          sync.RWMutex
	medications *memoryCollection[models.Medication]
	logs        *memoryCollection[models.MedicationLog]
	meta        *memoryMetaRepository
	observers   observers
}

// NewMemoryLocalStore returns an empty in-memory local store. It backs tests
// and throwaway sessions.
func NewMemoryLocalStore() LocalStore {
	s := &memoryLocalStore{
		meta: &memoryMetaRepository{values: make(map[string]string)},
	}
	s.medications = &memoryCollection[models.Medication]{mu: &s.mu, def: medicationsTable, byID: make(map[string]models.Medication), notify: s.observers.notify}
	s.logs = &memoryCollection[models.MedicationLog]{mu: &s.mu, def: logsTable, byID: make(map[string]models.MedicationLog), notify: s.observers.notify}

	return s
}

func (s *memoryLocalStore) Medications() MedicationCollection { return s.medications }
func (s *memoryLocalStore) Logs() LogCollection               { return s.logs }
func (s *memoryLocalStore) Meta() MetaRepository              { return s.meta }

func (s *memoryLocalStore) Observe(observer ChangeObserver) {
	s.observers.add(observer)
}

func (s *memoryLocalStore) ReplaceAll(ctx context.Context, medications []models.Medication, logs []models.MedicationLog) error {
	s.mu.Lock()
	s.medications.replaceLocked(medications)
	s.logs.replaceLocked(logs)
	s.mu.Unlock()

	s.observers.notify(ctx, models.TopicMedications)
	s.observers.notify(ctx, models.TopicLogs)
	return nil
}

func (s *memoryLocalStore) DeleteMedicationCascade(ctx context.Context, medicationID string) (int64, error) {
	s.mu.Lock()
	var removed int64
	for id, l := range s.logs.byID {
		if l.MedicationID == medicationID {
			delete(s.logs.byID, id)
			removed++
		}
	}
	delete(s.medications.byID, medicationID)
	s.mu.Unlock()

	s.observers.notify(ctx, models.TopicMedications)
	if removed > 0 {
		s.observers.notify(ctx, models.TopicLogs)
	}
	return removed, nil
}

func (s *memoryLocalStore) DeleteOrphanLogs(ctx context.Context) (int64, error) {
	s.mu.Lock()
	var removed int64
	for id, l := range s.logs.byID {
		if _, ok := s.medications.byID[l.MedicationID]; !ok {
			delete(s.logs.byID, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.observers.notify(ctx, models.TopicLogs)
	}
	return removed, nil
}

func (s *memoryLocalStore) Close() error {
	return nil
}

type memoryCollection[T any] struct {
	mu     *sync.RWMutex
	def    tableDef[T]
	byID   map[string]T
	notify func(ctx context.Context, topic models.Topic)
}

func (c *memoryCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sorted(func(T) bool { return true }), nil
}

func (c *memoryCollection[T]) GetByID(ctx context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %s", ErrRecordNotFound, c.def.table, id)
	}
	return item, nil
}

func (c *memoryCollection[T]) Upsert(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}

	c.mu.Lock()
	for _, item := range items {
		c.byID[c.def.id(item)] = item
	}
	c.mu.Unlock()

	c.notify(ctx, c.def.topic)
	return nil
}

// Delete removes id. Observers hear about it only when the record existed.
func (c *memoryCollection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	_, existed := c.byID[id]
	delete(c.byID, id)
	c.mu.Unlock()

	if existed {
		c.notify(ctx, c.def.topic)
	}
	return nil
}

func (c *memoryCollection[T]) DeleteWhere(ctx context.Context, field Field, value any) (int64, error) {
	match, err := c.matcher(field, value)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	var removed int64
	for id, item := range c.byID {
		if match(item) {
			delete(c.byID, id)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.notify(ctx, c.def.topic)
	}
	return removed, nil
}

func (c *memoryCollection[T]) GetWhere(ctx context.Context, field Field, value any) ([]T, error) {
	match, err := c.matcher(field, value)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sorted(match), nil
}

func (c *memoryCollection[T]) BulkReplace(ctx context.Context, items []T) error {
	c.mu.Lock()
	c.replaceLocked(items)
	c.mu.Unlock()

	c.notify(ctx, c.def.topic)
	return nil
}

func (c *memoryCollection[T]) replaceLocked(items []T) {
	c.byID = make(map[string]T, len(items))
	for _, item := range items {
		c.byID[c.def.id(item)] = item
	}
}

func (c *memoryCollection[T]) matcher(field Field, value any) (func(T) bool, error) {
	get, ok := c.def.filters[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnsupportedField, c.def.table, field)
	}

	want := filterValue(value)
	return func(item T) bool { return filterValue(get(item)) == want }, nil
}

func (c *memoryCollection[T]) sorted(keep func(T) bool) []T {
	items := make([]T, 0, len(c.byID))
	for _, item := range c.byID {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return c.def.id(items[i]) < c.def.id(items[j]) })
	return items
}

type memoryMetaRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func (r *memoryMetaRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return "", fmt.Errorf("%w: meta %s", ErrRecordNotFound, key)
	}
	return v, nil
}

func (r *memoryMetaRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.values[key] = value
	r.mu.Unlock()
	return nil
}

func (r *memoryMetaRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.values, key)
	r.mu.Unlock()
	return nil
}
