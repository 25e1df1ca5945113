package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newInsertID() string { return primitive.NewObjectID().Hex() }

// ErrContention is returned when a Mutate keeps losing the optimistic
// version check against concurrent writers.
var ErrContention = errors.New("mutate: too much contention")

// A writer can lose the version check once per concurrent success, so the
// cap must sit well above any realistic burst of concurrent mutators.
const mutateMaxRetries = 256

// Memory is an in-process DocumentStore. It backs the test suites and the
// development mode that runs without a MongoDB instance. Mutate uses
// per-document versions with optimistic retry, so concurrent increments
// contend the same way they would against the real store.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]bson.M
	versions    map[string]map[string]uint64
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]bson.M),
		versions:    make(map[string]map[string]uint64),
	}
}

func (m *Memory) GetAll(ctx context.Context, collection string) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]Doc, 0, len(m.collections[collection]))
	for id, data := range m.collections[collection] {
		docs = append(docs, Doc{ID: id, Data: cloneDoc(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *Memory) GetOne(ctx context.Context, collection, id string) (bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDoc(data), nil
}

func (m *Memory) Set(ctx context.Context, collection, id string, data bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(collection, id, cloneDoc(data))
	return nil
}

func (m *Memory) Insert(ctx context.Context, collection string, data bson.M) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := newInsertID()
	m.put(collection, id, cloneDoc(data))
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for key, value := range cloneDoc(fields) {
		data[key] = value
	}
	m.bump(collection, id)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.collections[collection], id)
	m.bump(collection, id)
	return nil
}

func (m *Memory) Commit(ctx context.Context, ops []BatchOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// All ops apply under one lock hold, so the batch is atomic and partial
	// application is impossible.
	for _, op := range ops {
		switch op.kind {
		case opSet:
			m.put(op.Collection, op.ID, cloneDoc(op.Data))
		case opDelete:
			delete(m.collections[op.Collection], op.ID)
			m.bump(op.Collection, op.ID)
		}
	}
	return nil
}

func (m *Memory) Mutate(ctx context.Context, collection, id string, fn MutateFunc) error {
	for attempt := 0; attempt < mutateMaxRetries; attempt++ {
		m.mu.Lock()
		stored, exists := m.collections[collection][id]
		seen := m.versions[collection][id]
		var current bson.M
		if exists {
			current = cloneDoc(stored)
		}
		m.mu.Unlock()

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		m.mu.Lock()
		if m.versions[collection][id] != seen {
			m.mu.Unlock()
			continue
		}
		m.put(collection, id, cloneDoc(next))
		m.mu.Unlock()
		return nil
	}
	return ErrContention
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

// put and bump assume the caller holds mu.

func (m *Memory) put(collection, id string, data bson.M) {
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]bson.M)
	}
	m.collections[collection][id] = data
	m.bump(collection, id)
}

func (m *Memory) bump(collection, id string) {
	if m.versions[collection] == nil {
		m.versions[collection] = make(map[string]uint64)
	}
	m.versions[collection][id]++
}

// cloneDoc round-trips through the BSON codec so stored documents never
// alias caller-held maps.
func cloneDoc(data bson.M) bson.M {
	if data == nil {
		return bson.M{}
	}
	raw, err := bson.Marshal(data)
	if err != nil {
		out := make(bson.M, len(data))
		for key, value := range data {
			out[key] = value
		}
		return out
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return data
	}
	return out
}
