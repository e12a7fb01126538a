package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryDoc struct {
	id      string
	payload []byte
	created time.Time
	updated time.Time
	seq     int
}

// Memory is an in-process Store with the same observable semantics as the
// Postgres one. Tests use it instead of a live database or change feed.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
	seq         int
	feed        *fanout

	// Now is replaceable so tests can pin timestamps.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]*memoryDoc),
		feed:        newFanout(),
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) Create(ctx context.Context, collection string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s payload: %w", collection, err)
	}
	m.mu.Lock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]*memoryDoc)
	}
	id := uuid.NewString()
	now := m.Now()
	m.seq++
	m.collections[collection][id] = &memoryDoc{
		id:      id,
		payload: body,
		created: now,
		updated: now,
		seq:     m.seq,
	}
	m.mu.Unlock()
	m.feed.notify(collection)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", collection, err)
	}
	m.mu.Lock()
	doc, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	doc.payload = body
	doc.updated = m.Now()
	m.mu.Unlock()
	m.feed.notify(collection)
	return nil
}

func (m *Memory) Get(ctx context.Context, collection, id string, out any) error {
	m.mu.RLock()
	doc, ok := m.collections[collection][id]
	if !ok {
		m.mu.RUnlock()
		return fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
	}
	body, created, updated := doc.payload, doc.created, doc.updated
	m.mu.RUnlock()

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return mergeMeta(out, id, created, updated)
}

func (m *Memory) Query(ctx context.Context, collection string, filters []Filter, order Order, out any) error {
	m.mu.RLock()
	docs := make([]*memoryDoc, 0, len(m.collections[collection]))
	for _, doc := range m.collections[collection] {
		docs = append(docs, doc)
	}
	m.mu.RUnlock()

	matched := docs[:0]
	for _, doc := range docs {
		ok := true
		for _, f := range filters {
			if fieldAsText(doc.payload, f.Field) != f.Value {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, doc)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		less := func(a, b *memoryDoc) bool {
			switch order.Field {
			case "createdAt":
				if !a.created.Equal(b.created) {
					return a.created.Before(b.created)
				}
			case "updatedAt":
				if !a.updated.Equal(b.updated) {
					return a.updated.Before(b.updated)
				}
			case "":
			default:
				av, bv := fieldAsText(a.payload, order.Field), fieldAsText(b.payload, order.Field)
				if av != bv {
					return av < bv
				}
			}
			// insertion order is the stable tie-break, like Firestore
			// snapshot order
			return a.seq < b.seq
		}
		if order.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	merged := make([]json.RawMessage, 0, len(matched))
	for _, doc := range matched {
		el, err := spliceMeta(doc.payload, doc.id, doc.created, doc.updated)
		if err != nil {
			return fmt.Errorf("decode %s/%s: %w", collection, doc.id, err)
		}
		merged = append(merged, el)
	}
	all, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return json.Unmarshal(all, out)
}

func (m *Memory) Subscribe(collection string, fn func()) (cancel func()) {
	return m.feed.subscribe(collection, fn)
}

// fieldAsText mirrors payload->>field: the JSON value rendered as text.
func fieldAsText(payload []byte, field string) string {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	doc := map[string]any{}
	if err := dec.Decode(&doc); err != nil {
		return ""
	}
	switch v := doc[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
