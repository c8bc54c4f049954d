package store

import (
	"slices"
	"sync"
)

type Keyed interface {
	Key() string
}

type EventKind int

const (
	// EventSnapshot carries the full collection: sent first to every
	// subscriber and again after a ReplaceAll.
	EventSnapshot EventKind = iota
	EventUpsert
	EventRemove
)

func (k EventKind) String() string {
	switch k {
	case EventSnapshot:
		return "snapshot"
	case EventUpsert:
		return "upsert"
	case EventRemove:
		return "remove"
	default:
		return "unknown"
	}
}

type Event[T Keyed] struct {
	Kind  EventKind
	Items []T // EventSnapshot
	Item  T   // EventUpsert, EventRemove
}

// Collection is an ordered set of entities keyed by Key(). Every mutation
// builds a new slice and swaps it in, so readers never observe a partially
// applied change.
type Collection[T Keyed] struct {
	mu    sync.RWMutex
	items []T
	index map[string]int

	subs    map[int]chan Event[T]
	nextSub int
}

func NewCollection[T Keyed]() *Collection[T] {
	return &Collection[T]{
		index: make(map[string]int),
		subs:  make(map[int]chan Event[T]),
	}
}

func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Find returns the first item matching fn, in collection order.
func (c *Collection[T]) Find(fn func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, it := range c.items {
		if fn(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Filter(fn func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []T
	for _, it := range c.items {
		if fn(it) {
			out = append(out, it)
		}
	}
	return out
}

// ReplaceAll swaps the whole collection and sends a snapshot to subscribers.
func (c *Collection[T]) ReplaceAll(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := slices.Clone(items)
	index := make(map[string]int, len(next))
	for i, it := range next {
		index[it.Key()] = i
	}
	c.items, c.index = next, index

	c.broadcast(Event[T]{Kind: EventSnapshot, Items: slices.Clone(next)})
}

// Put inserts item, or replaces the item with the same key in place.
func (c *Collection[T]) Put(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(item)
}

// PutAll appends or replaces several items as one swap.
func (c *Collection[T]) PutAll(items ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		c.put(it)
	}
}

func (c *Collection[T]) put(item T) {
	next := slices.Clone(c.items)
	if i, ok := c.index[item.Key()]; ok {
		next[i] = item
		c.items = next
	} else {
		c.index[item.Key()] = len(next)
		c.items = append(next, item)
	}
	c.broadcast(Event[T]{Kind: EventUpsert, Item: item})
}

// Update applies fn to the item under key while holding the write lock.
// fn returns false to leave the item unchanged.
func (c *Collection[T]) Update(key string, fn func(T) (T, bool)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[key]
	if !ok {
		var zero T
		return zero, false
	}

	updated, changed := fn(c.items[i])
	if !changed {
		return c.items[i], false
	}

	c.put(updated)
	return updated, true
}

func (c *Collection[T]) Remove(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.removeWhere(func(it T) bool { return it.Key() == key })
	if len(removed) == 0 {
		var zero T
		return zero, false
	}
	return removed[0], true
}

// RemoveWhere deletes every item matching fn and returns them in order.
func (c *Collection[T]) RemoveWhere(fn func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeWhere(fn)
}

func (c *Collection[T]) removeWhere(fn func(T) bool) []T {
	var removed []T
	next := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if fn(it) {
			removed = append(removed, it)
			continue
		}
		next = append(next, it)
	}
	if len(removed) == 0 {
		return nil
	}

	index := make(map[string]int, len(next))
	for i, it := range next {
		index[it.Key()] = i
	}
	c.items, c.index = next, index

	for _, it := range removed {
		c.broadcast(Event[T]{Kind: EventRemove, Item: it})
	}
	return removed
}

// Subscribe returns a channel that first receives the current snapshot and
// then every delta. A subscriber whose buffer is full when a delta is
// published is dropped and its channel closed; it has to subscribe again to
// get a fresh snapshot. The returned cancel func is safe to call twice.
func (c *Collection[T]) Subscribe(buffer int) (<-chan Event[T], func()) {
	if buffer < 1 {
		buffer = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Event[T], buffer)
	ch <- Event[T]{Kind: EventSnapshot, Items: slices.Clone(c.items)}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// broadcast must be called with c.mu held.
func (c *Collection[T]) broadcast(ev Event[T]) {
	for id, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			delete(c.subs, id)
			close(ch)
		}
	}
}
