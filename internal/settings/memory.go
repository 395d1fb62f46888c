package settings

import (
	"fmt"
	"maps"
	"sync"
)

// MemoryBackend keeps settings in memory. Stores opened on the same schema
// share values and subscriptions, like GSettings objects sharing dconf.
type MemoryBackend struct {
	mu      sync.Mutex
	schemas map[string]Schema
	state   map[string]*memoryState
}

type memoryState struct {
	schema   Schema
	values   map[string]Value
	nextID   int
	watchers map[int]memoryWatcher
}

type memoryWatcher struct {
	key string
	fn  func(key string)
}

// NewMemoryBackend creates a backend that knows the given schemas.
func NewMemoryBackend(schemas ...Schema) *MemoryBackend {
	b := &MemoryBackend{
		schemas: make(map[string]Schema),
		state:   make(map[string]*memoryState),
	}
	for _, s := range schemas {
		b.schemas[s.ID] = s
	}
	return b
}

// Open returns a store for schema.
func (b *MemoryBackend) Open(schema string) (Store, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.state[schema]
	if !ok {
		def, known := b.schemas[schema]
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, schema)
		}
		st = &memoryState{
			schema:   def,
			values:   maps.Clone(def.Keys),
			watchers: make(map[int]memoryWatcher),
		}
		b.state[schema] = st
	}

	return &memoryStore{backend: b, state: st}, nil
}

type memoryStore struct {
	backend *MemoryBackend
	state   *memoryState
	closed  bool
	subs    []int
}

func (s *memoryStore) Schema() string { return s.state.schema.ID }

func (s *memoryStore) get(key string, kind Kind) (Value, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if s.closed {
		return Value{}, ErrClosed
	}
	v, ok := s.state.values[key]
	if !ok {
		return Value{}, keyError(s.Schema(), key)
	}
	if v.Kind != kind {
		return Value{}, typeError(s.Schema(), key, kind, v.Kind)
	}
	return v, nil
}

func (s *memoryStore) set(key string, v Value) error {
	s.backend.mu.Lock()
	if s.closed {
		s.backend.mu.Unlock()
		return ErrClosed
	}
	cur, ok := s.state.values[key]
	if !ok {
		s.backend.mu.Unlock()
		return keyError(s.Schema(), key)
	}
	if cur.Kind != v.Kind {
		s.backend.mu.Unlock()
		return typeError(s.Schema(), key, cur.Kind, v.Kind)
	}
	s.state.values[key] = v
	fns := s.watchersFor(key)
	s.backend.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
	return nil
}

// watchersFor must be called with the backend lock held.
func (s *memoryStore) watchersFor(key string) []func(string) {
	var fns []func(string)
	for id := 0; id < s.state.nextID; id++ {
		w, ok := s.state.watchers[id]
		if ok && w.key == key {
			fns = append(fns, w.fn)
		}
	}
	return fns
}

func (s *memoryStore) String(key string) (string, error) {
	v, err := s.get(key, KindString)
	return v.String, err
}

func (s *memoryStore) SetString(key, value string) error {
	return s.set(key, StringValue(value))
}

func (s *memoryStore) Int(key string) (int, error) {
	v, err := s.get(key, KindInt)
	return v.Int, err
}

func (s *memoryStore) SetInt(key string, value int) error {
	return s.set(key, IntValue(value))
}

func (s *memoryStore) Double(key string) (float64, error) {
	v, err := s.get(key, KindDouble)
	return v.Double, err
}

func (s *memoryStore) SetDouble(key string, value float64) error {
	return s.set(key, DoubleValue(value))
}

func (s *memoryStore) Bool(key string) (bool, error) {
	v, err := s.get(key, KindBool)
	return v.Bool, err
}

func (s *memoryStore) SetBool(key string, value bool) error {
	return s.set(key, BoolValue(value))
}

func (s *memoryStore) Reset(key string) error {
	s.backend.mu.Lock()
	def, ok := s.state.schema.Keys[key]
	s.backend.mu.Unlock()
	if !ok {
		return keyError(s.Schema(), key)
	}
	return s.set(key, def)
}

func (s *memoryStore) Subscribe(key string, fn func(key string)) func() {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if s.closed {
		return func() {}
	}

	id := s.state.nextID
	s.state.nextID++
	s.state.watchers[id] = memoryWatcher{key: key, fn: fn}
	s.subs = append(s.subs, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.backend.mu.Lock()
			delete(s.state.watchers, id)
			s.backend.mu.Unlock()
		})
	}
}

func (s *memoryStore) Close() error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for _, id := range s.subs {
		delete(s.state.watchers, id)
	}
	s.subs = nil
	return nil
}
