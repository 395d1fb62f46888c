package settings

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
)

// GSettingsBackend opens stores backed by gio.Settings.
type GSettingsBackend struct {
	logger *slog.Logger
}

// NewGSettingsBackend creates a GSettings backend.
func NewGSettingsBackend(logger *slog.Logger) *GSettingsBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &GSettingsBackend{logger: logger}
}

// Open returns a store for schema, or ErrSchemaNotFound when the schema is
// not installed. GLib aborts the process for unknown schemas, so the
// default schema source is checked first.
func (b *GSettingsBackend) Open(schema string) (Store, error) {
	source := gio.SettingsSchemaSourceGetDefault()
	if source == nil {
		return nil, fmt.Errorf("%w: %s (no schema source)", ErrSchemaNotFound, schema)
	}
	def := source.Lookup(schema, true)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, schema)
	}

	return &gsettingsStore{
		logger:   b.logger.With("schema", schema),
		schema:   def,
		id:       schema,
		settings: gio.NewSettings(schema),
		handlers: make(map[int]glib.SignalHandle),
	}, nil
}

type gsettingsStore struct {
	logger   *slog.Logger
	schema   *gio.SettingsSchema
	id       string
	settings *gio.Settings

	mu       sync.Mutex
	nextID   int
	handlers map[int]glib.SignalHandle
	closed   bool
}

func (s *gsettingsStore) Schema() string { return s.id }

// check verifies the key exists with the expected GVariant type.
func (s *gsettingsStore) check(key string, want Kind) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if !s.schema.HasKey(key) {
		return keyError(s.id, key)
	}
	got, ok := kindOf(s.schema.Key(key).ValueType().DupString())
	if !ok || got != want {
		return typeError(s.id, key, want, got)
	}
	return nil
}

func kindOf(variantType string) (Kind, bool) {
	switch variantType {
	case "s":
		return KindString, true
	case "i":
		return KindInt, true
	case "d":
		return KindDouble, true
	case "b":
		return KindBool, true
	default:
		return KindString, false
	}
}

func (s *gsettingsStore) written(key string, ok bool) error {
	if !ok {
		return fmt.Errorf("failed to write %s %s: key is not writable", s.id, key)
	}
	return nil
}

func (s *gsettingsStore) String(key string) (string, error) {
	if err := s.check(key, KindString); err != nil {
		return "", err
	}
	return s.settings.String(key), nil
}

func (s *gsettingsStore) SetString(key, value string) error {
	if err := s.check(key, KindString); err != nil {
		return err
	}
	return s.written(key, s.settings.SetString(key, value))
}

func (s *gsettingsStore) Int(key string) (int, error) {
	if err := s.check(key, KindInt); err != nil {
		return 0, err
	}
	return int(s.settings.Int(key)), nil
}

func (s *gsettingsStore) SetInt(key string, value int) error {
	if err := s.check(key, KindInt); err != nil {
		return err
	}
	return s.written(key, s.settings.SetInt(key, int32(value)))
}

func (s *gsettingsStore) Double(key string) (float64, error) {
	if err := s.check(key, KindDouble); err != nil {
		return 0, err
	}
	return s.settings.Double(key), nil
}

func (s *gsettingsStore) SetDouble(key string, value float64) error {
	if err := s.check(key, KindDouble); err != nil {
		return err
	}
	return s.written(key, s.settings.SetDouble(key, value))
}

func (s *gsettingsStore) Bool(key string) (bool, error) {
	if err := s.check(key, KindBool); err != nil {
		return false, err
	}
	return s.settings.Boolean(key), nil
}

func (s *gsettingsStore) SetBool(key string, value bool) error {
	if err := s.check(key, KindBool); err != nil {
		return err
	}
	return s.written(key, s.settings.SetBoolean(key, value))
}

func (s *gsettingsStore) Reset(key string) error {
	if !s.schema.HasKey(key) {
		return keyError(s.id, key)
	}
	s.settings.Reset(key)
	return nil
}

// Subscribe connects to the changed signal. GSettings only emits changes
// for keys that have been read, so the key is read once here.
func (s *gsettingsStore) Subscribe(key string, fn func(key string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.schema.HasKey(key) {
		s.logger.Debug("not subscribing", "key", key, "closed", s.closed)
		return func() {}
	}

	handle := s.settings.ConnectChanged(func(changed string) {
		if changed == key {
			fn(changed)
		}
	})
	_ = s.settings.Value(key)

	id := s.nextID
	s.nextID++
	s.handlers[id] = handle

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if h, ok := s.handlers[id]; ok {
			s.settings.HandlerDisconnect(h)
			delete(s.handlers, id)
		}
	}
}

// Close disconnects all handlers and flushes pending writes.
func (s *gsettingsStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for id, h := range s.handlers {
		s.settings.HandlerDisconnect(h)
		delete(s.handlers, id)
	}
	gio.SettingsSync()
	return nil
}
