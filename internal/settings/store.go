// Package settings wraps the desktop configuration store (GSettings) behind
// a small interface so controllers can be tested against an in-memory copy.
package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaNotFound is returned by Open when the schema is not installed.
	ErrSchemaNotFound = errors.New("settings schema not found")
	// ErrUnknownKey is returned for keys the schema does not define.
	ErrUnknownKey = errors.New("unknown settings key")
	// ErrTypeMismatch is returned when a key is read or written as the wrong type.
	ErrTypeMismatch = errors.New("settings key type mismatch")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("settings store closed")
)

// Store is a handle on one schema. Writes are last-write-wins and are
// reported to subscribers of the key, including the writer's own
// subscriptions.
type Store interface {
	Schema() string

	String(key string) (string, error)
	SetString(key, value string) error
	Int(key string) (int, error)
	SetInt(key string, value int) error
	Double(key string) (float64, error)
	SetDouble(key string, value float64) error
	Bool(key string) (bool, error)
	SetBool(key string, value bool) error

	// Reset restores the schema default for key.
	Reset(key string) error

	// Subscribe calls fn after key changes. The returned function removes
	// the subscription.
	Subscribe(key string, fn func(key string)) (cancel func())

	Close() error
}

// Backend opens stores by schema id.
type Backend interface {
	Open(schema string) (Store, error)
}

// Kind is the value type of a settings key.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDouble
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a typed settings value.
type Value struct {
	Kind   Kind
	String string
	Int    int
	Double float64
	Bool   bool
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

// IntValue returns an int Value.
func IntValue(i int) Value { return Value{Kind: KindInt, Int: i} }

// DoubleValue returns a double Value.
func DoubleValue(f float64) Value { return Value{Kind: KindDouble, Double: f} }

// BoolValue returns a bool Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Format renders the value for display.
func (v Value) Format() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindDouble:
		return fmt.Sprintf("%g", v.Double)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	default:
		return v.String
	}
}

// Schema describes the keys of a schema and their defaults.
type Schema struct {
	ID   string
	Keys map[string]Value
}

func typeError(schema, key string, want, got Kind) error {
	return fmt.Errorf("%w: %s %s is %s, not %s", ErrTypeMismatch, schema, key, got, want)
}

func keyError(schema, key string) error {
	return fmt.Errorf("%w: %s %s", ErrUnknownKey, schema, key)
}
