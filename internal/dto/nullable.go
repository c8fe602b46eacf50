package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Nullable distinguishes an absent JSON field (Set false) from an explicit
// null (Set and Null) and from a value.
type Nullable[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Null = true
		var zero T
		n.Value = zero
		return nil
	}
	n.Null = false
	return json.Unmarshal(b, &n.Value)
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns nil for an explicit null, otherwise a pointer to the value.
func (n Nullable[T]) Ptr() *T {
	if n.Null {
		return nil
	}
	v := n.Value
	return &v
}

// Validatable is what the validator sees: a nil *T unless a value was supplied.
func (n Nullable[T]) Validatable() any {
	if !n.Set || n.Null {
		return (*T)(nil)
	}
	v := n.Value
	return &v
}

// TrimSpace trims string payloads in place.
func (n *Nullable[T]) TrimSpace() {
	if s, ok := any(n.Value).(string); ok {
		n.Value = any(strings.TrimSpace(s)).(T)
	}
}

func Value[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Set: true}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}
