package util

import "encoding/json"

// Field is a tri-state optional for partial updates: a key that is absent
// from the JSON body leaves Set false, an explicit null sets Set with Valid
// false, and a value sets both. Plain pointers cannot tell the first two
// apart, which is exactly the distinction patch semantics need.
type Field[T any] struct {
	Value T
	Valid bool
	Set   bool
}

func NewField[T any](value T) Field[T] {
	return Field[T]{Value: value, Valid: true, Set: true}
}

func NullField[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true

	if string(data) == "null" {
		f.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}

	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(f.Value)
}

// Ptr returns the value as a pointer, nil when absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Set || !f.Valid {
		return nil
	}

	v := f.Value
	return &v
}
