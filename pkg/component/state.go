package component

import (
	"fmt"
	"maps"
)

// State is a component's state value. It is either record-shaped (string
// keys to values) or a single scalar value. The shape decides how SetState
// combines old and new state.
type State struct {
	record map[string]any
	scalar any
	isRec  bool
}

// Record returns a record-shaped state holding a copy of m.
func Record(m map[string]any) State {
	rec := make(map[string]any, len(m))
	maps.Copy(rec, m)
	return State{record: rec, isRec: true}
}

// Scalar returns a state holding the single value v.
func Scalar(v any) State {
	return State{scalar: v}
}

// IsRecord reports whether s is record-shaped.
func (s State) IsRecord() bool {
	return s.isRec
}

// Merge returns the state that results from applying update to s. Two
// records are shallow-merged with keys from update winning; any other
// combination yields update.
func (s State) Merge(update State) State {
	if !s.isRec || !update.isRec {
		return update
	}
	out := make(map[string]any, len(s.record)+len(update.record))
	maps.Copy(out, s.record)
	maps.Copy(out, update.record)
	return State{record: out, isRec: true}
}

// Get returns a record field.
func (s State) Get(key string) (any, bool) {
	v, ok := s.record[key]
	return v, ok
}

// String returns a record field as a string, or "" when absent.
func (s State) String(key string) string {
	v, ok := s.record[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Int returns a record field as an int, or 0 when absent or not an int.
func (s State) Int(key string) int {
	switch v := s.record[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns a record field as a bool, or false when absent.
func (s State) Bool(key string) bool {
	b, _ := s.record[key].(bool)
	return b
}

// Map returns a copy of the record, or nil for a scalar state.
func (s State) Map() map[string]any {
	if !s.isRec {
		return nil
	}
	return maps.Clone(s.record)
}

// Value returns the scalar value, or the record as a map.
func (s State) Value() any {
	if s.isRec {
		return s.Map()
	}
	return s.scalar
}

// Len returns the number of record fields.
func (s State) Len() int {
	return len(s.record)
}
