// Package record models flat order records: an ordered mapping of field
// name to scalar value, plus the schema and counting helpers that operate
// on sets of them.
package record

// Record is an ordered mapping of field name to Value. Field order is
// insertion order; Set on an existing field keeps its position.
type Record struct {
	names  []string
	values map[string]Value
}

// New returns an empty Record.
func New() Record {
	return Record{values: make(map[string]Value)}
}

// Set stores a field, preserving the position of an existing field.
func (r *Record) Set(name string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// SetDefault stores a field only if it is not already present.
func (r *Record) SetDefault(name string, v Value) {
	if _, ok := r.values[name]; ok {
		return
	}
	r.Set(name, v)
}

// Get returns a field's value and whether the field exists.
func (r Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the field names in insertion order.
func (r Record) Names() []string {
	return r.names
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.names)
}

// Values returns the field values in insertion order.
func (r Record) Values() []Value {
	out := make([]Value, len(r.names))
	for i, n := range r.names {
		out[i] = r.values[n]
	}
	return out
}
