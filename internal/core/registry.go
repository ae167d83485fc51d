package core

import (
	"context"
	"reflect"
	"sync"
)

// Model is implemented by types registered with an Adapter.
type Model interface {
	// TableName returns the table the model maps to.
	TableName() string
}

// FieldType is the semantic type of a model field, consumed by the
// row-mapping layer.
type FieldType string

// Supported field types.
const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldFloat  FieldType = "float"
	FieldBool   FieldType = "bool"
	FieldTime   FieldType = "time"
	FieldBytes  FieldType = "bytes"
)

// FieldSpec describes one declared model field.
type FieldSpec struct {
	Type     FieldType
	Nullable bool
	Default  interface{}
}

// Schema maps field names to their specs. Models declare it explicitly
// instead of relying on runtime struct metadata.
type Schema map[string]FieldSpec

// SchemaProvider is optionally implemented by models that declare a field
// schema at registration time.
type SchemaProvider interface {
	Schema() Schema
}

// ModelBinding records one registered model: its table, optional schema, and
// the Adapter it executes through.
type ModelBinding struct {
	adapter *Adapter
	model   Model
	table   string
	schema  Schema
}

// Model returns the registered model value.
func (b *ModelBinding) Model() Model { return b.model }

// Table returns the bound table name.
func (b *ModelBinding) Table() string { return b.table }

// Schema returns the declared field schema, or nil when the model has none.
func (b *ModelBinding) Schema() Schema { return b.schema }

// Adapter returns the Adapter the model is bound to.
func (b *ModelBinding) Adapter() *Adapter { return b.adapter }

// Query returns a new builder scoped to the bound table.
func (b *ModelBinding) Query() *TableQuery { return b.adapter.Table(b.table) }

// Find selects all rows from the bound table.
func (b *ModelBinding) Find(ctx context.Context) ([]Row, error) {
	return b.Query().All(ctx)
}

// modelRegistry is the insertion-ordered model registry. Registration order
// is an observable contract, so entries keep their position across re-binds.
type modelRegistry struct {
	mu    sync.RWMutex
	order []*ModelBinding
	index map[reflect.Type]*ModelBinding
}

// modelKey identifies a model by its underlying type.
func modelKey(m Model) reflect.Type {
	t := reflect.TypeOf(m)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// add registers or re-binds a model. Re-registering keeps the original
// position and overwrites the binding (last write wins).
func (r *modelRegistry) add(a *Adapter, m Model) *ModelBinding {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index == nil {
		r.index = make(map[reflect.Type]*ModelBinding)
	}

	var schema Schema
	if sp, ok := m.(SchemaProvider); ok {
		schema = sp.Schema()
	}

	key := modelKey(m)
	if b, ok := r.index[key]; ok {
		b.adapter = a
		b.model = m
		b.table = m.TableName()
		b.schema = schema
		return b
	}

	b := &ModelBinding{
		adapter: a,
		model:   m,
		table:   m.TableName(),
		schema:  schema,
	}
	r.index[key] = b
	r.order = append(r.order, b)
	return b
}

// all returns the bindings in registration order.
func (r *modelRegistry) all() []*ModelBinding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ModelBinding, len(r.order))
	copy(out, r.order)
	return out
}
