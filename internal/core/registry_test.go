package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userModel struct{}

func (userModel) TableName() string { return "users" }

func (userModel) Schema() Schema {
	return Schema{
		"id":         {Type: FieldInt},
		"email":      {Type: FieldString},
		"age":        {Type: FieldInt, Nullable: true},
		"created_at": {Type: FieldTime},
	}
}

type productModel struct{}

func (productModel) TableName() string { return "products" }

type orderModel struct{}

func (orderModel) TableName() string { return "orders" }

func TestAddModel_RegistrationOrderPreserved(t *testing.T) {
	a := mockAdapter("sqlite")

	a.AddModel(userModel{})
	a.AddModel(productModel{})
	a.AddModel(orderModel{})

	models := a.Models()
	require.Len(t, models, 3)
	assert.Equal(t, "users", models[0].Table())
	assert.Equal(t, "products", models[1].Table())
	assert.Equal(t, "orders", models[2].Table())
}

func TestAddModel_BindingBackReference(t *testing.T) {
	a := mockAdapter("sqlite")

	b := a.AddModel(userModel{})

	assert.Same(t, a, b.Adapter())
	assert.Equal(t, "users", b.Table())
}

func TestAddModel_ReRegistrationRebinds(t *testing.T) {
	first := mockAdapter("sqlite")
	second := mockAdapter("postgres")

	first.AddModel(userModel{})
	first.AddModel(productModel{})

	// Re-registering the same model type keeps its position and re-binds
	// to the new adapter (last write wins).
	b := first.registry.add(second, userModel{})

	models := first.Models()
	require.Len(t, models, 2)
	assert.Equal(t, "users", models[0].Table())
	assert.Same(t, second, b.Adapter())
	assert.Same(t, models[0], b)
}

func TestAddModel_PointerAndValueShareIdentity(t *testing.T) {
	a := mockAdapter("sqlite")

	a.AddModel(userModel{})
	a.AddModel(&userModel{})

	assert.Len(t, a.Models(), 1)
}

func TestAddModel_SchemaCaptured(t *testing.T) {
	a := mockAdapter("sqlite")

	b := a.AddModel(userModel{})

	schema := b.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, FieldInt, schema["id"].Type)
	assert.True(t, schema["age"].Nullable)

	// Models without a declared schema bind with nil.
	assert.Nil(t, a.AddModel(productModel{}).Schema())
}

func TestBindingQuery_ScopedToTable(t *testing.T) {
	a := mockAdapter("postgres")
	b := a.AddModel(userModel{})

	q, err := b.Query().Where("id", 1).Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = $1`, q.SQL())
}
