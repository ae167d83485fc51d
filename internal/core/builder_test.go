package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/sqlbridge/internal/dialects"
	"github.com/coregx/sqlbridge/internal/logger"
	"github.com/coregx/sqlbridge/internal/tracer"
)

// mockAdapter creates a minimal Adapter for SQL generation testing.
func mockAdapter(dialectName string) *Adapter {
	return &Adapter{
		driverName: dialectName,
		dialect:    dialects.GetDialect(dialectName),
		sanitizer:  logger.NewSanitizer(nil),
		tracer:     tracer.NoopTracer{},
		lastIDs:    make(map[string]int64),
	}
}

// countPlaceholders counts placeholder tokens in generated SQL. Literals are
// never inlined, so "?" and "$" cannot occur outside placeholders.
func countPlaceholders(sqlText, dialectName string) int {
	if dialectName == "postgres" {
		return strings.Count(sqlText, "$")
	}
	return strings.Count(sqlText, "?")
}

func TestSelect_DefaultsToStar(t *testing.T) {
	q, err := mockAdapter("sqlite").Table("users").Build()
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users"`, q.SQL())
	assert.Empty(t, q.Params())
}

func TestSelect_QuotedColumnsInOrder(t *testing.T) {
	q, err := mockAdapter("mysql").Table("users").
		Select("email", "age").
		Select("created_at").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "SELECT `email`, `age`, `created_at` FROM `users`", q.SQL())
}

func TestWhere_TwoArgFormMeansEquals(t *testing.T) {
	q, err := mockAdapter("sqlite").Table("users").
		Where("status", "active").
		Build()
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users" WHERE "status" = ?`, q.SQL())
	assert.Equal(t, []interface{}{"active"}, q.Params())
}

func TestWhere_ExplicitOperator(t *testing.T) {
	q, err := mockAdapter("sqlite").Table("users").
		Where("age", ">=", 18).
		Build()
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users" WHERE "age" >= ?`, q.SQL())
	assert.Equal(t, []interface{}{18}, q.Params())
}

func TestWhere_AccumulationOrderAndJoiners(t *testing.T) {
	q, err := mockAdapter("sqlite").Table("users").
		Where("status", "active").
		OrWhere("age", ">", 65).
		NotWhere("banned", true).
		OrNotWhere("email", "LIKE", "%spam%").
		Build()
	require.NoError(t, err)

	want := `SELECT * FROM "users" WHERE "status" = ? OR "age" > ? AND NOT "banned" = ? OR NOT "email" LIKE ?`
	assert.Equal(t, want, q.SQL())
	assert.Equal(t, []interface{}{"active", 65, true, "%spam%"}, q.Params())
}

func TestWhere_PostgresNumbering(t *testing.T) {
	q, err := mockAdapter("postgres").Table("users").
		Where("status", "active").
		Where("age", ">", 21).
		Build()
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users" WHERE "status" = $1 AND "age" > $2`, q.SQL())
}

func TestWhere_RejectsEmptyColumn(t *testing.T) {
	_, err := mockAdapter("sqlite").Table("users").Where("", 1).Build()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Where", verr.Op)
}

func TestWhere_RejectsUnknownOperator(t *testing.T) {
	_, err := mockAdapter("sqlite").Table("users").
		Where("id", "= 1; DROP TABLE users; --", 1).
		Build()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestWhere_NilValueBinds(t *testing.T) {
	q, err := mockAdapter("sqlite").Table("users").Where("deleted_at", nil).Build()
	require.NoError(t, err)

	assert.Equal(t, []interface{}{nil}, q.Params())
}

func TestLimitOffset_EmittedAsLiterals(t *testing.T) {
	q, err := mockAdapter("postgres").Table("users").
		Where("status", "active").
		Limit(10).
		Offset(20).
		Build()
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users" WHERE "status" = $1 LIMIT 10 OFFSET 20`, q.SQL())
	assert.Len(t, q.Params(), 1)
}

func TestLimit_ZeroIsValid(t *testing.T) {
	q, err := mockAdapter("sqlite").Table("users").Limit(0).Build()
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users" LIMIT 0`, q.SQL())
}

func TestLimitOffset_Validation(t *testing.T) {
	tests := []struct {
		name  string
		build func(*TableQuery) *TableQuery
	}{
		{"negative limit", func(tq *TableQuery) *TableQuery { return tq.Limit(-1) }},
		{"negative offset", func(tq *TableQuery) *TableQuery { return tq.Offset(-5) }},
		{"offset without limit", func(tq *TableQuery) *TableQuery { return tq.Offset(5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(mockAdapter("sqlite").Table("users")).Build()

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestInsert_SingleRow(t *testing.T) {
	row := Row{"email": "a@example.com", "age": 30, "created_at": "2024-01-01"}

	t.Run("mysql", func(t *testing.T) {
		q, err := mockAdapter("mysql").Table("users").Insert(row).Build()
		require.NoError(t, err)

		// Columns in sorted order for deterministic SQL.
		assert.Equal(t, "INSERT INTO `users` (`age`, `created_at`, `email`) VALUES (?, ?, ?)", q.SQL())
		assert.Equal(t, []interface{}{30, "2024-01-01", "a@example.com"}, q.Params())
	})

	t.Run("postgres", func(t *testing.T) {
		q, err := mockAdapter("postgres").Table("users").Insert(row).Build()
		require.NoError(t, err)

		assert.Equal(t, `INSERT INTO "users" ("age", "created_at", "email") VALUES ($1, $2, $3)`, q.SQL())
		assert.Len(t, q.Params(), 3)
	})
}

func TestInsert_MultiRowSingleStatement(t *testing.T) {
	q, err := mockAdapter("sqlite").Table("users").
		Insert(Row{"email": "a"}, Row{"email": "b"}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, `INSERT INTO "users" ("email") VALUES (?), (?)`, q.SQL())
	assert.Equal(t, []interface{}{"a", "b"}, q.Params())
	assert.Equal(t, 1, strings.Count(q.SQL(), "INSERT"))
}

func TestInsert_PostgresNumbersAcrossRows(t *testing.T) {
	q, err := mockAdapter("postgres").Table("users").
		Insert(Row{"email": "a", "age": 1}, Row{"email": "b", "age": 2}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, `INSERT INTO "users" ("age", "email") VALUES ($1, $2), ($3, $4)`, q.SQL())
	assert.Equal(t, []interface{}{1, "a", 2, "b"}, q.Params())
}

func TestInsert_HeterogeneousRowsRejected(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
	}{
		{"extra column", []Row{{"email": "a"}, {"email": "b", "age": 1}}},
		{"different column", []Row{{"email": "a"}, {"name": "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mockAdapter("sqlite").Table("users").Insert(tt.rows...).Build()

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestInsert_EmptyRowRejected(t *testing.T) {
	_, err := mockAdapter("sqlite").Table("users").Insert(Row{}).Build()

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestInsert_NoRowsRejected(t *testing.T) {
	_, err := mockAdapter("sqlite").Table("users").Insert().Build()

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReplace_SupportedDialects(t *testing.T) {
	for _, name := range []string{"mysql", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			q, err := mockAdapter(name).Table("users").
				Replace(Row{"id": 1, "email": "a@example.com"}).
				Build()
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(q.SQL(), "REPLACE INTO "))
			assert.Len(t, q.Params(), 2)
		})
	}
}

func TestReplace_UnsupportedOnPostgres(t *testing.T) {
	_, err := mockAdapter("postgres").Table("users").
		Replace(Row{"id": 1}).
		Build()

	var uerr *UnsupportedOperationError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "postgres", uerr.Dialect)
}

func TestUpdate_SetThenWhereNumbering(t *testing.T) {
	q, err := mockAdapter("postgres").Table("users").
		Where("id", 7).
		Update(Row{"email": "new@example.com", "age": 31}).
		Build()
	require.NoError(t, err)

	// Placeholder numbering runs across SET into WHERE.
	assert.Equal(t, `UPDATE "users" SET "age" = $1, "email" = $2 WHERE "id" = $3`, q.SQL())
	assert.Equal(t, []interface{}{31, "new@example.com", 7}, q.Params())
}

func TestUpdate_NoWhereUpdatesAll(t *testing.T) {
	q, err := mockAdapter("mysql").Table("users").
		Update(Row{"status": "archived"}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE `users` SET `status` = ?", q.SQL())
	assert.NotContains(t, q.SQL(), "WHERE")
}

func TestDelete_WithAndWithoutWhere(t *testing.T) {
	q, err := mockAdapter("sqlite").Table("users").
		Where("id", 3).
		Delete().
		Build()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = ?`, q.SQL())

	q, err = mockAdapter("sqlite").Table("users").Delete().Build()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users"`, q.SQL())
}

func TestEmptyPredicateList_NeverEmitsWhere(t *testing.T) {
	builders := map[string]func(*TableQuery) *TableQuery{
		"select": func(tq *TableQuery) *TableQuery { return tq },
		"update": func(tq *TableQuery) *TableQuery { return tq.Update(Row{"a": 1}) },
		"delete": func(tq *TableQuery) *TableQuery { return tq.Delete() },
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			q, err := build(mockAdapter("postgres").Table("users")).Build()
			require.NoError(t, err)

			assert.NotContains(t, q.SQL(), "WHERE")
			assert.NotContains(t, q.SQL(), "1=1")
		})
	}
}

func TestOperationKind_SetExactlyOnce(t *testing.T) {
	tests := []struct {
		name  string
		build func(*TableQuery) *TableQuery
	}{
		{"insert then delete", func(tq *TableQuery) *TableQuery {
			return tq.Insert(Row{"a": 1}).Delete()
		}},
		{"update then insert", func(tq *TableQuery) *TableQuery {
			return tq.Update(Row{"a": 1}).Insert(Row{"a": 1})
		}},
		{"delete then update", func(tq *TableQuery) *TableQuery {
			return tq.Delete().Update(Row{"a": 1})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(mockAdapter("sqlite").Table("users")).Build()

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Reason, "operation kind already set")
		})
	}
}

func TestBuild_EmptyTableNameRejected(t *testing.T) {
	_, err := mockAdapter("sqlite").Table("").Where("id", 1).Build()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Table", verr.Op)
}

func TestBuild_TimeValuesPreformatted(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	q, err := mockAdapter("mysql").Table("users").
		Insert(Row{"email": "a@example.com", "created_at": created}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"2024-05-01 12:00:00", "a@example.com"}, q.Params())
}

func TestStickyError_LaterCallsAreNoOps(t *testing.T) {
	tq := mockAdapter("sqlite").Table("users").
		Limit(-1).
		Where("id", 1).
		Delete()

	_, err := tq.Build()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Limit", verr.Op)
}

// Placeholder count invariant: for any finalized query, the number of
// placeholder tokens in the SQL text equals the parameter list length, for
// every dialect.
func TestPlaceholderCountMatchesParams(t *testing.T) {
	shapes := map[string]func(*TableQuery) *TableQuery{
		"select with predicates": func(tq *TableQuery) *TableQuery {
			return tq.Where("a", 1).OrWhere("b", ">", 2).NotWhere("c", "x").Limit(5)
		},
		"multi-row insert": func(tq *TableQuery) *TableQuery {
			return tq.Insert(Row{"a": 1, "b": 2}, Row{"a": 3, "b": 4}, Row{"a": 5, "b": 6})
		},
		"update with predicates": func(tq *TableQuery) *TableQuery {
			return tq.Where("id", 1).Where("v", "<", 9).Update(Row{"a": 1, "b": 2})
		},
		"delete with predicates": func(tq *TableQuery) *TableQuery {
			return tq.Where("id", 1).Delete()
		},
	}

	for _, dialectName := range []string{"mysql", "postgres", "sqlite"} {
		for shape, build := range shapes {
			t.Run(dialectName+"/"+shape, func(t *testing.T) {
				q, err := build(mockAdapter(dialectName).Table("t")).Build()
				require.NoError(t, err)

				assert.Equal(t, len(q.Params()), countPlaceholders(q.SQL(), dialectName),
					"placeholders and params must match 1:1 in %q", q.SQL())
			})
		}
	}
}

// Dialect-specific placeholder shape from the wire contract: three bound
// insert values render as (?, ?, ?) on mysql/sqlite and ($1, $2, $3) on
// postgres.
func TestInsertPlaceholderShape(t *testing.T) {
	row := Row{"email": "a", "age": 1, "created_at": "now"}

	for _, name := range []string{"mysql", "sqlite"} {
		q, err := mockAdapter(name).Table("users").Insert(row).Build()
		require.NoError(t, err)
		assert.Contains(t, q.SQL(), "(?, ?, ?)")
	}

	q, err := mockAdapter("postgres").Table("users").Insert(row).Build()
	require.NoError(t, err)
	assert.Contains(t, q.SQL(), "($1, $2, $3)")
}

func TestAll_RejectsMutationBuilders(t *testing.T) {
	_, err := mockAdapter("sqlite").Table("users").Delete().All(context.Background())

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
