package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQueryBasic(t *testing.T) {
	opts := NewListQueryOptions("users",
		WithColumns("id", "name", "email"),
		WithOrderBy("created_at", "desc"),
		WithLimit(10),
		WithOffset(20),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t,
		`SELECT "id", "name", "email" FROM "users" ORDER BY "created_at" DESC LIMIT $1 OFFSET $2`,
		query)
	assert.Equal(t, []any{10, 20}, args)
}

func TestBuildListQueryConditions(t *testing.T) {
	opts := NewListQueryOptions("orders",
		WithColumns("id", "status"),
		WithCondition(WhereCond("status", Equal, "paid")),
		WithCondition(WhereCond("amount_cents", GreaterThan, 0)),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t,
		`SELECT "id", "status" FROM "orders" WHERE "status" = $1 AND "amount_cents" > $2`,
		query)
	assert.Equal(t, []any{"paid", 0}, args)
}

func TestBuildListQueryRawCondRenumbering(t *testing.T) {
	opts := NewListQueryOptions("users",
		WithCondition(WhereCond("active", Equal, true)),
		WithCondition(WhereRawCond("(name ILIKE $1 OR email ILIKE $1)", "%mestre%")),
		WithLimit(5),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t,
		`SELECT * FROM "users" WHERE "active" = $1 AND (name ILIKE $2 OR email ILIKE $2) LIMIT $3`,
		query)
	assert.Equal(t, []any{true, "%mestre%", 5}, args)
}

func TestBuildListQueryInCondition(t *testing.T) {
	opts := NewListQueryOptions("orders",
		WithCondition(WhereCond("status", In, []string{"paid", "refunded"})),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t, `SELECT * FROM "orders" WHERE "status" IN ($1, $2)`, query)
	assert.Equal(t, []any{"paid", "refunded"}, args)
}

func TestBuildListQueryCountOnly(t *testing.T) {
	opts := NewListQueryOptions("contact_messages",
		WithCountOnly(),
		WithCondition(WhereCond("read", Equal, false)),
		WithLimit(10), // ignored for count queries
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t, `SELECT COUNT(*) FROM "contact_messages" WHERE "read" = $1`, query)
	assert.Equal(t, []any{false}, args)
}

func TestBuildListQuerySanitizesIdentifiers(t *testing.T) {
	opts := NewListQueryOptions(`users"; DROP TABLE users; --`,
		WithColumns(`id"; --`),
	)

	query, _ := BuildListQuery(opts)
	// quotes inside identifiers are doubled, keeping them inert
	assert.Contains(t, query, `"users""; DROP TABLE users; --"`)
	assert.Contains(t, query, `"id""; --"`)
}

func TestBuildListQueryNilOptions(t *testing.T) {
	query, args := BuildListQuery(nil)
	assert.Empty(t, query)
	assert.Nil(t, args)
}
