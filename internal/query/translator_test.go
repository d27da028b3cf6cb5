package query_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/gamedistrict/storefront/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWhitelist() *query.Whitelist {
	return &query.Whitelist{
		Filterable: map[string]query.Field{
			"platform":  {Column: "platform", Type: query.TypeText},
			"sold":      {Column: "sold", Type: query.TypeNumber},
			"createdAt": {Column: "created_at", Type: query.TypeTime},
			"price":     {Column: "final_price", Type: query.TypeNumber},
		},
		Sortable: map[string]query.Field{
			"price":     {Column: "final_price", Type: query.TypeNumber},
			"createdAt": {Column: "created_at", Type: query.TypeTime},
		},
		Selectable: map[string]bool{
			"name": true, "slug": true, "price": true,
		},
	}
}

func TestTranslate(t *testing.T) {

	wl := testWhitelist()

	t.Run("empty params give defaults", func(t *testing.T) {
		q := query.Translate(url.Values{}, wl)

		assert.Empty(t, q.Conditions)
		assert.Empty(t, q.Sort)
		assert.Empty(t, q.Fields)
		assert.Equal(t, 1, q.Page)
		assert.Equal(t, query.DefaultLimit, q.Limit)
		assert.Equal(t, 0, q.Offset())
	})

	t.Run("whitelisted equality filter", func(t *testing.T) {
		q := query.Translate(url.Values{"platform": {"ps5"}}, wl)

		require.Len(t, q.Conditions, 1)
		assert.Equal(t, "platform", q.Conditions[0].Column)
		assert.Equal(t, query.OpEq, q.Conditions[0].Op)
		assert.Equal(t, "ps5", q.Conditions[0].Value)
	})

	t.Run("unknown field is dropped", func(t *testing.T) {
		q := query.Translate(url.Values{
			"platform":  {"ps5"},
			"password":  {"hack"},
			"__proto__": {"x"},
		}, wl)

		require.Len(t, q.Conditions, 1)
		assert.Equal(t, "platform", q.Conditions[0].Column)
	})

	t.Run("comparison suffixes", func(t *testing.T) {
		q := query.Translate(url.Values{
			"price_gte": {"100"},
			"price_lt":  {"500"},
		}, wl)

		require.Len(t, q.Conditions, 2)

		ops := map[query.Op]int64{}
		for _, c := range q.Conditions {
			assert.Equal(t, "final_price", c.Column)
			ops[c.Op] = c.Value.(int64)
		}

		assert.Equal(t, int64(100), ops[query.OpGte])
		assert.Equal(t, int64(500), ops[query.OpLt])
	})

	t.Run("gte is not misread as gt", func(t *testing.T) {
		q := query.Translate(url.Values{"sold_gte": {"5"}}, wl)

		require.Len(t, q.Conditions, 1)
		assert.Equal(t, query.OpGte, q.Conditions[0].Op)
	})

	t.Run("suffix on non-whitelisted field is dropped", func(t *testing.T) {
		q := query.Translate(url.Values{"secret_gte": {"1"}}, wl)

		assert.Empty(t, q.Conditions)
	})

	t.Run("uncoercible value drops the term", func(t *testing.T) {
		q := query.Translate(url.Values{
			"sold":      {"not-a-number"},
			"createdAt": {"yesterday"},
		}, wl)

		assert.Empty(t, q.Conditions)
	})

	t.Run("time coercion accepts RFC3339 and date-only", func(t *testing.T) {
		q := query.Translate(url.Values{"createdAt_gte": {"2025-01-02"}}, wl)

		require.Len(t, q.Conditions, 1)
		ts, ok := q.Conditions[0].Value.(time.Time)
		require.True(t, ok)
		assert.Equal(t, 2025, ts.Year())
	})

	t.Run("sort keeps whitelisted fields only", func(t *testing.T) {
		q := query.Translate(url.Values{"sort": {"-price,bogus,createdAt"}}, wl)

		require.Len(t, q.Sort, 2)
		assert.Equal(t, "final_price", q.Sort[0].Column)
		assert.True(t, q.Sort[0].Desc)
		assert.Equal(t, "created_at", q.Sort[1].Column)
		assert.False(t, q.Sort[1].Desc)
	})

	t.Run("fields keep whitelisted names only", func(t *testing.T) {
		q := query.Translate(url.Values{"fields": {"name,price,password"}}, wl)

		assert.Equal(t, []string{"name", "price"}, q.Fields)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		q := query.Translate(url.Values{"limit": {"500"}}, wl)

		assert.Equal(t, query.MaxLimit, q.Limit)
	})

	t.Run("invalid page and limit fall back", func(t *testing.T) {
		q := query.Translate(url.Values{"page": {"-3"}, "limit": {"abc"}}, wl)

		assert.Equal(t, 1, q.Page)
		assert.Equal(t, query.DefaultLimit, q.Limit)
	})

	t.Run("pagination offset", func(t *testing.T) {
		q := query.Translate(url.Values{"page": {"3"}, "limit": {"20"}}, wl)

		assert.Equal(t, 40, q.Offset())
	})

	t.Run("reserved keys are not filters", func(t *testing.T) {
		q := query.Translate(url.Values{
			"page":   {"2"},
			"sort":   {"price"},
			"limit":  {"5"},
			"fields": {"name"},
		}, wl)

		assert.Empty(t, q.Conditions)
	})
}

func TestWhereClause(t *testing.T) {

	wl := testWhitelist()

	t.Run("renders parameterized fragments", func(t *testing.T) {
		q := query.Translate(url.Values{"price_gte": {"100"}}, wl)

		where, args := q.WhereClause(2)

		assert.Equal(t, " AND final_price >= $2", where)
		assert.Equal(t, []any{int64(100)}, args)
	})

	t.Run("empty conditions render nothing", func(t *testing.T) {
		q := query.Translate(url.Values{}, wl)

		where, args := q.WhereClause(1)

		assert.Empty(t, where)
		assert.Nil(t, args)
	})
}

func TestOrderBy(t *testing.T) {

	wl := testWhitelist()

	t.Run("falls back to default", func(t *testing.T) {
		q := query.Translate(url.Values{}, wl)

		assert.Equal(t, "created_at DESC", q.OrderBy("created_at DESC"))
	})

	t.Run("renders directions", func(t *testing.T) {
		q := query.Translate(url.Values{"sort": {"-price,createdAt"}}, wl)

		assert.Equal(t, "final_price DESC, created_at ASC", q.OrderBy("created_at DESC"))
	})
}
