package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpGt  Op = ">"
	OpLte Op = "<="
	OpLt  Op = "<"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// comparison suffixes, longest first so _gte is not misread as _gt
var suffixOps = []struct {
	suffix string
	op     Op
}{
	{"_gte", OpGte},
	{"_lte", OpLte},
	{"_gt", OpGt},
	{"_lt", OpLt},
}

type Condition struct {
	Column string
	Op     Op
	Value  any
}

type SortField struct {
	Column string
	Desc   bool
}

// Query is the validated form of a client read request. Every column name
// in it was resolved through a Whitelist; every value has been coerced to
// the field's declared type.
type Query struct {
	Conditions []Condition
	Sort       []SortField
	Fields     []string
	Page       int
	Limit      int
}

func (q *Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Translate builds a Query from raw client parameters. It fails closed:
// unknown keys, non-whitelisted fields and uncoercible values are silently
// dropped rather than failing the request.
func Translate(params url.Values, wl *Whitelist) *Query {
	q := &Query{
		Page:  1,
		Limit: DefaultLimit,
	}

	for key := range params {
		switch key {
		case "page", "sort", "limit", "fields":
			continue
		}

		field, op := splitFilterKey(key)

		spec, ok := wl.Filterable[field]
		if !ok {
			continue
		}

		value, ok := coerce(params.Get(key), spec.Type)
		if !ok {
			continue
		}

		q.Conditions = append(q.Conditions, Condition{
			Column: spec.Column,
			Op:     op,
			Value:  value,
		})
	}

	q.Sort = parseSort(params.Get("sort"), wl)
	q.Fields = parseFields(params.Get("fields"), wl)

	if page, err := strconv.Atoi(params.Get("page")); err == nil && page >= 1 {
		q.Page = page
	}

	if limit, err := strconv.Atoi(params.Get("limit")); err == nil && limit >= 1 {
		q.Limit = min(limit, MaxLimit)
	}

	return q
}

func splitFilterKey(key string) (string, Op) {
	for _, s := range suffixOps {
		if base, found := strings.CutSuffix(key, s.suffix); found && base != "" {
			return base, s.op
		}
	}

	return key, OpEq
}

func parseSort(raw string, wl *Whitelist) []SortField {
	if raw == "" {
		return nil
	}

	var sort []SortField

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)

		name, desc := strings.CutPrefix(part, "-")

		spec, ok := wl.Sortable[name]
		if !ok {
			continue
		}

		sort = append(sort, SortField{Column: spec.Column, Desc: desc})
	}

	return sort
}

func parseFields(raw string, wl *Whitelist) []string {
	if raw == "" {
		return nil
	}

	var fields []string

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)

		if wl.Selectable[part] {
			fields = append(fields, part)
		}
	}

	return fields
}

func coerce(raw string, t FieldType) (any, bool) {
	switch t {
	case TypeNumber:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, true
		}
		return nil, false
	case TypeTime:
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts, true
		}
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			return ts, true
		}
		return nil, false
	case TypeBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b, true
		}
		return nil, false
	default:
		return raw, true
	}
}
