package query

import (
	"fmt"
	"strings"
)

// WhereClause renders the conditions as " AND col op $n" fragments meant to
// be appended after a repository's own base predicate. Placeholders start
// at startArg; values are returned as args and never interpolated.
func (q *Query) WhereClause(startArg int) (string, []any) {
	if len(q.Conditions) == 0 {
		return "", nil
	}

	var sb strings.Builder

	args := make([]any, 0, len(q.Conditions))

	for i, c := range q.Conditions {
		fmt.Fprintf(&sb, " AND %s %s $%d", c.Column, c.Op, startArg+i)
		args = append(args, c.Value)
	}

	return sb.String(), args
}

// OrderBy renders the sort spec, falling back to def (typically
// "created_at DESC") when the client requested no usable sort.
func (q *Query) OrderBy(def string) string {
	if len(q.Sort) == 0 {
		return def
	}

	parts := make([]string, 0, len(q.Sort))

	for _, s := range q.Sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}

		parts = append(parts, s.Column+" "+dir)
	}

	return strings.Join(parts, ", ")
}
