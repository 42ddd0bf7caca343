package dbx

import (
	"fmt"
	"strings"
)

// Query accumulates AND-ed equality conditions with PostgreSQL positional
// placeholders. Column names come from code, never from clients.
type Query struct {
	conds []string
	args  []any
}

// Eq adds "column = $n".
func (q *Query) Eq(column string, v any) *Query {
	q.args = append(q.args, v)
	q.conds = append(q.conds, fmt.Sprintf("%s = $%d", column, len(q.args)))
	return q
}

// EqIf adds the condition only when ok is true.
func (q *Query) EqIf(ok bool, column string, v any) *Query {
	if ok {
		q.Eq(column, v)
	}
	return q
}

// Where renders " WHERE a = $1 AND b = $2", or "" without conditions.
func (q *Query) Where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// Page appends LIMIT/OFFSET placeholders. A non-positive limit renders
// nothing and adds no arguments.
func (q *Query) Page(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	q.args = append(q.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(q.args)-1, len(q.args))
}

func (q *Query) Args() []any { return q.args }

// SetClause renders "a = $1, b = $2" for an UPDATE and returns the index
// of the next free placeholder.
func SetClause(columns []string) (string, int) {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	return strings.Join(parts, ", "), len(columns) + 1
}
