package models

// Change is one column assignment of a partial update.
type Change struct {
	Column string
	Value  any
}

// Changes lists the columns a patch sets, in a stable order.
type Changes []Change

func (c Changes) Empty() bool { return len(c) == 0 }

func (c *Changes) addString(column string, v *string) {
	if v != nil {
		*c = append(*c, Change{Column: column, Value: *v})
	}
}

func (c *Changes) addInt(column string, v *int) {
	if v != nil {
		*c = append(*c, Change{Column: column, Value: *v})
	}
}

// Filter narrows FindAll queries. Zero fields are ignored.
type Filter struct {
	OwnerID    int64
	BusinessID int64
	Limit      int
	Offset     int
}

func (c Changes) Columns() []string {
	cols := make([]string, len(c))
	for i, ch := range c {
		cols[i] = ch.Column
	}
	return cols
}

func (c Changes) Values() []any {
	vals := make([]any, len(c))
	for i, ch := range c {
		vals[i] = ch.Value
	}
	return vals
}
