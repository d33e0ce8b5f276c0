package db

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles a query from chunks, mostly so fetch helpers
// can bolt WHERE clauses onto a base query one filter at a time. Write
// `$?` wherever an argument goes; each one is renumbered to the next
// positional placeholder as chunks are added.
type QueryBuilder struct {
	sql  strings.Builder
	args []any
}

func (qb *QueryBuilder) Add(sql string, args ...any) {
	numPlaceholders := strings.Count(sql, "$?")
	if numPlaceholders != len(args) {
		panic(fmt.Errorf("query chunk has %d placeholders but %d arguments", numPlaceholders, len(args)))
	}

	for _, arg := range args {
		sql = strings.Replace(sql, "$?", fmt.Sprintf("$%d", len(qb.args)+1), 1)
		qb.args = append(qb.args, arg)
	}

	qb.sql.WriteString(sql)
	qb.sql.WriteString("\n")
}

func (qb *QueryBuilder) String() string {
	return qb.sql.String()
}

func (qb *QueryBuilder) Args() []any {
	return qb.args
}
