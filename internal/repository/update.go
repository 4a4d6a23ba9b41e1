package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoFields is returned by partial updates when the request carried
// nothing to change.
var ErrNoFields = errors.New("no fields to update")

// updateBuilder accumulates SET clauses for a partial update. Placeholders
// $1 and $2 are reserved for the row's user id and id.
type updateBuilder struct {
	set  []string
	args []any
}

func newUpdateBuilder(userID, id int64) *updateBuilder {
	return &updateBuilder{args: []any{userID, id}}
}

func (b *updateBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.set = append(b.set, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool {
	return len(b.set) == 0
}

func (b *updateBuilder) clause() string {
	return strings.Join(b.set, ", ")
}
