package core

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidIdent   = errors.New("invalid table or column name")

	identRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

type (
	// Record is one row of a record store table, keyed by column name.
	Record map[string]interface{}

	// Match selects rows whose columns equal all of the given values.
	Match map[string]interface{}

	// RecordStore is the generic table store backing users, study progress and tasks.
	// Update and Delete return the first affected row, or ErrRecordNotFound when nothing matched.
	RecordStore interface {
		Select(ctx context.Context, table string, match Match, ordering ...DBOrdering) ([]Record, error)
		Insert(ctx context.Context, table string, row Record) (Record, error)
		Update(ctx context.Context, table string, match Match, fields Record) (Record, error)
		Delete(ctx context.Context, table string, match Match) (Record, error)
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// CheckIdent reports whether name is safe to use as a table or column name.
func CheckIdent(names ...string) error {
	for _, name := range names {
		if !identRegex.MatchString(name) {
			return errors.Wrapf(ErrInvalidIdent, "%q", name)
		}
	}
	return nil
}
