package sqlxstore

import (
	"context"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
)

// Store is a core.RecordStore over a SQL database (postgres or sqlite).
// Both engines support RETURNING, so every write hands back the affected rows.
type Store struct {
	db *sqlx.DB
}

var _ core.RecordStore = (*Store)(nil) // interface compliance check

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// where builds the WHERE clause for match, with bind vars in the "?" format.
func where(match core.Match) (string, []interface{}, error) {
	if len(match) == 0 {
		return "", nil, nil
	}
	cols := sortedKeys(match)
	if err := core.CheckIdent(cols...); err != nil {
		return "", nil, err
	}
	conds := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		conds = append(conds, col+" = ?")
		args = append(args, match[col])
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func normalize(rec map[string]interface{}) core.Record {
	for k, v := range rec {
		if b, ok := v.([]byte); ok {
			rec[k] = string(b)
		}
	}
	return rec
}

func (s *Store) query(ctx context.Context, q string, args ...interface{}) ([]core.Record, error) {
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	recs := make([]core.Record, 0)
	for rows.Next() {
		rec := make(map[string]interface{})
		if err := rows.MapScan(rec); err != nil {
			return nil, err
		}
		recs = append(recs, normalize(rec))
	}
	return recs, rows.Err()
}

func first(recs []core.Record) (core.Record, error) {
	if len(recs) == 0 {
		return nil, core.ErrRecordNotFound
	}
	return recs[0], nil
}

func (s *Store) Select(ctx context.Context, table string, match core.Match, ordering ...core.DBOrdering) ([]core.Record, error) {
	if err := core.CheckIdent(table); err != nil {
		return nil, err
	}
	cond, args, err := where(match)
	if err != nil {
		return nil, err
	}
	q := "SELECT * FROM " + table + cond
	if len(ordering) > 0 {
		orders := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			if err := core.CheckIdent(ord.Field); err != nil {
				return nil, err
			}
			orders = append(orders, ord.String())
		}
		q += " ORDER BY " + strings.Join(orders, ", ")
	}
	recs, err := s.query(ctx, q, args...)
	return recs, errors.Wrapf(err, "selecting from %s", table)
}

func (s *Store) Insert(ctx context.Context, table string, row core.Record) (core.Record, error) {
	if len(row) == 0 {
		return nil, errors.Errorf("inserting into %s: empty row", table)
	}
	cols := sortedKeys(row)
	if err := core.CheckIdent(append(cols, table)...); err != nil {
		return nil, err
	}
	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		args = append(args, row[col])
	}
	q := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ") RETURNING *"

	recs, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "inserting into %s", table)
	}
	return first(recs)
}

func (s *Store) Update(ctx context.Context, table string, match core.Match, fields core.Record) (core.Record, error) {
	if len(fields) == 0 {
		return nil, errors.Errorf("updating %s: no fields", table)
	}
	cols := sortedKeys(fields)
	if err := core.CheckIdent(append(cols, table)...); err != nil {
		return nil, err
	}
	sets := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+len(match))
	for _, col := range cols {
		sets = append(sets, col+" = ?")
		args = append(args, fields[col])
	}
	cond, condArgs, err := where(match)
	if err != nil {
		return nil, err
	}
	q := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + cond + " RETURNING *"

	recs, err := s.query(ctx, q, append(args, condArgs...)...)
	if err != nil {
		return nil, errors.Wrapf(err, "updating %s", table)
	}
	return first(recs)
}

func (s *Store) Delete(ctx context.Context, table string, match core.Match) (core.Record, error) {
	if err := core.CheckIdent(table); err != nil {
		return nil, err
	}
	cond, args, err := where(match)
	if err != nil {
		return nil, err
	}
	recs, err := s.query(ctx, "DELETE FROM "+table+cond+" RETURNING *", args...)
	if err != nil {
		return nil, errors.Wrapf(err, "deleting from %s", table)
	}
	return first(recs)
}
