package inmemdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/trezcool/tasktutor/core"
)

type (
	DB struct {
		mutex  sync.RWMutex
		tables map[string]*table
	}

	table struct {
		rows []core.Record
	}
)

var _ core.RecordStore = (*DB)(nil) // interface compliance check

func Open() (*DB, error) {
	return &DB{tables: make(map[string]*table)}, nil
}

func (db *DB) Close() error { return nil }

// table returns the named table, creating it when create is set. db.mutex must be held.
func (db *DB) table(name string, create bool) *table {
	t, ok := db.tables[name]
	if !ok && create {
		t = &table{}
		db.tables[name] = t
	}
	return t
}

func copyRecord(rec core.Record) core.Record {
	c := make(core.Record, len(rec))
	for k, v := range rec {
		c[k] = v
	}
	return c
}

func sameValue(a, b interface{}) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func matches(rec core.Record, match core.Match) bool {
	for col, val := range match {
		if !sameValue(rec[col], val) {
			return false
		}
	}
	return true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// less orders numbers numerically, times chronologically and everything else as strings.
func less(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa < fb
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Before(tb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b)) < 0
}

func checkIdents(table string, cols map[string]interface{}) error {
	if err := core.CheckIdent(table); err != nil {
		return err
	}
	for col := range cols {
		if err := core.CheckIdent(col); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) Select(_ context.Context, name string, match core.Match, ordering ...core.DBOrdering) ([]core.Record, error) {
	if err := checkIdents(name, match); err != nil {
		return nil, err
	}
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	res := make([]core.Record, 0)
	if t := db.table(name, false); t != nil {
		for _, rec := range t.rows {
			if matches(rec, match) {
				res = append(res, copyRecord(rec))
			}
		}
	}
	if len(ordering) > 0 {
		sort.SliceStable(res, func(i, j int) bool {
			for _, ord := range ordering {
				a, b := res[i][ord.Field], res[j][ord.Field]
				if sameValue(a, b) {
					continue
				}
				if ord.Ascending {
					return less(a, b)
				}
				return less(b, a)
			}
			return false
		})
	}
	return res, nil
}

func (db *DB) Insert(_ context.Context, name string, row core.Record) (core.Record, error) {
	if err := checkIdents(name, row); err != nil {
		return nil, err
	}
	db.mutex.Lock()
	defer db.mutex.Unlock()

	t := db.table(name, true)
	rec := copyRecord(row)
	t.rows = append(t.rows, rec)
	return copyRecord(rec), nil
}

func (db *DB) Update(_ context.Context, name string, match core.Match, fields core.Record) (core.Record, error) {
	if err := checkIdents(name, match); err != nil {
		return nil, err
	}
	if err := checkIdents(name, fields); err != nil {
		return nil, err
	}
	db.mutex.Lock()
	defer db.mutex.Unlock()

	var first core.Record
	if t := db.table(name, false); t != nil {
		for _, rec := range t.rows {
			if !matches(rec, match) {
				continue
			}
			for col, val := range fields {
				rec[col] = val
			}
			if first == nil {
				first = copyRecord(rec)
			}
		}
	}
	if first == nil {
		return nil, core.ErrRecordNotFound
	}
	return first, nil
}

func (db *DB) Delete(_ context.Context, name string, match core.Match) (core.Record, error) {
	if err := checkIdents(name, match); err != nil {
		return nil, err
	}
	db.mutex.Lock()
	defer db.mutex.Unlock()

	var first core.Record
	if t := db.table(name, false); t != nil {
		kept := make([]core.Record, 0, len(t.rows))
		for _, rec := range t.rows {
			if matches(rec, match) {
				if first == nil {
					first = rec
				}
				continue
			}
			kept = append(kept, rec)
		}
		t.rows = kept
	}
	if first == nil {
		return nil, core.ErrRecordNotFound
	}
	return first, nil
}
