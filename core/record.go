package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// timeLayouts are the timestamp encodings produced by the supported backends
// (JSON APIs, postgres, sqlite).
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// NullString returns an invalid null.String for SQL NULL / JSON null values.
func (r Record) NullString(key string) null.String {
	if r[key] == nil {
		return null.String{}
	}
	return null.StringFrom(r.String(key))
}

func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string, []byte:
		s := strings.TrimSpace(r.String(key))
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string, []byte:
		f, _ := strconv.ParseFloat(strings.TrimSpace(r.String(key)), 64)
		return f
	}
	return 0
}

func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case float64:
		return v != 0
	case string, []byte:
		b, _ := strconv.ParseBool(r.String(key))
		return b
	}
	return false
}

// Time returns the zero time when the value is missing or unparsable.
func (r Record) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v.UTC()
	case string, []byte:
		s := r.String(key)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// NullTime returns an invalid null.Time when the value is missing or unparsable.
func (r Record) NullTime(key string) null.Time {
	t := r.Time(key)
	return null.NewTime(t, !t.IsZero())
}
