// Package sheets projects ads into a tabular knowledge base and publishes it
// to a Google spreadsheet.
package sheets

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Field is one named cell of a row.
type Field struct {
	Key   string
	Value interface{}
}

// Row keeps its keys in insertion order so the first row can define the
// header.
type Row []Field

func (r Row) Get(key string) (interface{}, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Table converts rows into a grid: the first row's keys form the header and
// every row is projected onto that header. Keys missing from a row become
// empty cells, extra keys are dropped. No rows yields nil.
func Table(rows []Row) [][]string {
	if len(rows) == 0 {
		return nil
	}
	header := rows[0].Keys()
	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	for _, row := range rows {
		line := make([]string, len(header))
		for i, key := range header {
			if v, ok := row.Get(key); ok {
				line[i] = Cell(v)
			}
		}
		out = append(out, line)
	}
	return out
}

// Cell renders a value as spreadsheet text. Nil becomes "", maps, slices and
// structs become JSON, everything else its plain string form.
func Cell(v interface{}) string {
	// A nil pointer can satisfy fmt.Stringer through a value method.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return ""
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339)
	case json.RawMessage:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return ""
		}
		return Cell(rv.Elem().Interface())
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return ""
		}
		return jsonCell(v)
	case reflect.Array, reflect.Struct:
		return jsonCell(v)
	}
	return fmt.Sprint(v)
}

func jsonCell(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
