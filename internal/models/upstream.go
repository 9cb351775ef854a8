package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnexpectedShape is returned when an upstream payload is valid JSON but
// not the kind of value the action is documented to return.
var ErrUnexpectedShape = errors.New("unexpected payload shape")

// Record is one raw upstream JSON object. Numbers are kept as json.Number so
// ids and ratings survive whichever encoding the provider picked.
type Record map[string]interface{}

// DecodeList decodes a listing payload (a JSON array of objects).
// Elements that are not objects are skipped.
func DecodeList(raw []byte) ([]Record, error) {
	var items []interface{}
	if err := decode(raw, &items); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			records = append(records, Record(m))
		}
	}
	return records, nil
}

// DecodeObject decodes a detail payload. Providers answer unknown ids with
// an empty array, which decodes to an empty Record.
func DecodeObject(raw []byte) (Record, error) {
	var v interface{}
	if err := decode(raw, &v); err != nil {
		return nil, err
	}

	switch val := v.(type) {
	case map[string]interface{}:
		return Record(val), nil
	case []interface{}:
		if len(val) == 0 {
			return Record{}, nil
		}
	case nil:
		return Record{}, nil
	}
	return nil, fmt.Errorf("%w: expected object", ErrUnexpectedShape)
}

func decode(raw []byte, target interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return err
	}
	return nil
}

// String returns the field as text. Numbers are formatted, anything else
// (missing, null, objects, lists, booleans) yields "".
func (r Record) String(key string) string {
	return stringify(r[key])
}

// First returns the first non-blank string among keys.
func (r Record) First(keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(r.String(key)); s != "" {
			return s
		}
	}
	return ""
}

// Float returns the field as a number, 0 when absent or non-numeric.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Int returns the field as an integer, 0 when absent or non-numeric.
func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(v)
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return 0
}

// Object returns a nested object, or an empty Record when the field is
// missing or has any other type.
func (r Record) Object(key string) Record {
	if m, ok := r[key].(map[string]interface{}); ok {
		return Record(m)
	}
	return Record{}
}

// Value returns the raw decoded field.
func (r Record) Value(key string) interface{} {
	return r[key]
}

// IsEmpty reports whether the record carries no fields.
func (r Record) IsEmpty() bool {
	return len(r) == 0
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}

// Stringify exposes the text conversion used by Record for values that were
// pulled out of lists.
func Stringify(v interface{}) string {
	return stringify(v)
}
