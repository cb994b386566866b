package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

type keyField struct {
	name  string
	index int
}

type structKey[K comparable] struct {
	once   sync.Once
	fields []keyField
	err    error
}

// StructKey returns a KeyShape for struct keys whose fields are all
// booleans, integers, floats or strings.
//
// The canonical form is a compact JSON object with one member per field,
// ordered by field name (the json tag name when present):
//
//	type Key struct {
//		A string `json:"a"`
//		B int    `json:"b"`
//	}
//	// Key{A: "foo", B: 1} -> {"a":"foo","b":1}
//
// Parse only accepts that exact spelling, so every key value has exactly one
// canonical string. Key types that are not structs, or that carry
// unexported, ignored, embedded or non-primitive fields, are rejected with
// ErrTypeConfiguration when the tracker is constructed.
func StructKey[K comparable]() KeyShape[K] {
	return &structKey[K]{}
}

func (s *structKey[K]) check() error {
	s.once.Do(func() {
		s.fields, s.err = keyFields(reflect.TypeOf((*K)(nil)).Elem())
	})
	return s.err
}

// Canonical implements KeyShape.
func (s *structKey[K]) Canonical(key K) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}

	v := reflect.ValueOf(key)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return "", err
		}
		buf.Write(name)
		buf.WriteByte(':')

		field := v.Field(f.index)
		if field.Kind() == reflect.String && !utf8.ValidString(field.String()) {
			return "", fmt.Errorf("key field %s is not valid UTF-8", f.name)
		}
		if field.CanFloat() && field.Float() == 0 {
			// -0 == 0, so both must share one spelling
			field = reflect.Zero(field.Type())
		}
		value, err := json.Marshal(field.Interface())
		if err != nil {
			return "", fmt.Errorf("key field %s: %w", f.name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// Parse implements KeyShape.
func (s *structKey[K]) Parse(str string) (K, error) {
	var zero K
	if err := s.check(); err != nil {
		return zero, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(str), &raw); err != nil {
		return zero, fmt.Errorf("malformed key %q: %w", str, err)
	}
	if raw == nil {
		return zero, fmt.Errorf("malformed key %q: not an object", str)
	}
	if len(raw) != len(s.fields) {
		return zero, fmt.Errorf("malformed key %q: want %d fields, got %d", str, len(s.fields), len(raw))
	}

	var key K
	v := reflect.ValueOf(&key).Elem()
	for _, f := range s.fields {
		data, ok := raw[f.name]
		if !ok {
			return zero, fmt.Errorf("malformed key %q: missing field %s", str, f.name)
		}
		if err := json.Unmarshal(data, v.Field(f.index).Addr().Interface()); err != nil {
			return zero, fmt.Errorf("malformed key %q: field %s: %w", str, f.name, err)
		}
	}

	canonical, err := s.Canonical(key)
	if err != nil {
		return zero, err
	}
	if canonical != str {
		return zero, fmt.Errorf("key %q is not in canonical form %q", str, canonical)
	}
	return key, nil
}

func keyFields(typ reflect.Type) ([]keyField, error) {
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("key type %s is a %s, not a struct", typ, typ.Kind())
	}

	fields := make([]keyField, 0, typ.NumField())
	seen := make(map[string]bool, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		name, ok := jsonName(f)
		switch {
		case f.Anonymous:
			return nil, fmt.Errorf("key field %s: embedded fields are not supported", f.Name)
		case !f.IsExported() || !ok:
			return nil, fmt.Errorf("key field %s is not serialized", f.Name)
		case !isPrimitive(f.Type.Kind()):
			return nil, fmt.Errorf("key field %s has non-primitive type %s", f.Name, f.Type)
		case seen[name]:
			return nil, fmt.Errorf("key field name %q is used twice", name)
		}
		seen[name] = true
		fields = append(fields, keyField{name: name, index: i})
	}
	if len(fields) == 0 {
		return nil, errors.New("key type has no fields")
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].name < fields[j].name
	})
	return fields, nil
}

// jsonName returns the serialized name of f and false when the field is
// excluded with `json:"-"`.
func jsonName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, true
}

func isPrimitive(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
