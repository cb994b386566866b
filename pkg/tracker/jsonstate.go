package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"
)

// Cloner is implemented by states that know how to deep-copy themselves.
// JSONState prefers it over a JSON round trip.
type Cloner[S any] interface {
	Clone() S
}

// Validator is implemented by states with constraints beyond their field
// types. JSONState calls it on every Set, Edit commit and Load.
type Validator interface {
	Validate() error
}

type stateField struct {
	name  string
	index int
}

type jsonState[S any] struct {
	defaults func() S

	once   sync.Once
	fields []stateField
	err    error
}

// JSONState returns a StateShape for struct states persisted as JSON objects.
//
// defaults builds a fresh state with every field at its declared default; a
// nil defaults means the zero value. Fields missing from a persisted object,
// or set to null, keep their defaults and unknown fields are rejected. Only
// exported fields are copied and persisted. States holding strings that are
// not valid UTF-8 are rejected, since JSON cannot carry them unchanged.
func JSONState[S any](defaults func() S) StateShape[S] {
	return &jsonState[S]{defaults: defaults}
}

func (j *jsonState[S]) check() error {
	j.once.Do(func() {
		typ := reflect.TypeOf((*S)(nil)).Elem()
		if typ.Kind() != reflect.Struct {
			j.err = fmt.Errorf("state type %s is a %s, not a struct", typ, typ.Kind())
			return
		}
		j.fields = stateFields(typ)
		if _, err := json.Marshal(j.Default()); err != nil {
			j.err = fmt.Errorf("default %s does not serialize: %w", typ, err)
		}
	})
	return j.err
}

// Default implements StateShape.
func (j *jsonState[S]) Default() S {
	if j.defaults != nil {
		return j.defaults()
	}
	var zero S
	return zero
}

// Clone implements StateShape.
func (j *jsonState[S]) Clone(s S) (S, error) {
	if c, ok := any(s).(Cloner[S]); ok {
		return c.Clone(), nil
	}

	var out S
	data, err := json.Marshal(s)
	if err != nil {
		return out, fmt.Errorf("failed to copy state: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to copy state: %w", err)
	}
	return out, nil
}

// Decode implements StateShape.
func (j *jsonState[S]) Decode(data []byte) (S, error) {
	var s S
	if err := j.check(); err != nil {
		return s, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return s, errors.New("state is not a JSON object")
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &present); err != nil {
		return s, err
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return s, err
	}

	// fields absent from the document keep their declared defaults
	defaults := reflect.ValueOf(j.Default())
	target := reflect.ValueOf(&s).Elem()
	for _, f := range j.fields {
		if !hasMember(present, f.name) {
			target.Field(f.index).Set(defaults.Field(f.index))
		}
	}

	if err := j.Validate(s); err != nil {
		return s, err
	}
	return j.Clone(s)
}

// Validate implements StateShape.
func (j *jsonState[S]) Validate(s S) error {
	if err := checkUTF8(reflect.ValueOf(&s).Elem(), "state", make(map[uintptr]bool)); err != nil {
		return err
	}
	if v, ok := any(s).(Validator); ok {
		return v.Validate()
	}
	if v, ok := any(&s).(Validator); ok {
		return v.Validate()
	}
	return nil
}

func stateFields(typ reflect.Type) []stateField {
	fields := make([]stateField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		name, ok := jsonName(f)
		if !ok {
			continue
		}
		fields = append(fields, stateField{name: name, index: i})
	}
	return fields
}

// hasMember mirrors encoding/json, which matches object members to fields
// case-insensitively. A null member counts as absent.
func hasMember(members map[string]json.RawMessage, name string) bool {
	for member, raw := range members {
		if strings.EqualFold(member, name) && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return true
		}
	}
	return false
}

// checkUTF8 walks every value encoding/json would serialize and fails on the
// first string that is not valid UTF-8.
func checkUTF8(v reflect.Value, path string, seen map[uintptr]bool) error {
	switch v.Kind() {
	case reflect.String:
		if !utf8.ValidString(v.String()) {
			return fmt.Errorf("%s is not valid UTF-8", path)
		}
	case reflect.Pointer:
		if v.IsNil() || seen[v.Pointer()] {
			return nil
		}
		seen[v.Pointer()] = true
		return checkUTF8(v.Elem(), path, seen)
	case reflect.Interface:
		if !v.IsNil() {
			return checkUTF8(v.Elem(), path, seen)
		}
	case reflect.Struct:
		typ := v.Type()
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if !f.IsExported() && !f.Anonymous {
				continue
			}
			name, ok := jsonName(f)
			if !ok {
				continue
			}
			if err := checkUTF8(v.Field(i), path+"."+name, seen); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkUTF8(v.Index(i), fmt.Sprintf("%s[%d]", path, i), seen); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			key := iter.Key()
			if key.Kind() == reflect.String && !utf8.ValidString(key.String()) {
				return fmt.Errorf("%s has a key that is not valid UTF-8", path)
			}
			if err := checkUTF8(iter.Value(), fmt.Sprintf("%s[%v]", path, key), seen); err != nil {
				return err
			}
		}
	}
	return nil
}
