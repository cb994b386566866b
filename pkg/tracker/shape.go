package tracker

import (
	"errors"
	"fmt"
)

// KeyShape turns keys into canonical strings and back.
//
// Canonical must be deterministic and injective, and Parse(Canonical(k)) must
// return a key equal to k. The canonical string is the map index and the
// persisted object key, so it must not depend on anything process-local.
type KeyShape[K comparable] interface {
	Canonical(key K) (string, error)
	Parse(s string) (K, error)
}

// StateShape describes the state records held by a tracker.
type StateShape[S any] interface {
	// Default returns a fresh state with every field at its declared default.
	Default() S

	// Clone returns a deep copy of s.
	Clone(s S) (S, error)

	// Decode parses one persisted state value.
	Decode(data []byte) (S, error)

	// Validate reports whether s is an acceptable state.
	Validate(s S) error
}

// shapeChecker is implemented by the built-in shapes, which can tell at
// construction time whether their type parameter is usable.
type shapeChecker interface {
	check() error
}

func checkShape(name string, shape any) error {
	checker, ok := shape.(shapeChecker)
	if !ok {
		return nil
	}
	if err := checker.check(); err != nil {
		return fmt.Errorf("%w: %s shape: %w", ErrTypeConfiguration, name, err)
	}
	return nil
}

// KeyFuncs adapts a pair of functions to KeyShape.
type KeyFuncs[K comparable] struct {
	Encode func(K) (string, error)
	Decode func(string) (K, error)
}

// Canonical implements KeyShape.
func (f KeyFuncs[K]) Canonical(key K) (string, error) {
	if f.Encode == nil {
		return "", errors.New("encode function is nil")
	}
	return f.Encode(key)
}

// Parse implements KeyShape.
func (f KeyFuncs[K]) Parse(s string) (K, error) {
	if f.Decode == nil {
		var zero K
		return zero, errors.New("decode function is nil")
	}
	return f.Decode(s)
}

func (f KeyFuncs[K]) check() error {
	if f.Encode == nil || f.Decode == nil {
		return errors.New("both Encode and Decode are required")
	}
	return nil
}
