// Package validate wraps go-playground/validator behind a process-wide
// singleton so persisted payloads are shape-checked with consistent tag
// semantics everywhere.
package validate

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	inst *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		inst = validator.New(validator.WithRequiredStructEnabled())
	})
	return inst
}

// Struct validates a struct against its `validate` tags.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single value against the given tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
