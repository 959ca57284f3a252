// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package vartype provides values that remember whether a weather source delivered them.
package vartype

import (
	"encoding/json"
	"fmt"
)

// Unavailable is rendered for values a weather source did not deliver.
const Unavailable = "n/a"

type (
	// VarFloat64 is a type alias for Variable[float64], representing a float64 value with initialization tracking.
	VarFloat64 = Variable[float64]

	// VarInt is a type alias for Variable[int], representing an integer value with initialization tracking.
	VarInt = Variable[int]
)

// Variable holds a value and tracks whether it was ever set.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable creates and returns a new Variable instance initialized with the provided value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// Map applies fn to the value of v. Unset variables stay unset.
func Map[T, U any](v Variable[T], fn func(T) U) Variable[U] {
	if !v.isset {
		return Variable[U]{}
	}
	return NewVariable(fn(v.value))
}

// Value returns the held value, the zero value if unset.
func (v Variable[T]) Value() T {
	return v.value
}

func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

func (v Variable[T]) IsSet() bool {
	return v.isset
}

// String returns the value or Unavailable if it was never set.
func (v Variable[T]) String() string {
	if !v.isset {
		return Unavailable
	}
	return fmt.Sprint(v.value)
}

// MarshalJSON encodes unset values as null.
func (v Variable[T]) MarshalJSON() ([]byte, error) {
	if !v.isset {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
