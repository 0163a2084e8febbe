package utils

import (
	"reflect"
	"strings"
)

// normalizeField trims string fields and rounds monetary float64 fields
// (unit prices, partial-payment values) to cents.
func normalizeField(f reflect.Value) {
	switch f.Kind() {
	case reflect.String:
		f.SetString(strings.TrimSpace(f.String()))
	case reflect.Float64:
		f.SetFloat(Round2(f.Float()))
	}
}

// NormalizeDTO normalizes every settable string/float64 field of a
// pointer-to-struct create DTO before it is copied onto a model.
func NormalizeDTO(dto any) {
	s := structValue(dto)
	if !s.IsValid() {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		if f := s.Field(i); f.CanSet() {
			normalizeField(f)
		}
	}
}

// NormalizePtrDTO normalizes the non-nil pointer fields of a patch DTO.
// Nil fields stay nil so UpdatesFromPtrDTO keeps them out of the update map.
func NormalizePtrDTO(dto any) {
	s := structValue(dto)
	if !s.IsValid() {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		normalizeField(f.Elem())
	}
}

// structValue unwraps a pointer-to-struct, or returns the zero Value.
func structValue(dto any) reflect.Value {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return reflect.Value{}
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return s
}
