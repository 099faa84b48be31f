// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

func UnmarshalJSON[T any](r io.Reader, out *T) error {
	// The contents are needed as bytes so that error offsets can be
	// turned into line numbers.
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return UnmarshalJSONBytes(b, out)
}

// UnmarshalJSONBytes unmarshals b into out, reporting syntax and type
// errors with the line and column where they occurred.
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %w", line, char, jerr)

	case *json.UnmarshalTypeError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %s value for %s.%s invalid for type %s",
			line, char, jerr.Value, jerr.Struct, jerr.Field, jerr.Type.String())

	default:
		return err
	}
}

// CheckJSON checks whether the provided JSON is syntactically valid and
// then typechecks it with respect to the provided type T. Object keys that
// do not correspond to a field of T are reported as likely misspellings.
func CheckJSON[T any](contents []byte, e *ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	var items any
	if err := UnmarshalJSONBytes(contents, &items); err != nil {
		e.Error(err)
		return
	}

	ty := reflect.TypeOf((*T)(nil)).Elem()
	typeCheckJSON(items, ty, make(map[reflect.Type]map[string]reflect.Type), e)
}

func typeCheckJSON(v any, ty reflect.Type, fieldCache map[reflect.Type]map[string]reflect.Type, e *ErrorLogger) {
	for ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}
	if v == nil {
		// null is acceptable for anything.
		return
	}

	mismatch := func() {
		e.ErrorString("unexpected %s value for %s", reflect.TypeOf(v), ty)
	}

	// Types with their own decoding get the benefit of the doubt.
	if reflect.PointerTo(ty).Implements(reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()) {
		return
	}

	switch ty.Kind() {
	case reflect.Bool:
		if _, ok := v.(bool); !ok {
			mismatch()
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if _, ok := v.(float64); !ok {
			mismatch()
		}

	case reflect.String:
		if _, ok := v.(string); !ok {
			mismatch()
		}

	case reflect.Array, reflect.Slice:
		if array, ok := v.([]any); ok {
			for i, item := range array {
				e.Push(fmt.Sprintf("[%d]", i))
				typeCheckJSON(item, ty.Elem(), fieldCache, e)
				e.Pop()
			}
		} else {
			mismatch()
		}

	case reflect.Map:
		if m, ok := v.(map[string]any); ok {
			for k, mv := range m {
				e.Push(k)
				typeCheckJSON(mv, ty.Elem(), fieldCache, e)
				e.Pop()
			}
		} else {
			mismatch()
		}

	case reflect.Struct:
		items, ok := v.(map[string]any)
		if !ok {
			mismatch()
			return
		}

		fields, ok := fieldCache[ty]
		if !ok {
			fields = make(map[string]reflect.Type)
			for _, field := range reflect.VisibleFields(ty) {
				if jtag, ok := field.Tag.Lookup("json"); ok {
					name, _, _ := strings.Cut(jtag, ",")
					if name != "-" {
						fields[name] = field.Type
					}
				}
			}
			fieldCache[ty] = fields
		}

		for item, iv := range items {
			if fty, ok := fields[item]; ok {
				e.Push(item)
				typeCheckJSON(iv, fty, fieldCache, e)
				e.Pop()
			} else {
				e.ErrorString("The entry %q is not an expected JSON object. Is it misspelled?", item)
			}
		}
	}
}
