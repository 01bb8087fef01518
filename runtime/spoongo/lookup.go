// Package spoongo resolves compiled template expressions at render time.
package spoongo

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel errors
var (
	ErrNilValue        = errors.New("nil value")
	ErrKeyNotFound     = errors.New("key not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotIndexable    = errors.New("value is not indexable")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Lookup resolves path against context. Each segment is tried as a map
// key, a sequence index, an exported struct field and finally as a
// zero-argument getter: for "first_name" the methods FirstName,
// GetFirstName, IsFirstName and HasFirstName are tried in that order.
func Lookup(context any, path []string) (any, error) {
	value := reflect.ValueOf(context)

	for i, segment := range path {
		next, err := step(value, segment)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, strings.Join(path[:i+1], "."))
		}

		value = next
	}

	value = uncoverInterface(value)
	if !value.IsValid() {
		return nil, nil
	}

	return value.Interface(), nil
}

func step(value reflect.Value, key string) (reflect.Value, error) {
	value = uncoverInterface(value)
	if !value.IsValid() || (value.Kind() == reflect.Pointer && value.IsNil()) {
		return reflect.Value{}, ErrNilValue
	}

	// keep the pointer around for pointer receiver getters
	holder := value
	value, isNil := uncoverReference(value)
	if isNil {
		return reflect.Value{}, ErrNilValue
	}

	switch value.Kind() {
	case reflect.Map:
		k, ok := mapKey(key, value.Type().Key())
		if ok {
			if item := value.MapIndex(k); item.IsValid() {
				return item, nil
			}
		}

		return reflect.Value{}, ErrKeyNotFound
	case reflect.Slice, reflect.Array, reflect.String:
		n, err := strconv.Atoi(key)
		if err != nil {
			break
		}

		if value.Kind() == reflect.String {
			runes := []rune(value.String())
			if n < 0 || n >= len(runes) {
				return reflect.Value{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, n, len(runes))
			}

			return reflect.ValueOf(string(runes[n])), nil
		}

		if n < 0 || n >= value.Len() {
			return reflect.Value{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, n, value.Len())
		}

		return value.Index(n), nil
	case reflect.Struct:
		for _, name := range fieldNames(key) {
			field, ok := value.Type().FieldByName(name)
			if ok && field.IsExported() {
				f, err := value.FieldByIndexErr(field.Index)
				if err != nil {
					return reflect.Value{}, ErrNilValue
				}

				return f, nil
			}
		}
	}

	if getter, ok := findGetter(holder, value, key); ok {
		return callGetter(getter)
	}

	if value.Kind() == reflect.Struct {
		return reflect.Value{}, ErrKeyNotFound
	}

	return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotIndexable, value.Type())
}

// mapKey converts a path segment to the key type of a map.
func mapKey(key string, typ reflect.Type) (reflect.Value, bool) {
	switch {
	case typ.Kind() == reflect.String:
		return reflect.ValueOf(key).Convert(typ), true
	case typ.Kind() == reflect.Interface:
		return reflect.ValueOf(key), true
	case isInt(typ.Kind()):
		n, err := strconv.ParseInt(key, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(n).Convert(typ), true
	case isUint(typ.Kind()):
		n, err := strconv.ParseUint(key, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(n).Convert(typ), true
	}

	return reflect.Value{}, false
}

func findGetter(holder, value reflect.Value, key string) (reflect.Value, bool) {
	for _, name := range getterNames(key) {
		for _, v := range []reflect.Value{holder, value} {
			method := v.MethodByName(name)
			if method.IsValid() && method.Type().NumIn() == 0 {
				return method, true
			}
		}
	}

	return reflect.Value{}, false
}

func callGetter(fn reflect.Value) (reflect.Value, error) {
	typ := fn.Type()

	switch {
	case typ.NumOut() == 1:
		return fn.Call(nil)[0], nil
	case typ.NumOut() == 2 && typ.Out(1) == errorType:
		out := fn.Call(nil)
		if err, _ := out[1].Interface().(error); err != nil {
			return reflect.Value{}, err
		}

		return out[0], nil
	}

	return reflect.Value{}, fmt.Errorf("%w: getter returns %d values", ErrNotIndexable, typ.NumOut())
}

// fieldNames returns the struct field names a key may refer to.
func fieldNames(key string) []string {
	camel := camelCase(key)
	if camel == key {
		return []string{key}
	}

	return []string{key, camel}
}

func getterNames(key string) []string {
	camel := camelCase(key)
	return []string{camel, "Get" + camel, "Is" + camel, "Has" + camel}
}

// camelCase turns "first_name" into "FirstName".
func camelCase(key string) string {
	caser := cases.Title(language.Und, cases.NoLower)

	var sb strings.Builder
	for _, part := range strings.Split(key, "_") {
		sb.WriteString(caser.String(part))
	}

	return sb.String()
}

func isInt(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func uncoverReference(value reflect.Value) (reflect.Value, bool) {
	for ; value.Kind() == reflect.Interface || value.Kind() == reflect.Pointer; value = value.Elem() {
		if value.IsNil() {
			return reflect.Value{}, true
		}
	}

	return value, false
}

func uncoverInterface(value reflect.Value) reflect.Value {
	if !value.IsValid() || value.Kind() != reflect.Interface {
		return value
	}

	return value.Elem()
}
