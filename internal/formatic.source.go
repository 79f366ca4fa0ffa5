package internal

import (
	"reflect"
	"strconv"
)

// SourceProvider resolves one selector token against a value
type SourceProvider interface {
	// Resolve returns the member, key or element named by selector
	Resolve(value any, selector string) (any, bool)
}

// SourceChain tries providers in order, first hit wins
type SourceChain []SourceProvider

// Resolve implements SourceProvider
func (c SourceChain) Resolve(value any, selector string) (any, bool) {
	for _, provider := range c {
		if result, ok := provider.Resolve(value, selector); ok {
			return result, true
		}
	}
	return nil, false
}

// ReflectSource resolves selectors against maps, structs, sequences and
// zero-argument methods through reflection
type ReflectSource struct{}

// Resolve implements SourceProvider
func (ReflectSource) Resolve(value any, selector string) (any, bool) {
	if value == nil {
		return nil, false
	}

	switch v := value.(type) {
	case map[string]any:
		result, ok := v[selector]
		return result, ok
	case map[string]string:
		result, ok := v[selector]
		return result, ok
	}

	rv := reflect.ValueOf(value)
	if result, ok := callMethod(rv, selector); ok {
		return result, true
	}

	rv, ok := Indirect(rv)
	if !ok {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		return mapLookup(rv, selector)

	case reflect.Struct:
		field := rv.FieldByName(selector)
		if field.IsValid() && field.CanInterface() {
			return field.Interface(), true
		}
		return callMethod(rv, selector)

	case reflect.Slice, reflect.Array, reflect.String:
		return sequenceLookup(rv, selector)
	}
	return nil, false
}

// Indirect dereferences pointers and interfaces, reporting false on nil
func Indirect(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

func callMethod(rv reflect.Value, name string) (any, bool) {
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return nil, false
	}
	method := rv.MethodByName(name)
	if !method.IsValid() {
		return nil, false
	}
	mt := method.Type()
	if mt.NumIn() != 0 || mt.NumOut() == 0 {
		return nil, false
	}
	out := method.Call(nil)
	return out[0].Interface(), true
}

func mapLookup(rv reflect.Value, selector string) (any, bool) {
	keyType := rv.Type().Key()
	var key reflect.Value

	switch keyType.Kind() {
	case reflect.String:
		key = reflect.ValueOf(selector).Convert(keyType)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(selector, 10, 64)
		if err != nil {
			return nil, false
		}
		key = reflect.ValueOf(n).Convert(keyType)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(selector, 10, 64)
		if err != nil {
			return nil, false
		}
		key = reflect.ValueOf(n).Convert(keyType)
	case reflect.Interface:
		key = reflect.ValueOf(selector)
		if !key.Type().AssignableTo(keyType) {
			return nil, false
		}
	default:
		return nil, false
	}

	result := rv.MapIndex(key)
	if !result.IsValid() {
		return nil, false
	}
	return result.Interface(), true
}

func sequenceLookup(rv reflect.Value, selector string) (any, bool) {
	switch selector {
	case PseudoMemberCount, PseudoMemberLength, PseudoMemberLen:
		if rv.Kind() == reflect.String {
			return len([]rune(rv.String())), true
		}
		return rv.Len(), true
	}

	idx, err := strconv.Atoi(selector)
	if err != nil || idx < 0 {
		return nil, false
	}
	if rv.Kind() == reflect.String {
		runes := []rune(rv.String())
		if idx >= len(runes) {
			return nil, false
		}
		return string(runes[idx]), true
	}
	if idx >= rv.Len() {
		return nil, false
	}
	elem := rv.Index(idx)
	if !elem.CanInterface() {
		return nil, false
	}
	return elem.Interface(), true
}

// IsSequence reports whether value is a slice or array other than text bytes
func IsSequence(value any) bool {
	rv, ok := Indirect(reflect.ValueOf(value))
	if !ok {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// SequenceElements returns the elements of a sequence value
func SequenceElements(value any) []any {
	rv, ok := Indirect(reflect.ValueOf(value))
	if !ok {
		return nil
	}
	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems
}
