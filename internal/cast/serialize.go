// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cast

import (
	"fmt"
	"reflect"
	"strconv"
)

// Serialize converts v into the text that is encrypted for a field of the
// given kind. [KindPlain] accepts strings, byte slices, fmt.Stringer values,
// booleans and numbers; structured kinds accept anything encoding/json can
// marshal, including *OrderedMap, *Object and *Collection.
func Serialize(kind Kind, v any) (string, error) {
	switch kind {
	case KindPlain:
		return plainString(v)
	case KindArray, KindJSON, KindObject, KindCollection:
		b, err := marshalCompact(v)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// Deserialize converts decrypted text back into the in-memory value for
// kind:
//   - KindPlain: the text itself;
//   - KindArray, KindJSON: *OrderedMap for objects, []any for arrays;
//   - KindObject: *Object, with nested objects as *Object;
//   - KindCollection: *Collection.
//
// A JSON null yields nil for every structured kind.
func Deserialize(kind Kind, text string) (any, error) {
	var wrap objectWrapper
	switch kind {
	case KindPlain:
		return text, nil
	case KindArray, KindJSON, KindCollection:
		wrap = wrapOrderedMap
	case KindObject:
		wrap = wrapObject
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	v, err := decodeJSON([]byte(text), wrap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	if kind == KindCollection && v != nil {
		return collectionFrom(v), nil
	}

	return v, nil
}

func plainString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case fmt.Stringer:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(t).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(t).Uint(), 10), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %T cannot be stored as plain text", ErrUnsupportedValue, v)
}

// isNil reports whether v is nil or a typed nil pointer, map, slice or
// interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
