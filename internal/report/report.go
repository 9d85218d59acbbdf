// Package report holds the merged metadata document produced by an
// examination run and the deep-merge rule used to accumulate it.
//
// Values stored in a Report are JSON shaped: strings, booleans, numbers,
// nil, sequences and string-keyed mappings. Merge accepts any slice or
// array as a sequence and any map with string keys as a mapping, and
// stores them as []any and map[string]any.
package report

import "reflect"

// Report maps extractor-defined field names to JSON-compatible values
type Report map[string]any

// New returns an empty report
func New() Report {
	return Report{}
}

// Merge deep-merges src into dst in place and returns dst.
//
// Scalars from src replace scalars in dst. Mappings merge key by key.
// Sequences merge element by element by index; when src holds a shorter
// sequence the trailing elements of dst are kept. Values copied from src
// are cloned so dst never aliases the partial result.
func Merge(dst, src Report) Report {
	if dst == nil {
		dst = New()
	}
	for key, value := range src {
		value = clone(value)
		if existing, ok := dst[key]; ok {
			dst[key] = mergeValue(existing, value)
			continue
		}
		dst[key] = value
	}
	return dst
}

// mergeValue expects src to be normalized by clone already
func mergeValue(dst, src any) any {
	switch s := src.(type) {
	case map[string]any:
		dstMap, ok := asMap(dst)
		if !ok {
			return s
		}
		for key, value := range s {
			if existing, ok := dstMap[key]; ok {
				dstMap[key] = mergeValue(existing, value)
				continue
			}
			dstMap[key] = value
		}
		return dstMap

	case []any:
		dstSlice, ok := asSlice(dst)
		if !ok {
			return s
		}
		for i, value := range s {
			if i < len(dstSlice) {
				dstSlice[i] = mergeValue(dstSlice[i], value)
				continue
			}
			dstSlice = append(dstSlice, value)
		}
		return dstSlice
	}
	return src
}

// asMap views v as a mapping. Typed maps are copied one level deep.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Report:
		return map[string]any(m), true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asSlice views v as a sequence. Byte slices stay scalars.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []byte, nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func clone(v any) any {
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for key, value := range m {
			out[key] = clone(value)
		}
		return out
	}
	if s, ok := asSlice(v); ok {
		out := make([]any, len(s))
		for i, value := range s {
			out[i] = clone(value)
		}
		return out
	}
	return v
}
