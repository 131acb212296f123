package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// dateLayouts are tried in order when reviving a date string.
// RFC3339 also accepts fractional seconds when parsing.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type segment struct {
	name  string
	array bool
}

type fieldPath struct {
	raw      string
	segments []segment
}

func parseFieldPath(raw string) (fieldPath, error) {
	if raw == "" {
		return fieldPath{}, fmt.Errorf("empty field path")
	}

	parts := strings.Split(raw, ".")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		seg := segment{name: part}
		if strings.HasSuffix(part, "[]") {
			seg.name = strings.TrimSuffix(part, "[]")
			seg.array = true
		}
		if seg.name == "" || strings.ContainsAny(seg.name, "[]") {
			return fieldPath{}, fmt.Errorf("invalid field path %q", raw)
		}
		segments = append(segments, seg)
	}

	return fieldPath{raw: raw, segments: segments}, nil
}

// Codec converts a collection of T to and from its persisted JSON form.
// Date fields are time.Time (or *time.Time when optional) in T and
// strings in the blob. A slice tagged omitempty loses the difference between
// nil and empty; leave the tag off slices that must round-trip as [].
type Codec[T any] struct {
	dateFields []fieldPath
}

// NewCodec creates a codec reviving the given date field paths on decode.
//
// Paths are dot-separated JSON member names; a "[]" suffix marks an array whose
// elements are walked, e.g. "date", "lastService", "items[].shippedAt".
func NewCodec[T any](dateFields ...string) (*Codec[T], error) {
	c := &Codec[T]{}
	for _, raw := range dateFields {
		p, err := parseFieldPath(raw)
		if err != nil {
			return nil, err
		}
		c.dateFields = append(c.dateFields, p)
	}
	return c, nil
}

// MustCodec is NewCodec for package-level declarations. It panics on a malformed path.
func MustCodec[T any](dateFields ...string) *Codec[T] {
	c, err := NewCodec[T](dateFields...)
	if err != nil {
		panic(err)
	}
	return c
}

// DateFields returns the configured date field paths.
func (c *Codec[T]) DateFields() []string {
	out := make([]string, len(c.dateFields))
	for i, p := range c.dateFields {
		out[i] = p.raw
	}
	return out
}

// Encode serializes a collection. A nil collection encodes as "[]".
func (c *Codec[T]) Encode(items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}
	return string(data), nil
}

// Decode parses a persisted blob, reviving date fields.
// Every failure wraps ErrCorruptPersistedData.
func (c *Codec[T]) Decode(blob string) ([]T, error) {
	dec := json.NewDecoder(strings.NewReader(blob))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPersistedData, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after collection", ErrCorruptPersistedData)
	}

	list, ok := tree.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", ErrCorruptPersistedData, jsonKind(tree))
	}

	for i, elem := range list {
		for _, p := range c.dateFields {
			if err := revive(elem, p.segments); err != nil {
				return nil, fmt.Errorf("%w: item %d: %s: %v", ErrCorruptPersistedData, i, p.raw, err)
			}
		}
	}

	normalized, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPersistedData, err)
	}

	items := make([]T, 0, len(list))
	if err := json.Unmarshal(normalized, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPersistedData, err)
	}
	return items, nil
}

// DecodeOne parses a single persisted entity object.
func (c *Codec[T]) DecodeOne(raw []byte) (T, error) {
	var zero T

	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(raw)
	buf.WriteByte(']')

	items, err := c.Decode(buf.String())
	if err != nil {
		return zero, err
	}
	if len(items) != 1 {
		return zero, fmt.Errorf("%w: expected one entity", ErrCorruptPersistedData)
	}
	return items[0], nil
}

// revive rewrites date values found along segs in canonical RFC3339 form.
// Absent and null values are left alone at every level.
func revive(node any, segs []segment) error {
	if node == nil {
		return nil
	}
	obj, ok := node.(map[string]any)
	if !ok {
		return fmt.Errorf("expected an object, got %s", jsonKind(node))
	}

	seg := segs[0]
	value, present := obj[seg.name]
	if !present || value == nil {
		return nil
	}

	last := len(segs) == 1

	if seg.array {
		list, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: expected an array, got %s", seg.name, jsonKind(value))
		}
		for i, elem := range list {
			if last {
				revived, err := reviveDate(elem)
				if err != nil {
					return fmt.Errorf("%s[%d]: %w", seg.name, i, err)
				}
				list[i] = revived
				continue
			}
			if err := revive(elem, segs[1:]); err != nil {
				return fmt.Errorf("%s[%d].%w", seg.name, i, err)
			}
		}
		return nil
	}

	if last {
		revived, err := reviveDate(value)
		if err != nil {
			return fmt.Errorf("%s: %w", seg.name, err)
		}
		obj[seg.name] = revived
		return nil
	}

	return revive(value, segs[1:])
}

func reviveDate(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		t, err := parseDate(v)
		if err != nil {
			return nil, err
		}
		return t.Format(time.RFC3339Nano), nil
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid epoch milliseconds %s", v)
		}
		return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano), nil
	default:
		return nil, fmt.Errorf("expected a date, got %s", jsonKind(value))
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

var timeType = reflect.TypeOf(time.Time{})

// DateFields derives the date field paths of T from its time.Time and
// *time.Time fields, following json tags, nested structs and slices of structs.
func DateFields[T any]() []string {
	var zero T
	return dateFieldsOf(reflect.TypeOf(zero), "")
}

func dateFieldsOf(t reflect.Type, prefix string) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || t == timeType {
		return nil
	}

	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		// Untagged embedded structs are flattened by encoding/json, exported or not.
		if f.Anonymous && tag == "" && ft.Kind() == reflect.Struct && ft != timeType {
			out = append(out, dateFieldsOf(ft, prefix)...)
			continue
		}
		if !f.IsExported() {
			continue
		}

		name := f.Name
		if tagName, _, _ := strings.Cut(tag, ","); tagName != "" {
			name = tagName
		}

		switch {
		case ft == timeType:
			out = append(out, prefix+name)
		case ft.Kind() == reflect.Slice || ft.Kind() == reflect.Array:
			elem := ft.Elem()
			for elem.Kind() == reflect.Pointer {
				elem = elem.Elem()
			}
			if elem == timeType {
				out = append(out, prefix+name+"[]")
			} else {
				out = append(out, dateFieldsOf(elem, prefix+name+"[].")...)
			}
		case ft.Kind() == reflect.Struct:
			out = append(out, dateFieldsOf(ft, prefix+name+".")...)
		}
	}
	return out
}
