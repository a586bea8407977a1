package restapi

import (
	"fmt"
	"net/url"
	"strconv"
)

// QueryItem is one name/value pair of a URL query. Neither side is escaped.
type QueryItem struct {
	Name  string
	Value string
}

// Query maps top-level keys to query values. Iteration order, and so the
// order of sibling items, is unspecified.
type Query map[string]QueryValue

// QueryValue is a string, a sequence of values, or a nested Query.
// The set of implementations is closed.
type QueryValue interface {
	queryValue()
}

type (
	stringValue string
	listValue   []QueryValue
	nestedValue Query
)

func (stringValue) queryValue() {}
func (listValue) queryValue()   {}
func (nestedValue) queryValue() {}

// String returns a scalar query value.
func String(s string) QueryValue {
	return stringValue(s)
}

// Strings returns a sequence of scalar values, encoded as repeated key[] items.
func Strings(ss ...string) QueryValue {
	l := make(listValue, len(ss))
	for i, s := range ss {
		l[i] = stringValue(s)
	}
	return l
}

// List returns a sequence of arbitrary query values.
func List(vs ...QueryValue) QueryValue {
	return listValue(vs)
}

// Nested returns a mapping value, encoded with bracketed sub-keys.
func Nested(q Query) QueryValue {
	return nestedValue(q)
}

// EncodeQuery flattens q into query items. With prefix p, a scalar under
// k becomes p[k], each element of a sequence under k becomes p[k][], and
// a mapping under k is encoded recursively with prefix p[k]. With an
// empty prefix the key itself is used.
func EncodeQuery(q Query, prefix string) []QueryItem {
	var items []QueryItem
	for k, v := range q {
		items = appendQueryValue(items, qualify(prefix, k), v)
	}
	return items
}

func appendQueryValue(items []QueryItem, name string, v QueryValue) []QueryItem {
	switch v := v.(type) {
	case stringValue:
		return append(items, QueryItem{Name: name, Value: string(v)})
	case listValue:
		for _, elem := range v {
			items = appendQueryValue(items, name+"[]", elem)
		}
		return items
	case nestedValue:
		for k, sub := range v {
			items = appendQueryValue(items, name+"["+k+"]", sub)
		}
		return items
	}
	return items
}

func qualify(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}

// QueryFromMap converts loosely typed input, such as decoded JSON or
// hand-written literals, into a Query.
//
// Supported leaves are string, bool, integer and float kinds, and
// fmt.Stringer. Sequences may be []string or []any; mappings may be
// map[string]any, map[string]string or Query.
func QueryFromMap(m map[string]any) (Query, error) {
	q := make(Query, len(m))
	for k, raw := range m {
		v, err := toQueryValue(raw)
		if err != nil {
			return nil, fmt.Errorf("query key %q: %w", k, err)
		}
		q[k] = v
	}
	return q, nil
}

func toQueryValue(raw any) (QueryValue, error) {
	switch v := raw.(type) {
	case QueryValue:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return String(strconv.FormatBool(v)), nil
	case int:
		return String(strconv.Itoa(v)), nil
	case int64:
		return String(strconv.FormatInt(v, 10)), nil
	case uint64:
		return String(strconv.FormatUint(v, 10)), nil
	case float64:
		return String(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case fmt.Stringer:
		return String(v.String()), nil
	case []string:
		return Strings(v...), nil
	case []any:
		l := make(listValue, 0, len(v))
		for i, elem := range v {
			qv, err := toQueryValue(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			l = append(l, qv)
		}
		return l, nil
	case map[string]string:
		q := make(Query, len(v))
		for k, s := range v {
			q[k] = String(s)
		}
		return Nested(q), nil
	case map[string]any:
		q, err := QueryFromMap(v)
		if err != nil {
			return nil, err
		}
		return Nested(q), nil
	case Query:
		return Nested(v), nil
	}
	return nil, fmt.Errorf("unsupported query value of type %T", raw)
}

// appendQuery appends items to u's existing query, escaping each name and
// value and preserving item order and duplicates.
func appendQuery(u *url.URL, items []QueryItem) {
	if len(items) == 0 {
		return
	}
	raw := u.RawQuery
	for _, it := range items {
		if raw != "" {
			raw += "&"
		}
		raw += url.QueryEscape(it.Name) + "=" + url.QueryEscape(it.Value)
	}
	u.RawQuery = raw
}
