package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindInteger
	KindString
	KindBool
	KindList
	// KindInvalid marks a submitted answer that could not be decoded. It is
	// only produced by Answers decoding and never validates.
	KindInvalid
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Value is an answer or option value: an integer, a string, a bool or a list
// of integers and strings. The zero Value is null.
type Value struct {
	kind ValueKind
	i    int64
	s    string
	b    bool
	list []Value
}

func Null() Value { return Value{} }
func Int(v int64) Value { return Value{kind: KindInteger, i: v} }
func String(v string) Value { return Value{kind: KindString, s: v} }
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }
func List(vs ...Value) Value { return Value{kind: KindList, list: append([]Value{}, vs...)} }
func (v Value) Kind() ValueKind { return v.kind }

func invalid(reason string) Value { return Value{kind: KindInvalid, s: reason} }
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v is an integer or a string, the only kinds an
// option value or a list element may take.
func (v Value) IsScalar() bool {
	return v.kind == KindInteger || v.kind == KindString
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInteger
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value{}, v.list...), true
}

// Equal is exact equality: kinds must match, an integer never equals a string.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInteger:
		return v.i == o.i
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// In reports whether v equals any member of set.
func (v Value) In(set []Value) bool {
	for _, m := range set {
		if v.Equal(m) {
			return true
		}
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return strconv.Quote(v.s)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindInvalid:
		return "<invalid>"
	default:
		return "null"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInteger:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindString:
		return json.Marshal(v.s)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := fromRaw(raw, true)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromRaw(raw any, allowList bool) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("number %s is not an integer", x.String())
		}
		return Int(n), nil
	case []any:
		if !allowList {
			return Value{}, fmt.Errorf("nested lists are not supported")
		}
		elems := make([]Value, 0, len(x))
		for _, e := range x {
			ev, err := fromRaw(e, false)
			if err != nil {
				return Value{}, err
			}
			if !ev.IsScalar() {
				return Value{}, fmt.Errorf("list elements must be integers or strings, got %s", ev.kind)
			}
			elems = append(elems, ev)
		}
		return Value{kind: KindList, list: elems}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value of type %T", raw)
	}
}

// Answers maps field keys to submitted values. A missing key and a null value
// both mean unanswered.
type Answers map[string]Value

// UnmarshalJSON decodes answers key by key. A value that is not a Value is
// kept as an invalid placeholder so validation can report it alongside every
// other failing field.
func (a *Answers) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*a = nil
		return nil
	}
	out := make(Answers, len(raw))
	for key, msg := range raw {
		var v Value
		if err := v.UnmarshalJSON(msg); err != nil {
			v = invalid(err.Error())
		}
		out[key] = v
	}
	*a = out
	return nil
}

// Get returns the non-null answer for key.
func (a Answers) Get(key string) (Value, bool) {
	v, ok := a[key]
	if !ok || v.IsNull() {
		return Value{}, false
	}
	return v, true
}

// Clone returns a shallow copy. Values are immutable so this is safe to mutate.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
