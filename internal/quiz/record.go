package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueList
)

// Value is one loosely-typed field of a raw record as delivered by a
// generation service: a string, number, bool, list or nothing at all.
type Value struct {
	kind ValueKind
	str  string // string text or number literal
	b    bool
	list []Value
}

// String, Number, Bool and List build Values of each variant.
func String(s string) Value { return Value{kind: ValueString, str: s} }

func Number(lit string) Value { return Value{kind: ValueNumber, str: lit} }

func Bool(b bool) Value { return Value{kind: ValueBool, b: b} }

func List(items ...Value) Value { return Value{kind: ValueList, list: items} }

// Strings builds a list Value of strings.
func Strings(items ...string) Value {
	vals := make([]Value, len(items))
	for i, s := range items {
		vals[i] = String(s)
	}
	return List(vals...)
}

// ValueOf converts a decoded JSON or YAML value into a Value. Nested
// objects carry no meaning for a question record and become null.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case string:
		return String(x)
	case json.Number:
		return Number(x.String())
	case float64:
		return Number(strconv.FormatFloat(x, 'f', -1, 64))
	case float32:
		return Number(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case int:
		return Number(strconv.Itoa(x))
	case int64:
		return Number(strconv.FormatInt(x, 10))
	case uint64:
		return Number(strconv.FormatUint(x, 10))
	case bool:
		return Bool(x)
	case []string:
		return Strings(x...)
	case []any:
		vals := make([]Value, len(x))
		for i, e := range x {
			vals[i] = ValueOf(e)
		}
		return List(vals...)
	case Value:
		return x
	}
	return Value{}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == ValueNull }

// Text renders scalar values as text. Lists and null render as "".
func (v Value) Text() string {
	switch v.kind {
	case ValueString, ValueNumber:
		return v.str
	case ValueBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Items returns the elements of a list. A string is split into one element
// per non-blank line, which covers services that send choices as a block.
func (v Value) Items() []Value {
	switch v.kind {
	case ValueList:
		return v.list
	case ValueString:
		var out []Value
		for _, line := range strings.Split(v.str, "\n") {
			if strings.TrimSpace(line) != "" {
				out = append(out, String(line))
			}
		}
		return out
	}
	return nil
}

// Record is a raw question record: field name to loosely-typed value.
// Canonicalize is the only way to turn a Record into an Item.
type Record map[string]Value

// RecordOf converts a decoded JSON or YAML object into a Record.
func RecordOf(m map[string]any) Record {
	rec := make(Record, len(m))
	for k, v := range m {
		rec[k] = ValueOf(v)
	}
	return rec
}

// Get returns the first non-null value among the given field names.
func (r Record) Get(names ...string) Value {
	for _, n := range names {
		if v, ok := r[n]; ok && !v.IsNull() {
			return v
		}
	}
	return Value{}
}

// UnmarshalJSON decodes a JSON object, keeping numbers as literals.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*r = RecordOf(m)
	return nil
}

// DecodeRecords parses a generation payload: either a JSON array of
// records or an object holding them under "questions" (or "items").
// Array elements that are not objects are skipped.
func DecodeRecords(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(stripFence(data))
	if len(data) == 0 {
		return nil, nil
	}

	var list []json.RawMessage
	if data[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		raw, ok := envelope["questions"]
		if !ok {
			raw, ok = envelope["items"]
		}
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, nil
		}
		data = raw
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]Record, 0, len(list))
	for _, raw := range list {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// stripFence removes a Markdown code fence around a JSON payload.
func stripFence(data []byte) []byte {
	s := bytes.TrimSpace(data)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	s = bytes.TrimPrefix(s, []byte("```"))
	s = bytes.TrimPrefix(s, []byte("json"))
	s = bytes.TrimSuffix(bytes.TrimSpace(s), []byte("```"))
	return bytes.TrimSpace(s)
}
