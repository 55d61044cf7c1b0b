package assessment

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a recorded response. It is one of Text, Number, Bool or List.
type Value interface {
	isValue()
	String() string
}

// Text is a typed answer, a selected option, or a drawing description.
type Text string

// Number is a numeric answer.
type Number float64

// Bool marks a rated item as achieved or not.
type Bool bool

// List holds the selected options of a multi-choice question.
type List []string

func (Text) isValue()   {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (List) isValue()   {}

func (t Text) String() string { return string(t) }

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }

func (b Bool) String() string {
	if b {
		return "yes"
	}
	return "no"
}

func (l List) String() string { return strings.Join(l, "; ") }

// IsEmpty reports whether v counts as "no response". Rated marks and numbers
// are always a response; text and lists must carry content.
func IsEmpty(v Value) bool {
	switch v := v.(type) {
	case nil:
		return true
	case Text:
		return strings.TrimSpace(string(v)) == ""
	case List:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Truthy follows the loose truthiness rated items are scored with.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	case Text:
		s := strings.ToLower(strings.TrimSpace(string(v)))
		return s != "" && s != "0" && s != "false" && s != "no"
	case List:
		return !IsEmpty(v)
	}
	return false
}

// ValueFrom converts a decoded YAML or JSON scalar into a Value.
func ValueFrom(raw any) (Value, error) {
	switch r := raw.(type) {
	case nil:
		return nil, nil
	case Value:
		return r, nil
	case string:
		return Text(r), nil
	case bool:
		return Bool(r), nil
	case int:
		return Number(r), nil
	case int64:
		return Number(r), nil
	case uint64:
		return Number(r), nil
	case float64:
		return Number(r), nil
	case []string:
		return List(r), nil
	case []any:
		out := make(List, 0, len(r))
		for _, item := range r {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list item %v: expected string, got %T", item, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported response value %T", raw)
}

// Plain converts a Value back into a plain Go value for YAML or JSON output.
func Plain(v Value) any {
	switch v := v.(type) {
	case Text:
		return string(v)
	case Number:
		return float64(v)
	case Bool:
		return bool(v)
	case List:
		return []string(v)
	}
	return nil
}
