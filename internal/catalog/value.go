package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a schema-driven tagged union holding one parameter value. Exactly
// one variant is meaningful, selected by Kind. Selection and EntityRef values
// are carried in the Text variant (an option name or an entity identifier).
type Value struct {
	Kind ParamKind
	Text string
	Int  int
	Dec  float64
	Bool bool
}

// Constructors, one per kind.

func TextValue(s string) Value      { return Value{Kind: KindText, Text: s} }
func IntValue(n int) Value          { return Value{Kind: KindInteger, Int: n} }
func DecValue(f float64) Value      { return Value{Kind: KindDecimal, Dec: f} }
func BoolValue(b bool) Value        { return Value{Kind: KindBoolean, Bool: b} }
func SelectionValue(s string) Value { return Value{Kind: KindSelection, Text: s} }
func RefValue(id string) Value      { return Value{Kind: KindEntityRef, Text: id} }

// IsEmpty reports whether the value counts as "not filled in" for required
// parameter checks. Numeric and boolean values are never empty: zero and
// false are legitimate designer choices.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindText, KindSelection, KindEntityRef:
		return v.Text == ""
	case "":
		return true
	default:
		return false
	}
}

// String renders the value for diagnostics and message interpolation.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.Itoa(v.Int)
	case KindDecimal:
		return strconv.FormatFloat(v.Dec, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Text
	}
}

// valueJSON is the persisted shape. The variant field matching Kind is the
// only one written.
type valueJSON struct {
	Kind ParamKind `json:"kind"`
	Text *string   `json:"text,omitempty"`
	Int  *int      `json:"int,omitempty"`
	Dec  *float64  `json:"dec,omitempty"`
	Bool *bool     `json:"bool,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.Kind}
	switch v.Kind {
	case KindText, KindSelection, KindEntityRef:
		out.Text = &v.Text
	case KindInteger:
		out.Int = &v.Int
	case KindDecimal:
		out.Dec = &v.Dec
	case KindBoolean:
		out.Bool = &v.Bool
	default:
		return nil, fmt.Errorf("marshal value: unknown kind %q", v.Kind)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*v = Value{Kind: in.Kind}
	switch in.Kind {
	case KindText, KindSelection, KindEntityRef:
		if in.Text != nil {
			v.Text = *in.Text
		}
	case KindInteger:
		if in.Int != nil {
			v.Int = *in.Int
		}
	case KindDecimal:
		if in.Dec != nil {
			v.Dec = *in.Dec
		}
	case KindBoolean:
		if in.Bool != nil {
			v.Bool = *in.Bool
		}
	default:
		return fmt.Errorf("unmarshal value: unknown kind %q", in.Kind)
	}
	return nil
}
