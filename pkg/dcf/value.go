package dcf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is an optional numeric input. The zero Value is unset, which models an
// empty form field; engines treat it as 0.
type Value struct {
	v   float64
	set bool
}

// Of returns a set Value holding x.
func Of(x float64) Value {
	return Value{v: x, set: true}
}

// Unset returns an unset Value.
func Unset() Value {
	return Value{}
}

// FromPtr converts a nil-able float into a Value.
func FromPtr(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Of(*p)
}

// IsSet reports whether the value was supplied.
func (v Value) IsSet() bool {
	return v.set
}

// Float returns the held number, or 0 when unset.
func (v Value) Float() float64 {
	if !v.set {
		return 0
	}
	return v.v
}

// Ptr returns a pointer to the held number, or nil when unset.
func (v Value) Ptr() *float64 {
	if !v.set {
		return nil
	}
	x := v.v
	return &x
}

// String renders the value, or an empty string when unset.
func (v Value) String() string {
	if !v.set {
		return ""
	}
	return strconv.FormatFloat(v.v, 'g', -1, 64)
}

// MarshalJSON encodes an unset value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON accepts a number, null, an empty string, or a numeric string.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s == "" {
			*v = Value{}
			return nil
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric value %q: %w", s, err)
		}
		*v = Of(x)
		return nil
	}

	var x float64
	if err := json.Unmarshal(trimmed, &x); err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", string(trimmed), err)
	}
	*v = Of(x)
	return nil
}
