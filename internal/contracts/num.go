package contracts

import (
	"bytes"
	"encoding/json"
	"math"
)

// Num is an optional number. Missing values are explicit: NaN and ±Inf are
// never stored, Some(NaN) yields a missing Num.
// ⭐ SSOT: 결측치 표현은 이 타입만 사용
type Num struct {
	V     float64
	Valid bool
}

// Some wraps v, mapping non-finite values to missing
func Some(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Num{}
	}
	return Num{V: v, Valid: true}
}

// None is the missing value
func None() Num {
	return Num{}
}

// FromPtr converts a nullable pointer (DB scans, JSON) into a Num
func FromPtr(p *float64) Num {
	if p == nil {
		return Num{}
	}
	return Some(*p)
}

// Get returns the value and whether it is present
func (n Num) Get() (float64, bool) {
	return n.V, n.Valid
}

// Or returns the value or def when missing
func (n Num) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.V
}

// Ptr returns nil when missing (DB writes)
func (n Num) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}

// MarshalJSON encodes a missing value as null
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.V)
}

// UnmarshalJSON accepts a number or null
func (n *Num) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = Num{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// UnmarshalYAML accepts a number or null (snapshot fixtures)
func (n *Num) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var p *float64
	if err := unmarshal(&p); err != nil {
		return err
	}
	*n = FromPtr(p)
	return nil
}
