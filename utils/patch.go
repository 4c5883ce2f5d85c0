package utils

import (
	"encoding/json"
	"time"
)

// NullableUint distinguishes an absent PATCH field from an explicit null.
// Absent: Set is false. Explicit null: Set is true, Value is nil.
type NullableUint struct {
	Set   bool
	Value *uint
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullableUint) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// NullableFloat distinguishes an absent PATCH field from an explicit null
type NullableFloat struct {
	Set   bool
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// NullableTime distinguishes an absent PATCH field from an explicit null
type NullableTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v time.Time
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
