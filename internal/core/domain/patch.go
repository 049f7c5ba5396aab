package domain

import "encoding/json"

// Patch distinguishes "field absent from the request" from "field explicitly
// set", including explicitly set to null or to an empty list. encoding/json
// only invokes UnmarshalJSON for keys present in the payload, so a zero Patch
// means the caller never mentioned the field.
type Patch[T any] struct {
	value T
	set   bool
}

func Set[T any](v T) Patch[T] {
	return Patch[T]{value: v, set: true}
}

func (p Patch[T]) IsSet() bool {
	return p.set
}

// Get returns the patched value and whether it was set at all.
func (p Patch[T]) Get() (T, bool) {
	return p.value, p.set
}

func (p Patch[T]) MustGet() T {
	return p.value
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.set = true

	if string(data) == "null" {
		var zero T
		p.value = zero
		return nil
	}

	return json.Unmarshal(data, &p.value)
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte("null"), nil
	}

	return json.Marshal(p.value)
}
