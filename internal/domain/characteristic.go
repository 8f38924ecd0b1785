package domain

import (
	"encoding/json"
	"sort"
)

// Characteristic is an object property characteristic tag
type Characteristic string

const (
	FunctionalProperty        Characteristic = "FunctionalProperty"
	InverseFunctionalProperty Characteristic = "InverseFunctionalProperty"
	TransitiveProperty        Characteristic = "TransitiveProperty"
	SymmetricProperty         Characteristic = "SymmetricProperty"
	AsymmetricProperty        Characteristic = "AsymmetricProperty"
	ReflexiveProperty         Characteristic = "ReflexiveProperty"
	IrreflexiveProperty       Characteristic = "IrreflexiveProperty"
)

// Characteristics lists the supported tags in canonical order
var Characteristics = []Characteristic{
	FunctionalProperty,
	InverseFunctionalProperty,
	TransitiveProperty,
	SymmetricProperty,
	AsymmetricProperty,
	ReflexiveProperty,
	IrreflexiveProperty,
}

// IsKnown reports whether c is one of the supported tags
func (c Characteristic) IsKnown() bool {
	return c.rank() >= 0
}

func (c Characteristic) rank() int {
	for i, known := range Characteristics {
		if known == c {
			return i
		}
	}
	return -1
}

// CharacteristicSet is a set of characteristic tags. Tags are independent of
// each other: symmetric and asymmetric may both be present.
type CharacteristicSet map[Characteristic]struct{}

// NewCharacteristicSet builds a set from tags
func NewCharacteristicSet(tags ...Characteristic) CharacteristicSet {
	s := make(CharacteristicSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts a tag
func (s CharacteristicSet) Add(c Characteristic) {
	s[c] = struct{}{}
}

// Has reports whether the tag is present
func (s CharacteristicSet) Has(c Characteristic) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of tags
func (s CharacteristicSet) Len() int { return len(s) }

// List returns the tags with known tags first in canonical order, followed by
// unknown tags sorted by name
func (s CharacteristicSet) List() []Characteristic {
	out := make([]Characteristic, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].rank(), out[j].rank()
		switch {
		case ri >= 0 && rj >= 0:
			return ri < rj
		case ri >= 0:
			return true
		case rj >= 0:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// Clone returns an independent copy
func (s CharacteristicSet) Clone() CharacteristicSet {
	out := make(CharacteristicSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as an array
func (s CharacteristicSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// UnmarshalJSON decodes an array of tags. Unknown tags are kept so that the
// exporter can reject them.
func (s *CharacteristicSet) UnmarshalJSON(data []byte) error {
	var tags []Characteristic
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewCharacteristicSet(tags...)
	return nil
}
