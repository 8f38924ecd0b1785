package owl

import "fmt"

// EntityKind identifies the type of a named entity
type EntityKind int

const (
	KindClass EntityKind = iota
	KindObjectProperty
	KindDataProperty
	KindNamedIndividual
	KindDatatype
	KindAnnotationProperty
)

// String returns the functional-syntax keyword for the kind
func (k EntityKind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindObjectProperty:
		return "ObjectProperty"
	case KindDataProperty:
		return "DataProperty"
	case KindNamedIndividual:
		return "NamedIndividual"
	case KindDatatype:
		return "Datatype"
	case KindAnnotationProperty:
		return "AnnotationProperty"
	default:
		return "Unknown"
	}
}

// ParseEntityKind is the inverse of EntityKind.String
func ParseEntityKind(s string) (EntityKind, error) {
	for k := KindClass; k <= KindAnnotationProperty; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Entity is a named entity of a given kind
type Entity struct {
	Kind EntityKind
	IRI  IRI
}

// String renders the entity in functional syntax
func (e Entity) String() string {
	return fmt.Sprintf("%s(<%s>)", e.Kind, e.IRI)
}

// Class returns a class entity
func Class(iri IRI) Entity { return Entity{Kind: KindClass, IRI: iri} }

// ObjectProperty returns an object property entity
func ObjectProperty(iri IRI) Entity { return Entity{Kind: KindObjectProperty, IRI: iri} }

// DataProperty returns a data property entity
func DataProperty(iri IRI) Entity { return Entity{Kind: KindDataProperty, IRI: iri} }

// NamedIndividual returns an individual entity
func NamedIndividual(iri IRI) Entity { return Entity{Kind: KindNamedIndividual, IRI: iri} }

// Datatype returns a datatype entity
func Datatype(iri IRI) Entity { return Entity{Kind: KindDatatype, IRI: iri} }

// AnnotationProperty returns an annotation property entity
func AnnotationProperty(iri IRI) Entity { return Entity{Kind: KindAnnotationProperty, IRI: iri} }
