package owl

import (
	"fmt"
)

// Ontology is an ordered set of axioms with an optional identity IRI
type Ontology struct {
	id     IRI
	format DocumentFormat

	axioms []Axiom
	seen   map[string]struct{}

	signature []Entity
	inSig     map[Entity]struct{}

	// axiom positions keyed by the IRI the axiom is about
	bySubject map[IRI][]int
}

// NewOntology creates an empty ontology. id may be empty for an anonymous
// ontology.
func NewOntology(id IRI) *Ontology {
	return &Ontology{
		id:        id,
		seen:      make(map[string]struct{}),
		inSig:     make(map[Entity]struct{}),
		bySubject: make(map[IRI][]int),
	}
}

// ID returns the ontology IRI, or "" for an anonymous ontology
func (o *Ontology) ID() IRI { return o.id }

// SetID changes the ontology IRI
func (o *Ontology) SetID(id IRI) { o.id = id }

// Format returns the document format, nil if the ontology was built in memory
func (o *Ontology) Format() DocumentFormat { return o.format }

// SetFormat records the document format
func (o *Ontology) SetFormat(f DocumentFormat) { o.format = f }

// AddAxiom appends an axiom. Adding an axiom equal to one already present is
// a no-op.
func (o *Ontology) AddAxiom(ax Axiom) error {
	if ax == nil {
		return fmt.Errorf("%w: nil axiom", ErrMalformedAxiom)
	}
	if err := ax.validate(); err != nil {
		return err
	}

	key := ax.String()
	if _, ok := o.seen[key]; ok {
		return nil
	}
	o.seen[key] = struct{}{}

	idx := len(o.axioms)
	o.axioms = append(o.axioms, ax)
	if s := ax.subject(); s != "" {
		o.bySubject[s] = append(o.bySubject[s], idx)
	}
	for _, e := range ax.Signature() {
		if _, ok := o.inSig[e]; ok {
			continue
		}
		o.inSig[e] = struct{}{}
		o.signature = append(o.signature, e)
	}
	return nil
}

// AddAxioms adds axioms in order, stopping at the first malformed one
func (o *Ontology) AddAxioms(axioms ...Axiom) error {
	for _, ax := range axioms {
		if err := o.AddAxiom(ax); err != nil {
			return err
		}
	}
	return nil
}

// ContainsAxiom reports whether an equal axiom is present
func (o *Ontology) ContainsAxiom(ax Axiom) bool {
	if ax == nil {
		return false
	}
	_, ok := o.seen[ax.String()]
	return ok
}

// Axioms returns all axioms in insertion order
func (o *Ontology) Axioms() []Axiom {
	out := make([]Axiom, len(o.axioms))
	copy(out, o.axioms)
	return out
}

// AxiomCount returns the number of axioms
func (o *Ontology) AxiomCount() int { return len(o.axioms) }

// AxiomsOfType returns every axiom of the given type in insertion order
func (o *Ontology) AxiomsOfType(t AxiomType) []Axiom {
	var out []Axiom
	for _, ax := range o.axioms {
		if ax.AxiomType() == t {
			out = append(out, ax)
		}
	}
	return out
}

// Signature returns every entity mentioned by the ontology
func (o *Ontology) Signature() []Entity {
	out := make([]Entity, len(o.signature))
	copy(out, o.signature)
	return out
}

// ContainsInSignature reports whether the entity is mentioned by any axiom
func (o *Ontology) ContainsInSignature(e Entity) bool {
	_, ok := o.inSig[e]
	return ok
}

// Classes returns the classes in the signature
func (o *Ontology) Classes() []IRI { return o.entitiesOfKind(KindClass) }

// ObjectProperties returns the object properties in the signature
func (o *Ontology) ObjectProperties() []IRI { return o.entitiesOfKind(KindObjectProperty) }

// DataProperties returns the data properties in the signature
func (o *Ontology) DataProperties() []IRI { return o.entitiesOfKind(KindDataProperty) }

// Individuals returns the named individuals in the signature
func (o *Ontology) Individuals() []IRI { return o.entitiesOfKind(KindNamedIndividual) }

func (o *Ontology) entitiesOfKind(kind EntityKind) []IRI {
	var out []IRI
	for _, e := range o.signature {
		if e.Kind == kind {
			out = append(out, e.IRI)
		}
	}
	return out
}

// SubClassAxioms returns the SubClassOf axioms whose subclass is the named class
func (o *Ontology) SubClassAxioms(class IRI) []SubClassOf {
	return about[SubClassOf](o, class, AxiomSubClassOf)
}

// ObjectPropertyDomainAxioms returns the domain axioms of an object property
func (o *Ontology) ObjectPropertyDomainAxioms(property IRI) []ObjectPropertyDomain {
	return about[ObjectPropertyDomain](o, property, AxiomObjectPropertyDomain)
}

// ObjectPropertyRangeAxioms returns the range axioms of an object property
func (o *Ontology) ObjectPropertyRangeAxioms(property IRI) []ObjectPropertyRange {
	return about[ObjectPropertyRange](o, property, AxiomObjectPropertyRange)
}

// DataPropertyDomainAxioms returns the domain axioms of a data property
func (o *Ontology) DataPropertyDomainAxioms(property IRI) []DataPropertyDomain {
	return about[DataPropertyDomain](o, property, AxiomDataPropertyDomain)
}

// DataPropertyRangeAxioms returns the range axioms of a data property
func (o *Ontology) DataPropertyRangeAxioms(property IRI) []DataPropertyRange {
	return about[DataPropertyRange](o, property, AxiomDataPropertyRange)
}

// CharacteristicAxioms returns the characteristic axioms of the given kind
// asserted for an object property
func (o *Ontology) CharacteristicAxioms(property IRI, kind AxiomType) []ObjectPropertyCharacteristic {
	return about[ObjectPropertyCharacteristic](o, property, kind)
}

// AnnotationAssertions returns the annotation assertions on subject that use
// the given annotation property
func (o *Ontology) AnnotationAssertions(subject, property IRI) []AnnotationAssertion {
	var out []AnnotationAssertion
	for _, ax := range about[AnnotationAssertion](o, subject, AxiomAnnotationAssertion) {
		if ax.Property == property {
			out = append(out, ax)
		}
	}
	return out
}

// ClassAssertionAxioms returns the class assertions of an individual
func (o *Ontology) ClassAssertionAxioms(individual IRI) []ClassAssertion {
	return about[ClassAssertion](o, individual, AxiomClassAssertion)
}

// ObjectPropertyAssertionAxioms returns the object property assertions whose
// subject is the individual
func (o *Ontology) ObjectPropertyAssertionAxioms(individual IRI) []ObjectPropertyAssertion {
	return about[ObjectPropertyAssertion](o, individual, AxiomObjectPropertyAssertion)
}

// DataPropertyAssertionAxioms returns the data property assertions whose
// subject is the individual
func (o *Ontology) DataPropertyAssertionAxioms(individual IRI) []DataPropertyAssertion {
	return about[DataPropertyAssertion](o, individual, AxiomDataPropertyAssertion)
}

func about[T Axiom](o *Ontology, subject IRI, t AxiomType) []T {
	var out []T
	for _, idx := range o.bySubject[subject] {
		ax := o.axioms[idx]
		if ax.AxiomType() != t {
			continue
		}
		if typed, ok := ax.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
