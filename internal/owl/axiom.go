package owl

import (
	"errors"
	"fmt"
)

// AxiomType names an axiom kind using its functional-syntax keyword
type AxiomType string

const (
	AxiomDeclaration                     AxiomType = "Declaration"
	AxiomSubClassOf                      AxiomType = "SubClassOf"
	AxiomObjectPropertyDomain            AxiomType = "ObjectPropertyDomain"
	AxiomObjectPropertyRange             AxiomType = "ObjectPropertyRange"
	AxiomDataPropertyDomain              AxiomType = "DataPropertyDomain"
	AxiomDataPropertyRange               AxiomType = "DataPropertyRange"
	AxiomFunctionalObjectProperty        AxiomType = "FunctionalObjectProperty"
	AxiomInverseFunctionalObjectProperty AxiomType = "InverseFunctionalObjectProperty"
	AxiomTransitiveObjectProperty        AxiomType = "TransitiveObjectProperty"
	AxiomSymmetricObjectProperty         AxiomType = "SymmetricObjectProperty"
	AxiomAsymmetricObjectProperty        AxiomType = "AsymmetricObjectProperty"
	AxiomReflexiveObjectProperty         AxiomType = "ReflexiveObjectProperty"
	AxiomIrreflexiveObjectProperty       AxiomType = "IrreflexiveObjectProperty"
	AxiomAnnotationAssertion             AxiomType = "AnnotationAssertion"
	AxiomClassAssertion                  AxiomType = "ClassAssertion"
	AxiomObjectPropertyAssertion         AxiomType = "ObjectPropertyAssertion"
	AxiomDataPropertyAssertion           AxiomType = "DataPropertyAssertion"
)

// CharacteristicTypes lists the object property characteristic axiom kinds
var CharacteristicTypes = []AxiomType{
	AxiomFunctionalObjectProperty,
	AxiomInverseFunctionalObjectProperty,
	AxiomTransitiveObjectProperty,
	AxiomSymmetricObjectProperty,
	AxiomAsymmetricObjectProperty,
	AxiomReflexiveObjectProperty,
	AxiomIrreflexiveObjectProperty,
}

// IsCharacteristic reports whether t is one of CharacteristicTypes
func (t AxiomType) IsCharacteristic() bool {
	for _, c := range CharacteristicTypes {
		if c == t {
			return true
		}
	}
	return false
}

// ErrMalformedAxiom is returned when an axiom is missing a required part
var ErrMalformedAxiom = errors.New("malformed axiom")

// Axiom is a single statement of an ontology
type Axiom interface {
	AxiomType() AxiomType
	// Signature returns the entities the axiom mentions
	Signature() []Entity
	// String renders the axiom in functional syntax. Two axioms are equal
	// when their renderings are equal.
	String() string

	subject() IRI
	validate() error
}

// Declaration introduces an entity into the signature
type Declaration struct {
	Entity Entity
}

func (a Declaration) AxiomType() AxiomType { return AxiomDeclaration }
func (a Declaration) Signature() []Entity  { return []Entity{a.Entity} }
func (a Declaration) String() string       { return fmt.Sprintf("Declaration(%s)", a.Entity) }
func (a Declaration) subject() IRI         { return a.Entity.IRI }
func (a Declaration) validate() error      { return requireIRI(a.Entity.IRI, "entity") }

// SubClassOf states that every instance of Sub is an instance of Super
type SubClassOf struct {
	Sub   ClassExpression
	Super ClassExpression
}

func (a SubClassOf) AxiomType() AxiomType { return AxiomSubClassOf }
func (a SubClassOf) Signature() []Entity  { return signatureOf(a.Sub, a.Super) }
func (a SubClassOf) String() string {
	return fmt.Sprintf("SubClassOf(%s %s)", a.Sub, a.Super)
}
func (a SubClassOf) subject() IRI {
	if c, ok := a.Sub.(NamedClass); ok {
		return c.IRI
	}
	return ""
}
func (a SubClassOf) validate() error {
	if a.Sub == nil || !validExpression(a.Sub) {
		return fmt.Errorf("%w: SubClassOf subclass", ErrMalformedAxiom)
	}
	if a.Super == nil || !validExpression(a.Super) {
		return fmt.Errorf("%w: SubClassOf superclass", ErrMalformedAxiom)
	}
	return nil
}

// ObjectPropertyDomain restricts the subjects of an object property
type ObjectPropertyDomain struct {
	Property IRI
	Domain   ClassExpression
}

func (a ObjectPropertyDomain) AxiomType() AxiomType { return AxiomObjectPropertyDomain }
func (a ObjectPropertyDomain) Signature() []Entity {
	return append([]Entity{ObjectProperty(a.Property)}, signatureOf(a.Domain)...)
}
func (a ObjectPropertyDomain) String() string {
	return fmt.Sprintf("ObjectPropertyDomain(<%s> %s)", a.Property, a.Domain)
}
func (a ObjectPropertyDomain) subject() IRI { return a.Property }
func (a ObjectPropertyDomain) validate() error {
	return propertyExpression(a.Property, a.Domain, "ObjectPropertyDomain")
}

// ObjectPropertyRange restricts the objects of an object property
type ObjectPropertyRange struct {
	Property IRI
	Range    ClassExpression
}

func (a ObjectPropertyRange) AxiomType() AxiomType { return AxiomObjectPropertyRange }
func (a ObjectPropertyRange) Signature() []Entity {
	return append([]Entity{ObjectProperty(a.Property)}, signatureOf(a.Range)...)
}
func (a ObjectPropertyRange) String() string {
	return fmt.Sprintf("ObjectPropertyRange(<%s> %s)", a.Property, a.Range)
}
func (a ObjectPropertyRange) subject() IRI { return a.Property }
func (a ObjectPropertyRange) validate() error {
	return propertyExpression(a.Property, a.Range, "ObjectPropertyRange")
}

// DataPropertyDomain restricts the subjects of a data property
type DataPropertyDomain struct {
	Property IRI
	Domain   ClassExpression
}

func (a DataPropertyDomain) AxiomType() AxiomType { return AxiomDataPropertyDomain }
func (a DataPropertyDomain) Signature() []Entity {
	return append([]Entity{DataProperty(a.Property)}, signatureOf(a.Domain)...)
}
func (a DataPropertyDomain) String() string {
	return fmt.Sprintf("DataPropertyDomain(<%s> %s)", a.Property, a.Domain)
}
func (a DataPropertyDomain) subject() IRI { return a.Property }
func (a DataPropertyDomain) validate() error {
	return propertyExpression(a.Property, a.Domain, "DataPropertyDomain")
}

// DataPropertyRange restricts the values of a data property
type DataPropertyRange struct {
	Property IRI
	Range    DataRange
}

func (a DataPropertyRange) AxiomType() AxiomType { return AxiomDataPropertyRange }
func (a DataPropertyRange) Signature() []Entity {
	sig := []Entity{DataProperty(a.Property)}
	if d, ok := a.Range.(NamedDatatype); ok {
		sig = append(sig, Datatype(d.IRI))
	}
	return sig
}
func (a DataPropertyRange) String() string {
	return fmt.Sprintf("DataPropertyRange(<%s> %s)", a.Property, a.Range)
}
func (a DataPropertyRange) subject() IRI { return a.Property }
func (a DataPropertyRange) validate() error {
	if err := requireIRI(a.Property, "DataPropertyRange property"); err != nil {
		return err
	}
	switch r := a.Range.(type) {
	case NamedDatatype:
		return requireIRI(r.IRI, "DataPropertyRange datatype")
	case DataOneOf:
		if len(r.Values) == 0 {
			return fmt.Errorf("%w: empty DataOneOf", ErrMalformedAxiom)
		}
		return nil
	default:
		return fmt.Errorf("%w: DataPropertyRange range", ErrMalformedAxiom)
	}
}

// ObjectPropertyCharacteristic asserts one of the characteristic kinds
// (functional, transitive, ...) for an object property
type ObjectPropertyCharacteristic struct {
	Kind     AxiomType
	Property IRI
}

func (a ObjectPropertyCharacteristic) AxiomType() AxiomType { return a.Kind }
func (a ObjectPropertyCharacteristic) Signature() []Entity {
	return []Entity{ObjectProperty(a.Property)}
}
func (a ObjectPropertyCharacteristic) String() string {
	return fmt.Sprintf("%s(<%s>)", a.Kind, a.Property)
}
func (a ObjectPropertyCharacteristic) subject() IRI { return a.Property }
func (a ObjectPropertyCharacteristic) validate() error {
	if !a.Kind.IsCharacteristic() {
		return fmt.Errorf("%w: %q is not a property characteristic", ErrMalformedAxiom, a.Kind)
	}
	return requireIRI(a.Property, string(a.Kind)+" property")
}

// AnnotationAssertion attaches an annotation value to an IRI
type AnnotationAssertion struct {
	Subject  IRI
	Property IRI
	Value    AnnotationValue
}

func (a AnnotationAssertion) AxiomType() AxiomType { return AxiomAnnotationAssertion }
func (a AnnotationAssertion) Signature() []Entity {
	return []Entity{AnnotationProperty(a.Property)}
}
func (a AnnotationAssertion) String() string {
	value := ""
	switch v := a.Value.(type) {
	case Literal:
		value = v.String()
	case IRI:
		value = "<" + string(v) + ">"
	}
	return fmt.Sprintf("AnnotationAssertion(<%s> <%s> %s)", a.Property, a.Subject, value)
}
func (a AnnotationAssertion) subject() IRI { return a.Subject }
func (a AnnotationAssertion) validate() error {
	if err := requireIRI(a.Subject, "AnnotationAssertion subject"); err != nil {
		return err
	}
	if err := requireIRI(a.Property, "AnnotationAssertion property"); err != nil {
		return err
	}
	if a.Value == nil {
		return fmt.Errorf("%w: AnnotationAssertion value", ErrMalformedAxiom)
	}
	return nil
}

// ClassAssertion states that an individual is an instance of a class
type ClassAssertion struct {
	Class      ClassExpression
	Individual IRI
}

func (a ClassAssertion) AxiomType() AxiomType { return AxiomClassAssertion }
func (a ClassAssertion) Signature() []Entity {
	return append(signatureOf(a.Class), NamedIndividual(a.Individual))
}
func (a ClassAssertion) String() string {
	return fmt.Sprintf("ClassAssertion(%s <%s>)", a.Class, a.Individual)
}
func (a ClassAssertion) subject() IRI { return a.Individual }
func (a ClassAssertion) validate() error {
	if a.Class == nil || !validExpression(a.Class) {
		return fmt.Errorf("%w: ClassAssertion class", ErrMalformedAxiom)
	}
	return requireIRI(a.Individual, "ClassAssertion individual")
}

// ObjectPropertyAssertion relates two individuals through an object property
type ObjectPropertyAssertion struct {
	Property IRI
	Subject  IRI
	Object   IRI
}

func (a ObjectPropertyAssertion) AxiomType() AxiomType { return AxiomObjectPropertyAssertion }
func (a ObjectPropertyAssertion) Signature() []Entity {
	return []Entity{ObjectProperty(a.Property), NamedIndividual(a.Subject), NamedIndividual(a.Object)}
}
func (a ObjectPropertyAssertion) String() string {
	return fmt.Sprintf("ObjectPropertyAssertion(<%s> <%s> <%s>)", a.Property, a.Subject, a.Object)
}
func (a ObjectPropertyAssertion) subject() IRI { return a.Subject }
func (a ObjectPropertyAssertion) validate() error {
	if err := requireIRI(a.Property, "ObjectPropertyAssertion property"); err != nil {
		return err
	}
	if err := requireIRI(a.Subject, "ObjectPropertyAssertion subject"); err != nil {
		return err
	}
	return requireIRI(a.Object, "ObjectPropertyAssertion object")
}

// DataPropertyAssertion gives an individual a literal value for a data property
type DataPropertyAssertion struct {
	Property IRI
	Subject  IRI
	Value    Literal
}

func (a DataPropertyAssertion) AxiomType() AxiomType { return AxiomDataPropertyAssertion }
func (a DataPropertyAssertion) Signature() []Entity {
	return []Entity{DataProperty(a.Property), NamedIndividual(a.Subject)}
}
func (a DataPropertyAssertion) String() string {
	return fmt.Sprintf("DataPropertyAssertion(<%s> <%s> %s)", a.Property, a.Subject, a.Value)
}
func (a DataPropertyAssertion) subject() IRI { return a.Subject }
func (a DataPropertyAssertion) validate() error {
	if err := requireIRI(a.Property, "DataPropertyAssertion property"); err != nil {
		return err
	}
	return requireIRI(a.Subject, "DataPropertyAssertion subject")
}

func requireIRI(iri IRI, what string) error {
	if iri.IsEmpty() {
		return fmt.Errorf("%w: missing %s IRI", ErrMalformedAxiom, what)
	}
	return nil
}

func propertyExpression(property IRI, expr ClassExpression, what string) error {
	if err := requireIRI(property, what+" property"); err != nil {
		return err
	}
	if expr == nil || !validExpression(expr) {
		return fmt.Errorf("%w: %s class expression", ErrMalformedAxiom, what)
	}
	return nil
}
