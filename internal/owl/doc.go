// Package owl implements the axiom-based formal ontology model.
//
// An Ontology is an ordered set of axioms plus an optional identity IRI and the
// document format it was read from. Entities (classes, properties, individuals)
// have no independent existence: an entity belongs to the ontology's signature
// as soon as a declaration or any other axiom mentions it.
//
// # Axioms
//
// The supported axiom kinds are the subset of OWL 2 structural axioms
// that the flat entity model can express:
//
//   - Declaration
//   - SubClassOf
//   - ObjectPropertyDomain, ObjectPropertyRange
//   - DataPropertyDomain, DataPropertyRange
//   - the seven object property characteristics (Functional, InverseFunctional,
//     Transitive, Symmetric, Asymmetric, Reflexive, Irreflexive)
//   - AnnotationAssertion
//   - ClassAssertion, ObjectPropertyAssertion, DataPropertyAssertion
//
// Class expressions can be anonymous (intersections, unions, complements,
// restrictions). Callers that only care about named classes use
// ClassExpression.NamedClasses to flatten them.
//
// # Ordering
//
// Signature and axiom queries return fresh slices in first-seen order. The order
// is stable for a given sequence of AddAxiom calls but carries no meaning.
//
// An Ontology is not safe for concurrent use.
package owl
