package translate

import "ontoserver/internal/owl"

// Annotation returns the literal value of the first annotation assertion on
// entity that uses the given annotation property, or "" when there is none or
// when the first match is not a literal.
//
// "First" is the model's axiom insertion order, which for parsed documents is
// document order. When an entity carries several labels, which one wins is an
// implementation detail and callers must not depend on it.
func Annotation(model *owl.Ontology, entity, property owl.IRI) string {
	for _, ax := range model.AnnotationAssertions(entity, property) {
		if lit, ok := ax.Value.(owl.Literal); ok {
			return lit.Lexical
		}
		return ""
	}
	return ""
}

// Label returns the rdfs:label of an entity
func Label(model *owl.Ontology, entity owl.IRI) string {
	return Annotation(model, entity, owl.RDFSLabel)
}

// Comment returns the rdfs:comment of an entity
func Comment(model *owl.Ontology, entity owl.IRI) string {
	return Annotation(model, entity, owl.RDFSComment)
}
