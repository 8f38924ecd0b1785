package codec

import (
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"

	"ontoserver/internal/owl"
)

var (
	rdfType  = quad.IRI(rdf.NS + "type")
	rdfFirst = quad.IRI(rdf.NS + "first")
	rdfRest  = quad.IRI(rdf.NS + "rest")
	rdfNil   = quad.IRI(rdf.NS + "nil")

	rdfsClass      = quad.IRI(rdfs.NS + "Class")
	rdfsSubClassOf = quad.IRI(rdfs.NS + "subClassOf")
	rdfsDomain     = quad.IRI(rdfs.NS + "domain")
	rdfsRange      = quad.IRI(rdfs.NS + "range")
	rdfsDatatype   = quad.IRI(rdfs.NS + "Datatype")
	rdfsLiteral    = quad.IRI(rdfs.NS + "Literal")

	owlOntology           = quad.IRI(owl.NamespaceOWL + "Ontology")
	owlClass              = quad.IRI(owl.NamespaceOWL + "Class")
	owlObjectProperty     = quad.IRI(owl.NamespaceOWL + "ObjectProperty")
	owlDatatypeProperty   = quad.IRI(owl.NamespaceOWL + "DatatypeProperty")
	owlNamedIndividual    = quad.IRI(owl.NamespaceOWL + "NamedIndividual")
	owlAnnotationProperty = quad.IRI(owl.NamespaceOWL + "AnnotationProperty")
	owlRestriction        = quad.IRI(owl.NamespaceOWL + "Restriction")
	owlOnProperty         = quad.IRI(owl.NamespaceOWL + "onProperty")
	owlSomeValuesFrom     = quad.IRI(owl.NamespaceOWL + "someValuesFrom")
	owlAllValuesFrom      = quad.IRI(owl.NamespaceOWL + "allValuesFrom")
	owlIntersectionOf     = quad.IRI(owl.NamespaceOWL + "intersectionOf")
	owlUnionOf            = quad.IRI(owl.NamespaceOWL + "unionOf")
	owlComplementOf       = quad.IRI(owl.NamespaceOWL + "complementOf")
	owlOneOf              = quad.IRI(owl.NamespaceOWL + "oneOf")
)

// entityTypes maps rdf:type objects that declare an entity to its kind
var entityTypes = map[quad.IRI]owl.EntityKind{
	owlClass:              owl.KindClass,
	rdfsClass:             owl.KindClass,
	owlObjectProperty:     owl.KindObjectProperty,
	owlDatatypeProperty:   owl.KindDataProperty,
	owlNamedIndividual:    owl.KindNamedIndividual,
	owlAnnotationProperty: owl.KindAnnotationProperty,
	rdfsDatatype:          owl.KindDatatype,
}

// declarationTypes is the inverse of entityTypes used when writing
var declarationTypes = map[owl.EntityKind]quad.IRI{
	owl.KindClass:              owlClass,
	owl.KindObjectProperty:     owlObjectProperty,
	owl.KindDataProperty:       owlDatatypeProperty,
	owl.KindNamedIndividual:    owlNamedIndividual,
	owl.KindAnnotationProperty: owlAnnotationProperty,
	owl.KindDatatype:           rdfsDatatype,
}

// characteristicTypes maps characteristic axiom kinds to their rdf:type objects
var characteristicTypes = map[owl.AxiomType]quad.IRI{
	owl.AxiomFunctionalObjectProperty:        quad.IRI(owl.NamespaceOWL + "FunctionalProperty"),
	owl.AxiomInverseFunctionalObjectProperty: quad.IRI(owl.NamespaceOWL + "InverseFunctionalProperty"),
	owl.AxiomTransitiveObjectProperty:        quad.IRI(owl.NamespaceOWL + "TransitiveProperty"),
	owl.AxiomSymmetricObjectProperty:         quad.IRI(owl.NamespaceOWL + "SymmetricProperty"),
	owl.AxiomAsymmetricObjectProperty:        quad.IRI(owl.NamespaceOWL + "AsymmetricProperty"),
	owl.AxiomReflexiveObjectProperty:         quad.IRI(owl.NamespaceOWL + "ReflexiveProperty"),
	owl.AxiomIrreflexiveObjectProperty:       quad.IRI(owl.NamespaceOWL + "IrreflexiveProperty"),
}

var characteristicAxioms = func() map[quad.IRI]owl.AxiomType {
	m := make(map[quad.IRI]owl.AxiomType, len(characteristicTypes))
	for k, v := range characteristicTypes {
		m[v] = k
	}
	return m
}()

// builtinAnnotationProperties are never declared when writing
var builtinAnnotationProperties = map[quad.IRI]struct{}{
	quad.IRI(owl.RDFSLabel):                   {},
	quad.IRI(owl.RDFSComment):                 {},
	quad.IRI(rdfs.NS + "seeAlso"):             {},
	quad.IRI(rdfs.NS + "isDefinedBy"):         {},
	quad.IRI(owl.NamespaceOWL + "deprecated"): {},
}

// ignoredPredicates carry axioms the flat model has no place for
var ignoredPredicates = map[quad.IRI]struct{}{
	quad.IRI(owl.NamespaceOWL + "imports"):                {},
	quad.IRI(owl.NamespaceOWL + "versionIRI"):             {},
	quad.IRI(owl.NamespaceOWL + "versionInfo"):            {},
	quad.IRI(owl.NamespaceOWL + "equivalentClass"):        {},
	quad.IRI(owl.NamespaceOWL + "disjointWith"):           {},
	quad.IRI(owl.NamespaceOWL + "inverseOf"):              {},
	quad.IRI(owl.NamespaceOWL + "equivalentProperty"):     {},
	quad.IRI(owl.NamespaceOWL + "propertyDisjointWith"):   {},
	quad.IRI(owl.NamespaceOWL + "sameAs"):                 {},
	quad.IRI(owl.NamespaceOWL + "differentFrom"):          {},
	quad.IRI(owl.NamespaceOWL + "propertyChainAxiom"):     {},
	quad.IRI(owl.NamespaceOWL + "hasKey"):                 {},
	quad.IRI(owl.NamespaceOWL + "disjointUnionOf"):        {},
	quad.IRI(rdfs.NS + "subPropertyOf"):                   {},
	quad.IRI(owl.NamespaceOWL + "priorVersion"):           {},
	quad.IRI(owl.NamespaceOWL + "backwardCompatibleWith"): {},
}

func isBuiltinDatatype(iri quad.IRI) bool {
	return iri == rdfsLiteral || strings.HasPrefix(string(iri), owl.NamespaceXSD)
}
