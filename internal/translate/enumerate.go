package translate

import (
	"ontoserver/internal/domain"
	"ontoserver/internal/owl"
)

// characteristicAxioms maps each flat characteristic tag to its axiom kind
var characteristicAxioms = map[domain.Characteristic]owl.AxiomType{
	domain.FunctionalProperty:        owl.AxiomFunctionalObjectProperty,
	domain.InverseFunctionalProperty: owl.AxiomInverseFunctionalObjectProperty,
	domain.TransitiveProperty:        owl.AxiomTransitiveObjectProperty,
	domain.SymmetricProperty:         owl.AxiomSymmetricObjectProperty,
	domain.AsymmetricProperty:        owl.AxiomAsymmetricObjectProperty,
	domain.ReflexiveProperty:         owl.AxiomReflexiveObjectProperty,
	domain.IrreflexiveProperty:       owl.AxiomIrreflexiveObjectProperty,
}

// ParentOf returns the short name of the first named superclass of class, or
// "" when every superclass is anonymous or there is none
func ParentOf(model *owl.Ontology, class owl.IRI) string {
	for _, ax := range model.SubClassAxioms(class) {
		if named, ok := ax.Super.(owl.NamedClass); ok {
			return named.IRI.ShortForm()
		}
	}
	return ""
}

// ObjectDomainOf flattens the domain axioms of an object property into named
// class short names
func ObjectDomainOf(model *owl.Ontology, property owl.IRI) []string {
	var exprs []owl.ClassExpression
	for _, ax := range model.ObjectPropertyDomainAxioms(property) {
		exprs = append(exprs, ax.Domain)
	}
	return flatten(exprs)
}

// ObjectRangeOf flattens the range axioms of an object property into named
// class short names
func ObjectRangeOf(model *owl.Ontology, property owl.IRI) []string {
	var exprs []owl.ClassExpression
	for _, ax := range model.ObjectPropertyRangeAxioms(property) {
		exprs = append(exprs, ax.Range)
	}
	return flatten(exprs)
}

// DataDomainOf flattens the domain axioms of a data property into named class
// short names
func DataDomainOf(model *owl.Ontology, property owl.IRI) []string {
	var exprs []owl.ClassExpression
	for _, ax := range model.DataPropertyDomainAxioms(property) {
		exprs = append(exprs, ax.Domain)
	}
	return flatten(exprs)
}

// DataRangeOf returns the short name of the first named datatype among the
// range axioms of a data property
func DataRangeOf(model *owl.Ontology, property owl.IRI) string {
	for _, ax := range model.DataPropertyRangeAxioms(property) {
		if dt, ok := ax.Range.(owl.NamedDatatype); ok {
			return dt.IRI.ShortForm()
		}
	}
	return ""
}

// CharacteristicsOf tests each characteristic axiom kind independently. The
// result is passed through as asserted, contradictory combinations included.
func CharacteristicsOf(model *owl.Ontology, property owl.IRI) domain.CharacteristicSet {
	set := domain.NewCharacteristicSet()
	for _, c := range domain.Characteristics {
		if len(model.CharacteristicAxioms(property, characteristicAxioms[c])) > 0 {
			set.Add(c)
		}
	}
	return set
}

// AssertedClass returns the short name of the first named class the
// individual is asserted to belong to
func AssertedClass(model *owl.Ontology, individual owl.IRI) string {
	for _, ax := range model.ClassAssertionAxioms(individual) {
		if named, ok := ax.Class.(owl.NamedClass); ok {
			return named.IRI.ShortForm()
		}
	}
	return ""
}

// ObjectRelations groups the object property assertions of an individual by
// property short name, keeping assertion order and duplicates
func ObjectRelations(model *owl.Ontology, individual owl.IRI) map[string][]string {
	var out map[string][]string
	for _, ax := range model.ObjectPropertyAssertionAxioms(individual) {
		if out == nil {
			out = make(map[string][]string)
		}
		name := ax.Property.ShortForm()
		out[name] = append(out[name], ax.Object.ShortForm())
	}
	return out
}

// DataRelations groups the data property assertions of an individual by
// property short name, keeping assertion order and duplicates
func DataRelations(model *owl.Ontology, individual owl.IRI) map[string][]string {
	var out map[string][]string
	for _, ax := range model.DataPropertyAssertionAxioms(individual) {
		if out == nil {
			out = make(map[string][]string)
		}
		name := ax.Property.ShortForm()
		out[name] = append(out[name], ax.Value.Lexical)
	}
	return out
}

// flatten collects the named classes of expressions without repeating a short
// name
func flatten(exprs []owl.ClassExpression) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, e := range exprs {
		for _, iri := range e.NamedClasses() {
			name := iri.ShortForm()
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
