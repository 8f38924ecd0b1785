package owl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = "http://example.org/zoo#"

func TestIRIShortForm(t *testing.T) {
	tests := []struct {
		iri  IRI
		want string
	}{
		{"http://example.org/zoo#Dog", "Dog"},
		{"http://example.org/zoo/Dog", "Dog"},
		{"http://example.org/zoo#", "zoo#"},
		{"urn:dog", "urn:dog"},
		{"Dog", "Dog"},
	}

	for _, tt := range tests {
		t.Run(string(tt.iri), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.iri.ShortForm())
		})
	}

	assert.Equal(t, "http://example.org/zoo#", IRI("http://example.org/zoo#Dog").Namespace())
}

func TestAddAxiomSetSemantics(t *testing.T) {
	o := NewOntology(ns + "zoo")

	require.NoError(t, o.AddAxiom(Declaration{Entity: Class(ns + "Dog")}))
	require.NoError(t, o.AddAxiom(Declaration{Entity: Class(ns + "Dog")}))

	assert.Equal(t, 1, o.AxiomCount())
	assert.True(t, o.ContainsAxiom(Declaration{Entity: Class(ns + "Dog")}))
}

func TestAddAxiomRejectsMalformed(t *testing.T) {
	o := NewOntology("")

	tests := []struct {
		name  string
		axiom Axiom
	}{
		{"nil axiom", nil},
		{"declaration without IRI", Declaration{Entity: Class("")}},
		{"subclass without super", SubClassOf{Sub: NamedClass{IRI: ns + "Dog"}}},
		{"unknown characteristic", ObjectPropertyCharacteristic{Kind: "Cyclic", Property: ns + "p"}},
		{"single operand union", ObjectPropertyRange{Property: ns + "p", Range: ObjectUnionOf{Operands: []ClassExpression{NamedClass{IRI: ns + "A"}}}}},
		{"annotation without value", AnnotationAssertion{Subject: ns + "Dog", Property: RDFSLabel}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := o.AddAxiom(tt.axiom)
			assert.ErrorIs(t, err, ErrMalformedAxiom)
		})
	}
	assert.Zero(t, o.AxiomCount())
}

func TestSignatureEnumeration(t *testing.T) {
	o := NewOntology("")
	require.NoError(t, o.AddAxioms(
		SubClassOf{Sub: NamedClass{IRI: ns + "Dog"}, Super: NamedClass{IRI: ns + "Animal"}},
		ObjectPropertyDomain{Property: ns + "hasOwner", Domain: NamedClass{IRI: ns + "Dog"}},
		ClassAssertion{Class: NamedClass{IRI: ns + "Dog"}, Individual: ns + "Rex"},
		ObjectPropertyAssertion{Property: ns + "hasOwner", Subject: ns + "Rex", Object: ns + "Alice"},
		DataPropertyAssertion{Property: ns + "age", Subject: ns + "Rex", Value: PlainLiteral("3")},
	))

	assert.Equal(t, []IRI{ns + "Dog", ns + "Animal"}, o.Classes())
	assert.Equal(t, []IRI{ns + "hasOwner"}, o.ObjectProperties())
	assert.Equal(t, []IRI{ns + "age"}, o.DataProperties())
	assert.Equal(t, []IRI{ns + "Rex", ns + "Alice"}, o.Individuals())

	assert.True(t, o.ContainsInSignature(Class(ns+"Animal")))
	assert.False(t, o.ContainsInSignature(ObjectProperty(ns+"Animal")))
}

func TestAxiomQueriesBySubject(t *testing.T) {
	o := NewOntology("")
	union := ObjectUnionOf{Operands: []ClassExpression{
		NamedClass{IRI: ns + "Person"},
		NamedClass{IRI: ns + "Company"},
	}}
	require.NoError(t, o.AddAxioms(
		ObjectPropertyRange{Property: ns + "hasOwner", Range: union},
		ObjectPropertyCharacteristic{Kind: AxiomFunctionalObjectProperty, Property: ns + "hasOwner"},
		AnnotationAssertion{Subject: ns + "hasOwner", Property: RDFSLabel, Value: PlainLiteral("has owner")},
		AnnotationAssertion{Subject: ns + "hasOwner", Property: RDFSComment, Value: PlainLiteral("ownership")},
	))

	ranges := o.ObjectPropertyRangeAxioms(ns + "hasOwner")
	require.Len(t, ranges, 1)
	assert.True(t, ranges[0].Range.IsAnonymous())
	assert.Equal(t, []IRI{ns + "Person", ns + "Company"}, ranges[0].Range.NamedClasses())

	assert.Len(t, o.CharacteristicAxioms(ns+"hasOwner", AxiomFunctionalObjectProperty), 1)
	assert.Empty(t, o.CharacteristicAxioms(ns+"hasOwner", AxiomTransitiveObjectProperty))

	labels := o.AnnotationAssertions(ns+"hasOwner", RDFSLabel)
	require.Len(t, labels, 1)
	assert.Equal(t, PlainLiteral("has owner"), labels[0].Value)

	assert.Empty(t, o.ObjectPropertyDomainAxioms(ns+"hasOwner"))
}

func TestNamedClassesFlattening(t *testing.T) {
	expr := ObjectIntersectionOf{Operands: []ClassExpression{
		NamedClass{IRI: ns + "Dog"},
		ObjectComplementOf{Operand: NamedClass{IRI: ns + "Cat"}},
		ObjectSomeValuesFrom{Property: ns + "hasOwner", Filler: NamedClass{IRI: ns + "Dog"}},
	}}

	assert.Equal(t, []IRI{ns + "Dog", ns + "Cat"}, expr.NamedClasses())
	assert.True(t, expr.IsAnonymous())
}

func TestPrefixFormat(t *testing.T) {
	f := NewPrefixFormat("yaml")
	f.SetDefaultPrefix(ns)
	f.SetPrefix("owl", NamespaceOWL)

	var df DocumentFormat = f
	pm, ok := df.(PrefixManager)
	require.True(t, ok)
	assert.Equal(t, ns, pm.DefaultPrefix())
	assert.Equal(t, []string{"", "owl"}, pm.PrefixNames())

	_, ok = DocumentFormat(PlainFormat("nquads")).(PrefixManager)
	assert.False(t, ok)
}
