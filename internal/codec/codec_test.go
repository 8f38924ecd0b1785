package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontoserver/internal/domain"
	"ontoserver/internal/owl"
)

const zoo = "http://example.org/zoo#"

func iri(name string) owl.IRI { return owl.IRI(zoo + name) }

func named(name string) owl.NamedClass { return owl.NamedClass{IRI: iri(name)} }

// zooOntology declares every entity it mentions so that the RDF writer adds
// no implicit declarations
func zooOntology(t *testing.T) *owl.Ontology {
	t.Helper()
	o := owl.NewOntology("http://example.org/zoo")
	format := owl.NewPrefixFormat("yaml")
	format.SetDefaultPrefix(zoo)
	format.SetPrefix("owl", owl.NamespaceOWL)
	o.SetFormat(format)

	require.NoError(t, o.AddAxioms(
		owl.Declaration{Entity: owl.Class(iri("Animal"))},
		owl.Declaration{Entity: owl.Class(iri("Dog"))},
		owl.Declaration{Entity: owl.Class(iri("Person"))},
		owl.SubClassOf{Sub: named("Dog"), Super: named("Animal")},
		owl.SubClassOf{Sub: named("Dog"), Super: owl.ObjectIntersectionOf{Operands: []owl.ClassExpression{
			named("Animal"),
			owl.ObjectSomeValuesFrom{Property: iri("hasOwner"), Filler: named("Person")},
		}}},
		owl.AnnotationAssertion{Subject: iri("Dog"), Property: owl.RDFSLabel, Value: owl.PlainLiteral("Dog")},
		owl.AnnotationAssertion{Subject: iri("Dog"), Property: owl.RDFSLabel, Value: owl.Literal{Lexical: "Hund", Lang: "de"}},
		owl.AnnotationAssertion{Subject: iri("Dog"), Property: owl.RDFSComment, Value: owl.PlainLiteral("A \"domestic\" canine")},

		owl.Declaration{Entity: owl.ObjectProperty(iri("hasOwner"))},
		owl.ObjectPropertyCharacteristic{Kind: owl.AxiomFunctionalObjectProperty, Property: iri("hasOwner")},
		owl.ObjectPropertyDomain{Property: iri("hasOwner"), Domain: named("Dog")},
		owl.ObjectPropertyRange{Property: iri("hasOwner"), Range: named("Person")},

		owl.Declaration{Entity: owl.DataProperty(iri("age"))},
		owl.DataPropertyDomain{Property: iri("age"), Domain: named("Animal")},
		owl.DataPropertyRange{Property: iri("age"), Range: owl.NamedDatatype{IRI: owl.NamespaceXSD + "int"}},
		owl.Declaration{Entity: owl.DataProperty(iri("size"))},
		owl.DataPropertyRange{Property: iri("size"), Range: owl.DataOneOf{Values: []owl.Literal{
			owl.PlainLiteral("small"), owl.PlainLiteral("large"),
		}}},

		owl.Declaration{Entity: owl.NamedIndividual(iri("Rex"))},
		owl.Declaration{Entity: owl.NamedIndividual(iri("Alice"))},
		owl.ClassAssertion{Class: named("Dog"), Individual: iri("Rex")},
		owl.ClassAssertion{Class: named("Person"), Individual: iri("Alice")},
		owl.ObjectPropertyAssertion{Property: iri("hasOwner"), Subject: iri("Rex"), Object: iri("Alice")},
		owl.DataPropertyAssertion{Property: iri("age"), Subject: iri("Rex"), Value: owl.PlainLiteral("3")},
	))
	return o
}

func assertSameAxioms(t *testing.T, want, got *owl.Ontology) {
	t.Helper()
	for _, ax := range want.Axioms() {
		assert.True(t, got.ContainsAxiom(ax), "missing %s", ax)
	}
	for _, ax := range got.Axioms() {
		assert.True(t, want.ContainsAxiom(ax), "unexpected %s", ax)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"json", "jsonld", "nquads", "turtle", "yaml"}, r.Formats())

	tests := []struct {
		path   string
		format string
	}{
		{"zoo.nq", "nquads"},
		{"zoo.nt", "nquads"},
		{"zoo.jsonld", "jsonld"},
		{"zoo.TTL", "turtle"},
		{"/etc/ontologies/zoo.yml", "yaml"},
		{"zoo.yaml", "yaml"},
		{"zoo.json", "json"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, err := r.ForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, c.Format())
		})
	}

	c, err := r.Lookup("YAML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	c, err = r.Lookup("ttl")
	require.NoError(t, err)
	assert.Equal(t, "turtle", c.Format(), "extensions work as aliases")

	_, err = r.Lookup("owlxml")
	assert.True(t, domain.IsValidation(err))

	_, err = r.ForPath("zoo.owl")
	assert.True(t, domain.IsValidation(err))
}

func TestNQuadsRoundTrip(t *testing.T) {
	want := zooOntology(t)
	c := NewNQuadsCodec()

	var buf bytes.Buffer
	require.NoError(t, c.Export(want, &buf))
	assert.Contains(t, buf.String(), "<http://example.org/zoo> <"+owl.NamespaceRDF+"type> <"+owl.NamespaceOWL+"Ontology>")

	got, err := c.Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, want.ID(), got.ID())
	assertSameAxioms(t, want, got)

	pm, ok := got.Format().(owl.PrefixManager)
	require.True(t, ok)
	assert.Equal(t, "nquads", pm.FormatName())
	assert.Equal(t, zoo, pm.DefaultPrefix(), "default prefix comes from the ontology IRI")
}

func TestNQuadsWithoutDefaultPrefix(t *testing.T) {
	doc := `<urn:isbn:0451450523> <http://purl.org/dc/terms/title> "The Last Unicorn" .
`
	got, err := NewNQuadsCodec().Parse(strings.NewReader(doc))
	require.NoError(t, err)
	_, isPrefixed := got.Format().(owl.PrefixManager)
	assert.False(t, isPrefixed)
	assert.Equal(t, "nquads", got.Format().FormatName())
}

func TestInferDefaultPrefix(t *testing.T) {
	tests := []struct {
		name   string
		id     owl.IRI
		axioms []owl.Axiom
		want   string
	}{
		{
			name: "ontology iri with fragment namespace",
			id:   "http://example.org/zoo",
			axioms: []owl.Axiom{
				owl.Declaration{Entity: owl.Class(iri("Dog"))},
				owl.Declaration{Entity: owl.Class("http://other.org/vocab/Thing")},
				owl.Declaration{Entity: owl.Class("http://other.org/vocab/Stuff")},
			},
			want: zoo,
		},
		{
			name: "ontology iri with slash namespace",
			id:   "http://example.org/farm",
			axioms: []owl.Axiom{
				owl.Declaration{Entity: owl.Class("http://example.org/farm/Cow")},
			},
			want: "http://example.org/farm/",
		},
		{
			name: "most used namespace",
			id:   "http://example.org/unrelated",
			axioms: []owl.Axiom{
				owl.Declaration{Entity: owl.Class(iri("Dog"))},
				owl.Declaration{Entity: owl.Class(iri("Cat"))},
				owl.Declaration{Entity: owl.Class("http://other.org/vocab/Thing")},
				owl.AnnotationAssertion{Subject: iri("Dog"), Property: owl.RDFSLabel, Value: owl.PlainLiteral("Dog")},
			},
			want: zoo,
		},
		{
			name: "no entities",
			id:   "http://example.org/zoo",
			want: zoo,
		},
		{
			name: "nothing to go on",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := owl.NewOntology(tt.id)
			require.NoError(t, o.AddAxioms(tt.axioms...))
			assert.Equal(t, tt.want, inferDefaultPrefix(o))
		})
	}
}

func TestNQuadsImplicitDeclarations(t *testing.T) {
	o := owl.NewOntology("")
	require.NoError(t, o.AddAxiom(owl.SubClassOf{Sub: named("Dog"), Super: named("Animal")}))

	var buf bytes.Buffer
	require.NoError(t, NewNQuadsCodec().Export(o, &buf))

	got, err := NewNQuadsCodec().Parse(&buf)
	require.NoError(t, err)
	assert.True(t, got.ContainsAxiom(owl.SubClassOf{Sub: named("Dog"), Super: named("Animal")}))
	assert.True(t, got.ContainsAxiom(owl.Declaration{Entity: owl.Class(iri("Dog"))}))
	assert.True(t, got.ContainsAxiom(owl.Declaration{Entity: owl.Class(iri("Animal"))}))
	assert.Equal(t, owl.IRI(""), got.ID())
}

func TestNQuadsParse(t *testing.T) {
	t.Run("functional data property", func(t *testing.T) {
		doc := `<http://example.org/zoo#age> <` + owl.NamespaceRDF + `type> <` + owl.NamespaceOWL + `DatatypeProperty> .
<http://example.org/zoo#age> <` + owl.NamespaceRDF + `type> <` + owl.NamespaceOWL + `FunctionalProperty> .
`
		got, err := NewNQuadsCodec().Parse(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, 1, got.AxiomCount())
		assert.True(t, got.ContainsAxiom(owl.Declaration{Entity: owl.DataProperty(iri("age"))}))
	})

	t.Run("undeclared predicate with literal is an annotation", func(t *testing.T) {
		doc := `<http://example.org/zoo#Dog> <http://purl.org/dc/terms/creator> "zookeeper" .
`
		got, err := NewNQuadsCodec().Parse(strings.NewReader(doc))
		require.NoError(t, err)
		assert.True(t, got.ContainsAxiom(owl.AnnotationAssertion{
			Subject:  iri("Dog"),
			Property: "http://purl.org/dc/terms/creator",
			Value:    owl.PlainLiteral("zookeeper"),
		}))
	})

	t.Run("ignored axioms", func(t *testing.T) {
		doc := `<http://example.org/zoo#Dog> <` + owl.NamespaceOWL + `disjointWith> <http://example.org/zoo#Cat> .
`
		got, err := NewNQuadsCodec().Parse(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, 0, got.AxiomCount())
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := NewNQuadsCodec().Parse(strings.NewReader("this is not rdf\n"))
		require.Error(t, err)
		assert.True(t, domain.IsTranslation(err))
	})

	t.Run("dangling restriction", func(t *testing.T) {
		doc := `<http://example.org/zoo#Dog> <` + owl.NamespaceRDFS + `subClassOf> _:r .
_:r <` + owl.NamespaceOWL + `someValuesFrom> <http://example.org/zoo#Person> .
`
		_, err := NewNQuadsCodec().Parse(strings.NewReader(doc))
		require.Error(t, err)
		assert.True(t, domain.IsTranslation(err))
		assert.Contains(t, err.Error(), "owl:onProperty")
	})
}

func TestTurtleExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTurtleCodec().Export(zooOntology(t), &buf))
	out := buf.String()

	assert.Contains(t, out, "@prefix : <http://example.org/zoo#> .")
	assert.Contains(t, out, "@prefix owl: <"+owl.NamespaceOWL+"> .")
	assert.Contains(t, out, "@prefix xsd: <"+owl.NamespaceXSD+"> .")
	assert.Contains(t, out, ":Dog\n")
	assert.Contains(t, out, "    a owl:Class")
	assert.Contains(t, out, "rdfs:subClassOf :Animal")
	assert.Contains(t, out, `rdfs:label "Hund"@de`)
	assert.Contains(t, out, `rdfs:comment "A \"domestic\" canine"`)
	assert.Contains(t, out, "rdfs:range xsd:int")
	assert.Contains(t, out, "<http://example.org/zoo>\n    a owl:Ontology .")
}

func TestTurtleParseUnsupported(t *testing.T) {
	_, err := NewTurtleCodec().Parse(strings.NewReader("@prefix : <http://example.org/zoo#> ."))
	require.Error(t, err)
	assert.True(t, domain.IsTranslation(err))
	assert.True(t, errors.Is(err, ErrWriteOnly))
}

func TestJSONLDRoundTrip(t *testing.T) {
	want := zooOntology(t)
	c := NewJSONLDCodec()

	var buf bytes.Buffer
	require.NoError(t, c.Export(want, &buf))
	assert.Contains(t, buf.String(), `"@vocab":"http://example.org/zoo#"`)
	assert.Contains(t, buf.String(), "http://example.org/zoo#Dog")

	got, err := c.Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, want.ID(), got.ID())
	assertSameAxioms(t, want, got)

	pm, ok := got.Format().(owl.PrefixManager)
	require.True(t, ok)
	assert.Equal(t, "jsonld", pm.FormatName())
	assert.Equal(t, zoo, pm.DefaultPrefix())
	ns, ok := pm.Prefix("owl")
	assert.True(t, ok)
	assert.Equal(t, owl.NamespaceOWL, ns)
}

func TestJSONLDContextPrefixes(t *testing.T) {
	t.Run("vocab is the default prefix", func(t *testing.T) {
		doc := `{
  "@context": {"@vocab": "http://example.org/farm/", "ex": "http://example.org/ex#"},
  "@id": "http://example.org/zoo#Dog",
  "@type": "http://www.w3.org/2002/07/owl#Class"
}`
		got, err := NewJSONLDCodec().Parse(strings.NewReader(doc))
		require.NoError(t, err)
		pm := got.Format().(owl.PrefixManager)
		assert.Equal(t, "http://example.org/farm/", pm.DefaultPrefix())
		ns, _ := pm.Prefix("ex")
		assert.Equal(t, "http://example.org/ex#", ns)
		assert.True(t, got.ContainsAxiom(owl.Declaration{Entity: owl.Class(iri("Dog"))}))
	})

	t.Run("inferred without vocab", func(t *testing.T) {
		doc := `[{"@id": "http://example.org/zoo#Dog", "@type": ["http://www.w3.org/2002/07/owl#Class"]}]`
		got, err := NewJSONLDCodec().Parse(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, zoo, got.Format().(owl.PrefixManager).DefaultPrefix())
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := NewJSONLDCodec().Parse(strings.NewReader("{"))
		require.Error(t, err)
		assert.True(t, domain.IsTranslation(err))
	})
}

func TestReadable(t *testing.T) {
	r := DefaultRegistry()
	assert.True(t, r.Readable("yaml"))
	assert.True(t, r.Readable("nq"))
	assert.False(t, r.Readable("turtle"))
	assert.False(t, r.Readable("owlxml"))
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, c := range []Codec{NewYAMLCodec(), NewJSONCodec()} {
		t.Run(c.Format(), func(t *testing.T) {
			want := zooOntology(t)

			var buf bytes.Buffer
			require.NoError(t, c.Export(want, &buf))

			got, err := c.Parse(&buf)
			require.NoError(t, err)

			assert.Equal(t, want.ID(), got.ID())
			assertSameAxioms(t, want, got)

			pm, ok := got.Format().(owl.PrefixManager)
			require.True(t, ok)
			assert.Equal(t, zoo, pm.DefaultPrefix())
			assert.Equal(t, c.Format(), pm.FormatName())
		})
	}
}

func TestYAMLPrefixedNames(t *testing.T) {
	doc := `
ontology: http://example.org/zoo
prefixes:
  "": http://example.org/zoo#
axioms:
  - type: Declaration
    kind: Class
    entity: ":Dog"
  - type: SubClassOf
    sub: {class: ":Dog"}
    super: {class: ":Animal"}
  - type: FunctionalObjectProperty
    property: ":hasOwner"
  - type: AnnotationAssertion
    subject: ":Dog"
    property: rdfs:label
    value: {literal: Dog}
`
	got, err := NewYAMLCodec().Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.True(t, got.ContainsAxiom(owl.Declaration{Entity: owl.Class(iri("Dog"))}))
	assert.True(t, got.ContainsAxiom(owl.SubClassOf{Sub: named("Dog"), Super: named("Animal")}))
	assert.True(t, got.ContainsAxiom(owl.ObjectPropertyCharacteristic{
		Kind: owl.AxiomFunctionalObjectProperty, Property: iri("hasOwner"),
	}))
	// rdfs is not bound in the document, so the name stays as written
	assert.True(t, got.ContainsAxiom(owl.AnnotationAssertion{
		Subject: iri("Dog"), Property: "rdfs:label", Value: owl.PlainLiteral("Dog"),
	}))
}

func TestDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown axiom type", "axioms:\n  - type: EquivalentClasses\n"},
		{"unknown entity kind", "axioms:\n  - type: Declaration\n    kind: Thing\n    entity: x\n"},
		{"missing class", "axioms:\n  - type: SubClassOf\n    sub: {class: a}\n"},
		{"missing IRI", "axioms:\n  - type: Declaration\n    kind: Class\n"},
		{"unknown field", "axiom: []\n"},
		{"not yaml", "::: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLCodec().Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, domain.IsTranslation(err))
		})
	}
}

func TestExportNil(t *testing.T) {
	for _, c := range DefaultRegistry().byName {
		err := c.Export(nil, &bytes.Buffer{})
		assert.True(t, domain.IsTranslation(err), c.Format())
	}
}
