package codec

import (
	"fmt"
	"strings"

	"ontoserver/internal/owl"
)

// document is the structured form shared by the YAML and JSON codecs. Each
// axiom carries its functional-syntax type and only the fields that type uses.
type document struct {
	Ontology string            `yaml:"ontology,omitempty" json:"ontology,omitempty"`
	Prefixes map[string]string `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
	Axioms   []axiomDoc        `yaml:"axioms" json:"axioms"`
}

type axiomDoc struct {
	Type       string       `yaml:"type" json:"type"`
	Kind       string       `yaml:"kind,omitempty" json:"kind,omitempty"`
	Entity     string       `yaml:"entity,omitempty" json:"entity,omitempty"`
	Property   string       `yaml:"property,omitempty" json:"property,omitempty"`
	Subject    string       `yaml:"subject,omitempty" json:"subject,omitempty"`
	Object     string       `yaml:"object,omitempty" json:"object,omitempty"`
	Individual string       `yaml:"individual,omitempty" json:"individual,omitempty"`
	Sub        *classDoc    `yaml:"sub,omitempty" json:"sub,omitempty"`
	Super      *classDoc    `yaml:"super,omitempty" json:"super,omitempty"`
	Class      *classDoc    `yaml:"class,omitempty" json:"class,omitempty"`
	Datatype   string       `yaml:"datatype,omitempty" json:"datatype,omitempty"`
	OneOf      []literalDoc `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	Value      *literalDoc  `yaml:"value,omitempty" json:"value,omitempty"`
	IRIValue   string       `yaml:"iriValue,omitempty" json:"iriValue,omitempty"`
}

type classDoc struct {
	Class          string          `yaml:"class,omitempty" json:"class,omitempty"`
	IntersectionOf []classDoc      `yaml:"intersectionOf,omitempty" json:"intersectionOf,omitempty"`
	UnionOf        []classDoc      `yaml:"unionOf,omitempty" json:"unionOf,omitempty"`
	ComplementOf   *classDoc       `yaml:"complementOf,omitempty" json:"complementOf,omitempty"`
	SomeValuesFrom *restrictionDoc `yaml:"someValuesFrom,omitempty" json:"someValuesFrom,omitempty"`
	AllValuesFrom  *restrictionDoc `yaml:"allValuesFrom,omitempty" json:"allValuesFrom,omitempty"`
}

type restrictionDoc struct {
	Property string   `yaml:"property" json:"property"`
	Filler   classDoc `yaml:"filler" json:"filler"`
}

type literalDoc struct {
	Literal  string `yaml:"literal" json:"literal"`
	Datatype string `yaml:"datatype,omitempty" json:"datatype,omitempty"`
	Lang     string `yaml:"lang,omitempty" json:"lang,omitempty"`
}

func newDocument(o *owl.Ontology) *document {
	doc := &document{
		Ontology: string(o.ID()),
		Axioms:   make([]axiomDoc, 0, o.AxiomCount()),
	}
	if pm, ok := o.Format().(owl.PrefixManager); ok {
		doc.Prefixes = make(map[string]string)
		for _, name := range pm.PrefixNames() {
			doc.Prefixes[name], _ = pm.Prefix(name)
		}
	}
	for _, ax := range o.Axioms() {
		doc.Axioms = append(doc.Axioms, encodeAxiom(ax))
	}
	return doc
}

func encodeAxiom(ax owl.Axiom) axiomDoc {
	d := axiomDoc{Type: string(ax.AxiomType())}
	switch a := ax.(type) {
	case owl.Declaration:
		d.Kind = a.Entity.Kind.String()
		d.Entity = string(a.Entity.IRI)
	case owl.SubClassOf:
		d.Sub = encodeClass(a.Sub)
		d.Super = encodeClass(a.Super)
	case owl.ObjectPropertyDomain:
		d.Property = string(a.Property)
		d.Class = encodeClass(a.Domain)
	case owl.ObjectPropertyRange:
		d.Property = string(a.Property)
		d.Class = encodeClass(a.Range)
	case owl.DataPropertyDomain:
		d.Property = string(a.Property)
		d.Class = encodeClass(a.Domain)
	case owl.DataPropertyRange:
		d.Property = string(a.Property)
		switch r := a.Range.(type) {
		case owl.NamedDatatype:
			d.Datatype = string(r.IRI)
		case owl.DataOneOf:
			for _, v := range r.Values {
				d.OneOf = append(d.OneOf, encodeLiteral(v))
			}
		}
	case owl.ObjectPropertyCharacteristic:
		d.Property = string(a.Property)
	case owl.AnnotationAssertion:
		d.Subject = string(a.Subject)
		d.Property = string(a.Property)
		switch v := a.Value.(type) {
		case owl.Literal:
			lit := encodeLiteral(v)
			d.Value = &lit
		case owl.IRI:
			d.IRIValue = string(v)
		}
	case owl.ClassAssertion:
		d.Class = encodeClass(a.Class)
		d.Individual = string(a.Individual)
	case owl.ObjectPropertyAssertion:
		d.Property = string(a.Property)
		d.Subject = string(a.Subject)
		d.Object = string(a.Object)
	case owl.DataPropertyAssertion:
		d.Property = string(a.Property)
		d.Subject = string(a.Subject)
		lit := encodeLiteral(a.Value)
		d.Value = &lit
	}
	return d
}

func encodeClass(expr owl.ClassExpression) *classDoc {
	switch c := expr.(type) {
	case owl.NamedClass:
		return &classDoc{Class: string(c.IRI)}
	case owl.ObjectIntersectionOf:
		return &classDoc{IntersectionOf: encodeClasses(c.Operands)}
	case owl.ObjectUnionOf:
		return &classDoc{UnionOf: encodeClasses(c.Operands)}
	case owl.ObjectComplementOf:
		return &classDoc{ComplementOf: encodeClass(c.Operand)}
	case owl.ObjectSomeValuesFrom:
		return &classDoc{SomeValuesFrom: &restrictionDoc{Property: string(c.Property), Filler: *encodeClass(c.Filler)}}
	case owl.ObjectAllValuesFrom:
		return &classDoc{AllValuesFrom: &restrictionDoc{Property: string(c.Property), Filler: *encodeClass(c.Filler)}}
	}
	return &classDoc{}
}

func encodeClasses(exprs []owl.ClassExpression) []classDoc {
	out := make([]classDoc, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, *encodeClass(e))
	}
	return out
}

func encodeLiteral(l owl.Literal) literalDoc {
	d := literalDoc{Literal: l.Lexical, Lang: l.Lang}
	if l.Datatype != owl.XSDString {
		d.Datatype = string(l.Datatype)
	}
	return d
}

// ontology rebuilds the model described by the document. Names of the form
// prefix:local are expanded with the document's prefixes.
func (doc *document) ontology(format string) (*owl.Ontology, error) {
	dec := documentDecoder{prefixes: doc.Prefixes}

	o := owl.NewOntology(dec.iri(doc.Ontology))
	if doc.Prefixes != nil {
		pf := owl.NewPrefixFormat(format)
		for name, ns := range doc.Prefixes {
			pf.SetPrefix(name, ns)
		}
		o.SetFormat(pf)
	} else {
		o.SetFormat(owl.PlainFormat(format))
	}

	for i, d := range doc.Axioms {
		ax, err := dec.axiom(d)
		if err != nil {
			return nil, fmt.Errorf("axiom %d (%s): %w", i, d.Type, err)
		}
		if err := o.AddAxiom(ax); err != nil {
			return nil, fmt.Errorf("axiom %d (%s): %w", i, d.Type, err)
		}
	}
	return o, nil
}

type documentDecoder struct {
	prefixes map[string]string
}

func (dec documentDecoder) iri(s string) owl.IRI {
	if s == "" || strings.Contains(s, "://") {
		return owl.IRI(s)
	}
	if i := strings.Index(s, ":"); i >= 0 {
		if ns, ok := dec.prefixes[s[:i]]; ok {
			return owl.IRI(ns + s[i+1:])
		}
	}
	return owl.IRI(s)
}

func (dec documentDecoder) axiom(d axiomDoc) (owl.Axiom, error) {
	t := owl.AxiomType(d.Type)
	if t.IsCharacteristic() {
		return owl.ObjectPropertyCharacteristic{Kind: t, Property: dec.iri(d.Property)}, nil
	}

	switch t {
	case owl.AxiomDeclaration:
		kind, err := owl.ParseEntityKind(d.Kind)
		if err != nil {
			return nil, err
		}
		return owl.Declaration{Entity: owl.Entity{Kind: kind, IRI: dec.iri(d.Entity)}}, nil
	case owl.AxiomSubClassOf:
		sub, err := dec.class(d.Sub)
		if err != nil {
			return nil, err
		}
		super, err := dec.class(d.Super)
		if err != nil {
			return nil, err
		}
		return owl.SubClassOf{Sub: sub, Super: super}, nil
	case owl.AxiomObjectPropertyDomain, owl.AxiomObjectPropertyRange, owl.AxiomDataPropertyDomain:
		class, err := dec.class(d.Class)
		if err != nil {
			return nil, err
		}
		p := dec.iri(d.Property)
		switch t {
		case owl.AxiomObjectPropertyDomain:
			return owl.ObjectPropertyDomain{Property: p, Domain: class}, nil
		case owl.AxiomObjectPropertyRange:
			return owl.ObjectPropertyRange{Property: p, Range: class}, nil
		default:
			return owl.DataPropertyDomain{Property: p, Domain: class}, nil
		}
	case owl.AxiomDataPropertyRange:
		p := dec.iri(d.Property)
		if d.Datatype != "" {
			return owl.DataPropertyRange{Property: p, Range: owl.NamedDatatype{IRI: dec.iri(d.Datatype)}}, nil
		}
		values := make([]owl.Literal, 0, len(d.OneOf))
		for _, v := range d.OneOf {
			values = append(values, dec.literal(v))
		}
		return owl.DataPropertyRange{Property: p, Range: owl.DataOneOf{Values: values}}, nil
	case owl.AxiomAnnotationAssertion:
		a := owl.AnnotationAssertion{Subject: dec.iri(d.Subject), Property: dec.iri(d.Property)}
		switch {
		case d.Value != nil:
			a.Value = dec.literal(*d.Value)
		case d.IRIValue != "":
			a.Value = dec.iri(d.IRIValue)
		default:
			return nil, fmt.Errorf("annotation has no value")
		}
		return a, nil
	case owl.AxiomClassAssertion:
		class, err := dec.class(d.Class)
		if err != nil {
			return nil, err
		}
		return owl.ClassAssertion{Class: class, Individual: dec.iri(d.Individual)}, nil
	case owl.AxiomObjectPropertyAssertion:
		return owl.ObjectPropertyAssertion{
			Property: dec.iri(d.Property), Subject: dec.iri(d.Subject), Object: dec.iri(d.Object),
		}, nil
	case owl.AxiomDataPropertyAssertion:
		if d.Value == nil {
			return nil, fmt.Errorf("data property assertion has no value")
		}
		return owl.DataPropertyAssertion{
			Property: dec.iri(d.Property), Subject: dec.iri(d.Subject), Value: dec.literal(*d.Value),
		}, nil
	}
	return nil, fmt.Errorf("unknown axiom type %q", d.Type)
}

func (dec documentDecoder) class(d *classDoc) (owl.ClassExpression, error) {
	if d == nil {
		return nil, fmt.Errorf("missing class expression")
	}
	switch {
	case d.Class != "":
		return owl.NamedClass{IRI: dec.iri(d.Class)}, nil
	case d.IntersectionOf != nil:
		ops, err := dec.classes(d.IntersectionOf)
		if err != nil {
			return nil, err
		}
		return owl.ObjectIntersectionOf{Operands: ops}, nil
	case d.UnionOf != nil:
		ops, err := dec.classes(d.UnionOf)
		if err != nil {
			return nil, err
		}
		return owl.ObjectUnionOf{Operands: ops}, nil
	case d.ComplementOf != nil:
		op, err := dec.class(d.ComplementOf)
		if err != nil {
			return nil, err
		}
		return owl.ObjectComplementOf{Operand: op}, nil
	case d.SomeValuesFrom != nil:
		filler, err := dec.class(&d.SomeValuesFrom.Filler)
		if err != nil {
			return nil, err
		}
		return owl.ObjectSomeValuesFrom{Property: dec.iri(d.SomeValuesFrom.Property), Filler: filler}, nil
	case d.AllValuesFrom != nil:
		filler, err := dec.class(&d.AllValuesFrom.Filler)
		if err != nil {
			return nil, err
		}
		return owl.ObjectAllValuesFrom{Property: dec.iri(d.AllValuesFrom.Property), Filler: filler}, nil
	}
	return nil, fmt.Errorf("empty class expression")
}

func (dec documentDecoder) classes(ds []classDoc) ([]owl.ClassExpression, error) {
	out := make([]owl.ClassExpression, 0, len(ds))
	for i := range ds {
		c, err := dec.class(&ds[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (dec documentDecoder) literal(d literalDoc) owl.Literal {
	if d.Lang != "" {
		return owl.Literal{Lexical: d.Literal, Lang: d.Lang}
	}
	if d.Datatype == "" {
		return owl.PlainLiteral(d.Literal)
	}
	return owl.Literal{Lexical: d.Literal, Datatype: dec.iri(d.Datatype)}
}
