package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/hashicorp/go-multierror"

	"ontoserver/internal/owl"
)

// maxExpressionDepth bounds blank node nesting when reading class expressions
const maxExpressionDepth = 64

// ontologyToQuads maps an ontology to RDF triples following the OWL 2 RDF
// mapping. Entities that are only mentioned by axioms are typed explicitly so
// that reading the triples back classifies every predicate the same way.
func ontologyToQuads(o *owl.Ontology) []quad.Quad {
	w := &tripleWriter{seen: make(map[string]struct{})}

	if !o.ID().IsEmpty() {
		w.add(quad.IRI(o.ID()), rdfType, owlOntology)
	}
	for _, ax := range o.Axioms() {
		w.axiom(ax)
	}
	for _, e := range o.Signature() {
		w.declare(e)
	}
	return w.quads
}

type tripleWriter struct {
	quads  []quad.Quad
	seen   map[string]struct{}
	bnodes int
}

func (w *tripleWriter) add(s, p, o quad.Value) {
	key := fmt.Sprintf("%v %v %v", s, p, o)
	if _, ok := w.seen[key]; ok {
		return
	}
	w.seen[key] = struct{}{}
	w.quads = append(w.quads, quad.Quad{Subject: s, Predicate: p, Object: o})
}

func (w *tripleWriter) blank() quad.BNode {
	w.bnodes++
	return quad.BNode(fmt.Sprintf("b%d", w.bnodes))
}

func (w *tripleWriter) declare(e owl.Entity) {
	iri := quad.IRI(e.IRI)
	switch e.Kind {
	case owl.KindDatatype:
		if isBuiltinDatatype(iri) {
			return
		}
	case owl.KindAnnotationProperty:
		if _, ok := builtinAnnotationProperties[iri]; ok {
			return
		}
	}
	w.add(iri, rdfType, declarationTypes[e.Kind])
}

func (w *tripleWriter) axiom(ax owl.Axiom) {
	switch a := ax.(type) {
	case owl.Declaration:
		w.declare(a.Entity)
	case owl.SubClassOf:
		w.add(w.class(a.Sub), rdfsSubClassOf, w.class(a.Super))
	case owl.ObjectPropertyDomain:
		w.add(quad.IRI(a.Property), rdfsDomain, w.class(a.Domain))
	case owl.ObjectPropertyRange:
		w.add(quad.IRI(a.Property), rdfsRange, w.class(a.Range))
	case owl.DataPropertyDomain:
		w.add(quad.IRI(a.Property), rdfsDomain, w.class(a.Domain))
	case owl.DataPropertyRange:
		w.add(quad.IRI(a.Property), rdfsRange, w.dataRange(a.Range))
	case owl.ObjectPropertyCharacteristic:
		w.add(quad.IRI(a.Property), rdfType, characteristicTypes[a.Kind])
	case owl.AnnotationAssertion:
		w.add(quad.IRI(a.Subject), quad.IRI(a.Property), annotationValue(a.Value))
	case owl.ClassAssertion:
		w.add(quad.IRI(a.Individual), rdfType, w.class(a.Class))
	case owl.ObjectPropertyAssertion:
		w.add(quad.IRI(a.Subject), quad.IRI(a.Property), quad.IRI(a.Object))
	case owl.DataPropertyAssertion:
		w.add(quad.IRI(a.Subject), quad.IRI(a.Property), literalValue(a.Value))
	}
}

func (w *tripleWriter) class(expr owl.ClassExpression) quad.Value {
	switch c := expr.(type) {
	case owl.NamedClass:
		return quad.IRI(c.IRI)
	case owl.ObjectIntersectionOf:
		b := w.blank()
		w.add(b, rdfType, owlClass)
		w.add(b, owlIntersectionOf, w.classList(c.Operands))
		return b
	case owl.ObjectUnionOf:
		b := w.blank()
		w.add(b, rdfType, owlClass)
		w.add(b, owlUnionOf, w.classList(c.Operands))
		return b
	case owl.ObjectComplementOf:
		b := w.blank()
		w.add(b, rdfType, owlClass)
		w.add(b, owlComplementOf, w.class(c.Operand))
		return b
	case owl.ObjectSomeValuesFrom:
		b := w.blank()
		w.add(b, rdfType, owlRestriction)
		w.add(b, owlOnProperty, quad.IRI(c.Property))
		w.add(b, owlSomeValuesFrom, w.class(c.Filler))
		return b
	case owl.ObjectAllValuesFrom:
		b := w.blank()
		w.add(b, rdfType, owlRestriction)
		w.add(b, owlOnProperty, quad.IRI(c.Property))
		w.add(b, owlAllValuesFrom, w.class(c.Filler))
		return b
	}
	return rdfNil
}

func (w *tripleWriter) classList(exprs []owl.ClassExpression) quad.Value {
	values := make([]quad.Value, 0, len(exprs))
	for _, e := range exprs {
		values = append(values, w.class(e))
	}
	return w.list(values)
}

func (w *tripleWriter) list(values []quad.Value) quad.Value {
	if len(values) == 0 {
		return rdfNil
	}
	head := w.blank()
	node := head
	for i, v := range values {
		w.add(node, rdfFirst, v)
		if i == len(values)-1 {
			w.add(node, rdfRest, rdfNil)
			break
		}
		next := w.blank()
		w.add(node, rdfRest, next)
		node = next
	}
	return head
}

func (w *tripleWriter) dataRange(r owl.DataRange) quad.Value {
	switch d := r.(type) {
	case owl.NamedDatatype:
		return quad.IRI(d.IRI)
	case owl.DataOneOf:
		b := w.blank()
		values := make([]quad.Value, 0, len(d.Values))
		for _, v := range d.Values {
			values = append(values, literalValue(v))
		}
		w.add(b, rdfType, rdfsDatatype)
		w.add(b, owlOneOf, w.list(values))
		return b
	}
	return rdfsLiteral
}

func literalValue(l owl.Literal) quad.Value {
	switch {
	case l.Lang != "":
		return quad.LangString{Value: quad.String(l.Lexical), Lang: l.Lang}
	case l.Datatype == "" || l.Datatype == owl.XSDString:
		return quad.String(l.Lexical)
	default:
		return quad.TypedString{Value: quad.String(l.Lexical), Type: quad.IRI(l.Datatype)}
	}
}

func annotationValue(v owl.AnnotationValue) quad.Value {
	switch a := v.(type) {
	case owl.Literal:
		return literalValue(a)
	case owl.IRI:
		return quad.IRI(a)
	}
	return quad.String(v.String())
}

// quadsToOntology rebuilds an ontology from triples. Entity kinds are
// collected in a first pass so that domain, range and assertion triples can
// be told apart regardless of document order.
func quadsToOntology(quads []quad.Quad, format owl.DocumentFormat) (*owl.Ontology, error) {
	r := &tripleReader{
		quads:     quads,
		bySubject: make(map[quad.Value][]quad.Quad),
		kinds:     make(map[owl.IRI]map[owl.EntityKind]bool),
	}
	r.index()

	r.ontology = owl.NewOntology(r.id)
	r.ontology.SetFormat(format)

	for _, q := range quads {
		r.triple(q)
	}

	if err := r.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return r.ontology, nil
}

type tripleReader struct {
	quads     []quad.Quad
	bySubject map[quad.Value][]quad.Quad
	kinds     map[owl.IRI]map[owl.EntityKind]bool
	id        owl.IRI

	ontology *owl.Ontology
	errs     *multierror.Error
}

func (r *tripleReader) index() {
	for _, q := range r.quads {
		if b, ok := q.Subject.(quad.BNode); ok {
			r.bySubject[b] = append(r.bySubject[b], q)
			continue
		}
		s, ok := q.Subject.(quad.IRI)
		if !ok || q.Predicate != rdfType {
			continue
		}
		o, ok := q.Object.(quad.IRI)
		if !ok {
			continue
		}
		if o == owlOntology && r.id == "" {
			r.id = owl.IRI(s)
			continue
		}
		if kind, ok := entityTypes[o]; ok {
			r.mark(owl.IRI(s), kind)
		}
	}
}

func (r *tripleReader) mark(iri owl.IRI, kind owl.EntityKind) {
	if r.kinds[iri] == nil {
		r.kinds[iri] = make(map[owl.EntityKind]bool)
	}
	r.kinds[iri][kind] = true
}

func (r *tripleReader) is(iri owl.IRI, kind owl.EntityKind) bool {
	return r.kinds[iri][kind]
}

func (r *tripleReader) fail(q quad.Quad, err error) {
	r.errs = multierror.Append(r.errs, fmt.Errorf("triple %v %v %v: %w", q.Subject, q.Predicate, q.Object, err))
}

func (r *tripleReader) add(q quad.Quad, ax owl.Axiom) {
	if err := r.ontology.AddAxiom(ax); err != nil {
		r.fail(q, err)
	}
}

func (r *tripleReader) triple(q quad.Quad) {
	s, ok := q.Subject.(quad.IRI)
	if !ok {
		// blank subjects are parts of class expressions and lists
		return
	}
	subject := owl.IRI(s)
	p, ok := q.Predicate.(quad.IRI)
	if !ok {
		r.fail(q, fmt.Errorf("predicate is not an IRI"))
		return
	}
	if subject == r.id && p != rdfType {
		// ontology annotations
		return
	}
	if _, ok := ignoredPredicates[p]; ok {
		return
	}

	switch p {
	case rdfType:
		r.typeTriple(q, subject)
	case rdfsSubClassOf:
		sup, err := r.classExpression(q.Object, 0)
		if err != nil {
			r.fail(q, err)
			return
		}
		r.add(q, owl.SubClassOf{Sub: owl.NamedClass{IRI: subject}, Super: sup})
	case rdfsDomain:
		r.domainTriple(q, subject)
	case rdfsRange:
		r.rangeTriple(q, subject)
	default:
		r.assertionTriple(q, subject, owl.IRI(p))
	}
}

func (r *tripleReader) typeTriple(q quad.Quad, subject owl.IRI) {
	if o, ok := q.Object.(quad.IRI); ok {
		if o == owlOntology {
			return
		}
		if kind, ok := entityTypes[o]; ok {
			r.add(q, owl.Declaration{Entity: owl.Entity{Kind: kind, IRI: subject}})
			return
		}
		if kind, ok := characteristicAxioms[o]; ok {
			// owl:FunctionalProperty also applies to data properties
			if r.is(subject, owl.KindDataProperty) && !r.is(subject, owl.KindObjectProperty) {
				return
			}
			r.add(q, owl.ObjectPropertyCharacteristic{Kind: kind, Property: subject})
			return
		}
	}

	class, err := r.classExpression(q.Object, 0)
	if err != nil {
		r.fail(q, err)
		return
	}
	r.add(q, owl.ClassAssertion{Class: class, Individual: subject})
}

func (r *tripleReader) domainTriple(q quad.Quad, property owl.IRI) {
	if r.is(property, owl.KindAnnotationProperty) {
		return
	}
	domain, err := r.classExpression(q.Object, 0)
	if err != nil {
		r.fail(q, err)
		return
	}
	if r.is(property, owl.KindDataProperty) {
		r.add(q, owl.DataPropertyDomain{Property: property, Domain: domain})
		return
	}
	r.add(q, owl.ObjectPropertyDomain{Property: property, Domain: domain})
}

func (r *tripleReader) rangeTriple(q quad.Quad, property owl.IRI) {
	switch {
	case r.is(property, owl.KindAnnotationProperty):
		return
	case r.is(property, owl.KindDataProperty),
		!r.is(property, owl.KindObjectProperty) && r.isDataRange(q.Object):
		dr, err := r.dataRange(q.Object)
		if err != nil {
			r.fail(q, err)
			return
		}
		r.add(q, owl.DataPropertyRange{Property: property, Range: dr})
	default:
		rng, err := r.classExpression(q.Object, 0)
		if err != nil {
			r.fail(q, err)
			return
		}
		r.add(q, owl.ObjectPropertyRange{Property: property, Range: rng})
	}
}

func (r *tripleReader) isDataRange(v quad.Value) bool {
	switch o := v.(type) {
	case quad.IRI:
		return isBuiltinDatatype(o) || r.is(owl.IRI(o), owl.KindDatatype)
	case quad.BNode:
		for _, q := range r.bySubject[o] {
			if q.Predicate == rdfType && q.Object == rdfsDatatype {
				return true
			}
		}
	}
	return false
}

func (r *tripleReader) assertionTriple(q quad.Quad, subject, property owl.IRI) {
	_, builtin := builtinAnnotationProperties[quad.IRI(property)]

	switch {
	case builtin || r.is(property, owl.KindAnnotationProperty):
		r.annotation(q, subject, property)
	case r.is(property, owl.KindDataProperty):
		lit, ok := literalOf(q.Object)
		if !ok {
			r.fail(q, fmt.Errorf("data property value is not a literal"))
			return
		}
		r.add(q, owl.DataPropertyAssertion{Property: property, Subject: subject, Value: lit})
	case r.is(property, owl.KindObjectProperty):
		obj, ok := q.Object.(quad.IRI)
		if !ok {
			r.fail(q, fmt.Errorf("object property value is not an IRI"))
			return
		}
		r.add(q, owl.ObjectPropertyAssertion{Property: property, Subject: subject, Object: owl.IRI(obj)})
	default:
		// undeclared predicates are read as annotations
		r.annotation(q, subject, property)
	}
}

func (r *tripleReader) annotation(q quad.Quad, subject, property owl.IRI) {
	switch o := q.Object.(type) {
	case quad.IRI:
		r.add(q, owl.AnnotationAssertion{Subject: subject, Property: property, Value: owl.IRI(o)})
	case quad.BNode:
		// anonymous annotation values are not representable
	default:
		lit, ok := literalOf(o)
		if !ok {
			r.fail(q, fmt.Errorf("unsupported annotation value"))
			return
		}
		r.add(q, owl.AnnotationAssertion{Subject: subject, Property: property, Value: lit})
	}
}

func (r *tripleReader) classExpression(v quad.Value, depth int) (owl.ClassExpression, error) {
	if depth > maxExpressionDepth {
		return nil, fmt.Errorf("class expression nested too deeply")
	}
	switch o := v.(type) {
	case quad.IRI:
		return owl.NamedClass{IRI: owl.IRI(o)}, nil
	case quad.BNode:
		return r.anonymousClass(o, depth)
	default:
		return nil, fmt.Errorf("class expected, got %v", v)
	}
}

func (r *tripleReader) anonymousClass(b quad.BNode, depth int) (owl.ClassExpression, error) {
	var onProperty quad.IRI
	for _, q := range r.bySubject[b] {
		if q.Predicate == owlOnProperty {
			if p, ok := q.Object.(quad.IRI); ok {
				onProperty = p
			}
		}
	}

	for _, q := range r.bySubject[b] {
		switch q.Predicate {
		case owlIntersectionOf, owlUnionOf:
			items, err := r.list(q.Object)
			if err != nil {
				return nil, err
			}
			operands := make([]owl.ClassExpression, 0, len(items))
			for _, item := range items {
				op, err := r.classExpression(item, depth+1)
				if err != nil {
					return nil, err
				}
				operands = append(operands, op)
			}
			if q.Predicate == owlUnionOf {
				return owl.ObjectUnionOf{Operands: operands}, nil
			}
			return owl.ObjectIntersectionOf{Operands: operands}, nil
		case owlComplementOf:
			op, err := r.classExpression(q.Object, depth+1)
			if err != nil {
				return nil, err
			}
			return owl.ObjectComplementOf{Operand: op}, nil
		case owlSomeValuesFrom, owlAllValuesFrom:
			if onProperty == "" {
				return nil, fmt.Errorf("restriction %v has no owl:onProperty", b)
			}
			filler, err := r.classExpression(q.Object, depth+1)
			if err != nil {
				return nil, err
			}
			if q.Predicate == owlSomeValuesFrom {
				return owl.ObjectSomeValuesFrom{Property: owl.IRI(onProperty), Filler: filler}, nil
			}
			return owl.ObjectAllValuesFrom{Property: owl.IRI(onProperty), Filler: filler}, nil
		}
	}
	return nil, fmt.Errorf("unsupported anonymous class %v", b)
}

func (r *tripleReader) dataRange(v quad.Value) (owl.DataRange, error) {
	switch o := v.(type) {
	case quad.IRI:
		return owl.NamedDatatype{IRI: owl.IRI(o)}, nil
	case quad.BNode:
		for _, q := range r.bySubject[o] {
			if q.Predicate != owlOneOf {
				continue
			}
			items, err := r.list(q.Object)
			if err != nil {
				return nil, err
			}
			values := make([]owl.Literal, 0, len(items))
			for _, item := range items {
				lit, ok := literalOf(item)
				if !ok {
					return nil, fmt.Errorf("owl:oneOf member %v is not a literal", item)
				}
				values = append(values, lit)
			}
			return owl.DataOneOf{Values: values}, nil
		}
	}
	return nil, fmt.Errorf("unsupported data range %v", v)
}

// list follows an rdf:first/rdf:rest chain
func (r *tripleReader) list(head quad.Value) ([]quad.Value, error) {
	var out []quad.Value
	visited := make(map[quad.Value]bool)
	node := head
	for node != rdfNil {
		b, ok := node.(quad.BNode)
		if !ok {
			return nil, fmt.Errorf("malformed rdf list at %v", node)
		}
		if visited[b] {
			return nil, fmt.Errorf("cyclic rdf list at %v", node)
		}
		visited[b] = true

		var first, rest quad.Value
		for _, q := range r.bySubject[b] {
			switch q.Predicate {
			case rdfFirst:
				first = q.Object
			case rdfRest:
				rest = q.Object
			}
		}
		if first == nil || rest == nil {
			return nil, fmt.Errorf("incomplete rdf list node %v", node)
		}
		out = append(out, first)
		node = rest
	}
	return out, nil
}

// literalOf converts a quad literal. Plain strings become xsd:string and
// natively typed values get the XSD type they are parsed from.
func literalOf(v quad.Value) (owl.Literal, bool) {
	switch l := v.(type) {
	case quad.String:
		return owl.PlainLiteral(string(l)), true
	case quad.TypedString:
		return owl.Literal{Lexical: string(l.Value), Datatype: owl.IRI(l.Type)}, true
	case quad.LangString:
		return owl.Literal{Lexical: string(l.Value), Lang: l.Lang}, true
	case quad.Int:
		return owl.Literal{Lexical: strconv.FormatInt(int64(l), 10), Datatype: owl.NamespaceXSD + "integer"}, true
	case quad.Float:
		return owl.Literal{Lexical: strconv.FormatFloat(float64(l), 'g', -1, 64), Datatype: owl.NamespaceXSD + "double"}, true
	case quad.Bool:
		return owl.Literal{Lexical: strconv.FormatBool(bool(l)), Datatype: owl.NamespaceXSD + "boolean"}, true
	case quad.Time:
		return owl.Literal{Lexical: time.Time(l).Format(time.RFC3339Nano), Datatype: owl.NamespaceXSD + "dateTime"}, true
	case quad.IRI, quad.BNode, nil:
		return owl.Literal{}, false
	default:
		return owl.Literal{Lexical: fmt.Sprint(l.Native()), Datatype: owl.XSDString}, true
	}
}
