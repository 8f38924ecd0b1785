package owl

import (
	"fmt"
	"strings"
)

// ClassExpression is a named class or an anonymous class constructor
type ClassExpression interface {
	// IsAnonymous is false only for NamedClass
	IsAnonymous() bool
	// NamedClasses returns every named class mentioned by the expression,
	// without duplicates, in left-to-right order
	NamedClasses() []IRI
	// String renders the expression in functional syntax
	String() string

	signature() []Entity
}

// NamedClass refers to a declared class by IRI
type NamedClass struct {
	IRI IRI
}

func (c NamedClass) IsAnonymous() bool   { return false }
func (c NamedClass) NamedClasses() []IRI { return []IRI{c.IRI} }
func (c NamedClass) String() string      { return "<" + string(c.IRI) + ">" }
func (c NamedClass) signature() []Entity { return []Entity{Class(c.IRI)} }

// ObjectIntersectionOf is the conjunction of its operands
type ObjectIntersectionOf struct {
	Operands []ClassExpression
}

func (c ObjectIntersectionOf) IsAnonymous() bool   { return true }
func (c ObjectIntersectionOf) NamedClasses() []IRI { return namedIn(c.Operands...) }
func (c ObjectIntersectionOf) String() string {
	return "ObjectIntersectionOf(" + joinExpressions(c.Operands) + ")"
}
func (c ObjectIntersectionOf) signature() []Entity { return signatureOf(c.Operands...) }

// ObjectUnionOf is the disjunction of its operands
type ObjectUnionOf struct {
	Operands []ClassExpression
}

func (c ObjectUnionOf) IsAnonymous() bool   { return true }
func (c ObjectUnionOf) NamedClasses() []IRI { return namedIn(c.Operands...) }
func (c ObjectUnionOf) String() string {
	return "ObjectUnionOf(" + joinExpressions(c.Operands) + ")"
}
func (c ObjectUnionOf) signature() []Entity { return signatureOf(c.Operands...) }

// ObjectComplementOf is the negation of its operand
type ObjectComplementOf struct {
	Operand ClassExpression
}

func (c ObjectComplementOf) IsAnonymous() bool   { return true }
func (c ObjectComplementOf) NamedClasses() []IRI { return namedIn(c.Operand) }
func (c ObjectComplementOf) String() string {
	return "ObjectComplementOf(" + c.Operand.String() + ")"
}
func (c ObjectComplementOf) signature() []Entity { return signatureOf(c.Operand) }

// ObjectSomeValuesFrom is an existential restriction on an object property
type ObjectSomeValuesFrom struct {
	Property IRI
	Filler   ClassExpression
}

func (c ObjectSomeValuesFrom) IsAnonymous() bool   { return true }
func (c ObjectSomeValuesFrom) NamedClasses() []IRI { return namedIn(c.Filler) }
func (c ObjectSomeValuesFrom) String() string {
	return fmt.Sprintf("ObjectSomeValuesFrom(<%s> %s)", c.Property, c.Filler)
}
func (c ObjectSomeValuesFrom) signature() []Entity {
	return append([]Entity{ObjectProperty(c.Property)}, signatureOf(c.Filler)...)
}

// ObjectAllValuesFrom is a universal restriction on an object property
type ObjectAllValuesFrom struct {
	Property IRI
	Filler   ClassExpression
}

func (c ObjectAllValuesFrom) IsAnonymous() bool   { return true }
func (c ObjectAllValuesFrom) NamedClasses() []IRI { return namedIn(c.Filler) }
func (c ObjectAllValuesFrom) String() string {
	return fmt.Sprintf("ObjectAllValuesFrom(<%s> %s)", c.Property, c.Filler)
}
func (c ObjectAllValuesFrom) signature() []Entity {
	return append([]Entity{ObjectProperty(c.Property)}, signatureOf(c.Filler)...)
}

func namedIn(exprs ...ClassExpression) []IRI {
	seen := make(map[IRI]struct{})
	var out []IRI
	for _, e := range exprs {
		if e == nil {
			continue
		}
		for _, iri := range e.NamedClasses() {
			if _, ok := seen[iri]; ok {
				continue
			}
			seen[iri] = struct{}{}
			out = append(out, iri)
		}
	}
	return out
}

func signatureOf(exprs ...ClassExpression) []Entity {
	var out []Entity
	for _, e := range exprs {
		if e != nil {
			out = append(out, e.signature()...)
		}
	}
	return out
}

func joinExpressions(exprs []ClassExpression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " ")
}

func validExpression(e ClassExpression) bool {
	switch c := e.(type) {
	case NamedClass:
		return !c.IRI.IsEmpty()
	case ObjectIntersectionOf:
		return validOperands(c.Operands)
	case ObjectUnionOf:
		return validOperands(c.Operands)
	case ObjectComplementOf:
		return c.Operand != nil && validExpression(c.Operand)
	case ObjectSomeValuesFrom:
		return !c.Property.IsEmpty() && c.Filler != nil && validExpression(c.Filler)
	case ObjectAllValuesFrom:
		return !c.Property.IsEmpty() && c.Filler != nil && validExpression(c.Filler)
	default:
		return false
	}
}

func validOperands(ops []ClassExpression) bool {
	if len(ops) < 2 {
		return false
	}
	for _, op := range ops {
		if op == nil || !validExpression(op) {
			return false
		}
	}
	return true
}

// DataRange is a named datatype or an anonymous data range
type DataRange interface {
	IsAnonymous() bool
	String() string
}

// NamedDatatype refers to a datatype by IRI
type NamedDatatype struct {
	IRI IRI
}

func (d NamedDatatype) IsAnonymous() bool { return false }
func (d NamedDatatype) String() string    { return "<" + string(d.IRI) + ">" }

// DataOneOf enumerates the literals of a data range
type DataOneOf struct {
	Values []Literal
}

func (d DataOneOf) IsAnonymous() bool { return true }
func (d DataOneOf) String() string {
	parts := make([]string, 0, len(d.Values))
	for _, v := range d.Values {
		parts = append(parts, v.String())
	}
	return "DataOneOf(" + strings.Join(parts, " ") + ")"
}

// Literal is a lexical value with an optional datatype or language tag
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

// String renders the literal in functional syntax
func (l Literal) String() string {
	s := fmt.Sprintf("%q", l.Lexical)
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "" && l.Datatype != XSDString:
		return s + "^^<" + string(l.Datatype) + ">"
	default:
		return s
	}
}

// PlainLiteral returns an xsd:string literal
func PlainLiteral(s string) Literal {
	return Literal{Lexical: s, Datatype: XSDString}
}

func (Literal) isAnnotationValue() {}

// AnnotationValue is either a Literal or an IRI
type AnnotationValue interface {
	String() string
	isAnnotationValue()
}
