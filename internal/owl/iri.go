package owl

import "strings"

// IRI is an absolute internationalized resource identifier
type IRI string

// Well-known namespaces
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
)

// Annotation properties read by the flat model
const (
	RDFSLabel   IRI = NamespaceRDFS + "label"
	RDFSComment IRI = NamespaceRDFS + "comment"
)

// Built-in datatypes
const (
	XSDString   IRI = NamespaceXSD + "string"
	RDFSLiteral IRI = NamespaceRDFS + "Literal"
)

// String returns the IRI as a plain string
func (i IRI) String() string {
	return string(i)
}

// ShortForm returns the local part of the IRI: everything after the last '#',
// or after the last '/' when there is no fragment. An IRI without either
// separator is returned unchanged.
func (i IRI) ShortForm() string {
	s := string(i)
	if idx := strings.LastIndex(s, "#"); idx >= 0 && idx < len(s)-1 {
		return s[idx+1:]
	}
	if idx := strings.LastIndex(s, "/"); idx >= 0 && idx < len(s)-1 {
		return s[idx+1:]
	}
	return s
}

// Namespace returns the IRI with its short form removed
func (i IRI) Namespace() string {
	s := string(i)
	return strings.TrimSuffix(s, i.ShortForm())
}

// IsEmpty reports whether the IRI is blank
func (i IRI) IsEmpty() bool {
	return strings.TrimSpace(string(i)) == ""
}

// Join appends a short name to a namespace
func Join(namespace, shortName string) IRI {
	return IRI(namespace + shortName)
}

func (IRI) isAnnotationValue() {}
