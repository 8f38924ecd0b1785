package translate

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"ontoserver/internal/domain"
	"ontoserver/internal/owl"
	"ontoserver/internal/store"
)

// ErrUnknownCharacteristic is returned for a characteristic tag with no axiom
// kind. It indicates a configuration error, not bad user input.
var ErrUnknownCharacteristic = fmt.Errorf("unsupported property characteristic")

// xsdDatatypes are range names resolved against the XSD namespace instead of
// the ontology base namespace
var xsdDatatypes = map[string]struct{}{
	"string": {}, "normalizedString": {}, "token": {}, "language": {},
	"boolean": {}, "decimal": {}, "integer": {}, "int": {}, "long": {}, "short": {}, "byte": {},
	"nonNegativeInteger": {}, "positiveInteger": {}, "nonPositiveInteger": {}, "negativeInteger": {},
	"unsignedLong": {}, "unsignedInt": {}, "unsignedShort": {}, "unsignedByte": {},
	"float": {}, "double": {}, "dateTime": {}, "dateTimeStamp": {}, "date": {}, "time": {},
	"anyURI": {}, "base64Binary": {}, "hexBinary": {},
}

// Exporter synthesizes axioms from the flat model store
type Exporter struct {
	store  *store.Store
	logger logrus.FieldLogger
}

// NewExporter creates an exporter reading from s
func NewExporter(s *store.Store, logger logrus.FieldLogger) *Exporter {
	return &Exporter{store: s, logger: logger}
}

// ExportTo adds the axioms of every stored entity to model. Declarations are
// only added for entities not already in the model's signature, so exporting
// into the model the store was imported from is safe. ExportTo is not
// transactional: on error model keeps the axioms added so far. Use BuildNew
// when that matters.
//
// A model holds each axiom once, so a relation value repeated under one
// property ("likes": ["Rex", "Rex"], "age": ["3", "3", "4"]) becomes a single
// assertion per distinct value and imports back without the repeats.
func (ex *Exporter) ExportTo(model *owl.Ontology, desc domain.OntologyDescriptor) error {
	if model == nil {
		return domain.WrapTranslation(ErrNilModel, "exporter", "export")
	}
	contents, err := ex.store.Snapshot()
	if err != nil {
		return domain.WrapTranslation(err, "exporter", "snapshot")
	}

	before := model.AxiomCount()
	if err := Synthesize(model, desc, contents); err != nil {
		ex.logger.WithField("action", "ontology_export").WithError(err).
			Warn("export stopped partway, target model is partially updated")
		return err
	}

	ex.logger.WithFields(logrus.Fields{
		"action":       "ontology_export",
		"ontology":     desc.UniqueName,
		"axioms_added": model.AxiomCount() - before,
	}).Debug("exported flat model")
	return nil
}

// BuildNew synthesizes the store into a fresh model whose IRI and default
// prefix come from desc
func (ex *Exporter) BuildNew(desc domain.OntologyDescriptor) (*owl.Ontology, error) {
	model := NewModel(desc)
	if err := ex.ExportTo(model, desc); err != nil {
		return nil, err
	}
	return model, nil
}

// NewModel creates an empty model identified by desc
func NewModel(desc domain.OntologyDescriptor) *owl.Ontology {
	base := desc.BaseIRI
	if base == "" {
		base = domain.FallbackNamespace
	}
	name := desc.UniqueName
	if name == "" {
		name = domain.UnnamedOntology
	}

	model := owl.NewOntology(ontologyIRI(base, name))
	format := owl.NewPrefixFormat("memory")
	format.SetDefaultPrefix(base)
	format.SetPrefix("owl", owl.NamespaceOWL)
	format.SetPrefix("rdf", owl.NamespaceRDF)
	format.SetPrefix("rdfs", owl.NamespaceRDFS)
	format.SetPrefix("xsd", owl.NamespaceXSD)
	model.SetFormat(format)
	return model
}

// ontologyIRI strips the fragment separator from the base namespace and makes
// sure the short form of the result is the ontology name
func ontologyIRI(base, name string) owl.IRI {
	trimmed := base
	if n := len(trimmed); n > 0 && (trimmed[n-1] == '#' || trimmed[n-1] == '/') {
		trimmed = trimmed[:n-1]
	}
	if iri := owl.IRI(trimmed); iri.ShortForm() == name {
		return iri
	}
	return owl.IRI(trimmed + "/" + name)
}

// Synthesize adds the axioms describing contents to model
func Synthesize(model *owl.Ontology, desc domain.OntologyDescriptor, contents *store.Contents) error {
	s := synthesizer{model: model, base: desc.BaseIRI}
	if s.base == "" {
		s.base = domain.FallbackNamespace
	}

	for _, c := range contents.Classes {
		if err := s.class(c); err != nil {
			return err
		}
	}
	for _, p := range contents.ObjectProperties {
		if err := s.objectProperty(p); err != nil {
			return err
		}
	}
	for _, p := range contents.DataProperties {
		if err := s.dataProperty(p); err != nil {
			return err
		}
	}
	for _, i := range contents.Individuals {
		if err := s.individual(i); err != nil {
			return err
		}
	}
	return nil
}

type synthesizer struct {
	model *owl.Ontology
	base  string
}

func (s *synthesizer) iri(shortName string) owl.IRI {
	return owl.Join(s.base, shortName)
}

func (s *synthesizer) add(ax owl.Axiom) error {
	if err := s.model.AddAxiom(ax); err != nil {
		return domain.WrapTranslation(err, "exporter", "add_axiom")
	}
	return nil
}

// declare adds a declaration unless the entity is already in the signature
func (s *synthesizer) declare(e owl.Entity) error {
	if s.model.ContainsInSignature(e) {
		return nil
	}
	return s.add(owl.Declaration{Entity: e})
}

func (s *synthesizer) annotate(subject owl.IRI, label, comment string) error {
	if label != "" {
		if err := s.add(owl.AnnotationAssertion{
			Subject: subject, Property: owl.RDFSLabel, Value: owl.PlainLiteral(label),
		}); err != nil {
			return err
		}
	}
	if comment != "" {
		if err := s.add(owl.AnnotationAssertion{
			Subject: subject, Property: owl.RDFSComment, Value: owl.PlainLiteral(comment),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *synthesizer) class(c *domain.Class) error {
	iri := s.iri(c.UniqueName)
	if err := s.declare(owl.Class(iri)); err != nil {
		return err
	}
	if c.ParentClass != "" {
		if err := s.add(owl.SubClassOf{
			Sub:   owl.NamedClass{IRI: iri},
			Super: owl.NamedClass{IRI: s.iri(c.ParentClass)},
		}); err != nil {
			return err
		}
	}
	return s.annotate(iri, c.Label, c.Comment)
}

func (s *synthesizer) objectProperty(p *domain.ObjectProperty) error {
	iri := s.iri(p.UniqueName)
	if err := s.declare(owl.ObjectProperty(iri)); err != nil {
		return err
	}
	for _, d := range p.Domain {
		if err := s.add(owl.ObjectPropertyDomain{Property: iri, Domain: owl.NamedClass{IRI: s.iri(d)}}); err != nil {
			return err
		}
	}
	for _, r := range p.Range {
		if err := s.add(owl.ObjectPropertyRange{Property: iri, Range: owl.NamedClass{IRI: s.iri(r)}}); err != nil {
			return err
		}
	}
	if err := s.annotate(iri, p.Label, p.Comment); err != nil {
		return err
	}
	for _, c := range p.Characteristics.List() {
		kind, ok := characteristicAxioms[c]
		if !ok {
			return &domain.TranslationError{
				Component: "exporter",
				Operation: "characteristic",
				Err:       fmt.Errorf("%w %q on object property %q", ErrUnknownCharacteristic, c, p.UniqueName),
			}
		}
		if err := s.add(owl.ObjectPropertyCharacteristic{Kind: kind, Property: iri}); err != nil {
			return err
		}
	}
	return nil
}

func (s *synthesizer) dataProperty(p *domain.DataProperty) error {
	iri := s.iri(p.UniqueName)
	if err := s.declare(owl.DataProperty(iri)); err != nil {
		return err
	}
	for _, d := range p.Domain {
		if err := s.add(owl.DataPropertyDomain{Property: iri, Domain: owl.NamedClass{IRI: s.iri(d)}}); err != nil {
			return err
		}
	}
	if p.Range != "" {
		if err := s.add(owl.DataPropertyRange{Property: iri, Range: owl.NamedDatatype{IRI: s.datatype(p.Range)}}); err != nil {
			return err
		}
	}
	return s.annotate(iri, p.Label, p.Comment)
}

// datatype resolves a range name: XSD built-ins keep their namespace, anything
// else is a datatype of this ontology
func (s *synthesizer) datatype(name string) owl.IRI {
	if name == "Literal" {
		return owl.RDFSLiteral
	}
	if _, ok := xsdDatatypes[name]; ok {
		return owl.Join(owl.NamespaceXSD, name)
	}
	return s.iri(name)
}

func (s *synthesizer) individual(i *domain.Individual) error {
	iri := s.iri(i.UniqueName)
	if err := s.declare(owl.NamedIndividual(iri)); err != nil {
		return err
	}
	if i.ClassName != "" {
		if err := s.add(owl.ClassAssertion{Class: owl.NamedClass{IRI: s.iri(i.ClassName)}, Individual: iri}); err != nil {
			return err
		}
	}

	for _, prop := range sortedKeys(i.ObjectPropertyRelations) {
		for _, target := range i.ObjectPropertyRelations[prop] {
			if err := s.add(owl.ObjectPropertyAssertion{
				Property: s.iri(prop), Subject: iri, Object: s.iri(target),
			}); err != nil {
				return err
			}
		}
	}
	for _, prop := range sortedKeys(i.FilledDataProperties) {
		for _, value := range i.FilledDataProperties[prop] {
			if err := s.add(owl.DataPropertyAssertion{
				Property: s.iri(prop), Subject: iri, Value: owl.PlainLiteral(value),
			}); err != nil {
				return err
			}
		}
	}
	return s.annotate(iri, i.Label, i.Comment)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
