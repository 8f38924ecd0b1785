package translate

import (
	"errors"

	"github.com/sirupsen/logrus"

	"ontoserver/internal/domain"
	"ontoserver/internal/owl"
	"ontoserver/internal/store"
)

// ErrNilModel is returned when there is no formal model to translate
var ErrNilModel = errors.New("formal model is nil")

// Importer fills the flat model store from a formal model
type Importer struct {
	store  *store.Store
	logger logrus.FieldLogger
}

// NewImporter creates an importer writing to s
func NewImporter(s *store.Store, logger logrus.FieldLogger) *Importer {
	return &Importer{store: s, logger: logger}
}

// Import replaces the whole store content with the entities of model and
// returns the ontology descriptor. On failure the store is left untouched.
// Importing the same model twice yields the same store content.
func (im *Importer) Import(model *owl.Ontology) (domain.OntologyDescriptor, error) {
	desc, contents, err := Materialize(model, im.logger)
	if err != nil {
		return domain.OntologyDescriptor{}, err
	}

	if err := im.store.ReplaceAll(
		contents.Classes,
		contents.ObjectProperties,
		contents.DataProperties,
		contents.Individuals,
	); err != nil {
		return domain.OntologyDescriptor{}, domain.WrapTranslation(err, "importer", "replace")
	}

	im.logger.WithFields(logrus.Fields{
		"action":            "ontology_import",
		"ontology":          desc.UniqueName,
		"classes":           len(contents.Classes),
		"object_properties": len(contents.ObjectProperties),
		"data_properties":   len(contents.DataProperties),
		"individuals":       len(contents.Individuals),
	}).Info("imported ontology into flat model")

	return desc, nil
}

// Materialize reads the flat entities out of model without touching any store
func Materialize(model *owl.Ontology, logger logrus.FieldLogger) (domain.OntologyDescriptor, *store.Contents, error) {
	if model == nil {
		return domain.OntologyDescriptor{}, nil, domain.WrapTranslation(ErrNilModel, "importer", "import")
	}

	desc := Describe(model, logger)
	contents := &store.Contents{
		Classes:          make([]*domain.Class, 0),
		ObjectProperties: make([]*domain.ObjectProperty, 0),
		DataProperties:   make([]*domain.DataProperty, 0),
		Individuals:      make([]*domain.Individual, 0),
	}

	for _, iri := range model.Classes() {
		contents.Classes = append(contents.Classes, &domain.Class{
			UniqueName:  iri.ShortForm(),
			ParentClass: ParentOf(model, iri),
			Label:       Label(model, iri),
			Comment:     Comment(model, iri),
		})
	}

	for _, iri := range model.ObjectProperties() {
		contents.ObjectProperties = append(contents.ObjectProperties, &domain.ObjectProperty{
			UniqueName:      iri.ShortForm(),
			Domain:          ObjectDomainOf(model, iri),
			Range:           ObjectRangeOf(model, iri),
			Label:           Label(model, iri),
			Comment:         Comment(model, iri),
			Characteristics: CharacteristicsOf(model, iri),
		})
	}

	for _, iri := range model.DataProperties() {
		contents.DataProperties = append(contents.DataProperties, &domain.DataProperty{
			UniqueName: iri.ShortForm(),
			Domain:     DataDomainOf(model, iri),
			Range:      DataRangeOf(model, iri),
			Label:      Label(model, iri),
			Comment:    Comment(model, iri),
		})
	}

	for _, iri := range model.Individuals() {
		contents.Individuals = append(contents.Individuals, &domain.Individual{
			UniqueName:              iri.ShortForm(),
			ClassName:               AssertedClass(model, iri),
			Label:                   Label(model, iri),
			Comment:                 Comment(model, iri),
			ObjectPropertyRelations: ObjectRelations(model, iri),
			FilledDataProperties:    DataRelations(model, iri),
		})
	}

	return desc, contents, nil
}

// Describe derives the ontology descriptor. The base namespace is the default
// prefix of the document format; formats without prefixes, and documents
// without a default prefix, fall back to domain.FallbackNamespace.
func Describe(model *owl.Ontology, logger logrus.FieldLogger) domain.OntologyDescriptor {
	desc := domain.OntologyDescriptor{
		UniqueName: domain.UnnamedOntology,
		BaseIRI:    domain.FallbackNamespace,
	}
	if !model.ID().IsEmpty() {
		desc.UniqueName = model.ID().ShortForm()
	}

	format := model.Format()
	pm, ok := format.(owl.PrefixManager)
	switch {
	case !ok:
		name := "none"
		if format != nil {
			name = format.FormatName()
		}
		logger.WithFields(logrus.Fields{
			"action":    "ontology_import",
			"format":    name,
			"namespace": domain.FallbackNamespace,
		}).Info("document format does not support prefixes, using fallback namespace")
	case pm.DefaultPrefix() == "":
		logger.WithFields(logrus.Fields{
			"action":    "ontology_import",
			"format":    pm.FormatName(),
			"namespace": domain.FallbackNamespace,
		}).Info("document has no default prefix, using fallback namespace")
	default:
		desc.BaseIRI = pm.DefaultPrefix()
	}

	return desc
}
