package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"ontoserver/internal/codec"
	"ontoserver/internal/domain"
	"ontoserver/internal/loader"
	"ontoserver/internal/metrics"
	"ontoserver/internal/owl"
	"ontoserver/internal/repository"
	"ontoserver/internal/store"
	"ontoserver/internal/translate"
)

const (
	// DefaultFormat is used for downloads when no format is requested and the
	// live model was not read from a readable document format
	DefaultFormat = "yaml"
	// DefaultSnapshotFormat keeps prefixes so a restore yields the same descriptor
	DefaultSnapshotFormat = "yaml"
)

// Options configures an OntologyService. Only Store is required.
type Options struct {
	Store         *store.Store
	Codecs        *codec.Registry
	Repository    repository.Repository
	EventBus      *EventBus
	Metrics       *metrics.Metrics
	Logger        logrus.FieldLogger
	DefaultFormat string
}

// OntologyService provides the ontology operations exposed by the server
type OntologyService struct {
	store    *store.Store
	importer *translate.Importer
	exporter *translate.Exporter
	codecs   *codec.Registry
	repo     repository.Repository
	eventBus *EventBus
	metrics  *metrics.Metrics
	logger   logrus.FieldLogger
	format   string

	// mu guards model and descriptor and serializes loads with exports
	mu         sync.Mutex
	model      *owl.Ontology
	descriptor domain.OntologyDescriptor
}

// NewOntologyService creates a service over an empty ontology
func NewOntologyService(opts Options) *OntologyService {
	if opts.Codecs == nil {
		opts.Codecs = codec.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = DefaultFormat
	}

	desc := domain.OntologyDescriptor{
		UniqueName: domain.UnnamedOntology,
		BaseIRI:    domain.FallbackNamespace,
	}
	return &OntologyService{
		store:      opts.Store,
		importer:   translate.NewImporter(opts.Store, opts.Logger),
		exporter:   translate.NewExporter(opts.Store, opts.Logger),
		codecs:     opts.Codecs,
		repo:       opts.Repository,
		eventBus:   opts.EventBus,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		format:     opts.DefaultFormat,
		model:      translate.NewModel(desc),
		descriptor: desc,
	}
}

// Codecs returns the document format registry
func (s *OntologyService) Codecs() *codec.Registry {
	return s.codecs
}

// Load parses a document and replaces the flat model with its contents. The
// live model and descriptor change only when the import succeeds.
func (s *OntologyService) Load(ctx context.Context, r io.Reader, format string) (domain.OntologyDescriptor, error) {
	c, err := s.codecs.Lookup(format)
	if err != nil {
		return domain.OntologyDescriptor{}, err
	}

	start := time.Now()
	model, err := c.Parse(r)
	if err != nil {
		s.metrics.ObserveTranslation("load", start, err)
		return domain.OntologyDescriptor{}, err
	}
	return s.install(ctx, model, c.Format(), start)
}

// LoadFile loads a document from disk. An empty format is chosen from the
// file extension.
func (s *OntologyService) LoadFile(ctx context.Context, path, format string) (domain.OntologyDescriptor, error) {
	start := time.Now()
	model, used, err := loader.LoadFile(path, format, s.codecs)
	if err != nil {
		s.metrics.ObserveTranslation("load", start, err)
		return domain.OntologyDescriptor{}, err
	}

	desc, err := s.install(ctx, model, used, start)
	if err == nil {
		s.logger.WithFields(logrus.Fields{
			"action": "ontology_load",
			"path":   path,
		}).Info("loaded ontology file")
	}
	return desc, err
}

func (s *OntologyService) install(ctx context.Context, model *owl.Ontology, format string, start time.Time) (domain.OntologyDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return domain.OntologyDescriptor{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	desc, err := s.importer.Import(model)
	s.metrics.ObserveTranslation("load", start, err)
	if err != nil {
		return domain.OntologyDescriptor{}, err
	}
	s.model = model
	s.descriptor = desc
	s.metrics.SetAxiomCount(model.AxiomCount())
	s.refreshCounts()

	s.eventBus.Publish(Event{
		Type: EventOntologyLoaded,
		Payload: map[string]interface{}{
			"ontology": desc.UniqueName,
			"format":   format,
			"axioms":   model.AxiomCount(),
		},
	})
	return desc, nil
}

// Descriptor returns the name and base namespace of the loaded ontology
func (s *OntologyService) Descriptor() domain.OntologyDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.descriptor
}

// ApplyChanges writes the flat model into the live model and returns the
// number of axioms added. On error the live model keeps the axioms added
// before the failure.
func (s *OntologyService) ApplyChanges(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.applyLocked()
	if err != nil {
		return added, err
	}
	s.eventBus.Publish(Event{
		Type:    EventChangesApplied,
		Payload: map[string]interface{}{"ontology": s.descriptor.UniqueName, "axioms_added": added},
	})
	return added, nil
}

func (s *OntologyService) applyLocked() (int, error) {
	start := time.Now()
	before := s.model.AxiomCount()
	err := s.exporter.ExportTo(s.model, s.descriptor)
	s.metrics.ObserveTranslation("export", start, err)
	s.metrics.SetAxiomCount(s.model.AxiomCount())
	return s.model.AxiomCount() - before, err
}

// BuildModel synthesizes the flat model into a new formal model. The live
// model is not touched.
func (s *OntologyService) BuildModel(ctx context.Context) (*owl.Ontology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	desc := s.descriptor
	s.mu.Unlock()

	start := time.Now()
	model, err := s.exporter.BuildNew(desc)
	s.metrics.ObserveTranslation("build", start, err)
	return model, err
}

// Save serializes the ontology to w and returns the codec used. With fresh
// the document is built from the flat model alone, otherwise pending changes
// are applied to the live model first and the live model is written. An empty
// format writes the document back in the format it was loaded from.
func (s *OntologyService) Save(ctx context.Context, w io.Writer, format string, fresh bool) (codec.Codec, error) {
	if format == "" {
		format = s.saveFormat()
	}
	c, err := s.codecs.Lookup(format)
	if err != nil {
		return nil, err
	}

	var model *owl.Ontology
	if fresh {
		if model, err = s.BuildModel(ctx); err != nil {
			return nil, err
		}
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, err := s.applyLocked(); err != nil {
			return nil, err
		}
		model = s.model
	}

	start := time.Now()
	err = c.Export(model, w)
	s.metrics.ObserveTranslation("save", start, err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// saveFormat returns the format the live model was read from when that format
// can be read back, otherwise the configured default
func (s *OntologyService) saveFormat() string {
	s.mu.Lock()
	f := s.model.Format()
	s.mu.Unlock()

	if f != nil && s.codecs.Readable(f.FormatName()) {
		return f.FormatName()
	}
	return s.format
}

// ClassSummaries lists every class with its parent and comment
func (s *OntologyService) ClassSummaries() ([]domain.ClassSummary, error) {
	classes, err := s.store.ListClasses()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ClassSummary, 0, len(classes))
	for _, c := range classes {
		out = append(out, domain.ClassSummary{
			ClassName:  c.UniqueName,
			ParentName: c.ParentClass,
			Comment:    c.Comment,
		})
	}
	return out, nil
}

// Classes

// AddClass stores a new class
func (s *OntologyService) AddClass(c *domain.Class) error {
	name := ""
	if c != nil {
		name = c.UniqueName
	}
	return s.created(domain.KindClass, name, s.store.AddClass(c))
}

// GetClass returns a copy of the named class
func (s *OntologyService) GetClass(name string) (*domain.Class, error) {
	c, err := s.store.GetClass(name)
	s.metrics.RecordOperation(domain.KindClass, "get", err)
	return c, err
}

// RemoveClass deletes the named class
func (s *OntologyService) RemoveClass(name string) error {
	return s.deleted(domain.KindClass, name, s.store.RemoveClass(name))
}

// ListClasses returns every class sorted by name
func (s *OntologyService) ListClasses() ([]*domain.Class, error) {
	return s.store.ListClasses()
}

// Object properties

// AddObjectProperty stores a new object property
func (s *OntologyService) AddObjectProperty(p *domain.ObjectProperty) error {
	name := ""
	if p != nil {
		name = p.UniqueName
	}
	return s.created(domain.KindObjectProperty, name, s.store.AddObjectProperty(p))
}

// GetObjectProperty returns a copy of the named object property
func (s *OntologyService) GetObjectProperty(name string) (*domain.ObjectProperty, error) {
	p, err := s.store.GetObjectProperty(name)
	s.metrics.RecordOperation(domain.KindObjectProperty, "get", err)
	return p, err
}

// RemoveObjectProperty deletes the named object property
func (s *OntologyService) RemoveObjectProperty(name string) error {
	return s.deleted(domain.KindObjectProperty, name, s.store.RemoveObjectProperty(name))
}

// ListObjectProperties returns every object property sorted by name
func (s *OntologyService) ListObjectProperties() ([]*domain.ObjectProperty, error) {
	return s.store.ListObjectProperties()
}

// Data properties

// AddDataProperty stores a new data property
func (s *OntologyService) AddDataProperty(p *domain.DataProperty) error {
	name := ""
	if p != nil {
		name = p.UniqueName
	}
	return s.created(domain.KindDataProperty, name, s.store.AddDataProperty(p))
}

// GetDataProperty returns a copy of the named data property
func (s *OntologyService) GetDataProperty(name string) (*domain.DataProperty, error) {
	p, err := s.store.GetDataProperty(name)
	s.metrics.RecordOperation(domain.KindDataProperty, "get", err)
	return p, err
}

// RemoveDataProperty deletes the named data property
func (s *OntologyService) RemoveDataProperty(name string) error {
	return s.deleted(domain.KindDataProperty, name, s.store.RemoveDataProperty(name))
}

// ListDataProperties returns every data property sorted by name
func (s *OntologyService) ListDataProperties() ([]*domain.DataProperty, error) {
	return s.store.ListDataProperties()
}

// Individuals

// AddIndividual stores a new individual
func (s *OntologyService) AddIndividual(i *domain.Individual) error {
	name := ""
	if i != nil {
		name = i.UniqueName
	}
	return s.created(domain.KindIndividual, name, s.store.AddIndividual(i))
}

// GetIndividual returns a copy of the named individual
func (s *OntologyService) GetIndividual(name string) (*domain.Individual, error) {
	i, err := s.store.GetIndividual(name)
	s.metrics.RecordOperation(domain.KindIndividual, "get", err)
	return i, err
}

// RemoveIndividual deletes the named individual
func (s *OntologyService) RemoveIndividual(name string) error {
	return s.deleted(domain.KindIndividual, name, s.store.RemoveIndividual(name))
}

// ListIndividuals returns every individual sorted by name
func (s *OntologyService) ListIndividuals() ([]*domain.Individual, error) {
	return s.store.ListIndividuals()
}

func (s *OntologyService) created(kind domain.EntityKind, name string, err error) error {
	return s.mutated(kind, "add", EventEntityCreated, name, err)
}

func (s *OntologyService) deleted(kind domain.EntityKind, name string, err error) error {
	return s.mutated(kind, "remove", EventEntityDeleted, name, err)
}

func (s *OntologyService) mutated(kind domain.EntityKind, op string, event EventType, name string, err error) error {
	s.metrics.RecordOperation(kind, op, err)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"action": "entity_" + op,
			"kind":   kind,
			"name":   name,
		}).WithError(err).Debug("flat model change rejected")
		return err
	}

	s.refreshCounts()
	s.eventBus.Publish(Event{
		Type:    event,
		Payload: map[string]string{"kind": string(kind), "name": name},
	})
	return nil
}

func (s *OntologyService) refreshCounts() {
	if s.metrics == nil {
		return
	}
	counts, err := s.store.Counts()
	if err != nil {
		s.logger.WithError(err).Warn("failed to count flat model entities")
		return
	}
	s.metrics.SetEntityCounts(counts)
}

// loadBytes is Load for documents already in memory
func (s *OntologyService) loadBytes(ctx context.Context, data []byte, format string) (domain.OntologyDescriptor, error) {
	desc, err := s.Load(ctx, bytes.NewReader(data), format)
	if err != nil {
		return desc, fmt.Errorf("failed to load %s document: %w", format, err)
	}
	return desc, nil
}
