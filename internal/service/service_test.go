package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontoserver/internal/codec"
	"ontoserver/internal/domain"
	"ontoserver/internal/owl"
	"ontoserver/internal/repository/sqlite"
	"ontoserver/internal/store"
)

const zooYAML = `
ontology: http://example.org/zoo
prefixes:
  "": http://example.org/zoo#
axioms:
  - {type: Declaration, kind: Class, entity: ":Animal"}
  - {type: Declaration, kind: Class, entity: ":Dog"}
  - {type: Declaration, kind: Class, entity: ":Person"}
  - type: SubClassOf
    sub: {class: ":Dog"}
    super: {class: ":Animal"}
  - type: AnnotationAssertion
    subject: ":Dog"
    property: http://www.w3.org/2000/01/rdf-schema#comment
    value: {literal: A domestic canine}
  - {type: Declaration, kind: ObjectProperty, entity: ":hasOwner"}
  - {type: FunctionalObjectProperty, property: ":hasOwner"}
  - {type: ObjectPropertyDomain, property: ":hasOwner", class: {class: ":Dog"}}
  - {type: ObjectPropertyRange, property: ":hasOwner", class: {class: ":Person"}}
  - {type: Declaration, kind: DataProperty, entity: ":age"}
  - {type: DataPropertyRange, property: ":age", datatype: "http://www.w3.org/2001/XMLSchema#int"}
  - {type: Declaration, kind: NamedIndividual, entity: ":Rex"}
  - {type: ClassAssertion, individual: ":Rex", class: {class: ":Dog"}}
  - {type: ObjectPropertyAssertion, property: ":hasOwner", subject: ":Rex", object: ":Alice"}
  - {type: DataPropertyAssertion, property: ":age", subject: ":Rex", value: {literal: "3"}}
`

type fixture struct {
	svc    *OntologyService
	events <-chan Event
	hook   *logtest.Hook
}

func newFixture(t *testing.T, withRepo bool) *fixture {
	t.Helper()
	st, err := store.New()
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	bus := NewEventBus()
	events, unsubscribe := bus.Subscribe(64)
	t.Cleanup(unsubscribe)

	opts := Options{
		Store:    st,
		Codecs:   codec.DefaultRegistry(),
		EventBus: bus,
		Logger:   logger,
	}
	if withRepo {
		repo, err := sqlite.New(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		opts.Repository = repo
	}
	return &fixture{svc: NewOntologyService(opts), events: events, hook: hook}
}

func (f *fixture) load(t *testing.T) domain.OntologyDescriptor {
	t.Helper()
	desc, err := f.svc.Load(context.Background(), strings.NewReader(zooYAML), "yaml")
	require.NoError(t, err)
	return desc
}

// drain returns the events published so far
func (f *fixture) drain() []Event {
	var out []Event
	for {
		select {
		case e := <-f.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestNewServiceDefaults(t *testing.T) {
	f := newFixture(t, false)
	assert.Equal(t, domain.OntologyDescriptor{
		UniqueName: domain.UnnamedOntology,
		BaseIRI:    domain.FallbackNamespace,
	}, f.svc.Descriptor())
}

func TestLoad(t *testing.T) {
	f := newFixture(t, false)
	desc := f.load(t)

	assert.Equal(t, "zoo", desc.UniqueName)
	assert.Equal(t, "http://example.org/zoo#", desc.BaseIRI)
	assert.Equal(t, desc, f.svc.Descriptor())

	dog, err := f.svc.GetClass("Dog")
	require.NoError(t, err)
	assert.Equal(t, "Animal", dog.ParentClass)
	assert.Equal(t, "A domestic canine", dog.Comment)

	owner, err := f.svc.GetObjectProperty("hasOwner")
	require.NoError(t, err)
	assert.True(t, owner.IsFunctional())

	age, err := f.svc.GetDataProperty("age")
	require.NoError(t, err)
	assert.Equal(t, "int", age.Range)

	rex, err := f.svc.GetIndividual("Rex")
	require.NoError(t, err)
	assert.Equal(t, "Dog", rex.ClassName)
	assert.Equal(t, map[string][]string{"hasOwner": {"Alice"}}, rex.ObjectPropertyRelations)
	assert.Equal(t, map[string][]string{"age": {"3"}}, rex.FilledDataProperties)

	assert.Equal(t, []EventType{EventOntologyLoaded}, eventTypes(f.drain()))
}

func TestLoadFailureKeepsState(t *testing.T) {
	f := newFixture(t, false)
	before := f.load(t)
	f.drain()

	t.Run("unknown format", func(t *testing.T) {
		_, err := f.svc.Load(context.Background(), strings.NewReader(zooYAML), "owlxml")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := f.svc.Load(context.Background(), strings.NewReader("axioms: [{type: Bogus}]"), "yaml")
		assert.True(t, domain.IsTranslation(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.svc.Load(ctx, strings.NewReader("axioms: []"), "yaml")
		assert.ErrorIs(t, err, context.Canceled)
	})

	assert.Equal(t, before, f.svc.Descriptor())
	_, err := f.svc.GetClass("Dog")
	assert.NoError(t, err)
	assert.Empty(t, f.drain())
}

func TestLoadWithoutPrefixFallsBack(t *testing.T) {
	f := newFixture(t, false)
	doc := `<http://example.org/zoo#Dog> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
`
	desc, err := f.svc.Load(context.Background(), strings.NewReader(doc), "nquads")
	require.NoError(t, err)
	assert.Equal(t, domain.FallbackNamespace, desc.BaseIRI)
	assert.Equal(t, domain.UnnamedOntology, desc.UniqueName)

	_, err = f.svc.GetClass("Dog")
	assert.NoError(t, err)
}

func TestCRUD(t *testing.T) {
	f := newFixture(t, false)
	f.load(t)
	f.drain()

	require.NoError(t, f.svc.AddClass(&domain.Class{UniqueName: "Cat", ParentClass: "Animal"}))
	require.NoError(t, f.svc.AddObjectProperty(&domain.ObjectProperty{UniqueName: "chases", Domain: []string{"Dog"}, Range: []string{"Cat"}}))
	require.NoError(t, f.svc.AddDataProperty(&domain.DataProperty{UniqueName: "name", Range: "string"}))
	require.NoError(t, f.svc.AddIndividual(&domain.Individual{UniqueName: "Tom", ClassName: "Cat"}))

	events := f.drain()
	require.Len(t, events, 4)
	for _, e := range events {
		assert.Equal(t, EventEntityCreated, e.Type)
	}
	assert.Equal(t, map[string]string{"kind": "class", "name": "Cat"}, events[0].Payload)

	err := f.svc.AddClass(&domain.Class{UniqueName: "Cat"})
	assert.True(t, domain.IsValidation(err), "duplicate")
	err = f.svc.AddClass(&domain.Class{UniqueName: "Lion", ParentClass: "BigCat"})
	assert.True(t, domain.IsValidation(err), "unknown parent")
	err = f.svc.AddIndividual(nil)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, f.drain(), "rejected changes publish nothing")

	require.NoError(t, f.svc.RemoveIndividual("Tom"))
	_, err = f.svc.GetIndividual("Tom")
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, domain.IsNotFound(f.svc.RemoveIndividual("Tom")))
	assert.True(t, domain.IsNotFound(f.svc.RemoveDataProperty("nope")))
	assert.True(t, domain.IsNotFound(f.svc.RemoveObjectProperty("nope")))
	assert.True(t, domain.IsNotFound(f.svc.RemoveClass("nope")))

	classes, err := f.svc.ListClasses()
	require.NoError(t, err)
	assert.Len(t, classes, 4)

	props, err := f.svc.ListObjectProperties()
	require.NoError(t, err)
	assert.Len(t, props, 2)

	dataProps, err := f.svc.ListDataProperties()
	require.NoError(t, err)
	assert.Len(t, dataProps, 2)

	individuals, err := f.svc.ListIndividuals()
	require.NoError(t, err)
	assert.Len(t, individuals, 1)
}

func TestClassSummaries(t *testing.T) {
	f := newFixture(t, false)
	f.load(t)

	summaries, err := f.svc.ClassSummaries()
	require.NoError(t, err)
	assert.Equal(t, []domain.ClassSummary{
		{ClassName: "Animal"},
		{ClassName: "Dog", ParentName: "Animal", Comment: "A domestic canine"},
		{ClassName: "Person"},
	}, summaries)
}

func TestApplyChanges(t *testing.T) {
	f := newFixture(t, false)
	f.load(t)
	ctx := context.Background()

	added, err := f.svc.ApplyChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, added, "a freshly loaded model already holds the flat model")

	require.NoError(t, f.svc.AddClass(&domain.Class{UniqueName: "Cat", ParentClass: "Animal", Label: "Cat"}))
	added, err = f.svc.ApplyChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, added, "declaration, subclass and label")

	added, err = f.svc.ApplyChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestApplyChangesUnknownCharacteristic(t *testing.T) {
	f := newFixture(t, false)
	f.load(t)

	chars := domain.NewCharacteristicSet(domain.Characteristic("LoopyProperty"))
	require.NoError(t, f.svc.AddObjectProperty(&domain.ObjectProperty{UniqueName: "likes", Characteristics: chars}))

	_, err := f.svc.ApplyChanges(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsTranslation(err))
}

func TestBuildModel(t *testing.T) {
	f := newFixture(t, false)
	f.load(t)
	require.NoError(t, f.svc.RemoveClass("Person"))

	model, err := f.svc.BuildModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, owl.IRI("http://example.org/zoo"), model.ID())
	assert.False(t, model.ContainsAxiom(owl.Declaration{Entity: owl.Class("http://example.org/zoo#Person")}))
	assert.True(t, model.ContainsAxiom(owl.Declaration{Entity: owl.Class("http://example.org/zoo#Dog")}))
}

func TestSave(t *testing.T) {
	f := newFixture(t, false)
	f.load(t)
	ctx := context.Background()
	require.NoError(t, f.svc.AddClass(&domain.Class{UniqueName: "Cat", ParentClass: "Animal"}))
	require.NoError(t, f.svc.RemoveIndividual("Rex"))

	t.Run("default format", func(t *testing.T) {
		var buf bytes.Buffer
		c, err := f.svc.Save(ctx, &buf, "", true)
		require.NoError(t, err)
		assert.Equal(t, "yaml", c.Format(), "documents are written back in the format they were loaded from")
		assert.Contains(t, buf.String(), ":Cat")
		assert.NotContains(t, buf.String(), ":Rex", "fresh documents reflect deletions")
	})

	t.Run("live model keeps removed entities", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := f.svc.Save(ctx, &buf, "turtle", false)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), ":Cat\n")
		assert.Contains(t, buf.String(), ":Rex\n")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := f.svc.Save(ctx, &bytes.Buffer{}, "rdfxml", true)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestSaveDefaultFormat(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing loaded", func(t *testing.T) {
		f := newFixture(t, false)
		c, err := f.svc.Save(ctx, &bytes.Buffer{}, "", true)
		require.NoError(t, err)
		assert.Equal(t, DefaultFormat, c.Format())
	})

	t.Run("loaded format", func(t *testing.T) {
		f := newFixture(t, false)
		doc := `<http://example.org/zoo#Dog> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
`
		_, err := f.svc.Load(ctx, strings.NewReader(doc), "nquads")
		require.NoError(t, err)

		var buf bytes.Buffer
		c, err := f.svc.Save(ctx, &buf, "", false)
		require.NoError(t, err)
		assert.Equal(t, "nquads", c.Format())
		assert.Contains(t, buf.String(), "<http://example.org/zoo#Dog>")
	})
}

func TestDocumentRoundTripKeepsNamespace(t *testing.T) {
	for _, format := range []string{"yaml", "json", "nquads", "jsonld"} {
		t.Run(format, func(t *testing.T) {
			f := newFixture(t, false)
			f.load(t)
			ctx := context.Background()

			var buf bytes.Buffer
			_, err := f.svc.Save(ctx, &buf, format, true)
			require.NoError(t, err)

			desc, err := f.svc.Load(ctx, &buf, format)
			require.NoError(t, err)
			assert.Equal(t, "zoo", desc.UniqueName)
			assert.Equal(t, "http://example.org/zoo#", desc.BaseIRI)

			added, err := f.svc.ApplyChanges(ctx)
			require.NoError(t, err)
			assert.Zero(t, added, "reloading a saved document leaves nothing to apply")

			require.NoError(t, f.svc.AddClass(&domain.Class{UniqueName: "Cat", ParentClass: "Dog"}))
			added, err = f.svc.ApplyChanges(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, added, "only the new declaration and its parent axiom")

			var again bytes.Buffer
			c, err := f.svc.Save(ctx, &again, "", false)
			require.NoError(t, err)
			assert.Equal(t, format, c.Format())
		})
	}
}

func TestSnapshots(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)
	ctx := context.Background()

	snap, err := f.svc.SaveSnapshot(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "zoo", snap.Name)
	assert.Equal(t, "yaml", snap.Format)
	assert.NotEmpty(t, snap.ID)

	require.NoError(t, f.svc.RemoveClass("Dog"))
	require.NoError(t, f.svc.AddClass(&domain.Class{UniqueName: "Cat"}))

	list, err := f.svc.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, snap.ID, list[0].ID)

	f.drain()
	desc, err := f.svc.RestoreSnapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "zoo", desc.UniqueName)
	assert.Equal(t, "http://example.org/zoo#", desc.BaseIRI)
	assert.Equal(t, []EventType{EventOntologyLoaded, EventSnapshotRestored}, eventTypes(f.drain()))

	dog, err := f.svc.GetClass("Dog")
	require.NoError(t, err)
	assert.Equal(t, "Animal", dog.ParentClass)
	_, err = f.svc.GetClass("Cat")
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, f.svc.DeleteSnapshot(ctx, snap.ID))
	assert.True(t, domain.IsNotFound(f.svc.DeleteSnapshot(ctx, snap.ID)))
	_, err = f.svc.RestoreSnapshot(ctx, snap.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestSnapshotsDisabled(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.SaveSnapshot(ctx, "x", "")
	assert.True(t, errors.Is(err, ErrSnapshotsDisabled))
	_, err = f.svc.ListSnapshots(ctx)
	assert.True(t, errors.Is(err, ErrSnapshotsDisabled))
	assert.True(t, errors.Is(f.svc.DeleteSnapshot(ctx, "x"), ErrSnapshotsDisabled))
}

func TestConcurrentLoadAndApply(t *testing.T) {
	f := newFixture(t, false)
	f.load(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.svc.Load(ctx, strings.NewReader(zooYAML), "yaml")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.svc.ApplyChanges(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	classes, err := f.svc.ListClasses()
	require.NoError(t, err)
	assert.Len(t, classes, 3)
}

func TestEventBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	_, unsubscribeSlow := bus.Subscribe(0)
	defer unsubscribeSlow()
	fast, unsubscribeFast := bus.Subscribe(1)
	defer unsubscribeFast()

	done := make(chan struct{})
	go func() {
		bus.Publish(Event{Type: EventChangesApplied})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.Equal(t, EventChangesApplied, (<-fast).Type)
	assert.Equal(t, uint64(1), bus.Dropped())
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	events, unsubscribe := bus.Subscribe(1)
	unsubscribe()
	unsubscribe()

	bus.Publish(Event{Type: EventOntologyLoaded})
	_, ok := <-events
	assert.False(t, ok, "channel should be closed")
	assert.Zero(t, bus.Dropped())
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "snapshot_saved", Event{Type: EventSnapshotSaved}.EventName())
}
