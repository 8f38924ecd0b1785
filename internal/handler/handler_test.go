package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontoserver/internal/codec"
	"ontoserver/internal/domain"
	"ontoserver/internal/repository"
	"ontoserver/internal/repository/sqlite"
	"ontoserver/internal/service"
	"ontoserver/internal/store"
)

const zooYAML = `
ontology: http://example.org/zoo
prefixes:
  "": http://example.org/zoo#
axioms:
  - {type: Declaration, kind: Class, entity: ":Animal"}
  - {type: Declaration, kind: Class, entity: ":Dog"}
  - type: SubClassOf
    sub: {class: ":Dog"}
    super: {class: ":Animal"}
  - {type: Declaration, kind: NamedIndividual, entity: ":Rex"}
  - {type: ClassAssertion, individual: ":Rex", class: {class: ":Dog"}}
`

type testServer struct {
	handler http.Handler
	svc     *service.OntologyService
}

func newTestServer(t *testing.T, withRepo bool) *testServer {
	t.Helper()
	st, err := store.New()
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	opts := service.Options{
		Store:  st,
		Codecs: codec.DefaultRegistry(),
		Logger: logger,
	}
	if withRepo {
		repo, err := sqlite.New(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		opts.Repository = repo
	}
	svc := service.NewOntologyService(opts)

	mux := http.NewServeMux()
	NewOntologyHandler(svc, logger).Register(mux)
	return &testServer{
		handler: Chain(mux, Recover(logger), Logger(logger)),
		svc:     svc,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, filename, format, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if format != "" {
		require.NoError(t, mw.WriteField("format", format))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ontology/file/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestDescriptorAndHealth(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/ontology/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	desc := decodeBody[domain.OntologyDescriptor](t, rec)
	assert.Equal(t, domain.UnnamedOntology, desc.UniqueName)
	assert.Equal(t, domain.FallbackNamespace, desc.BaseIRI)

	rec = s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])

	rec = s.do(t, http.MethodGet, "/api/ontology/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClassEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/ontology/classes", domain.Class{UniqueName: "Animal"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/ontology/classes", domain.Class{
		UniqueName:  "Dog",
		ParentClass: "Animal",
		Comment:     "A domestic canine",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("duplicate", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/ontology/classes", domain.Class{UniqueName: "Dog"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Details)
	})

	t.Run("dangling parent", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/ontology/classes", domain.Class{UniqueName: "Cat", ParentClass: "Feline"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ontology/classes", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec = s.do(t, http.MethodGet, "/api/ontology/classes/Dog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dog := decodeBody[domain.Class](t, rec)
	assert.Equal(t, "Animal", dog.ParentClass)

	rec = s.do(t, http.MethodGet, "/api/ontology/classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Class](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/ontology", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries := decodeBody[[]domain.ClassSummary](t, rec)
	require.Len(t, summaries, 2)
	assert.Contains(t, summaries, domain.ClassSummary{ClassName: "Dog", ParentName: "Animal", Comment: "A domestic canine"})

	rec = s.do(t, http.MethodDelete, "/api/ontology/classes/Dog", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/ontology/classes/Dog", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/ontology/classes/Dog", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPropertyAndIndividualEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	for _, name := range []string{"Dog", "Person"} {
		rec := s.do(t, http.MethodPost, "/api/ontology/classes", domain.Class{UniqueName: name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/ontology/object-properties", domain.ObjectProperty{
		UniqueName:      "hasOwner",
		Domain:          []string{"Dog"},
		Range:           []string{"Person"},
		Characteristics: domain.NewCharacteristicSet(domain.FunctionalProperty),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/ontology/data-properties", domain.DataProperty{
		UniqueName: "age",
		Domain:     []string{"Dog"},
		Range:      "int",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/ontology/individuals", domain.Individual{UniqueName: "Alice", ClassName: "Person"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/ontology/individuals", domain.Individual{
		UniqueName:              "Rex",
		ClassName:               "Dog",
		ObjectPropertyRelations: map[string][]string{"hasOwner": {"Alice"}},
		FilledDataProperties:    map[string][]string{"age": {"3"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/ontology/object-properties/hasOwner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	owner := decodeBody[domain.ObjectProperty](t, rec)
	assert.True(t, owner.IsFunctional())

	rec = s.do(t, http.MethodGet, "/api/ontology/data-properties", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.DataProperty](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/ontology/individuals/Rex", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rex := decodeBody[domain.Individual](t, rec)
	assert.Equal(t, []string{"Alice"}, rex.ObjectPropertyRelations["hasOwner"])

	rec = s.do(t, http.MethodGet, "/api/ontology/individuals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Individual](t, rec), 2)

	rec = s.do(t, http.MethodDelete, "/api/ontology/data-properties/age", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/ontology/object-properties/hasOwner", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/ontology/individuals/Alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/ontology/object-properties/hasOwner", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadAndDownload(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.upload(t, "zoo.yaml", "", zooYAML)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "zoo", decodeBody[domain.OntologyDescriptor](t, rec).UniqueName)

	rec = s.do(t, http.MethodGet, "/api/ontology/classes/Dog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Animal", decodeBody[domain.Class](t, rec).ParentClass)

	rec = s.do(t, http.MethodGet, "/api/ontology/file/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="zoo.yaml"`)
	assert.Contains(t, rec.Body.String(), ":Dog")

	downloaded := rec.Body.String()
	rec = s.upload(t, "zoo.yaml", "", downloaded)
	require.Equal(t, http.StatusOK, rec.Code, "a default download can be uploaded again: %s", rec.Body.String())
	assert.Equal(t, "http://example.org/zoo#", decodeBody[domain.OntologyDescriptor](t, rec).BaseIRI)

	rec = s.do(t, http.MethodGet, "/api/ontology/file/download?format=turtle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/turtle", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="zoo.ttl"`)

	rec = s.do(t, http.MethodGet, "/api/ontology/file/download?format=nquads&fresh=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/n-quads", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<http://example.org/zoo#Rex>")

	t.Run("bad fresh flag", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/ontology/file/download?fresh=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/ontology/file/download?format=owlxml", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUploadErrors(t *testing.T) {
	s := newTestServer(t, false)

	t.Run("unknown extension", func(t *testing.T) {
		rec := s.upload(t, "zoo.owl", "", zooYAML)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("explicit format wins", func(t *testing.T) {
		rec := s.upload(t, "zoo.owl", "yaml", zooYAML)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("malformed document", func(t *testing.T) {
		rec := s.upload(t, "broken.nq", "", "this is not rdf\n")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		// The earlier upload is still in place
		assert.Equal(t, "zoo", s.svc.Descriptor().UniqueName)
	})

	t.Run("write-only format", func(t *testing.T) {
		rec := s.upload(t, "zoo.ttl", "", "@prefix : <http://example.org/zoo#> .\n")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("format", "yaml"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/ontology/file/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestApplyChanges(t *testing.T) {
	s := newTestServer(t, false)
	require.Equal(t, http.StatusOK, s.upload(t, "zoo.yaml", "", zooYAML).Code)

	rec := s.do(t, http.MethodPost, "/api/ontology/apply", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[ApplyResponse](t, rec).AxiomsAdded)

	rec = s.do(t, http.MethodPost, "/api/ontology/classes", domain.Class{UniqueName: "Cat", ParentClass: "Animal"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/ontology/apply", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeBody[ApplyResponse](t, rec).AxiomsAdded)
}

func TestListFormats(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(t, http.MethodGet, "/api/ontology/formats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"json", "jsonld", "nquads", "turtle", "yaml"}, decodeBody[[]string](t, rec))
}

func TestSnapshotsDisabled(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/snapshots", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/snapshots", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSnapshotEndpoints(t *testing.T) {
	s := newTestServer(t, true)
	require.Equal(t, http.StatusOK, s.upload(t, "zoo.yaml", "", zooYAML).Code)

	rec := s.do(t, http.MethodPost, "/api/snapshots", SnapshotRequest{Name: "v1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	snap := decodeBody[repository.Snapshot](t, rec)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, "v1", snap.Name)
	assert.Equal(t, "yaml", snap.Format)

	// An empty body uses the defaults
	rec = s.do(t, http.MethodPost, "/api/snapshots", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "zoo", decodeBody[repository.Snapshot](t, rec).Name)

	rec = s.do(t, http.MethodGet, "/api/snapshots", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]repository.Snapshot](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/snapshots/"+snap.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "http://example.org/zoo")

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/ontology/individuals/Rex", nil).Code)
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/ontology/classes/Dog", nil).Code)

	rec = s.do(t, http.MethodPost, "/api/snapshots/"+snap.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "zoo", decodeBody[domain.OntologyDescriptor](t, rec).UniqueName)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/ontology/classes/Dog", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/ontology/individuals/Rex", nil).Code)

	rec = s.do(t, http.MethodDelete, "/api/snapshots/"+snap.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/snapshots/"+snap.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/snapshots/"+snap.ID+"/restore", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
