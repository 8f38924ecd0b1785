package codec

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cayleygraph/quad/jsonld"

	"ontoserver/internal/owl"
)

// JSONLDCodec reads and writes JSON-LD through the shared RDF mapping.
// Prefixes travel in the document's @context, the default prefix as @vocab.
type JSONLDCodec struct{}

// NewJSONLDCodec creates a new JSON-LD codec
func NewJSONLDCodec() *JSONLDCodec {
	return &JSONLDCodec{}
}

// Format returns the codec format identifier
func (c *JSONLDCodec) Format() string { return "jsonld" }

// Extensions returns the file extensions handled by the codec
func (c *JSONLDCodec) Extensions() []string { return []string{".jsonld"} }

// MediaType returns the HTTP content type
func (c *JSONLDCodec) MediaType() string { return "application/ld+json" }

// Parse imports an ontology from a JSON-LD document
func (c *JSONLDCodec) Parse(r io.Reader) (*owl.Ontology, error) {
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, parseError(c.Format(), err)
	}
	quads, err := readQuads(jsonld.NewReaderFromMap(doc))
	if err != nil {
		return nil, parseError(c.Format(), err)
	}
	o, err := quadsToOntology(quads, owl.PlainFormat(c.Format()))
	if err != nil {
		return nil, parseError(c.Format(), err)
	}

	vocab, prefixes := contextPrefixes(doc)
	o.SetFormat(rdfFormat(c.Format(), o, prefixes, vocab))
	return o, nil
}

// Export writes an ontology as JSON-LD compacted against its prefixes
func (c *JSONLDCodec) Export(o *owl.Ontology, w io.Writer) error {
	if o == nil {
		return exportError(c.Format(), errNilOntology)
	}
	jw := jsonld.NewWriter(w)
	jw.SetLdContext(ldContext(exportPrefixes(o)))
	if err := writeQuads(jw, ontologyToQuads(o)); err != nil {
		return exportError(c.Format(), err)
	}
	return nil
}

func ldContext(prefixes map[string]string) map[string]interface{} {
	ctx := make(map[string]interface{}, len(prefixes))
	for name, ns := range prefixes {
		if name == "" {
			ctx["@vocab"] = ns
			continue
		}
		ctx[name] = ns
	}
	return ctx
}

// contextPrefixes reads @vocab and namespace prefixes from the top-level
// @context. Remote contexts given by URL are skipped.
func contextPrefixes(doc interface{}) (string, map[string]string) {
	top, ok := doc.(map[string]interface{})
	if !ok {
		return "", nil
	}

	var contexts []interface{}
	switch ctx := top["@context"].(type) {
	case map[string]interface{}:
		contexts = []interface{}{ctx}
	case []interface{}:
		contexts = ctx
	}

	vocab := ""
	prefixes := make(map[string]string)
	for _, ctx := range contexts {
		m, ok := ctx.(map[string]interface{})
		if !ok {
			continue
		}
		for term, v := range m {
			ns, ok := v.(string)
			if !ok {
				continue
			}
			switch {
			case term == "@vocab":
				vocab = ns
			case strings.HasPrefix(term, "@"):
			case strings.HasSuffix(ns, "#"), strings.HasSuffix(ns, "/"):
				prefixes[term] = ns
			}
		}
	}
	return vocab, prefixes
}
