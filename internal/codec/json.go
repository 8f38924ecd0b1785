package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"ontoserver/internal/owl"
)

// JSONCodec handles the JSON axiom document
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string { return "json" }

// Extensions returns the file extensions handled by the codec
func (c *JSONCodec) Extensions() []string { return []string{".json"} }

// MediaType returns the HTTP content type
func (c *JSONCodec) MediaType() string { return "application/json" }

// Parse imports an ontology from JSON
func (c *JSONCodec) Parse(r io.Reader) (*owl.Ontology, error) {
	var doc document
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, parseError(c.Format(), fmt.Errorf("failed to parse JSON: %w", err))
	}

	o, err := doc.ontology(c.Format())
	if err != nil {
		return nil, parseError(c.Format(), err)
	}
	return o, nil
}

// Export writes an ontology as JSON
func (c *JSONCodec) Export(o *owl.Ontology, w io.Writer) error {
	if o == nil {
		return exportError(c.Format(), errNilOntology)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(newDocument(o)); err != nil {
		return exportError(c.Format(), fmt.Errorf("failed to encode JSON: %w", err))
	}
	return nil
}
