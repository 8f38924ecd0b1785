package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"ontoserver/internal/owl"
)

// YAMLCodec handles the YAML axiom document
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string { return "yaml" }

// Extensions returns the file extensions handled by the codec
func (c *YAMLCodec) Extensions() []string { return []string{".yaml", ".yml"} }

// MediaType returns the HTTP content type
func (c *YAMLCodec) MediaType() string { return "application/yaml" }

// Parse imports an ontology from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*owl.Ontology, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, parseError(c.Format(), fmt.Errorf("failed to parse YAML: %w", err))
	}

	o, err := doc.ontology(c.Format())
	if err != nil {
		return nil, parseError(c.Format(), err)
	}
	return o, nil
}

// Export writes an ontology as YAML
func (c *YAMLCodec) Export(o *owl.Ontology, w io.Writer) error {
	if o == nil {
		return exportError(c.Format(), errNilOntology)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(newDocument(o)); err != nil {
		return exportError(c.Format(), fmt.Errorf("failed to encode YAML: %w", err))
	}
	return nil
}
