package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"ontoserver/internal/owl"
)

var errNilOntology = errors.New("ontology is nil")

// NQuadsCodec reads and writes N-Quads and N-Triples. The format declares no
// prefixes, so the default prefix of a parsed ontology is inferred from its
// IRI and entities. When nothing can be inferred the ontology carries a plain
// format.
type NQuadsCodec struct{}

// NewNQuadsCodec creates a new N-Quads codec
func NewNQuadsCodec() *NQuadsCodec {
	return &NQuadsCodec{}
}

// Format returns the codec format identifier
func (c *NQuadsCodec) Format() string { return "nquads" }

// Extensions returns the file extensions handled by the codec
func (c *NQuadsCodec) Extensions() []string { return []string{".nq", ".nt"} }

// MediaType returns the HTTP content type
func (c *NQuadsCodec) MediaType() string { return "application/n-quads" }

// Parse imports an ontology from N-Quads
func (c *NQuadsCodec) Parse(r io.Reader) (*owl.Ontology, error) {
	quads, err := readQuads(nquads.NewReader(r, false))
	if err != nil {
		return nil, parseError(c.Format(), err)
	}
	o, err := quadsToOntology(quads, owl.PlainFormat(c.Format()))
	if err != nil {
		return nil, parseError(c.Format(), err)
	}
	if pf := rdfFormat(c.Format(), o, nil, ""); pf.DefaultPrefix() != "" {
		o.SetFormat(pf)
	}
	return o, nil
}

// Export writes an ontology as N-Quads
func (c *NQuadsCodec) Export(o *owl.Ontology, w io.Writer) error {
	if o == nil {
		return exportError(c.Format(), errNilOntology)
	}
	if err := writeQuads(nquads.NewWriter(w), ontologyToQuads(o)); err != nil {
		return exportError(c.Format(), err)
	}
	return nil
}

type quadReader interface {
	ReadQuad() (quad.Quad, error)
}

type quadWriter interface {
	WriteQuad(q quad.Quad) error
	Close() error
}

func readQuads(r quadReader) ([]quad.Quad, error) {
	var out []quad.Quad
	for {
		q, err := r.ReadQuad()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read quad %d: %w", len(out)+1, err)
		}
		out = append(out, q)
	}
}

func writeQuads(w quadWriter, quads []quad.Quad) error {
	for _, q := range quads {
		if err := w.WriteQuad(q); err != nil {
			w.Close()
			return fmt.Errorf("failed to write quad: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to flush quads: %w", err)
	}
	return nil
}
