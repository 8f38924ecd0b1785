package loader

import (
	"bytes"
	"fmt"
	"os"

	"ontoserver/internal/codec"
	"ontoserver/internal/owl"
)

// LoadFile reads an ontology document, choosing the codec from the file
// extension unless format names one. It returns the parsed model and the
// name of the format used.
func LoadFile(path, format string, registry *codec.Registry) (*owl.Ontology, string, error) {
	c, err := resolve(path, format, registry)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	model, err := c.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return model, c.Format(), nil
}

func resolve(path, format string, registry *codec.Registry) (codec.Codec, error) {
	if format != "" {
		return registry.Lookup(format)
	}
	return registry.ForPath(path)
}
