package codec

import (
	"io"
	"path/filepath"
	"sort"
	"strings"

	"ontoserver/internal/domain"
	"ontoserver/internal/owl"
)

// Importer parses an ontology document
type Importer interface {
	Parse(r io.Reader) (*owl.Ontology, error)
	Format() string
}

// Exporter serializes an ontology document
type Exporter interface {
	Export(o *owl.Ontology, w io.Writer) error
	Format() string
}

// Codec is a document format that can be read and written
type Codec interface {
	Importer
	Exporter
	// Extensions lists file extensions, including the dot
	Extensions() []string
	MediaType() string
}

// Registry resolves codecs by format name or file extension
type Registry struct {
	byName map[string]Codec
	byExt  map[string]Codec
}

// NewRegistry creates a registry holding codecs
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{
		byName: make(map[string]Codec),
		byExt:  make(map[string]Codec),
	}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// DefaultRegistry holds every built-in format
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewNQuadsCodec(),
		NewJSONLDCodec(),
		NewTurtleCodec(),
		NewYAMLCodec(),
		NewJSONCodec(),
	)
}

// Register adds c, replacing any codec with the same name or extension
func (r *Registry) Register(c Codec) {
	r.byName[c.Format()] = c
	for _, ext := range c.Extensions() {
		r.byExt[strings.ToLower(ext)] = c
	}
}

// Lookup returns the codec for a format name or alias
func (r *Registry) Lookup(name string) (Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := r.byName[key]; ok {
		return c, nil
	}
	if c, ok := r.byExt["."+key]; ok {
		return c, nil
	}
	return nil, domain.NewValidationError("format", name, "unsupported document format, expected one of %s",
		strings.Join(r.Formats(), ", "))
}

// ForPath returns the codec registered for the extension of path
func (r *Registry) ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := r.byExt[ext]; ok {
		return c, nil
	}
	return nil, domain.NewValidationError("format", path, "no document format registered for extension %q", ext)
}

// writeOnly is implemented by codecs whose Parse always fails
type writeOnly interface {
	WriteOnly() bool
}

// Readable reports whether name resolves to a codec that can parse documents
func (r *Registry) Readable(name string) bool {
	c, err := r.Lookup(name)
	if err != nil {
		return false
	}
	if wo, ok := c.(writeOnly); ok && wo.WriteOnly() {
		return false
	}
	return true
}

// Formats returns the registered format names, sorted
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseError(format string, err error) error {
	return domain.WrapTranslation(err, format, "parse")
}

func exportError(format string, err error) error {
	return domain.WrapTranslation(err, format, "export")
}
