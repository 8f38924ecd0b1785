package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"ontoserver/internal/owl"
)

// ErrWriteOnly is returned when parsing a format that can only be written
var ErrWriteOnly = errors.New("format is write-only")

// localName matches local parts that can be written as prefixed names
var localName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)

// TurtleCodec writes Turtle with prefix declarations taken from the
// ontology's format, inferring a default prefix when the format has none.
// Reading Turtle is not supported.
type TurtleCodec struct{}

// NewTurtleCodec creates a new Turtle codec
func NewTurtleCodec() *TurtleCodec {
	return &TurtleCodec{}
}

// Format returns the codec format identifier
func (c *TurtleCodec) Format() string { return "turtle" }

// Extensions returns the file extensions handled by the codec
func (c *TurtleCodec) Extensions() []string { return []string{".ttl"} }

// MediaType returns the HTTP content type
func (c *TurtleCodec) MediaType() string { return "text/turtle" }

// WriteOnly reports that Turtle documents cannot be read back
func (c *TurtleCodec) WriteOnly() bool { return true }

// Parse always fails
func (c *TurtleCodec) Parse(r io.Reader) (*owl.Ontology, error) {
	return nil, parseError(c.Format(), ErrWriteOnly)
}

// Export writes an ontology as Turtle
func (c *TurtleCodec) Export(o *owl.Ontology, w io.Writer) error {
	if o == nil {
		return exportError(c.Format(), errNilOntology)
	}

	tw := newTurtleWriter(w)
	for name, ns := range exportPrefixes(o) {
		tw.setPrefix(name, ns)
	}

	tw.writePrefixes()
	tw.writeTriples(ontologyToQuads(o))
	if err := tw.flush(); err != nil {
		return exportError(c.Format(), err)
	}
	return nil
}

type turtleWriter struct {
	out      *bufio.Writer
	prefixes map[string]string
}

func newTurtleWriter(w io.Writer) *turtleWriter {
	return &turtleWriter{
		out:      bufio.NewWriter(w),
		prefixes: make(map[string]string),
	}
}

func (w *turtleWriter) setPrefix(name, ns string) {
	if ns == "" {
		return
	}
	w.prefixes[name] = ns
}

func (w *turtleWriter) writePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		fmt.Fprintf(w.out, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	w.out.WriteString("\n")
}

// writeTriples groups triples by subject in first-seen order
func (w *turtleWriter) writeTriples(quads []quad.Quad) {
	var subjects []quad.Value
	bySubject := make(map[quad.Value][]quad.Quad)
	for _, q := range quads {
		if _, ok := bySubject[q.Subject]; !ok {
			subjects = append(subjects, q.Subject)
		}
		bySubject[q.Subject] = append(bySubject[q.Subject], q)
	}

	for _, s := range subjects {
		triples := bySubject[s]
		fmt.Fprintf(w.out, "%s\n", w.term(s))
		for i, q := range triples {
			terminator := " ;"
			if i == len(triples)-1 {
				terminator = " ."
			}
			pred := w.term(q.Predicate)
			if q.Predicate == rdfType {
				pred = "a"
			}
			fmt.Fprintf(w.out, "    %s %s%s\n", pred, w.term(q.Object), terminator)
		}
		w.out.WriteString("\n")
	}
}

func (w *turtleWriter) term(v quad.Value) string {
	switch t := v.(type) {
	case quad.IRI:
		return w.iri(string(t))
	case quad.BNode:
		return "_:" + string(t)
	case quad.String:
		return `"` + escapeLiteral(string(t)) + `"`
	case quad.LangString:
		return `"` + escapeLiteral(string(t.Value)) + `"@` + t.Lang
	case quad.TypedString:
		return `"` + escapeLiteral(string(t.Value)) + `"^^` + w.iri(string(t.Type))
	default:
		return `"` + escapeLiteral(fmt.Sprint(v.Native())) + `"`
	}
}

// iri abbreviates with the longest matching prefix
func (w *turtleWriter) iri(iri string) string {
	best, bestNS := "", ""
	found := false
	for name, ns := range w.prefixes {
		if !strings.HasPrefix(iri, ns) || len(ns) < len(bestNS) {
			continue
		}
		if found && len(ns) == len(bestNS) && name > best {
			continue
		}
		if !localName.MatchString(iri[len(ns):]) {
			continue
		}
		best, bestNS, found = name, ns, true
	}
	if !found {
		return "<" + iri + ">"
	}
	return best + ":" + iri[len(bestNS):]
}

func (w *turtleWriter) flush() error {
	return w.out.Flush()
}

func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
