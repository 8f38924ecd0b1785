package codec

import (
	"strings"

	"ontoserver/internal/owl"
)

// wellKnownPrefixes are declared in every prefix-aware RDF document
var wellKnownPrefixes = map[string]string{
	"owl":  owl.NamespaceOWL,
	"rdf":  owl.NamespaceRDF,
	"rdfs": owl.NamespaceRDFS,
	"xsd":  owl.NamespaceXSD,
}

func isWellKnownNamespace(ns string) bool {
	for _, known := range wellKnownPrefixes {
		if ns == known {
			return true
		}
	}
	return false
}

// inferDefaultPrefix guesses the default namespace of a document that did not
// declare one. A namespace derived from the ontology IRI wins when entities
// live in it; otherwise the namespace holding the most entities is used, and
// with no entities at all the ontology IRI itself.
func inferDefaultPrefix(o *owl.Ontology) string {
	counts := make(map[string]int)
	for _, e := range o.Signature() {
		ns := e.IRI.Namespace()
		if ns == "" || ns == string(e.IRI) || isWellKnownNamespace(ns) {
			continue
		}
		counts[ns]++
	}

	id := string(o.ID())
	var candidates []string
	if id != "" {
		if strings.HasSuffix(id, "#") || strings.HasSuffix(id, "/") {
			candidates = append(candidates, id)
		}
		candidates = append(candidates, id+"#", id+"/")
	}
	for _, c := range candidates {
		if counts[c] > 0 {
			return c
		}
	}

	best := ""
	for ns, n := range counts {
		if n > counts[best] || (n == counts[best] && ns < best) {
			best = ns
		}
	}
	if best != "" || len(candidates) == 0 {
		return best
	}
	return candidates[0]
}

// rdfFormat records the prefixes read from an RDF document. Without a declared
// default prefix one is inferred from the ontology; if that fails too the
// format carries no default and importers use their fallback namespace.
func rdfFormat(name string, o *owl.Ontology, prefixes map[string]string, defaultPrefix string) *owl.PrefixFormat {
	pf := owl.NewPrefixFormat(name)
	for p, ns := range wellKnownPrefixes {
		pf.SetPrefix(p, ns)
	}
	for p, ns := range prefixes {
		pf.SetPrefix(p, ns)
	}
	if defaultPrefix == "" {
		defaultPrefix = inferDefaultPrefix(o)
	}
	if defaultPrefix != "" {
		pf.SetDefaultPrefix(defaultPrefix)
	}
	return pf
}

// exportPrefixes returns the prefixes to declare when writing o, including
// the default prefix under the empty name
func exportPrefixes(o *owl.Ontology) map[string]string {
	out := make(map[string]string, len(wellKnownPrefixes)+1)
	for p, ns := range wellKnownPrefixes {
		out[p] = ns
	}
	if pm, ok := o.Format().(owl.PrefixManager); ok {
		for _, name := range pm.PrefixNames() {
			if ns, _ := pm.Prefix(name); ns != "" {
				out[name] = ns
			}
		}
	}
	if out[""] == "" {
		if ns := inferDefaultPrefix(o); ns != "" {
			out[""] = ns
		} else {
			delete(out, "")
		}
	}
	return out
}
