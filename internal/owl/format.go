package owl

import "sort"

// DocumentFormat describes the serialization an ontology was read from or will
// be written to
type DocumentFormat interface {
	FormatName() string
}

// PrefixManager is implemented by formats that carry namespace prefixes.
// The default prefix is the one registered under the empty name.
type PrefixManager interface {
	DocumentFormat
	DefaultPrefix() string
	SetDefaultPrefix(namespace string)
	Prefix(name string) (string, bool)
	SetPrefix(name, namespace string)
	PrefixNames() []string
}

// PlainFormat is a format without prefix support
type PlainFormat string

// FormatName returns the format identifier
func (f PlainFormat) FormatName() string { return string(f) }

// PrefixFormat is a format that records namespace prefixes
type PrefixFormat struct {
	name     string
	prefixes map[string]string
}

// NewPrefixFormat creates a prefix-aware format
func NewPrefixFormat(name string) *PrefixFormat {
	return &PrefixFormat{
		name:     name,
		prefixes: make(map[string]string),
	}
}

// FormatName returns the format identifier
func (f *PrefixFormat) FormatName() string { return f.name }

// DefaultPrefix returns the namespace bound to the empty prefix name
func (f *PrefixFormat) DefaultPrefix() string { return f.prefixes[""] }

// SetDefaultPrefix binds the empty prefix name
func (f *PrefixFormat) SetDefaultPrefix(namespace string) { f.prefixes[""] = namespace }

// Prefix looks up a namespace by prefix name
func (f *PrefixFormat) Prefix(name string) (string, bool) {
	ns, ok := f.prefixes[name]
	return ns, ok
}

// SetPrefix binds a prefix name to a namespace
func (f *PrefixFormat) SetPrefix(name, namespace string) { f.prefixes[name] = namespace }

// PrefixNames returns the bound prefix names, sorted
func (f *PrefixFormat) PrefixNames() []string {
	names := make([]string, 0, len(f.prefixes))
	for name := range f.prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
