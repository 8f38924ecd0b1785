package domain

// FallbackNamespace is used when the loaded document carries no default prefix
const FallbackNamespace = "http://www.example.com/ontologies/UnnamedOntology.owl#"

// UnnamedOntology is the descriptor name of an ontology without an IRI
const UnnamedOntology = "UnnamedOntology"

// OntologyDescriptor identifies the loaded ontology
type OntologyDescriptor struct {
	UniqueName string `json:"uniqueName"`
	BaseIRI    string `json:"baseIRI"`
}

// Class is the flat view of a named class
type Class struct {
	UniqueName  string `json:"uniqueName"`
	ParentClass string `json:"parentClass,omitempty"`
	Label       string `json:"label,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

// Clone returns an independent copy
func (c *Class) Clone() *Class {
	out := *c
	return &out
}

// ObjectProperty is the flat view of an object property
type ObjectProperty struct {
	UniqueName      string            `json:"uniqueName"`
	Domain          []string          `json:"domain,omitempty"`
	Range           []string          `json:"range,omitempty"`
	Label           string            `json:"label,omitempty"`
	Comment         string            `json:"comment,omitempty"`
	Characteristics CharacteristicSet `json:"characteristics,omitempty"`
}

// Clone returns an independent copy
func (p *ObjectProperty) Clone() *ObjectProperty {
	out := *p
	out.Domain = cloneStrings(p.Domain)
	out.Range = cloneStrings(p.Range)
	if p.Characteristics != nil {
		out.Characteristics = p.Characteristics.Clone()
	}
	return &out
}

// IsFunctional reports whether the property is functional
func (p *ObjectProperty) IsFunctional() bool { return p.Characteristics.Has(FunctionalProperty) }

// IsInverseFunctional reports whether the property is inverse functional
func (p *ObjectProperty) IsInverseFunctional() bool {
	return p.Characteristics.Has(InverseFunctionalProperty)
}

// IsTransitive reports whether the property is transitive
func (p *ObjectProperty) IsTransitive() bool { return p.Characteristics.Has(TransitiveProperty) }

// IsSymmetric reports whether the property is symmetric
func (p *ObjectProperty) IsSymmetric() bool { return p.Characteristics.Has(SymmetricProperty) }

// IsAsymmetric reports whether the property is asymmetric
func (p *ObjectProperty) IsAsymmetric() bool { return p.Characteristics.Has(AsymmetricProperty) }

// IsReflexive reports whether the property is reflexive
func (p *ObjectProperty) IsReflexive() bool { return p.Characteristics.Has(ReflexiveProperty) }

// IsIrreflexive reports whether the property is irreflexive
func (p *ObjectProperty) IsIrreflexive() bool { return p.Characteristics.Has(IrreflexiveProperty) }

// DataProperty is the flat view of a data property
type DataProperty struct {
	UniqueName string   `json:"uniqueName"`
	Domain     []string `json:"domain,omitempty"`
	Range      string   `json:"range,omitempty"`
	Label      string   `json:"label,omitempty"`
	Comment    string   `json:"comment,omitempty"`
}

// Clone returns an independent copy
func (p *DataProperty) Clone() *DataProperty {
	out := *p
	out.Domain = cloneStrings(p.Domain)
	return &out
}

// Individual is the flat view of a named individual. Only the first asserted
// class is kept.
type Individual struct {
	UniqueName string `json:"uniqueName"`
	ClassName  string `json:"className,omitempty"`
	Label      string `json:"label,omitempty"`
	Comment    string `json:"comment,omitempty"`

	// property name -> related individuals, in assertion order
	ObjectPropertyRelations map[string][]string `json:"objectPropertyRelations,omitempty"`
	// property name -> literal values, in assertion order
	FilledDataProperties map[string][]string `json:"filledDataProperties,omitempty"`
}

// Clone returns an independent copy
func (i *Individual) Clone() *Individual {
	out := *i
	out.ObjectPropertyRelations = cloneRelations(i.ObjectPropertyRelations)
	out.FilledDataProperties = cloneRelations(i.FilledDataProperties)
	return &out
}

// ClassSummary is the compact class listing served by the legacy endpoint
type ClassSummary struct {
	ClassName  string `json:"className"`
	ParentName string `json:"parentName"`
	Comment    string `json:"comment"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneRelations(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = cloneStrings(v)
	}
	return out
}
