// Package domain defines the flat entity model served by the ontology API.
//
// The flat model is a denormalized, CRUD-friendly view of an ontology. Each
// entity is keyed by its short name, unique within its kind.
//
// # Core Types
//
// OntologyDescriptor names the loaded ontology and the base namespace used to
// turn short names back into IRIs.
//
// Class carries an optional parent class, which must name another class.
//
// ObjectProperty carries domain and range class lists and a CharacteristicSet
// of independent tags (functional, transitive, ...).
//
// DataProperty carries domain classes and a single range datatype.
//
// Individual carries its first asserted class and its property values, grouped
// by property name in assertion order with duplicates kept.
//
// # Errors
//
// ValidationError, NotFoundError and TranslationError cover every failure the
// flat model can report. Use IsValidation, IsNotFound, IsTranslation or
// Classify rather than matching on message text.
//
// # Design Principles
//
// - No dependency on the formal model or on storage
// - Clone on every entity so stores can hand out copies
package domain
