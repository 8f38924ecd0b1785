// Package translate converts between the formal ontology model and the flat
// entity model.
//
// Reading goes through the annotation reader (Label, Comment) and the axiom
// enumerator (ParentOf, ObjectDomainOf, CharacteristicsOf, ObjectRelations,
// ...). Importer combines them to rebuild the whole flat model store from a
// model in one ReplaceAll.
//
// Writing is the Exporter. ExportTo adds axioms to an existing model, skipping
// declarations for entities the model already mentions, and may leave the
// model partially updated on error. BuildNew writes into a fresh model
// instead, so a failed export never touches a live model.
//
// Short names become IRIs by appending them to the descriptor's base
// namespace. Data ranges named after XSD built-ins (string, int, dateTime...)
// resolve to the XSD namespace.
package translate
