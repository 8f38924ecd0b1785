// Package repository defines snapshot persistence for the ontology server.
//
// A snapshot is an ontology document serialized with one of the codec
// formats, stored with the name of the ontology it was taken from. The live
// flat model is never read from here; snapshots are only replayed through a
// regular load.
//
// The sqlite subpackage implements Repository on modernc.org/sqlite and
// migrates its schema on open. Tests run against in-memory databases.
package repository
