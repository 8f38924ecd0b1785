// Package handler implements the HTTP API of the ontology server.
//
// OntologyHandler exposes the flat model (classes, object properties, data
// properties, individuals) as REST resources under /api/ontology, document
// upload and download in every registered format, applying pending changes to
// the live formal model, and snapshot management under /api/snapshots.
//
// # Errors
//
// Failed requests return JSON {error, details}. Validation errors map to 400,
// missing entities to 404, translation failures to 422 and a server without
// snapshot storage to 503. Anything else is a 500.
//
// # Middleware
//
// Recover, Logger and CORS are combined with Chain in cmd/server.
package handler
