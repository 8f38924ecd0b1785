// Package service coordinates the ontology server's state.
//
// OntologyService owns the flat model store, the live formal model and its
// descriptor. Every operation that reads one of them and then writes another
// (loading a document, applying changes, saving) runs under a single mutex,
// so a load never interleaves with an export. Plain CRUD goes straight to the
// store, which is safe for concurrent use on its own.
//
// # Event System
//
// The service publishes events via EventBus for real-time updates to
// connected clients via Server-Sent Events (SSE): entity creation and
// deletion, ontology loads, applied changes and snapshot activity.
package service
