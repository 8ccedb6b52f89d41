// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecordSource: Describes a stream, builds its request parameters and
//     turns a raw page into records
//   - PageFetcher: Performs the authenticated HTTP call for one page
//   - RecordSink: Receives schema, record and state messages
//   - ConfigStore: Tap configuration
//   - TokenProvider: Bearer token for the API
//
// # Optional Interfaces
//
// These can be nil - the extractor skips the step:
//
//   - SchemaValidator: Validates records against their stream schema
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
