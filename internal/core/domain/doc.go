// Package domain defines the core entities of the Twitter tap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A raw or denormalised entity emitted downstream
//   - RawPage: One decoded API response page
//   - StreamDefinition: The static descriptor of an extractable stream
//   - Catalog: The discoverable set of streams and their schemas
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
